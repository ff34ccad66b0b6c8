// Package sym defines canonical glyphs for starmatch segments.
// These symbols are stable across CLI output and structured logs.
package sym

// Primary segments, each backed by a CLI command.
const (
	AM = "≡" // am - configuration and system settings
	IX = "⨳" // ix - bulk ingestion of catalogue dumps
	AX = "⋈" // ax - resolve, name and parse lookups
	SE = "⊹" // se - sector codec (region names)
)

// System infrastructure symbols.
const (
	Feed      = "꩜" // live feed pipeline
	FeedOpen  = "✿" // feed connected
	FeedClose = "❀" // feed stopped
	DB        = "⊔" // database/storage layer
	Star      = "✦" // registry identities
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	description string
}

var registry = []entry{
	{AM, "am", "Configuration and system settings"},
	{IX, "load", "Load catalogue dumps into the registry"},
	{AX, "resolve", "Resolve names and positions to identities"},
	{SE, "name", "Sector names from region coordinates"},
	{Feed, "listen", "Resolve jumps from the live feed"},
	{DB, "regions", "Region override table storage"},
}

// SymbolToCommand maps glyph strings to their command equivalents.
var SymbolToCommand = map[string]string{}

// CommandToSymbol maps commands to their canonical glyph strings.
var CommandToSymbol = map[string]string{}

// CommandDescriptions provides a one-line explanation per command.
var CommandDescriptions = map[string]string{}

func init() {
	for _, e := range registry {
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.description
	}
}

// ForCommand returns the glyph for a command, or "" when it has none.
func ForCommand(cmd string) string {
	return CommandToSymbol[cmd]
}
