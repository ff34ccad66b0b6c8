package sym

import (
	"testing"
	"unicode/utf8"
)

func TestSymbolToCommandAndCommandToSymbolAreBidirectional(t *testing.T) {
	for symbol, cmd := range SymbolToCommand {
		got, ok := CommandToSymbol[cmd]
		if !ok {
			t.Errorf("SymbolToCommand has %q → %q, but CommandToSymbol has no entry for %q", symbol, cmd, cmd)
			continue
		}
		if got != symbol {
			t.Errorf("bidirectional mismatch: SymbolToCommand[%q] = %q, but CommandToSymbol[%q] = %q", symbol, cmd, cmd, got)
		}
	}
	if len(SymbolToCommand) != len(CommandToSymbol) {
		t.Errorf("map size mismatch: SymbolToCommand has %d entries, CommandToSymbol has %d",
			len(SymbolToCommand), len(CommandToSymbol))
	}
}

func TestCommandDescriptionsCoversAllCommands(t *testing.T) {
	for cmd := range CommandToSymbol {
		if _, ok := CommandDescriptions[cmd]; !ok {
			t.Errorf("CommandDescriptions missing entry for command %q", cmd)
		}
	}
}

func TestSymbolsAreValidUnicode(t *testing.T) {
	for symbol := range SymbolToCommand {
		if !utf8.ValidString(symbol) || utf8.RuneCountInString(symbol) == 0 {
			t.Errorf("symbol for command %q is not a valid glyph", SymbolToCommand[symbol])
		}
	}
}

func TestForCommand(t *testing.T) {
	if got := ForCommand("listen"); got != Feed {
		t.Errorf("ForCommand(listen) = %q, want %q", got, Feed)
	}
	if got := ForCommand("nope"); got != "" {
		t.Errorf("ForCommand(nope) = %q, want empty", got)
	}
}
