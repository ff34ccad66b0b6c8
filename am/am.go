package am

// Config represents the starmatch configuration
type Config struct {
	Data     DataConfig     `mapstructure:"data" toml:"data" yaml:"data" json:"data"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" yaml:"database" json:"database"`
	Feed     FeedConfig     `mapstructure:"feed" toml:"feed" yaml:"feed" json:"feed"`
	Sectors  SectorsConfig  `mapstructure:"sectors" toml:"sectors" yaml:"sectors" json:"sectors"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics" yaml:"metrics" json:"metrics"`
	Fetch    FetchConfig    `mapstructure:"fetch" toml:"fetch" yaml:"fetch" json:"fetch"`
}

// DataConfig locates the catalogue dumps loaded at start-up: the region
// override table and named systems (JSON), EDSM systems with coordinates
// (JSON) and EDDB systems (CSV). RegionsOut receives the region table after
// loading. Relative paths are resolved against Dir.
type DataConfig struct {
	Dir          string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
	Regions      string `mapstructure:"regions" toml:"regions" yaml:"regions" json:"regions"`
	RegionsOut   string `mapstructure:"regions_out" toml:"regions_out" yaml:"regions_out" json:"regions_out"`
	NamedSystems string `mapstructure:"named_systems" toml:"named_systems" yaml:"named_systems" json:"named_systems"`
	CatalogueA   string `mapstructure:"catalogue_a" toml:"catalogue_a" yaml:"catalogue_a" json:"catalogue_a"`
	CatalogueB   string `mapstructure:"catalogue_b" toml:"catalogue_b" yaml:"catalogue_b" json:"catalogue_b"`
}

// DatabaseConfig configures the SQLite copy of the region table
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
}

// FeedConfig configures the live journal feed. QueueSize events are
// buffered between reader and dispatcher; ReconnectPerMinute 0 reconnects
// without pacing; ReadTimeoutSeconds 0 never times out a quiet connection.
// Schemas lists the accepted $schemaRef values.
type FeedConfig struct {
	URL                string   `mapstructure:"url" toml:"url" yaml:"url" json:"url"`
	QueueSize          int      `mapstructure:"queue_size" toml:"queue_size" yaml:"queue_size" json:"queue_size"`
	ReconnectPerMinute int      `mapstructure:"reconnect_per_minute" toml:"reconnect_per_minute" yaml:"reconnect_per_minute" json:"reconnect_per_minute"`
	ReadTimeoutSeconds int      `mapstructure:"read_timeout_seconds" toml:"read_timeout_seconds" yaml:"read_timeout_seconds" json:"read_timeout_seconds"`
	Schemas            []string `mapstructure:"schemas" toml:"schemas" yaml:"schemas" json:"schemas"`
}

// SectorsConfig adds hand-authored sectors on top of the built-in table
type SectorsConfig struct {
	// TOML file of [[sector]] entries, empty = built-in only
	File string `mapstructure:"file" toml:"file" yaml:"file" json:"file"`
}

// FetchConfig holds download URLs for the dumps, keyed like DataConfig.
// Anything go-getter understands works; .gz and .zst sources are
// decompressed into the data file.
type FetchConfig struct {
	Regions      string `mapstructure:"regions" toml:"regions" yaml:"regions" json:"regions"`
	NamedSystems string `mapstructure:"named_systems" toml:"named_systems" yaml:"named_systems" json:"named_systems"`
	CatalogueA   string `mapstructure:"catalogue_a" toml:"catalogue_a" yaml:"catalogue_a" json:"catalogue_a"`
	CatalogueB   string `mapstructure:"catalogue_b" toml:"catalogue_b" yaml:"catalogue_b" json:"catalogue_b"`
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	// listen address, empty = disabled
	Address string `mapstructure:"address" toml:"address" yaml:"address" json:"address"`
	Path    string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
}

// Journal schema references accepted by default
const (
	JournalSchema       = "https://eddn.edcd.io/schemas/journal/1"
	LegacyJournalSchema = "http://schemas.elite-markets.net/eddn/journal/1"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
