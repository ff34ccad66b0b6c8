package am

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Dump file names as published alongside the relay
	v.SetDefault("data.dir", ".")
	v.SetDefault("data.regions", "ProcGen.json")
	v.SetDefault("data.regions_out", "ProcGen-new.json")
	v.SetDefault("data.named_systems", "edsystems-all-withcoords.json")
	v.SetDefault("data.catalogue_a", "systemsWithCoordinates.json")
	v.SetDefault("data.catalogue_b", "systems.csv")

	v.SetDefault("database.path", "starmatch.db")

	v.SetDefault("feed.url", "tcp://eddn.edcd.io:9500")
	v.SetDefault("feed.queue_size", 1024)
	v.SetDefault("feed.reconnect_per_minute", 6)
	v.SetDefault("feed.read_timeout_seconds", 600) // relay is quiet for minutes at a time
	v.SetDefault("feed.schemas", []string{JournalSchema, LegacyJournalSchema})

	v.SetDefault("sectors.file", "")

	v.SetDefault("metrics.address", "")
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("fetch.regions", "")
	v.SetDefault("fetch.named_systems", "")
	v.SetDefault("fetch.catalogue_a", "")
	v.SetDefault("fetch.catalogue_b", "")
}

// BindEnvVars explicitly binds the settings most often overridden per host
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH")
	v.BindEnv("data.dir", EnvPrefix+"_DATA_DIR")
	v.BindEnv("feed.url", EnvPrefix+"_FEED_URL")
	v.BindEnv("metrics.address", EnvPrefix+"_METRICS_ADDRESS")
}

// DataPath resolves a dump file name against the data directory.
// Absolute names and empty names are returned unchanged.
func (c *Config) DataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "starmatch.db" // Fallback default
	}
	return c.Database.Path
}

// GetFeedSchemas returns the accepted schema references
func (c *Config) GetFeedSchemas() []string {
	if len(c.Feed.Schemas) == 0 {
		return []string{JournalSchema, LegacyJournalSchema}
	}
	return c.Feed.Schemas
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Data: %s, Database: %s, Feed: {URL: %s, QueueSize: %d}}",
		c.Data.Dir, c.Database.Path, c.Feed.URL, c.Feed.QueueSize)
}
