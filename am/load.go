package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/starmatch/errors"
)

// EnvPrefix prefixes every environment override (STARMATCH_FEED_URL, ...)
const EnvPrefix = "STARMATCH"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records, for every key read from a file, which file set it.
// Populated by the layered load; keys absent here came from defaults.
var ConfigSources = map[string]SourceInfo{}

// Load reads the starmatch configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindEnvVars(v)
	SetDefaults(v)

	// system -> user -> project, env vars on top via AutomaticEnv
	mergeConfigFiles(v, configPaths())

	viperInstance = v
	return v
}

// configPaths lists candidate config files, lowest precedence first
func configPaths() []configPath {
	paths := []configPath{
		{"/etc/starmatch/config.toml", SourceSystem},
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, configPath{filepath.Join(homeDir, ".starmatch", "am.toml"), SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		paths = append(paths, configPath{project, SourceProject})
	}
	return paths
}

type configPath struct {
	path   string
	source ConfigSource
}

// findProjectConfig searches for am.toml by walking up the directory tree
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		amPath := filepath.Join(dir, "am.toml")
		if _, err := os.Stat(amPath); err == nil {
			return amPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges existing files into v in order, later files
// overriding earlier ones key by key, and records where each key came from.
func mergeConfigFiles(v *viper.Viper, paths []configPath) {
	for _, cp := range paths {
		if _, err := os.Stat(cp.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(cp.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		for _, key := range tempViper.AllKeys() {
			v.Set(key, tempViper.Get(key))
			ConfigSources[key] = SourceInfo{Source: cp.source, Path: cp.path}
		}
	}
}

// GetDatabasePath returns the configured database path
func GetDatabasePath() (string, error) {
	config, err := Load()
	if err != nil {
		return "", err
	}
	return config.Database.Path, nil
}
