package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/starmatch/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/starmatch/config.toml
	SourceUser        ConfigSource = "user"        // ~/.starmatch/am.toml
	SourceProject     ConfigSource = "project"     // project am.toml
	SourceEnvironment ConfigSource = "environment" // STARMATCH_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	Settings []SettingInfo `json:"settings"`
}

// GetConfigIntrospection returns every effective setting with the source
// that set it, sorted by key.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	introspection := &ConfigIntrospection{}
	flattenSettingsWithSources(GetViper().AllSettings(), "", introspection, ConfigSources)
	return introspection, nil
}

// flattenSettingsWithSources flattens settings and assigns sources from sourceMap
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, introspection *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nestedMap, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nestedMap, fullKey, introspection, sourceMap)
			continue
		}

		sourceInfo := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			sourceInfo = si
		}

		// Environment always wins
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
		if envValue := os.Getenv(envKey); envValue != "" {
			sourceInfo = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     sourceInfo.Source,
			SourcePath: sourceInfo.Path,
		})
	}
}
