package am

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/starmatch/errors"
)

// Output formats understood by Marshal
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Marshal renders a configuration in the given format
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		data, err := toml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as toml")
	case FormatYAML:
		data, err := yaml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as yaml")
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		return data, errors.Wrap(err, "failed to marshal config as json")
	default:
		return nil, errors.NewInvalidRequestError("unknown config format %q (want toml, yaml or json)", format)
	}
}

// WriteFile writes cfg as TOML to path, keeping rotating backups of the
// file it replaces.
func WriteFile(cfg *Config, path string) error {
	data, err := Marshal(cfg, FormatTOML)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "⚠️  Failed to delete old backup %s: %v\n", back3, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}
