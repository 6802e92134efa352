package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"moneyz/internal/i18n"
)

// SettingsFile is the name of the user settings file inside the data
// directory.
const SettingsFile = "settings.toml"

// Settings are the preferences the user changes from the front end.
type Settings struct {
	Language string `toml:"language"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{Language: i18n.DefaultLanguage}
}

// SettingsPath returns the settings file of dataDir.
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, SettingsFile)
}

// LoadSettings reads the settings of dataDir, creating the file with defaults
// when it does not exist yet. Values it does not understand are replaced by
// their defaults.
func LoadSettings(dataDir string) (Settings, error) {
	path := SettingsPath(dataDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s := DefaultSettings()
		if err := SaveSettings(dataDir, s); err != nil {
			return s, err
		}
		return s, nil
	}
	if err != nil {
		return DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes TOML settings and normalizes them.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse %s: %w", SettingsFile, err)
	}
	return normalizeSettings(s), nil
}

func normalizeSettings(s Settings) Settings {
	out := DefaultSettings()
	out.Language = i18n.Normalize(s.Language)
	return out
}

// SaveSettings writes s to the settings file of dataDir.
func SaveSettings(dataDir string, s Settings) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(normalizeSettings(s)); err != nil {
		return fmt.Errorf("encode %s: %w", SettingsFile, err)
	}
	if err := os.WriteFile(SettingsPath(dataDir), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", SettingsFile, err)
	}
	return nil
}
