package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// maxInputHistory bounds the persisted input history
const maxInputHistory = 100

// Settings holds persistent TUI settings
type Settings struct {
	InputHistory []string `json:"input_history,omitempty"`
}

// SettingsStore reads and writes Settings at one path. An empty path
// disables persistence.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store for path
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// DefaultSettingsPath returns ~/.config/lavoisier/tui.json
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lavoisier", "tui.json")
	}
	return filepath.Join(home, ".config", "lavoisier", "tui.json")
}

// Load loads settings from disk. A missing or corrupt file yields empty
// settings.
func (s *SettingsStore) Load() *Settings {
	if s.path == "" {
		return &Settings{}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return &Settings{}
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return &Settings{}
	}
	return &settings
}

// Save saves settings to disk
func (s *SettingsStore) Save(settings *Settings) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// SaveInputHistory saves the newest maxInputHistory inputs
func (s *SettingsStore) SaveInputHistory(history []string) error {
	if len(history) > maxInputHistory {
		history = history[len(history)-maxInputHistory:]
	}
	settings := s.Load()
	settings.InputHistory = history
	return s.Save(settings)
}

// LoadInputHistory loads the input history
func (s *SettingsStore) LoadInputHistory() []string {
	return s.Load().InputHistory
}
