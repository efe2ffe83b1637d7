package studioconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ConfigPath is the path to the studio config file, relative to the process working directory.
const ConfigPath = "config/studio.json"

// Prefs holds studio-only preferences (tessellation detail, emboss font, viewer toggles). Persisted across runs.
// Scene documents are separate and handled by the scene package.
type Prefs struct {
	Detail      string `json:"detail"` // "fast", "balanced", or "quality"
	EmbossFont  string `json:"emboss_font,omitempty"`
	GridVisible bool   `json:"grid_visible"`
	ShowGhosts  bool   `json:"show_ghosts"`
}

// Default returns default preferences (balanced detail, grid and ghosts on).
func Default() Prefs {
	return Prefs{
		Detail:      "balanced",
		GridVisible: true,
		ShowGhosts:  true,
	}
}

// Load reads preferences from config/studio.json. If the file is missing or invalid,
// returns Default() and does not create a file.
func Load() (Prefs, error) {
	data, err := os.ReadFile(ConfigPath)
	if err != nil {
		return Default(), nil
	}
	var p Prefs
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p, nil
}

// Save writes preferences to config/studio.json, creating the config directory if needed.
func Save(p Prefs) error {
	dir := filepath.Dir(ConfigPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath, data, 0644)
}
