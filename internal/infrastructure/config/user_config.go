package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents CLI preferences stored in ~/.outpost/config.json
type UserConfig struct {
	// Player identity used when --player and OUTPOST_PLAYER are both absent
	DefaultPlayer string `json:"default_player,omitempty"`

	// Territory used by build commands when --territory is omitted
	DefaultTerritory string `json:"default_territory,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the file under the home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".outpost", "config.json")), nil
}

// NewUserConfigHandlerAt creates a handler for an explicit file path
func NewUserConfigHandlerAt(path string) *UserConfigHandler {
	return &UserConfigHandler{configPath: path}
}

// Load reads the user config; a missing file yields an empty config
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	return &cfg, nil
}

// Save writes the user config, creating its directory
func (h *UserConfigHandler) Save(cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}
	if err := os.WriteFile(h.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// SetDefaultPlayer stores the default player identity
func (h *UserConfigHandler) SetDefaultPlayer(playerID string) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	cfg.DefaultPlayer = playerID
	return h.Save(cfg)
}

// SetDefaultTerritory stores the default territory
func (h *UserConfigHandler) SetDefaultTerritory(territoryID string) error {
	cfg, err := h.Load()
	if err != nil {
		return err
	}
	cfg.DefaultTerritory = territoryID
	return h.Save(cfg)
}

// Clear removes every stored preference
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

// Path returns the path to the user config file
func (h *UserConfigHandler) Path() string {
	return h.configPath
}
