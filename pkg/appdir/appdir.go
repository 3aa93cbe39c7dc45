package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dirs holds the on-disk locations lsvg uses: the user-editable config
// file and the tool-managed state file (preferences, recent files).
type Dirs struct {
	DataPath   string
	ConfigPath string
	StatePath  string
}

// New resolves XDG-compliant paths on Unix and AppData paths on Windows
func New() (*Dirs, error) {
	dataPath, dataErr := getDataPath()
	configPath, configErr := getConfigPath()
	if dataErr != nil {
		return nil, fmt.Errorf("failed to determine data directory: %w", dataErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return &Dirs{
		DataPath:   dataPath,
		ConfigPath: configPath,
		StatePath:  filepath.Join(dataPath, "state.yaml"),
	}, nil
}

// getDataPath returns the tool-managed data directory
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getDataPath() (string, error) {
	// Check XDG_DATA_HOME first (Unix-like systems)
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "lsvg"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "lsvg"), nil
	}

	// Fall back to ~/.local/share/lsvg (Unix-like systems)
	return filepath.Join(homeDir, ".local", "share", "lsvg"), nil
}

func getConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "lsvg", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "lsvg-config", "config.yaml"), nil
	}

	// Fall back to ~/.config/lsvg/config.yaml (Unix-like systems)
	return filepath.Join(homeDir, ".config", "lsvg", "config.yaml"), nil
}

// Initialize creates the data directory if it doesn't exist
func (d *Dirs) Initialize() error {
	if err := os.MkdirAll(d.DataPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", d.DataPath, err)
	}
	return nil
}

// Exists checks if the data directory has been created
func (d *Dirs) Exists() bool {
	info, err := os.Stat(d.DataPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}
