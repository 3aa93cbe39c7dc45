package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Playback
	FPSCap    int `yaml:"fps_cap"`
	RecentMax int `yaml:"recent_max"`

	// Preview background: "dark", "light", "checker" or "custom"
	DefaultBackground     string `yaml:"default_background"`
	CustomBackgroundColor string `yaml:"custom_background_color"`

	// Export
	ExportDir           string `yaml:"export_dir"`
	DefaultExportFormat string `yaml:"default_export_format"`
	DefaultCompression  int    `yaml:"default_compression"`
	DefaultScaleIndex   int    `yaml:"default_scale_index"`
	AggressiveOptimize  bool   `yaml:"aggressive_optimize"`

	// File watching
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ColorTheme:            "auto",
		FPSCap:                60,
		RecentMax:             10,
		DefaultBackground:     "dark",
		CustomBackgroundColor: "#1a1d23",
		ExportDir:             "",
		DefaultExportFormat:   "svg",
		DefaultCompression:    0,
		DefaultScaleIndex:     0,
		AggressiveOptimize:    false,
		WatchDebounceMS:       250,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.FPSCap <= 0 {
		cfg.FPSCap = 60
	}
	if cfg.RecentMax <= 0 {
		cfg.RecentMax = 10
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 250
	}
	if cfg.DefaultExportFormat == "" {
		cfg.DefaultExportFormat = "svg"
	}
	if cfg.CustomBackgroundColor == "" {
		cfg.CustomBackgroundColor = "#1a1d23"
	}

	// Validate enumerated values
	if !isValidBackground(cfg.DefaultBackground) {
		cfg.DefaultBackground = "dark"
	}
	if !isValidExportFormat(cfg.DefaultExportFormat) {
		cfg.DefaultExportFormat = "svg"
	}
	if cfg.DefaultCompression < 0 {
		cfg.DefaultCompression = 0
	}
	if cfg.DefaultCompression > 100 {
		cfg.DefaultCompression = 100
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// isValidBackground checks if the background choice is valid
func isValidBackground(bg string) bool {
	validBackgrounds := []string{"dark", "light", "checker", "custom"}
	for _, valid := range validBackgrounds {
		if bg == valid {
			return true
		}
	}
	return false
}

// isValidExportFormat checks if the export format is valid
func isValidExportFormat(format string) bool {
	validFormats := []string{"svg", "png", "jpg"}
	for _, valid := range validFormats {
		if format == valid {
			return true
		}
	}
	return false
}
