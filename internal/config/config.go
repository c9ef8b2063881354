// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/prose/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger   logger.Config  `toml:"logger"`
	Editor   EditorConfig   `toml:"editor"`
	Media    MediaConfig    `toml:"media"`
	Sanitize SanitizeConfig `toml:"sanitize"`
}

// EditorConfig holds editing-surface settings.
type EditorConfig struct {
	ScrollOff        int           `toml:"scroll_off"`
	SystemClipboard  bool          `toml:"system_clipboard"`
	AutosaveInterval time.Duration `toml:"autosave_interval"` // 0 disables autosave
	StatusBarHeight  int           `toml:"status_bar_height"`
}

// MediaConfig configures where uploaded files are stored and how they are
// addressed from the document.
type MediaConfig struct {
	UploadDir string `toml:"upload_dir"`
	BaseURL   string `toml:"base_url"`
	MaxBytes  int64  `toml:"max_bytes"`
}

// SanitizeConfig tunes the paste pipeline.
type SanitizeConfig struct {
	// EmbedHosts lists the hosts whose <iframe> embeds survive a paste.
	EmbedHosts []string `toml:"embed_hosts"`
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Editor: EditorConfig{
			ScrollOff:        DefaultScrollOff,
			SystemClipboard:  SystemClipboard,
			AutosaveInterval: DefaultAutosaveInterval,
			StatusBarHeight:  StatusBarHeight,
		},
		Media: MediaConfig{
			UploadDir: DefaultUploadDir,
			BaseURL:   DefaultUploadDir,
			MaxBytes:  DefaultMaxUploadBytes,
		},
		Sanitize: SanitizeConfig{
			EmbedHosts: append([]string(nil), DefaultEmbedHosts...),
		},
	}
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(cfg *Config, filePath string) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.Infof("Loaded configuration from: %s", filePath)
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Editor.ScrollOff < 0 {
		c.Editor.ScrollOff = defaults.Editor.ScrollOff
	}
	if c.Editor.AutosaveInterval < 0 {
		c.Editor.AutosaveInterval = 0
	}
	if c.Editor.StatusBarHeight <= 0 {
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if c.Media.UploadDir == "" {
		c.Media.UploadDir = defaults.Media.UploadDir
	}
	if c.Media.BaseURL == "" {
		c.Media.BaseURL = c.Media.UploadDir
	}
	c.Media.BaseURL = strings.TrimSuffix(c.Media.BaseURL, "/")
	if c.Media.MaxBytes <= 0 {
		c.Media.MaxBytes = defaults.Media.MaxBytes
	}

	hosts := c.Sanitize.EmbedHosts[:0:0]
	for _, h := range c.Sanitize.EmbedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	c.Sanitize.EmbedHosts = hosts
}

// DefaultPath returns the per-user config file location, or "" when the
// user config directory is unknown.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// Load builds a configuration from defaults, the file at configFilePath
// (DefaultPath when empty) and flag overrides, then validates it. The
// returned config is usable even when err reports a broken file.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultPath()
	}

	var err error
	if effectivePath != "" {
		if err = loadFromFile(cfg, effectivePath); err != nil {
			// A half-decoded file is worse than none.
			cfg = NewDefaultConfig()
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}

// LoadConfig loads the process-wide configuration once. It should be called
// from main before Get.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration, or the defaults when
// LoadConfig has not run.
func Get() *Config {
	if loadedConfig == nil {
		return NewDefaultConfig()
	}
	return loadedConfig
}
