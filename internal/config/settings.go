package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// Settings are the widget defaults applied by every command.
type Settings struct {
	Placeholder string      `mapstructure:"placeholder" yaml:"placeholder"`
	Multiple    bool        `mapstructure:"multiple" yaml:"multiple"`
	Searchable  bool        `mapstructure:"searchable" yaml:"searchable"`
	Match       string      `mapstructure:"match" yaml:"match"`
	Size        string      `mapstructure:"size" yaml:"size"`
	Shadow      string      `mapstructure:"shadow" yaml:"shadow"`
	Variant     string      `mapstructure:"variant" yaml:"variant"`
	MaxVisible  int         `mapstructure:"max_visible" yaml:"max_visible"`
	Offset      int         `mapstructure:"offset" yaml:"offset"`
	Width       int         `mapstructure:"width" yaml:"width"`
	Log         LogSettings `mapstructure:"log" yaml:"log"`
}

// LogSettings configures the file logger.
type LogSettings struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file,omitempty"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() Settings {
	return Settings{
		Placeholder: "Select…",
		Searchable:  true,
		Match:       "substring",
		Size:        "md",
		Shadow:      "soft",
		Variant:     "default",
		MaxVisible:  8,
		Log: LogSettings{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Manager loads settings from defaults, the settings file, COMBOBOX_*
// environment variables and bound flags, in increasing precedence.
type Manager struct {
	viper     *viper.Viper
	path      string
	mu        sync.RWMutex
	settings  Settings
	callbacks []func(Settings)
	watching  bool
	log       zerolog.Logger
}

// NewManager creates a manager for the settings file at path.
func NewManager(path string, log zerolog.Logger) *Manager {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("COMBOBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	m := &Manager{viper: v, path: path, log: log}
	m.setDefaults()
	return m
}

func (m *Manager) setDefaults() {
	d := DefaultSettings()
	m.viper.SetDefault("placeholder", d.Placeholder)
	m.viper.SetDefault("multiple", d.Multiple)
	m.viper.SetDefault("searchable", d.Searchable)
	m.viper.SetDefault("match", d.Match)
	m.viper.SetDefault("size", d.Size)
	m.viper.SetDefault("shadow", d.Shadow)
	m.viper.SetDefault("variant", d.Variant)
	m.viper.SetDefault("max_visible", d.MaxVisible)
	m.viper.SetDefault("offset", d.Offset)
	m.viper.SetDefault("width", d.Width)
	m.viper.SetDefault("log.level", d.Log.Level)
	m.viper.SetDefault("log.format", d.Log.Format)
	m.viper.SetDefault("log.file", d.Log.File)
}

// SetLogger sets the logger used for watch events.
func (m *Manager) SetLogger(log zerolog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = log
}

// BindFlag lets a command-line flag override the setting named key. The flag
// only wins when it was set explicitly.
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	if err := m.viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}

// Load reads the settings file. A missing file leaves the defaults in place.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reload()
}

// reload must be called with m.mu held.
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading settings: %w", err)
		}
	}
	var s Settings
	if err := m.viper.Unmarshal(&s); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	m.settings = s
	return nil
}

// Settings returns the effective settings.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// Save writes s to the settings file and makes it effective.
func (m *Manager) Save(s Settings) error {
	data, err := MarshalSettings(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return m.Load()
}

// Watch reloads the settings file when it changes and notifies callbacks
// registered with OnChange.
func (m *Manager) Watch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watching {
		return
	}
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		m.log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("settings changed")

		m.mu.Lock()
		if err := m.reload(); err != nil {
			m.mu.Unlock()
			m.log.Warn().Err(err).Msg("failed to reload settings")
			return
		}
		s := m.settings
		callbacks := make([]func(Settings), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.Unlock()

		for _, cb := range callbacks {
			cb(s)
		}
	})
	m.viper.WatchConfig()
	m.watching = true
}

// OnChange registers a callback invoked after each successful reload.
func (m *Manager) OnChange(cb func(Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// MarshalSettings serializes settings to YAML bytes.
func MarshalSettings(s Settings) ([]byte, error) {
	return yaml.Marshal(s)
}
