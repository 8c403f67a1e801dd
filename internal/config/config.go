package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Window WindowConfig `mapstructure:"window"`
	Tray   TrayConfig   `mapstructure:"tray"`
	Log    LogConfig    `mapstructure:"log"`
}

// AppConfig holds the values the mediator hands to both controllers
type AppConfig struct {
	Name  string `mapstructure:"name"`
	ID    string `mapstructure:"id"`
	Icon  string `mapstructure:"icon"`  // Path to a PNG; empty uses the built-in icon
	Theme string `mapstructure:"theme"` // "dark", "light" or "system"
}

// WindowConfig represents main window configuration
type WindowConfig struct {
	Title       string  `mapstructure:"title"`
	Width       float32 `mapstructure:"width"`
	Height      float32 `mapstructure:"height"`
	FontSize    float32 `mapstructure:"font_size"`
	ButtonLabel string  `mapstructure:"button_label"`
}

// TrayConfig represents tray icon configuration
type TrayConfig struct {
	Tooltip      string `mapstructure:"tooltip"`
	MaxRestarts  int    `mapstructure:"max_restarts"`
	RestartDelay string `mapstructure:"restart_delay"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

var validThemes = []string{"dark", "light", "system"}

// Loader wraps a viper instance so the file can be watched after loading
type Loader struct {
	v *viper.Viper
}

// NewLoader prepares a loader for the given path. An empty path searches the
// default locations.
func NewLoader(configPath string) *Loader {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.traywin")
		v.AddConfigPath("/etc/traywin")
	}

	// TRAYWIN_APP_NAME overrides app.name, etc.
	v.SetEnvPrefix("traywin")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	// Keys without a real default are still registered, otherwise
	// AutomaticEnv never sees them during Unmarshal.
	v.SetDefault("app.name", "traywin")
	v.SetDefault("app.id", "io.github.username.traywin")
	v.SetDefault("app.icon", "")
	v.SetDefault("app.theme", "dark")
	v.SetDefault("window.title", "")
	v.SetDefault("window.width", 400)
	v.SetDefault("window.height", 200)
	v.SetDefault("window.font_size", 16)
	v.SetDefault("window.button_label", "Start Task")
	v.SetDefault("tray.tooltip", "")
	v.SetDefault("tray.max_restarts", 3)
	v.SetDefault("tray.restart_delay", "1s")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load reads the config file. A missing file in the search paths is not an
// error; an explicitly given file must exist.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Window.Title == "" {
		config.Window.Title = config.App.Name
	}
	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Set overrides a key, used for command line flags
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// File returns the config file in use, empty when running on defaults
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the config whenever the file changes and hands the result to
// onChange. Invalid edits are reported through onError and otherwise ignored.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.Load()
		if err != nil {
			onError(fmt.Errorf("reload %s: %w", e.Name, err))
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.App.ID == "" {
		return fmt.Errorf("app.id is required")
	}

	theme := c.App.Theme
	if theme == "" {
		theme = "dark"
	}
	valid := false
	for _, t := range validThemes {
		if theme == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("app.theme must be one of %v, got '%s'", validThemes, c.App.Theme)
	}

	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window.width and window.height must not be negative")
	}
	if c.Window.FontSize < 0 {
		return fmt.Errorf("window.font_size must not be negative")
	}
	if c.Tray.MaxRestarts < 0 {
		return fmt.Errorf("tray.max_restarts must not be negative")
	}
	if c.Tray.RestartDelay != "" {
		if _, err := time.ParseDuration(c.Tray.RestartDelay); err != nil {
			return fmt.Errorf("tray.restart_delay: %w", err)
		}
	}

	return nil
}

// GetRestartDelay returns the delay between tray loop restarts
func (c *TrayConfig) GetRestartDelay() time.Duration {
	if c.RestartDelay == "" {
		return 1 * time.Second
	}
	duration, err := time.ParseDuration(c.RestartDelay)
	if err != nil {
		return 1 * time.Second
	}
	return duration
}

// GetTheme returns the theme name with the default applied
func (c *AppConfig) GetTheme() string {
	if c.Theme == "" {
		return "dark"
	}
	return c.Theme
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.App.Icon = os.ExpandEnv(c.App.Icon)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
