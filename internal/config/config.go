package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvAPIBase overrides client.api_base when set
const EnvAPIBase = "SNOWTHAW_API_BASE"

const appDir = "snowthaw"

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// ClientConfig configures the terminal UI and the one-shot search
type ClientConfig struct {
	APIBase           string   `toml:"api_base"`
	Debounce          Duration `toml:"debounce"`
	PageSize          int      `toml:"page_size"`
	RequestTimeout    Duration `toml:"request_timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
}

// ServerConfig configures the lookup service
type ServerConfig struct {
	Listen         string   `toml:"listen"`
	DBPath         string   `toml:"db_path"`
	APIKey         string   `toml:"api_key"`
	AllowedOrigins []string `toml:"allowed_origins"`
	SearchLimit    int      `toml:"search_limit"`
	SnippetWindow  int      `toml:"snippet_window"`
	MaxSnippets    int      `toml:"max_snippets"`
}

// LogConfig selects where logs go and how verbose they are
type LogConfig struct {
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

// Duration is a time.Duration written as text ("400ms") in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for path. An empty path selects the
// per-user default location.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load reads the file, fills unset values with defaults, applies the environment and
// validates. A missing file yields the defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path without consulting the environment
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding over the defaults keeps every key the file leaves out
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			APIBase:  "http://localhost:8080",
			Debounce: Duration{400 * time.Millisecond},
			PageSize: 6,
		},
		Server: ServerConfig{
			Listen:         ":8080",
			DBPath:         DefaultDBPath(),
			AllowedOrigins: []string{},
			SearchLimit:    50,
			SnippetWindow:  40,
			MaxSnippets:    99,
		},
		Log: LogConfig{
			File: DefaultLogPath(),
		},
	}
}

// Validate rejects values the program cannot run with
func (c *Config) Validate() error {
	if c.Client.PageSize < 1 {
		return fmt.Errorf("%w: client.page_size must be positive, got %d", ErrInvalid, c.Client.PageSize)
	}
	if c.Client.Debounce.Duration < 0 {
		return fmt.Errorf("%w: client.debounce must not be negative", ErrInvalid)
	}
	if c.Client.RequestTimeout.Duration < 0 {
		return fmt.Errorf("%w: client.request_timeout must not be negative", ErrInvalid)
	}
	u, err := url.Parse(c.Client.APIBase)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: client.api_base %q is not an http(s) URL", ErrInvalid, c.Client.APIBase)
	}
	if c.Server.SearchLimit < 1 || c.Server.SnippetWindow < 1 || c.Server.MaxSnippets < 1 {
		return fmt.Errorf("%w: server limits must be positive", ErrInvalid)
	}
	return nil
}

func (c *Config) applyEnv() {
	if base := os.Getenv(EnvAPIBase); base != "" {
		c.Client.APIBase = base
	}
}

// fillDefaults restores zero values an explicit file entry may have set
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Client.APIBase == "" {
		c.Client.APIBase = d.Client.APIBase
	}
	if c.Client.Debounce.Duration == 0 {
		c.Client.Debounce = d.Client.Debounce
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = d.Server.DBPath
	}
	if c.Server.AllowedOrigins == nil {
		c.Server.AllowedOrigins = []string{}
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/snowthaw/config.toml or the platform equivalent
func DefaultPath() string {
	return filepath.Join(configDir(), appDir, "config.toml")
}

// DefaultLogPath returns the log file next to the config file
func DefaultLogPath() string {
	return filepath.Join(configDir(), appDir, "snowthaw.log")
}

// DefaultDBPath returns $XDG_DATA_HOME/snowthaw/cards.db
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, appDir, "cards.db")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return dir
}
