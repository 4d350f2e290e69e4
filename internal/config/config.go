// Package config handles loading and saving user configuration for pnc.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override, e.g. PNC_API_URL.
	EnvPrefix = "PNC"

	// DefaultAPIURL is the production analysis backend.
	DefaultAPIURL = "https://pe-no-chao-backend-production.up.railway.app"

	DefaultTimeout = 60 * time.Second

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Keys understood by viper.
const (
	KeyAPIURL    = "api_url"
	KeyTimeout   = "timeout"
	KeyTheme     = "theme"
	KeyHistory   = "history"
	KeyHistoryDB = "history_db"
	KeyLogFile   = "log_file"
	KeyVerbose   = "verbose"
)

// legacyURLVars are read when nothing else sets api_url. The web front end
// was configured through them.
var legacyURLVars = []string{"API_URL", "VITE_API_URL"}

// Config holds all user configuration.
type Config struct {
	APIURL    string        `yaml:"api_url" mapstructure:"api_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Theme     string        `yaml:"theme" mapstructure:"theme"`
	History   bool          `yaml:"history" mapstructure:"history"`
	HistoryDB string        `yaml:"history_db" mapstructure:"history_db"`
	LogFile   string        `yaml:"log_file" mapstructure:"log_file"`
	Verbose   bool          `yaml:"-" mapstructure:"verbose"`
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pnc"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pnc"), nil
}

// EnsureDir creates the configuration directory if it doesn't exist.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	apiURL := DefaultAPIURL
	for _, name := range legacyURLVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			apiURL = v
			break
		}
	}

	return Config{
		APIURL:    apiURL,
		Timeout:   DefaultTimeout,
		Theme:     ThemeDark,
		History:   true,
		HistoryDB: filepath.Join(dir, "history.db"),
		LogFile:   filepath.Join(dir, "pnc.log"),
	}
}

// Init prepares v: dotenv files are loaded into the environment (real
// variables win), defaults are registered, PNC_* variables are bound and the
// config file is read. A missing default config file is not an error; a
// missing explicit cfgFile is.
func Init(v *viper.Viper, cfgFile string, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	dir, err := Dir()
	if err != nil {
		return err
	}

	def := Default(dir)
	v.SetDefault(KeyAPIURL, def.APIURL)
	v.SetDefault(KeyTimeout, def.Timeout)
	v.SetDefault(KeyTheme, def.Theme)
	v.SetDefault(KeyHistory, def.History)
	v.SetDefault(KeyHistoryDB, def.HistoryDB)
	v.SetDefault(KeyLogFile, def.LogFile)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Load decodes and validates the effective configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail much later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an absolute http(s) URL", c.APIURL)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}

	switch c.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid theme %q: want %q or %q", c.Theme, ThemeDark, ThemeLight)
	}

	if c.History && c.HistoryDB == "" {
		return errors.New("history is enabled but history_db is empty")
	}
	return nil
}

// YAML renders c the way it would be written to the config file.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}

const fileHeader = `# pnc configuration file
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (PNC_*, e.g. PNC_API_URL)
#   3. This config file
#   4. API_URL / VITE_API_URL, then built-in defaults
#
# timeout bounds the whole HTTP exchange; 0 disables it.
# theme is "dark" or "light".

`

// WriteFile writes c to path with a commented header. An existing file is
// never overwritten.
func WriteFile(path string, c Config) (err error) {
	out, err := c.YAML()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("config file already exists: %s", path)
		}
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing config file: %w", closeErr)
		}
	}()

	if _, err = f.WriteString(fileHeader); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if _, err = f.Write(out); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
