// Package config loads studymate settings from a YAML file, a .env file and
// STUDYMATE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/studymate/internal/llm"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Client struct {
		DBPath  string `yaml:"db"`
		LogFile string `yaml:"log_file"`
		LogMode string `yaml:"log_mode"`
		Debug   bool   `yaml:"debug"`
	} `yaml:"client"`
	Server struct {
		Addr        string   `yaml:"addr"`
		DBPath      string   `yaml:"db"`
		JWTSecret   string   `yaml:"jwt_secret"`
		TokenTTL    string   `yaml:"token_ttl"`
		CORSOrigins []string `yaml:"cors_origins"`
		Seed        bool     `yaml:"seed"`
		LogMode     string   `yaml:"log_mode"`
	} `yaml:"server"`
	LLM struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"llm"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	var c Config
	c.API.BaseURL = "http://localhost:8000"
	c.API.Timeout = "30s"
	c.Client.LogMode = "development"
	c.Server.Addr = ":8000"
	c.Server.TokenTTL = "30m"
	c.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	c.Server.Seed = true
	c.Server.LogMode = "development"
	return c
}

// DefaultPath is $XDG_CONFIG_HOME/studymate/config.yaml, falling back to
// ~/.config/studymate/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studymate", "config.yaml")
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. A missing file is only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from STUDYMATE_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.API.BaseURL, "STUDYMATE_API_URL")
	set(&c.API.Timeout, "STUDYMATE_API_TIMEOUT")
	set(&c.Client.DBPath, "STUDYMATE_DB")
	set(&c.Client.LogFile, "STUDYMATE_LOG_FILE")
	set(&c.Client.LogMode, "STUDYMATE_LOG_MODE")
	set(&c.Server.Addr, "STUDYMATE_SERVER_ADDR")
	set(&c.Server.DBPath, "STUDYMATE_SERVER_DB")
	set(&c.Server.JWTSecret, "STUDYMATE_JWT_SECRET", "SECRET_KEY")
	set(&c.Server.TokenTTL, "STUDYMATE_TOKEN_TTL")
	set(&c.Server.LogMode, "STUDYMATE_SERVER_LOG_MODE")
	set(&c.LLM.Provider, "STUDYMATE_LLM_PROVIDER")
	set(&c.LLM.Model, "STUDYMATE_LLM_MODEL")
	set(&c.LLM.APIKey, "STUDYMATE_LLM_API_KEY")
	set(&c.LLM.BaseURL, "STUDYMATE_LLM_BASE_URL")
	set(&c.LLM.Timeout, "STUDYMATE_LLM_TIMEOUT")

	if v := getenv("STUDYMATE_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}
	if v := getenv("STUDYMATE_SEED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.Seed = b
		}
	}
	if v := getenv("STUDYMATE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Client.Debug = b
		}
	}
}

// APITimeout is the per-request timeout for the backend client.
func (c Config) APITimeout() time.Duration {
	return Duration(c.API.Timeout, 30*time.Second)
}

// TokenTTL is the lifetime of access tokens issued by the server.
func (c Config) TokenTTL() time.Duration {
	return Duration(c.Server.TokenTTL, 30*time.Minute)
}

// LLMConfig resolves the provider configuration. An explicit provider in the
// file or environment wins; otherwise well-known API key variables are
// probed. ok is false when no provider could be found.
func (c Config) LLMConfig() (llm.Config, bool) {
	var (
		cfg llm.Config
		ok  bool
	)
	if c.LLM.Provider != "" {
		cfg, ok = llm.ConfigFromEnv(), true
		cfg.Provider = c.LLM.Provider
	} else {
		cfg, ok = llm.DiscoverConfig()
		if !ok {
			return cfg, false
		}
	}

	if c.LLM.Model != "" || c.LLM.APIKey != "" || c.LLM.BaseURL != "" {
		cfg.Override(c.LLM.Model, c.LLM.APIKey, c.LLM.BaseURL)
	}
	if c.LLM.Timeout != "" {
		cfg.Timeout = Duration(c.LLM.Timeout, cfg.Timeout)
	}
	return cfg, ok
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
