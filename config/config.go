package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/electr1fy0/smartnotes/chat"
)

const (
	configDir      = ".config/smartnotes"
	configName     = "config"
	configType     = "yaml"
	envPrefix      = "SMARTNOTES"
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	defaultTTL     = 2 * time.Second
	defaultLogFile = "smartnotes.log"
)

type AI struct {
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	Endpoint     string `mapstructure:"endpoint"`
	ContextNotes int    `mapstructure:"context_notes"`
}

type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	Backend      string        `mapstructure:"backend"`
	Passphrase   string        `mapstructure:"passphrase"`
	ExportDir    string        `mapstructure:"export_dir"`
	ShareCommand string        `mapstructure:"share_command"`
	StatusTTL    time.Duration `mapstructure:"status_ttl"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFile      string        `mapstructure:"log_file"`
	AI           AI            `mapstructure:"ai"`
}

// Dir is the default configuration and data directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configDir
	}
	return filepath.Join(home, configDir)
}

func setDefaults(v *viper.Viper) {
	dir := Dir()
	v.SetDefault("data_dir", dir)
	v.SetDefault("backend", BackendFile)
	v.SetDefault("passphrase", "")
	v.SetDefault("share_command", "")
	v.SetDefault("export_dir", ".")
	v.SetDefault("status_ttl", defaultTTL)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dir, defaultLogFile))
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", chat.DefaultModel)
	v.SetDefault("ai.endpoint", chat.DefaultEndpoint)
	v.SetDefault("ai.context_notes", chat.DefaultContext)
}

// Load reads .env (if any), the config file and SMARTNOTES_* variables, in
// increasing precedence. An explicit path that does not exist is an error;
// a missing default config file is not.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName(configName)
		v.SetConfigType(configType)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Gemini keys as the web build named them in .env
	if cfg.AI.APIKey == "" {
		for _, k := range []string{"GEMINI_API_KEY", "VITE_GEMINI_API_KEY"} {
			if val := os.Getenv(k); val != "" {
				cfg.AI.APIKey = val
				break
			}
		}
	}

	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	if c.StatusTTL <= 0 {
		c.StatusTTL = defaultTTL
	}
	if c.AI.ContextNotes < 0 {
		return fmt.Errorf("ai.context_notes must not be negative")
	}
	return nil
}
