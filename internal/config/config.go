// Package config loads service configuration from defaults, an optional YAML file and AHARA_ environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mcp-ahara/internal/models"
)

const (
	AllergyMatchingSubstring = "substring"
	AllergyMatchingExact     = "exact"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Composer ComposerConfig `mapstructure:"composer"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

type ServerConfig struct {
	Transport       string        `mapstructure:"transport"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// ScoringConfig holds the scorer defaults. An empty Season means the season is derived from the current month.
type ScoringConfig struct {
	AyurvedicWeight   float64 `mapstructure:"ayurvedic_weight"`
	NutritionalWeight float64 `mapstructure:"nutritional_weight"`
	CalorieTarget     float64 `mapstructure:"calorie_target"`
	ProteinTarget     float64 `mapstructure:"protein_target"`
	Season            string  `mapstructure:"season"`
}

type ComposerConfig struct {
	AllergyMatching string `mapstructure:"allergy_matching"`
}

// Load reads configuration. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("ahara")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/ahara")
	}

	v.SetEnvPrefix("AHARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ahara")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("server.transport", "http")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8012)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("storage.db_path", "/data/ahara.db")

	v.SetDefault("scoring.ayurvedic_weight", 0.5)
	v.SetDefault("scoring.nutritional_weight", 0.5)
	v.SetDefault("scoring.calorie_target", 500)
	v.SetDefault("scoring.protein_target", 20)
	v.SetDefault("scoring.season", "")

	v.SetDefault("composer.allergy_matching", AllergyMatchingSubstring)
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Server.Transport != "http" {
		return fmt.Errorf("server.transport %q is not supported: only http", c.Server.Transport)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	if c.Scoring.AyurvedicWeight < 0 || c.Scoring.NutritionalWeight < 0 {
		return fmt.Errorf("scoring weights cannot be negative")
	}
	if c.Scoring.CalorieTarget <= 0 {
		return fmt.Errorf("scoring.calorie_target must be positive")
	}
	if c.Scoring.ProteinTarget < 0 {
		return fmt.Errorf("scoring.protein_target cannot be negative")
	}
	if c.Scoring.Season != "" && !models.Season(c.Scoring.Season).Valid() {
		return fmt.Errorf("scoring.season %q is not a known season", c.Scoring.Season)
	}
	switch c.Composer.AllergyMatching {
	case AllergyMatchingSubstring, AllergyMatchingExact:
	default:
		return fmt.Errorf("composer.allergy_matching must be %q or %q", AllergyMatchingSubstring, AllergyMatchingExact)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
