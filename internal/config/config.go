package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/recovery"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Settings  SettingsConfig  `yaml:"settings"`
	Recovery  RecoveryConfig  `yaml:"recovery"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// SettingsConfig holds the user preferences the engine consumes.
type SettingsConfig struct {
	WeightUnit  string `yaml:"weight_unit"`   // "kg" (default) or "lb"
	StartWeekOn string `yaml:"start_week_on"` // weekday name, default "monday"
}

// RecoveryConfig overrides the battery model's tuning constants. Zero
// values fall back to recovery.DefaultConfig.
type RecoveryConfig struct {
	SetCost             float64            `yaml:"set_cost"`
	IndirectWeight      float64            `yaml:"indirect_weight"`
	SleepHoursThreshold float64            `yaml:"sleep_hours_threshold"`
	HalfLifeHours       map[string]float64 `yaml:"half_life_hours"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// EngineSettings converts the settings section to the engine's type.
func (s SettingsConfig) EngineSettings() (models.Settings, error) {
	out := models.DefaultSettings()
	switch strings.ToLower(s.WeightUnit) {
	case "", "kg":
		out.WeightUnit = models.UnitKg
	case "lb", "lbs":
		out.WeightUnit = models.UnitLb
	default:
		return out, fmt.Errorf("unknown weight_unit %q", s.WeightUnit)
	}
	if s.StartWeekOn != "" {
		day, err := parseWeekday(s.StartWeekOn)
		if err != nil {
			return out, err
		}
		out.StartWeekOn = day
	}
	return out, nil
}

// EngineConfig applies the recovery overrides on top of the defaults.
func (r RecoveryConfig) EngineConfig() recovery.Config {
	cfg := recovery.DefaultConfig()
	if r.SetCost > 0 {
		cfg.SetCost = r.SetCost
	}
	if r.IndirectWeight > 0 {
		cfg.IndirectWeight = r.IndirectWeight
	}
	if r.SleepHoursThreshold > 0 {
		cfg.SleepHoursThreshold = r.SleepHoursThreshold
	}
	if len(r.HalfLifeHours) > 0 {
		cfg.HalfLifeOverrides = r.HalfLifeHours
	}
	return cfg
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "domingo":
		return time.Sunday, nil
	case "monday", "lunes":
		return time.Monday, nil
	case "tuesday", "martes":
		return time.Tuesday, nil
	case "wednesday", "miercoles", "miércoles":
		return time.Wednesday, nil
	case "thursday", "jueves":
		return time.Thursday, nil
	case "friday", "viernes":
		return time.Friday, nil
	case "saturday", "sabado", "sábado":
		return time.Saturday, nil
	}
	return time.Monday, fmt.Errorf("unknown weekday %q", s)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix YOURPRIME_ and underscore-separated
// paths:
//
//	YOURPRIME_SERVER_HOST, YOURPRIME_SERVER_PORT,
//	YOURPRIME_DB_HOST, YOURPRIME_DB_PORT, YOURPRIME_DB_NAME,
//	YOURPRIME_DB_USER, YOURPRIME_DB_PASSWORD, YOURPRIME_DB_SSLMODE,
//	YOURPRIME_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("YOURPRIME_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("YOURPRIME_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("YOURPRIME_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("YOURPRIME_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("YOURPRIME_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("YOURPRIME_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("YOURPRIME_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("YOURPRIME_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("YOURPRIME_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if _, err := c.Settings.EngineSettings(); err != nil {
		return err
	}
	return nil
}
