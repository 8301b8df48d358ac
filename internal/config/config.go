package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Host            string
	Port            int
	AllowOrigins    []string
	LogLevel        string
	LogFile         string
	MaxUploadMB     int
	SeedFile        string
	SampleFile      string
	MatchThreshold  float64
	RateLimitPerSec float64
	RateLimitBurst  int
}

// Load reads defaults, then an optional config.yaml (".", "./config"), then
// environment variables (HOST, PORT, ALLOW_ORIGINS, ...). Later sources win.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		AllowOrigins:    splitList(v.Get("allow_origins")),
		LogLevel:        v.GetString("log_level"),
		LogFile:         v.GetString("log_file"),
		MaxUploadMB:     v.GetInt("max_upload_mb"),
		SeedFile:        v.GetString("seed_file"),
		SampleFile:      v.GetString("sample_file"),
		MatchThreshold:  v.GetFloat64("match_threshold"),
		RateLimitPerSec: v.GetFloat64("rate_limit_per_sec"),
		RateLimitBurst:  v.GetInt("rate_limit_burst"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8000)
	v.SetDefault("allow_origins", "http://localhost,http://localhost:8080,http://localhost:8000,http://localhost:3000,http://localhost:3001")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/ratematch-service.log")
	v.SetDefault("max_upload_mb", 16)
	v.SetDefault("seed_file", "data/items.json")
	v.SetDefault("sample_file", "data/sample_inputs.json")
	v.SetDefault("match_threshold", 0.5)
	v.SetDefault("rate_limit_per_sec", 20)
	v.SetDefault("rate_limit_burst", 40)
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in (0, 1], got %v", c.MatchThreshold)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.SeedFile == "" {
		return errors.New("seed_file is required")
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// splitList accepts "a,b" from env or a YAML list from the config file.
func splitList(raw any) []string {
	var parts []string
	switch x := raw.(type) {
	case string:
		parts = strings.Split(x, ",")
	case []string:
		parts = x
	case []any:
		for _, p := range x {
			parts = append(parts, fmt.Sprint(p))
		}
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
