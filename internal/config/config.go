package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Token   string `yaml:"token"`
	} `yaml:"api"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		StatusAddr string `yaml:"status_addr"`
	} `yaml:"server"`
	Report struct {
		Cron string `yaml:"cron"`
	} `yaml:"report"`
	Strategy struct {
		SafetyCreditReserve     int64   `yaml:"safety_credit_reserve"`
		FleetExpansionThreshold int64   `yaml:"fleet_expansion_threshold"`
		AcquireCooldownMinutes  int     `yaml:"acquire_cooldown_minutes"`
		MaxShips                int     `yaml:"max_ships"`
		MinProfitMargin         float64 `yaml:"min_profit_margin"`
	} `yaml:"strategy"`
	Loop struct {
		IterationPauseMs     int `yaml:"iteration_pause_ms"`
		RecoveryDelaySeconds int `yaml:"recovery_delay_seconds"`
	} `yaml:"loop"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SPACETRADERS_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("AGENT_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STATUS_ADDR"); v != "" {
		cfg.Server.StatusAddr = v
	}
	if v := os.Getenv("REPORT_CRON"); v != "" {
		cfg.Report.Cron = v
	}
	if v := os.Getenv("SAFETY_CREDIT_RESERVE"); v != "" {
		if reserve, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Strategy.SafetyCreditReserve = reserve
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.spacetraders.io"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/agent.db"
	}
	if cfg.Report.Cron == "" {
		cfg.Report.Cron = "0 0 * * * *" // hourly
	}
	if cfg.Strategy.SafetyCreditReserve == 0 {
		cfg.Strategy.SafetyCreditReserve = 10000
	}
	if cfg.Strategy.FleetExpansionThreshold == 0 {
		cfg.Strategy.FleetExpansionThreshold = 50000
	}
	if cfg.Strategy.AcquireCooldownMinutes == 0 {
		cfg.Strategy.AcquireCooldownMinutes = 60
	}
	if cfg.Strategy.MaxShips == 0 {
		cfg.Strategy.MaxShips = 5
	}
	if cfg.Strategy.MinProfitMargin == 0 {
		cfg.Strategy.MinProfitMargin = 0.1
	}
	if cfg.Loop.IterationPauseMs == 0 {
		cfg.Loop.IterationPauseMs = 1000
	}
	if cfg.Loop.RecoveryDelaySeconds == 0 {
		cfg.Loop.RecoveryDelaySeconds = 5
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Token == "" {
		return fmt.Errorf("api.token is required (set AGENT_TOKEN)")
	}
	if c.Strategy.SafetyCreditReserve < 0 {
		return fmt.Errorf("strategy.safety_credit_reserve must not be negative")
	}
	return nil
}

// IterationPause returns the fixed inter-iteration pause.
func (c *Config) IterationPause() time.Duration {
	return time.Duration(c.Loop.IterationPauseMs) * time.Millisecond
}

// RecoveryDelay returns the fixed error-recovery delay.
func (c *Config) RecoveryDelay() time.Duration {
	return time.Duration(c.Loop.RecoveryDelaySeconds) * time.Second
}

// AcquireCooldown returns the wait after a failed acquisition attempt.
func (c *Config) AcquireCooldown() time.Duration {
	return time.Duration(c.Strategy.AcquireCooldownMinutes) * time.Minute
}
