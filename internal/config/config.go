package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"FxSentinel/internal/model"
	"FxSentinel/internal/strategy"
)

// Provider names accepted in providers.order.
const (
	ProviderTwelveData   = "twelvedata"
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderFrankfurter  = "frankfurter"
)

// SessionConfig is a named UTC window written as "HH:MM".
type SessionConfig struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		ChatID      string `yaml:"chat_id"`
		SendRetries int    `yaml:"send_retries"`
	} `yaml:"telegram"`
	Providers struct {
		Order           []string `yaml:"order"`
		TwelveDataKey   string   `yaml:"twelvedata_api_key"`
		AlphaVantageKey string   `yaml:"alpha_vantage_api_key"`
		OutputSize      int      `yaml:"output_size"`
	} `yaml:"providers"`
	Trading struct {
		Pairs               []string      `yaml:"pairs"`
		MaxTradesPerSession int           `yaml:"max_trades_per_session"`
		PollInterval        time.Duration `yaml:"poll_interval"`
		SplitTimeframes     bool          `yaml:"split_timeframes"`
		RunOnStart          bool          `yaml:"run_on_start"`
	} `yaml:"trading"`
	Sessions []SessionConfig `yaml:"sessions"`
	Strategy strategy.Params `yaml:"strategy"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file (missing file is fine), loads a .env file
// when present, then applies environment variable overrides and defaults.
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

	// .env never overrides variables already set in the process environment.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := firstEnv("TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := firstEnv("CHAT_ID", "TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("TWELVEDATA_API"); v != "" {
		c.Providers.TwelveDataKey = v
	}
	if v := os.Getenv("ALPHA_API"); v != "" {
		c.Providers.AlphaVantageKey = v
	}
	if v := os.Getenv("PROVIDERS"); v != "" {
		c.Providers.Order = splitList(v)
	}
	if v := os.Getenv("PAIRS"); v != "" {
		c.Trading.Pairs = splitList(v)
	}
	if v := os.Getenv("MAX_TRADES_PER_SESSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_TRADES_PER_SESSION: %w", err)
		}
		c.Trading.MaxTradesPerSession = n
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := parseInterval(v)
		if err != nil {
			return fmt.Errorf("POLL_INTERVAL: %w", err)
		}
		c.Trading.PollInterval = d
	}
	if v := os.Getenv("SPLIT_TIMEFRAMES"); v != "" {
		c.Trading.SplitTimeframes = v == "true" || v == "1"
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		c.Trading.RunOnStart = v == "true" || v == "1"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Providers.Order) == 0 {
		c.Providers.Order = []string{ProviderTwelveData, ProviderAlphaVantage, ProviderYahoo, ProviderFrankfurter}
	}
	if c.Providers.OutputSize == 0 {
		c.Providers.OutputSize = 200
	}
	if len(c.Trading.Pairs) == 0 {
		c.Trading.Pairs = []string{"EUR/USD", "GBP/USD", "GBP/JPY"}
	}
	if c.Trading.MaxTradesPerSession == 0 {
		c.Trading.MaxTradesPerSession = 3
	}
	if c.Trading.PollInterval == 0 {
		c.Trading.PollInterval = 60 * time.Second
	}
	if len(c.Sessions) == 0 {
		c.Sessions = []SessionConfig{
			{Name: string(model.SessionLondon), Start: "07:00", End: "10:00"},
			{Name: string(model.SessionNY), Start: "13:00", End: "16:00"},
		}
	}
	c.Strategy = c.Strategy.WithDefaults()
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if len(c.Trading.Pairs) == 0 {
		return fmt.Errorf("trading.pairs must not be empty")
	}
	for _, p := range c.Trading.Pairs {
		base, quote, ok := strings.Cut(p, "/")
		if !ok || len(base) != 3 || len(quote) != 3 {
			return fmt.Errorf("trading.pairs: %q is not in BASE/QUOTE form", p)
		}
	}
	if c.Trading.MaxTradesPerSession <= 0 {
		return fmt.Errorf("trading.max_trades_per_session must be positive")
	}
	if c.Telegram.SendRetries < 0 {
		return fmt.Errorf("telegram.send_retries must not be negative")
	}
	if c.Trading.PollInterval < time.Second {
		return fmt.Errorf("trading.poll_interval must be at least 1s")
	}
	for _, name := range c.Providers.Order {
		switch name {
		case ProviderTwelveData, ProviderAlphaVantage, ProviderYahoo, ProviderFrankfurter:
		default:
			return fmt.Errorf("providers.order: unknown provider %q", name)
		}
	}
	if _, err := c.SessionWindows(); err != nil {
		return err
	}
	if c.Strategy.StopLossOffset <= 0 || c.Strategy.TakeProfitOffset <= 0 {
		return fmt.Errorf("strategy offsets must be positive")
	}
	if c.Strategy.ZoneWidth <= 0 {
		return fmt.Errorf("strategy.zone_width must be positive")
	}
	return nil
}

// SessionWindows converts the configured sessions into strategy windows,
// preserving their order.
func (c *Config) SessionWindows() ([]strategy.SessionWindow, error) {
	windows := make([]strategy.SessionWindow, 0, len(c.Sessions))
	for _, s := range c.Sessions {
		if s.Name == "" {
			return nil, fmt.Errorf("sessions: name is required")
		}
		start, err := strategy.ParseClock(s.Start)
		if err != nil {
			return nil, fmt.Errorf("session %s start: %w", s.Name, err)
		}
		end, err := strategy.ParseClock(s.End)
		if err != nil {
			return nil, fmt.Errorf("session %s end: %w", s.Name, err)
		}
		if end < start {
			return nil, fmt.Errorf("session %s ends before it starts", s.Name)
		}
		windows = append(windows, strategy.SessionWindow{
			Session: model.Session(strings.ToUpper(s.Name)),
			Start:   start,
			End:     end,
		})
	}
	return windows, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseInterval accepts a Go duration ("90s", "2m") or a bare number of seconds.
func parseInterval(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
