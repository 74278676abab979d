package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values are threaded into the
// fetchers and store at construction time; nothing reads ambient process
// state inside the pipeline.
type Config struct {
	Instrument struct {
		Name            string `yaml:"name"`              // row label in TAIFEX reports
		CommodityID     string `yaml:"commodity_id"`      // query parameter, e.g. TX
		Counterparty    string `yaml:"counterparty"`      // position row label, e.g. 外資
		AfterHoursLabel string `yaml:"after_hours_label"` // session rows to exclude
	} `yaml:"instrument"`
	Endpoints struct {
		QuoteURL     string `yaml:"quote_url"`
		PositionURL  string `yaml:"position_url"`
		PressureURL  string `yaml:"pressure_url"`
		MarketCode   string `yaml:"market_code"`   // quote report market scope
		PositionMode string `yaml:"position_mode"` // position report query type
	} `yaml:"endpoints"`
	Contract struct {
		NotionalUnit float64 `yaml:"notional_unit"` // notional reported in thousands
		PointValue   float64 `yaml:"point_value"`   // currency per index point
	} `yaml:"contract"`
	Pressure struct {
		Cutoff      string  `yaml:"cutoff"`       // early-session timestamp prefix
		ValueColumn int     `yaml:"value_column"` // cumulative sell-order column
		UnitScale   float64 `yaml:"unit_scale"`
	} `yaml:"pressure"`
	HTTP struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxRetries     int    `yaml:"max_retries"`
		BackoffSeconds int    `yaml:"backoff_seconds"`
		RatePerMinute  int    `yaml:"rate_per_minute"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"http"`
	Calendar struct {
		MIC      string `yaml:"mic"`
		Timezone string `yaml:"timezone"`
	} `yaml:"calendar"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("QUOTE_URL"); v != "" {
		cfg.Endpoints.QuoteURL = v
	}
	if v := os.Getenv("POSITION_URL"); v != "" {
		cfg.Endpoints.PositionURL = v
	}
	if v := os.Getenv("PRESSURE_URL"); v != "" {
		cfg.Endpoints.PressureURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("HTTP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.MaxRetries = n
		}
	}

	// Defaults
	if cfg.Instrument.Name == "" {
		cfg.Instrument.Name = "臺股期貨"
	}
	if cfg.Instrument.CommodityID == "" {
		cfg.Instrument.CommodityID = "TX"
	}
	if cfg.Instrument.Counterparty == "" {
		cfg.Instrument.Counterparty = "外資"
	}
	if cfg.Instrument.AfterHoursLabel == "" {
		cfg.Instrument.AfterHoursLabel = "盤後"
	}
	if cfg.Endpoints.QuoteURL == "" {
		cfg.Endpoints.QuoteURL = "https://www.taifex.com.tw/cht/3/futDailyMarketReport"
	}
	if cfg.Endpoints.PositionURL == "" {
		cfg.Endpoints.PositionURL = "https://www.taifex.com.tw/cht/3/futContractsDate"
	}
	if cfg.Endpoints.PressureURL == "" {
		cfg.Endpoints.PressureURL = "https://www.twse.com.tw/exchangeReport/MI_5MINS"
	}
	if cfg.Endpoints.MarketCode == "" {
		cfg.Endpoints.MarketCode = "0"
	}
	if cfg.Endpoints.PositionMode == "" {
		cfg.Endpoints.PositionMode = "1"
	}
	if cfg.Contract.NotionalUnit == 0 {
		cfg.Contract.NotionalUnit = 1000
	}
	if cfg.Contract.PointValue == 0 {
		cfg.Contract.PointValue = 200
	}
	if cfg.Pressure.Cutoff == "" {
		cfg.Pressure.Cutoff = "09:00"
	}
	if cfg.Pressure.ValueColumn == 0 {
		cfg.Pressure.ValueColumn = 4
	}
	if cfg.Pressure.UnitScale == 0 {
		cfg.Pressure.UnitScale = 10000
	}
	if cfg.HTTP.TimeoutSeconds == 0 {
		cfg.HTTP.TimeoutSeconds = 15
	}
	if cfg.HTTP.MaxRetries == 0 {
		cfg.HTTP.MaxRetries = 3
	}
	if cfg.HTTP.BackoffSeconds == 0 {
		cfg.HTTP.BackoffSeconds = 2
	}
	if cfg.HTTP.RatePerMinute == 0 {
		cfg.HTTP.RatePerMinute = 30
	}
	if cfg.Calendar.MIC == "" {
		cfg.Calendar.MIC = "xtai"
	}
	if cfg.Calendar.Timezone == "" {
		cfg.Calendar.Timezone = "Asia/Taipei"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/taifex_daily.db"
	}
	if cfg.Schedule.DailyCron == "" {
		// After the 15:00 settlement data is published, Mon-Fri
		cfg.Schedule.DailyCron = "0 30 15 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if c.Endpoints.QuoteURL == "" {
		return fmt.Errorf("endpoints.quote_url is required")
	}
	if c.Endpoints.PositionURL == "" {
		return fmt.Errorf("endpoints.position_url is required")
	}
	if c.Endpoints.PressureURL == "" {
		return fmt.Errorf("endpoints.pressure_url is required")
	}
	if c.Instrument.Name == "" {
		return fmt.Errorf("instrument.name is required")
	}
	if c.Contract.NotionalUnit <= 0 || c.Contract.PointValue <= 0 {
		return fmt.Errorf("contract scaling constants must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}
	return nil
}
