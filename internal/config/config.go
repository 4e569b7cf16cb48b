package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Cron   CronConfig   `mapstructure:"cron"`

	Ingest   IngestConfig   `mapstructure:"ingest"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Detector DetectorConfig `mapstructure:"detector"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Ingest  string `mapstructure:"ingest"`
	Monitor string `mapstructure:"monitor"`
}

type IngestConfig struct {
	// Fetch horizon: each cycle requests [now, now+window_days).
	WindowDays int `mapstructure:"window_days"`
}

type SourcesConfig struct {
	Ticketmaster TicketmasterConfig `mapstructure:"ticketmaster"`
	Eventbrite   EventbriteConfig   `mapstructure:"eventbrite"`
	SeatGeek     SeatGeekConfig     `mapstructure:"seatgeek"`
	Scrapers     ScrapersConfig     `mapstructure:"scrapers"`
}

type TicketmasterConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type EventbriteConfig struct {
	APIToken string        `mapstructure:"api_token"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SeatGeekConfig struct {
	ClientID string        `mapstructure:"client_id"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ScrapersConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	UserAgent string        `mapstructure:"user_agent"`
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type DetectorConfig struct {
	// Inclusive percentage at or below which an event is SELLING_FAST.
	SelloutThresholdPct float64 `mapstructure:"sellout_threshold_percentage"`
	// Absolute ticket count at or below which an event is SELLING_FAST.
	LowAvailabilityThreshold int `mapstructure:"low_availability_threshold"`
}

type AlertsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Lookback       time.Duration `mapstructure:"lookback"`
	MinSellingFast int           `mapstructure:"min_selling_fast"`
	MinSoldOut     int           `mapstructure:"min_sold_out"`
	OutputDir      string        `mapstructure:"output_dir"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	// Daily ingest at 03:00, monitor check shortly after.
	v.SetDefault("cron.ingest", "0 0 3 * * *")
	v.SetDefault("cron.monitor", "0 30 3 * * *")

	v.SetDefault("ingest.window_days", 90)

	v.SetDefault("sources.ticketmaster.base_url", "https://app.ticketmaster.com/discovery/v2")
	v.SetDefault("sources.ticketmaster.timeout", "30s")
	v.SetDefault("sources.eventbrite.base_url", "https://www.eventbriteapi.com/v3")
	v.SetDefault("sources.eventbrite.timeout", "30s")
	v.SetDefault("sources.seatgeek.base_url", "https://api.seatgeek.com/2")
	v.SetDefault("sources.seatgeek.timeout", "30s")
	v.SetDefault("sources.scrapers.enabled", true)
	v.SetDefault("sources.scrapers.user_agent", "Mozilla/5.0 (compatible; EventRadarBot/1.0)")
	v.SetDefault("sources.scrapers.delay", "2s")
	v.SetDefault("sources.scrapers.timeout", "30s")

	v.SetDefault("detector.sellout_threshold_percentage", 10)
	v.SetDefault("detector.low_availability_threshold", 50)

	v.SetDefault("alerts.enabled", true)
	v.SetDefault("alerts.lookback", "25h")
	v.SetDefault("alerts.min_selling_fast", 1)
	v.SetDefault("alerts.min_sold_out", 3)
	v.SetDefault("alerts.output_dir", "output")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
