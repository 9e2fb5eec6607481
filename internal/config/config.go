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

	Feeds       FeedsConfig       `mapstructure:"feeds"`
	Sentiment   SentimentConfig   `mapstructure:"sentiment"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Predict     PredictConfig     `mapstructure:"predict"`
	Peers       PeersConfig       `mapstructure:"peers"`
	PriceStream PriceStreamConfig `mapstructure:"price_stream"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
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
	Enabled bool `mapstructure:"enabled"`
}

type FeedsConfig struct {
	URLs           []string      `mapstructure:"urls"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	MaxPerFeed     int           `mapstructure:"max_per_feed"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
}

type SentimentConfig struct {
	Provider     string        `mapstructure:"provider"`
	Timeout      time.Duration `mapstructure:"timeout"`
	OpenAIModel  string        `mapstructure:"openai_model"`
	GeminiModel  string        `mapstructure:"gemini_model"`
	OpenAIKeyEnv string        `mapstructure:"openai_key_env"`
	GeminiKeyEnv string        `mapstructure:"gemini_key_env"`
}

type IngestConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Workers  int           `mapstructure:"workers"`
}

type PredictConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Interval    time.Duration `mapstructure:"interval"`
	TopAssets   int           `mapstructure:"top_assets"`
	HorizonDays int           `mapstructure:"horizon_days"`
	NewsLimit   int           `mapstructure:"news_limit"`
}

type PeersConfig struct {
	CoreURL     string        `mapstructure:"core_url"`
	IngestorURL string        `mapstructure:"ingestor_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type PriceStreamConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MAGFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.name", "magfi")
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

	v.SetDefault("feeds.urls", []string{})
	v.SetDefault("feeds.fetch_timeout", "15s")
	v.SetDefault("feeds.max_per_feed", 10)
	v.SetDefault("feeds.max_concurrency", 4)

	v.SetDefault("sentiment.provider", "openai")
	v.SetDefault("sentiment.timeout", "30s")
	v.SetDefault("sentiment.openai_model", "gpt-3.5-turbo")
	v.SetDefault("sentiment.gemini_model", "gemini-pro")
	v.SetDefault("sentiment.openai_key_env", "OPENAI_API_KEY")
	v.SetDefault("sentiment.gemini_key_env", "GEMINI_API_KEY")

	v.SetDefault("ingest.interval", "5m")
	v.SetDefault("ingest.workers", 4)

	v.SetDefault("predict.enabled", false)
	v.SetDefault("predict.interval", "15m")
	v.SetDefault("predict.top_assets", 5)
	v.SetDefault("predict.horizon_days", 7)
	v.SetDefault("predict.news_limit", 100)

	v.SetDefault("peers.core_url", "http://localhost:8080")
	v.SetDefault("peers.ingestor_url", "http://localhost:8080")
	v.SetDefault("peers.timeout", "30s")

	v.SetDefault("price_stream.enabled", false)
	v.SetDefault("price_stream.url", "")
	v.SetDefault("price_stream.reconnect_delay", "5s")

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
