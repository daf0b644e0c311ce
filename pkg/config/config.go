package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"MarketScan/pkg/util"
)

// Duration unmarshals YAML values like "45s" or "10m"; bare integers are
// read as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration: %s", value.Value)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int      `yaml:"port"`
		ReadTimeout     Duration `yaml:"read_timeout"`
		WriteTimeout    Duration `yaml:"write_timeout"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	CoinGecko struct {
		BaseURL      string   `yaml:"base_url"`
		Timeout      Duration `yaml:"timeout"`
		UserAgent    string   `yaml:"user_agent"`
		DefaultVS    string   `yaml:"default_vs"`
		DefaultLimit int      `yaml:"default_limit"`
	} `yaml:"coingecko"`
	Cache struct {
		FreshTTL Duration `yaml:"fresh_ttl"`
		StaleTTL Duration `yaml:"stale_ttl"`
	} `yaml:"cache"`
	RateLimit struct {
		Limit  int      `yaml:"limit"`
		Window Duration `yaml:"window"`
	} `yaml:"rate_limit"`
	Snapshot struct {
		Backend string `yaml:"backend"` // redis or file
		File    string `yaml:"file"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"snapshot"`
	Recorder struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"recorder"`
	Rebuild struct {
		Token string `yaml:"token"`
		Cron  string `yaml:"cron"`
	} `yaml:"rebuild"`
	Trade struct {
		RefCode string `yaml:"ref_code"`
	} `yaml:"trade"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("COINGECKO_URL"); v != "" {
		c.CoinGecko.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Snapshot.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Snapshot.Redis.Password = v
	}
	if v := os.Getenv("REBUILD_TOKEN"); v != "" {
		c.Rebuild.Token = v
	}
	if v := os.Getenv("TRADE_REF_CODE"); v != "" {
		c.Trade.RefCode = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(15 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.CoinGecko.Timeout == 0 {
		c.CoinGecko.Timeout = Duration(8 * time.Second)
	}
	if c.CoinGecko.DefaultVS == "" {
		c.CoinGecko.DefaultVS = "eur"
	}
	if c.CoinGecko.DefaultLimit == 0 {
		c.CoinGecko.DefaultLimit = 50
	}
	if c.Cache.FreshTTL == 0 {
		c.Cache.FreshTTL = Duration(45 * time.Second)
	}
	if c.Cache.StaleTTL == 0 {
		c.Cache.StaleTTL = Duration(10 * time.Minute)
	}
	if c.RateLimit.Limit == 0 {
		c.RateLimit.Limit = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = Duration(time.Minute)
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = "file"
	}
	if c.Snapshot.File == "" {
		c.Snapshot.File = "data/snapshot.json"
	}
	if c.Recorder.Path == "" {
		c.Recorder.Path = "data/scans.db"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Snapshot.Backend != "redis" && c.Snapshot.Backend != "file" {
		return fmt.Errorf("snapshot.backend must be 'redis' or 'file', got '%s'", c.Snapshot.Backend)
	}
	if c.Snapshot.Backend == "redis" && c.Snapshot.Redis.Addr == "" {
		return fmt.Errorf("snapshot.redis.addr is required for redis backend")
	}
	if c.Cache.FreshTTL >= c.Cache.StaleTTL {
		return fmt.Errorf("cache.fresh_ttl must be shorter than cache.stale_ttl")
	}
	if c.CoinGecko.DefaultLimit < 1 || c.CoinGecko.DefaultLimit > 250 {
		return fmt.Errorf("coingecko.default_limit must be in [1,250], got %d", c.CoinGecko.DefaultLimit)
	}
	return nil
}
