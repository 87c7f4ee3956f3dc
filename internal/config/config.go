package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr           string
		RequestTimeout time.Duration
	}
	DB struct {
		Driver string
		DSN    string
	}
	Geo struct {
		// DefaultRadiusMeters applies when a nearby search omits the radius.
		DefaultRadiusMeters float64
	}
}

// Load reads config from environment (PINCO_ prefix) and optional pinco.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PINCO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("pinco")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.request_timeout", "15s")
	v.SetDefault("geo.default_radius_meters", 1000.0)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Geo.DefaultRadiusMeters = v.GetFloat64("geo.default_radius_meters")

	timeout, err := time.ParseDuration(v.GetString("http.request_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid PINCO_HTTP_REQUEST_TIMEOUT: %w", err)
	}
	cfg.HTTP.RequestTimeout = timeout

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("PINCO_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("PINCO_DB_DSN is required")
	}
	if cfg.Geo.DefaultRadiusMeters <= 0 {
		return nil, fmt.Errorf("PINCO_GEO_DEFAULT_RADIUS_METERS must be positive")
	}

	return cfg, nil
}
