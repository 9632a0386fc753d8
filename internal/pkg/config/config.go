package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/samirrijal/forestgeo/internal/pkg/geospatial"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	NATS        NATSConfig        `mapstructure:"nats"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Log         LogConfig         `mapstructure:"log"`
	Region      geospatial.Bounds `mapstructure:"region"`
	Coordinates CoordinatesConfig `mapstructure:"coordinates"`
	Geocoding   GeocodingConfig   `mapstructure:"geocoding"`
	Temporal    TemporalConfig    `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// Cache drivers.
const (
	CacheValkey = "valkey"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type CacheConfig struct {
	Driver   string `mapstructure:"driver"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// LocalTTL is the valkey client-side cache lifetime; 0 disables it.
	LocalTTL time.Duration `mapstructure:"local_ttl"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CoordinatesConfig struct {
	// Strict rejects minutes or seconds of 60 and above.
	Strict bool `mapstructure:"strict"`
}

// Geocoding providers.
const (
	ProviderMapbox = "mapbox"
	ProviderGoogle = "google"
)

type GeocodingConfig struct {
	Provider         string        `mapstructure:"provider"`
	MapboxToken      string        `mapstructure:"mapbox_token"`
	MapboxBaseURL    string        `mapstructure:"mapbox_base_url"`
	GoogleAPIKey     string        `mapstructure:"google_api_key"`
	Country          string        `mapstructure:"country"`
	Language         string        `mapstructure:"language"`
	Timeout          time.Duration `mapstructure:"timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	ReuseRadiusM     float64       `mapstructure:"reuse_radius_m"`
	RestrictToRegion bool          `mapstructure:"restrict_to_region"`
	BatchMax         int           `mapstructure:"batch_max"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// Load reads configuration from file and environment variables and
// validates every section.
func Load(service string) (*Config, error) {
	cfg, err := read(service)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for tools that only talk to the database, such as
// migrations. Geocoding credentials are not required.
func LoadDatabase(service string) (*Config, error) {
	cfg, err := read(service)
	if err != nil {
		return nil, err
	}
	if errs := cfg.validateDatabase(nil); len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	return cfg, nil
}

func read(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: FORESTGEO_GEOCODING_MAPBOX_TOKEN → geocoding.mapbox_token
	v.SetEnvPrefix("FORESTGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "forestgeo")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "forestgeo")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("cache.driver", CacheValkey)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.local_ttl", 0)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("region.lat_min", geospatial.ColombiaBounds.LatMin)
	v.SetDefault("region.lat_max", geospatial.ColombiaBounds.LatMax)
	v.SetDefault("region.lon_min", geospatial.ColombiaBounds.LonMin)
	v.SetDefault("region.lon_max", geospatial.ColombiaBounds.LonMax)
	v.SetDefault("coordinates.strict", false)

	// Credentials have no defaults; they must come from env or config file.
	v.SetDefault("geocoding.provider", ProviderMapbox)
	v.SetDefault("geocoding.mapbox_token", "")
	v.SetDefault("geocoding.mapbox_base_url", "https://api.mapbox.com")
	v.SetDefault("geocoding.google_api_key", "")
	v.SetDefault("geocoding.country", "co")
	v.SetDefault("geocoding.language", "es")
	v.SetDefault("geocoding.timeout", 5*time.Second)
	v.SetDefault("geocoding.cache_ttl", 24*time.Hour)
	v.SetDefault("geocoding.reuse_radius_m", 250.0)
	v.SetDefault("geocoding.restrict_to_region", true)
	v.SetDefault("geocoding.batch_max", 500)

	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "forestgeo-geocoding")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	errs = c.validateDatabase(errs)
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	switch c.Cache.Driver {
	case CacheValkey, CacheRedis:
		if c.Cache.Addr == "" {
			errs = append(errs, "cache.addr is required")
		}
	case CacheNone:
	default:
		errs = append(errs, fmt.Sprintf("cache.driver must be valkey, redis or none, got %q", c.Cache.Driver))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if err := c.Region.Validate(); err != nil {
		errs = append(errs, "region: "+err.Error())
	}

	g := c.Geocoding
	switch g.Provider {
	case ProviderMapbox:
		if g.MapboxToken == "" {
			errs = append(errs, "geocoding.mapbox_token is required for the mapbox provider")
		}
		if g.MapboxBaseURL == "" {
			errs = append(errs, "geocoding.mapbox_base_url is required")
		}
	case ProviderGoogle:
		if g.GoogleAPIKey == "" {
			errs = append(errs, "geocoding.google_api_key is required for the google provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("geocoding.provider must be mapbox or google, got %q", g.Provider))
	}
	if g.Timeout <= 0 {
		errs = append(errs, "geocoding.timeout must be positive")
	}
	if g.CacheTTL < time.Second {
		errs = append(errs, "geocoding.cache_ttl must be at least 1s")
	}
	if g.ReuseRadiusM < 0 {
		errs = append(errs, "geocoding.reuse_radius_m must not be negative")
	}
	if g.BatchMax <= 0 {
		errs = append(errs, "geocoding.batch_max must be positive")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func (c *Config) validateDatabase(errs []string) []string {
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.Database.MaxConns < 0 {
		errs = append(errs, "database.max_conns must not be negative")
	}
	return errs
}

func joinErrors(errs []string) error {
	return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
}
