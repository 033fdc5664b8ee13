package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/domain/telemetry"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cors      CorsConfig      `mapstructure:"cors"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	AdminPort   int           `mapstructure:"admin_port"`
	ProxyPort   int           `mapstructure:"proxy_port"`
	MetricsPort int           `mapstructure:"metrics_port"`
	Type        string        `mapstructure:"type"`
	Host        string        `mapstructure:"host"`
	SecretKey   string        `mapstructure:"secret_key"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	// Identifies this node on the policy events channel, defaults to the
	// hostname.
	NodeID string `mapstructure:"node_id"`
}

type MetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	EnableLatency   bool `mapstructure:"enable_latency"`
	EnableDecisions bool `mapstructure:"enable_decisions"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type CorsConfig struct {
	// Rejected actual requests get 403 instead of passing through without
	// CORS headers.
	Strict bool `mapstructure:"strict"`
	// Fields left unset by the resolved policy resolve to the permit
	// defaults preset.
	PermitDefaults bool `mapstructure:"permit_defaults"`
	// Layered merges every matching policy, broadest first, instead of
	// using only the most specific one.
	Layered        bool           `mapstructure:"layered"`
	ReloadSchedule string         `mapstructure:"reload_schedule"`
	Policies       []StaticPolicy `mapstructure:"policies"`
}

// StaticPolicy is a policy declared in the config file.
type StaticPolicy struct {
	Name        string `mapstructure:"name"`
	Pattern     string `mapstructure:"pattern"`
	cors.Config `mapstructure:",squash"`
}

type UpstreamConfig struct {
	URL            string        `mapstructure:"url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxFailures    uint32        `mapstructure:"max_failures"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

type TelemetryConfig struct {
	Workers   int                        `mapstructure:"workers"`
	DedupTTL  time.Duration              `mapstructure:"dedup_ttl"`
	Exporters []telemetry.ExporterConfig `mapstructure:"exporters"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var globalConfig Config

// Load reads config.yaml from configPath, ./config or the working directory.
// Environment variables override file values, e.g. DATABASE_HOST for
// database.host. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaultValues(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfig = cfg
	return &globalConfig, nil
}

func (c *Config) Validate() error {
	if c.Server.AdminPort == c.Server.ProxyPort {
		return fmt.Errorf("server.admin_port and server.proxy_port must differ")
	}
	if c.Server.Type != "admin" && c.Server.Type != "proxy" {
		return fmt.Errorf("server.type must be admin or proxy, got %q", c.Server.Type)
	}
	if c.Server.Type == "admin" && c.Server.SecretKey == "" {
		return errors.New("server.secret_key is required for the admin server")
	}
	for i, p := range c.Cors.Policies {
		if p.Pattern == "" {
			return fmt.Errorf("cors.policies[%d]: pattern is required", i)
		}
	}
	return nil
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("server.admin_port", 8080)
	v.SetDefault("server.proxy_port", 8081)
	v.SetDefault("server.metrics_port", 9090)
	v.SetDefault("server.type", "proxy")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.secret_key", "")
	v.SetDefault("server.token_ttl", "0s")
	v.SetDefault("server.node_id", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.enable_latency", true)
	v.SetDefault("metrics.enable_decisions", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "corsgate")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.tls", false)

	v.SetDefault("cors.strict", false)
	v.SetDefault("cors.permit_defaults", true)
	v.SetDefault("cors.layered", false)
	v.SetDefault("cors.reload_schedule", "@every 5m")

	v.SetDefault("upstream.url", "")
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("upstream.max_failures", 5)
	v.SetDefault("upstream.breaker_timeout", "30s")

	v.SetDefault("telemetry.workers", 4)
	v.SetDefault("telemetry.dedup_ttl", "1m")

	v.SetDefault("log.level", "info")
}

func GetConfig() *Config {
	return &globalConfig
}
