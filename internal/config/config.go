// Package config loads service configuration from the environment and an optional .env file
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store backends
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Link TTL bounds; SigV4 presigned URLs cannot outlive 7 days
const (
	MinLinkTTL = time.Second
	MaxLinkTTL = 7 * 24 * time.Hour
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Link    LinkConfig
	Policy  PolicyConfig
	Metrics MetricsConfig
	Log     LogConfig
	Auth    AuthConfig
}

type ServerConfig struct {
	Port string
}

// StoreConfig is everything needed to build the object store client
type StoreConfig struct {
	Backend      string
	Endpoint     string
	UseSSL       bool
	UseSSLSet    bool
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Bucket       string
}

type LinkConfig struct {
	TTL time.Duration
}

type PolicyConfig struct {
	GatedTiers string
}

type MetricsConfig struct {
	Enabled bool
}

type LogConfig struct {
	Level string
}

// AuthConfig lists the API tokens callers may present. Empty disables auth.
type AuthConfig struct {
	Tokens []string
}

// Load reads .env (if present) and the environment, applies defaults and validates.
// A non-nil error means the process must not start.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Store: StoreConfig{
			Backend:      strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
			Endpoint:     strings.TrimSpace(v.GetString("STORE_ENDPOINT")),
			UseSSL:       v.GetBool("STORE_USE_SSL"),
			UseSSLSet:    v.IsSet("STORE_USE_SSL"),
			Region:       strings.TrimSpace(v.GetString("AWS_REGION")),
			AccessKey:    v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:    v.GetString("AWS_SECRET_ACCESS_KEY"),
			SessionToken: v.GetString("AWS_SESSION_TOKEN"),
			Bucket:       strings.TrimSpace(v.GetString("S3_BUCKET")),
		},
		Link: LinkConfig{
			TTL: time.Duration(v.GetInt("LINK_TTL_SECONDS")) * time.Second,
		},
		Policy: PolicyConfig{
			GatedTiers: v.GetString("POLICY_GATED_TIERS"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			Tokens: splitList(v.GetString("API_TOKENS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendS3)
	v.SetDefault("LINK_TTL_SECONDS", 60)
	v.SetDefault("POLICY_GATED_TIERS", "GLACIER")
	v.SetDefault("METRICS_ENABLED", true)
}

// Validate checks that every required setting is present
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendS3:
		if c.Store.Region == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the s3 backend"))
		}
	case BackendMinio:
		if c.Store.Endpoint == "" {
			errs = append(errs, errors.New("STORE_ENDPOINT is required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_BACKEND %q (want %s or %s)", c.Store.Backend, BackendS3, BackendMinio))
	}

	if c.Store.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required"))
	}
	if c.Store.AccessKey == "" || c.Store.SecretKey == "" {
		errs = append(errs, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required"))
	}
	if c.Link.TTL < MinLinkTTL || c.Link.TTL > MaxLinkTTL {
		errs = append(errs, fmt.Errorf("LINK_TTL_SECONDS must be between %d and %d", int(MinLinkTTL.Seconds()), int(MaxLinkTTL.Seconds())))
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("SERVER_PORT must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Server.Port, ":")
}
