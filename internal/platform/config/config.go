package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	s "github.com/martirspe/complaints-book-pro/pkg/string"
)

// EnvPrefix scopes environment overrides, e.g. CLAIMS_BACKEND_URL.
const EnvPrefix = "CLAIMS"

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration
	TrustedProxies []string
	AllowedOrigins []string
}

// Backend configures the outbound client for the claims backend API.
type Backend struct {
	URL             string
	Timeout         time.Duration
	RateLimit       float64 // requests per second, shared by all sessions
	RateBurst       int
	CatalogCacheTTL time.Duration
	// Live person lookups pause after BreakerThreshold consecutive failures
	// and probe the backend again after BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Form configures the claim-form engine.
type Form struct {
	SessionTTL       time.Duration
	LookupDebounce   time.Duration
	LocationDebounce time.Duration
	CallingDebounce  time.Duration
}

// Verification configures the human-verification token source.
// With IssuerURL empty the browser-supplied token is used as is.
type Verification struct {
	IssuerURL string
	SecretKey string
	Timeout   time.Duration
}

// Tracing configures OTLP span export. An empty endpoint disables tracing.
type Tracing struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
	SampleRatio float64
}

type Config struct {
	Server       Server
	Backend      Backend
	Form         Form
	Verification Verification
	Tracing      Tracing
}

// Load reads configuration from the optional YAML file and CLAIMS_* environment variables.
// Environment wins over the file; defaults fill the rest.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := Config{
		Server: Server{
			Addr:           v.GetString("server.addr"),
			Environment:    v.GetString("server.environment"),
			LogLevel:       v.GetString("server.log_level"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
			TrustedProxies: s.DedupeAndTrim(v.GetStringSlice("server.trusted_proxies")),
			AllowedOrigins: s.DedupeAndTrim(v.GetStringSlice("server.allowed_origins")),
		},
		Backend: Backend{
			URL:              strings.TrimRight(v.GetString("backend.url"), "/"),
			Timeout:          v.GetDuration("backend.timeout"),
			RateLimit:        v.GetFloat64("backend.rate_limit"),
			RateBurst:        v.GetInt("backend.rate_burst"),
			CatalogCacheTTL:  v.GetDuration("backend.catalog_cache_ttl"),
			BreakerThreshold: v.GetInt("backend.breaker_threshold"),
			BreakerCooldown:  v.GetDuration("backend.breaker_cooldown"),
		},
		Form: Form{
			SessionTTL:       v.GetDuration("form.session_ttl"),
			LookupDebounce:   v.GetDuration("form.lookup_debounce"),
			LocationDebounce: v.GetDuration("form.location_debounce"),
			CallingDebounce:  v.GetDuration("form.calling_debounce"),
		},
		Verification: Verification{
			IssuerURL: strings.TrimRight(v.GetString("verification.issuer_url"), "/"),
			SecretKey: v.GetString("verification.secret_key"),
			Timeout:   v.GetDuration("verification.timeout"),
		},
		Tracing: Tracing{
			Endpoint:    v.GetString("tracing.endpoint"),
			Insecure:    v.GetBool("tracing.insecure"),
			ServiceName: v.GetString("tracing.service_name"),
			SampleRatio: v.GetFloat64("tracing.sample_ratio"),
		},
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("backend.url", "http://localhost:3000")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("backend.rate_limit", 20.0)
	v.SetDefault("backend.rate_burst", 40)
	v.SetDefault("backend.catalog_cache_ttl", 10*time.Minute)
	v.SetDefault("backend.breaker_threshold", 5)
	v.SetDefault("backend.breaker_cooldown", 30*time.Second)

	v.SetDefault("form.session_ttl", 30*time.Minute)
	v.SetDefault("form.lookup_debounce", 600*time.Millisecond)
	v.SetDefault("form.location_debounce", 400*time.Millisecond)
	v.SetDefault("form.calling_debounce", 200*time.Millisecond)

	v.SetDefault("verification.issuer_url", "")
	v.SetDefault("verification.secret_key", "")
	v.SetDefault("verification.timeout", 5*time.Second)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.service_name", "complaints-book")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("backend.url is required"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}
	if c.Backend.RateLimit <= 0 || c.Backend.RateBurst <= 0 {
		errs = append(errs, errors.New("backend.rate_limit and backend.rate_burst must be positive"))
	}
	if c.Backend.BreakerThreshold <= 0 || c.Backend.BreakerCooldown <= 0 {
		errs = append(errs, errors.New("backend.breaker_threshold and backend.breaker_cooldown must be positive"))
	}
	if c.Form.SessionTTL <= 0 {
		errs = append(errs, errors.New("form.session_ttl must be positive"))
	}
	if c.Server.RequestTimeout > 0 && c.Server.RequestTimeout <= c.Backend.Timeout {
		errs = append(errs, errors.New("server.request_timeout must exceed backend.timeout"))
	}
	if c.Verification.IssuerURL != "" && c.Verification.SecretKey == "" {
		errs = append(errs, errors.New("verification.secret_key is required with an issuer"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("tracing.sample_ratio must be between 0 and 1"))
	}
	return errors.Join(errs...)
}
