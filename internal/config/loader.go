package config

import (
	"context"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// Loader reads configuration from file and environment and can watch the file for changes.
type Loader struct {
	v      *viper.Viper
	log    logger.Logger
	mu     sync.Mutex
	loaded bool
}

// NewLoader creates a loader. configFile overrides the default search paths when set.
func NewLoader(log logger.Logger, configFile string) *Loader {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	v := viper.New()
	setDefaults(v)

	// Load from config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/sentinel/")
		v.AddConfigPath(".")
	}

	// Load from environment variables
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The credential keeps the names the dashboard used; first one set wins
	_ = v.BindEnv("genai.api_key", "SENTINEL_GENAI_API_KEY", "API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY")

	return &Loader{v: v, log: log}
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(log logger.Logger) (*Config, error) {
	return NewLoader(log, "").Load()
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInvalidConfig("failed to read config file").WithCause(err)
		}
		l.log.Debug(context.Background(), "No config file found, using defaults and environment")
	}
	l.loaded = true
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInvalidConfig("failed to unmarshal config").WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WatchConfig re-reads the config file on change and hands the new, validated config
// to onChange. Invalid edits are logged and ignored. It is a no-op without a config file.
func (l *Loader) WatchConfig(onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		l.mu.Lock()
		cfg, err := l.decode()
		l.mu.Unlock()
		if err != nil {
			l.log.Error(context.Background(), "Ignoring invalid config change", err, logger.String("file", e.Name))
			return
		}
		l.log.Info(context.Background(), "Config file changed", logger.String("file", e.Name), logger.String("op", e.Op.String()))
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("genai.provider", string(constants.ProviderGemini))
	v.SetDefault("genai.api_key", "")
	v.SetDefault("genai.model", "")
	v.SetDefault("genai.base_url", "")
	v.SetDefault("genai.timeout", constants.DefaultBackendTimeout.String())
	v.SetDefault("genai.max_concurrency", constants.DefaultMaxConcurrency)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", string(constants.RateLimitBackendMemory))
	v.SetDefault("rate_limit.requests_per_minute", constants.DefaultRateLimitPerMinute)
	v.SetDefault("rate_limit.burst", constants.DefaultRateLimitBurst)

	v.SetDefault("log.level", string(constants.LogLevelInfo))
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "stdout")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.sampling_rate", 1.0)

	v.SetDefault("feed.path", "")
}
