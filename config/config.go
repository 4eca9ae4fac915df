package config

import (
	"log/slog"
	"net"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type ThresholdConfig struct {
	ErrorRate    float64 `mapstructure:"error_rate"`
	LatencyP95Ms float64 `mapstructure:"latency_p95_ms"`
	LatencyP99Ms float64 `mapstructure:"latency_p99_ms"`
}

type MetricsConfig struct {
	LatencyCapacity int             `mapstructure:"latency_capacity"`
	WindowCapacity  int             `mapstructure:"window_capacity"`
	AlertCapacity   int             `mapstructure:"alert_capacity"`
	Thresholds      ThresholdConfig `mapstructure:"thresholds"`
}

// BreakerConfig declares one protected operation. Preset picks the default
// thresholds; any explicitly set field overrides the preset.
type BreakerConfig struct {
	Name             string `mapstructure:"name"`
	Preset           string `mapstructure:"preset"`
	FailureThreshold int    `mapstructure:"failure_threshold"`
	SuccessThreshold int    `mapstructure:"success_threshold"`
	ResetTimeout     string `mapstructure:"reset_timeout"`
	OperationTimeout string `mapstructure:"operation_timeout"`
}

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Breakers []BreakerConfig `mapstructure:"breakers"`
}

func Load() (*Config, error) {
	viper.SetDefault("server.environment", EnvDev)
	viper.SetDefault("server.address", ":9090")
	viper.SetDefault("logging.level", LogLevelInfo)
	viper.SetDefault("metrics.latency_capacity", 1000)
	viper.SetDefault("metrics.window_capacity", 1000)
	viper.SetDefault("metrics.alert_capacity", 100)
	viper.SetDefault("metrics.thresholds.error_rate", 10)
	viper.SetDefault("metrics.thresholds.latency_p95_ms", 5000)
	viper.SetDefault("metrics.thresholds.latency_p99_ms", 10000)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Metrics,
			validation.By(func(value interface{}) error {
				mc, ok := value.(MetricsConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a MetricsConfig")
				}
				return validation.ValidateStruct(&mc,
					validation.Field(&mc.LatencyCapacity, validation.Min(1)),
					validation.Field(&mc.WindowCapacity, validation.Min(1)),
					validation.Field(&mc.AlertCapacity, validation.Min(1)),
					validation.Field(&mc.Thresholds, validation.By(validateThresholds)),
				)
			}),
		),
		validation.Field(&c.Breakers,
			validation.Each(validation.By(validateBreakerConfig)),
		),
	)
}

func validateThresholds(value interface{}) error {
	tc, ok := value.(ThresholdConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ThresholdConfig")
	}
	return validation.ValidateStruct(&tc,
		validation.Field(&tc.ErrorRate, validation.Min(float64(0)), validation.Max(float64(100))),
		validation.Field(&tc.LatencyP95Ms, validation.Min(float64(0))),
		validation.Field(&tc.LatencyP99Ms, validation.Min(float64(0))),
	)
}

func validateBreakerConfig(value interface{}) error {
	bc, ok := value.(BreakerConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a BreakerConfig")
	}
	return validation.ValidateStruct(&bc,
		validation.Field(&bc.Name, validation.Required),
		validation.Field(&bc.Preset, validation.In("http", "upload", "database")),
		validation.Field(&bc.FailureThreshold, validation.Min(0)),
		validation.Field(&bc.SuccessThreshold, validation.Min(0)),
		validation.Field(&bc.ResetTimeout, validation.By(validateOptionalDuration)),
		validation.Field(&bc.OperationTimeout, validation.By(validateOptionalDuration)),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateOptionalDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if durationStr == "" {
		return nil
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 2s, 5m, 1h)")
	}

	return nil
}
