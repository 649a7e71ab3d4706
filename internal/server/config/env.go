package config

import (
	"fmt"
	"strconv"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables understood by the server. All
// fields are read as strings so that an unset variable can be told apart from
// an explicit zero value.
type EnvConfig struct {
	HTTPAddr            string `env:"SOCIAL_HTTP_ADDR"`
	GRPCHealthAddr      string `env:"SOCIAL_GRPC_HEALTH_ADDR"`
	DatabaseDSN         string `env:"SOCIAL_DATABASE_DSN"`
	StorageTimeout      string `env:"SOCIAL_STORAGE_TIMEOUT"`
	ShutdownTimeout     string `env:"SOCIAL_SHUTDOWN_TIMEOUT"`
	LogLevel            string `env:"SOCIAL_LOG_LEVEL"`
	LogBackend          string `env:"SOCIAL_LOG_BACKEND"`
	RefreshTimeOnUpdate string `env:"SOCIAL_REFRESH_TIME_ON_UPDATE"`
	MaxOpenConns        string `env:"SOCIAL_MAX_OPEN_CONNS"`
	MaxIdleConns        string `env:"SOCIAL_MAX_IDLE_CONNS"`
}

// dotEnvFile is loaded, when present, before the environment is read.
// Variables already set in the process environment take precedence.
var dotEnvFile = ".env"

// parseEnv overlays SOCIAL_* environment variables onto config and panics on
// values that cannot be parsed.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotEnvFile)

	var e EnvConfig
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		panic(fmt.Errorf("env config error: %w", err))
	}

	if err := applyEnv(config, &e); err != nil {
		panic(err)
	}
}

func applyEnv(config *Config, e *EnvConfig) error {
	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.GRPCHealthAddr, e.GRPCHealthAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.LogBackend, e.LogBackend)

	if err := setDuration(&config.StorageTimeout, "SOCIAL_STORAGE_TIMEOUT", e.StorageTimeout); err != nil {
		return err
	}
	if err := setDuration(&config.ShutdownTimeout, "SOCIAL_SHUTDOWN_TIMEOUT", e.ShutdownTimeout); err != nil {
		return err
	}
	if e.RefreshTimeOnUpdate != "" {
		v, err := strconv.ParseBool(e.RefreshTimeOnUpdate)
		if err != nil {
			return fmt.Errorf("SOCIAL_REFRESH_TIME_ON_UPDATE: %w", err)
		}
		config.RefreshTimeOnUpdate = v
	}
	if err := setInt(&config.MaxOpenConns, "SOCIAL_MAX_OPEN_CONNS", e.MaxOpenConns); err != nil {
		return err
	}
	return setInt(&config.MaxIdleConns, "SOCIAL_MAX_IDLE_CONNS", e.MaxIdleConns)
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, name, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}
