package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/socialmedia/internal/flagx"
	"github.com/dmitrijs2005/socialmedia/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// both strings such as "5s" and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr            string         `json:"http_addr"`
	GRPCHealthAddr      string         `json:"grpc_health_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	StorageTimeout      timex.Duration `json:"storage_timeout"`
	ShutdownTimeout     timex.Duration `json:"shutdown_timeout"`
	LogLevel            string         `json:"log_level"`
	LogBackend          string         `json:"log_backend"`
	RefreshTimeOnUpdate *bool          `json:"refresh_time_on_update"`
	MaxOpenConns        int            `json:"max_open_conns"`
	MaxIdleConns        int            `json:"max_idle_conns"`
}

// parseJson overlays the file named by -c/-config onto config. Only keys
// present in the file with a non-zero value are applied. A missing or
// malformed file panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogBackend, c.LogBackend)

	if c.StorageTimeout.Duration != 0 {
		config.StorageTimeout = c.StorageTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.RefreshTimeOnUpdate != nil {
		config.RefreshTimeOnUpdate = *c.RefreshTimeOnUpdate
	}
	if c.MaxOpenConns != 0 {
		config.MaxOpenConns = c.MaxOpenConns
	}
	if c.MaxIdleConns != 0 {
		config.MaxIdleConns = c.MaxIdleConns
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
