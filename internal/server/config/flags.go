package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/socialmedia/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-t int      storage call timeout, seconds
//	-s int      shutdown grace period, seconds
//	-l string   log level
//	-L string   log backend (slog|zap)
//	-R bool     refresh time_posted_epoch on text update
//
// Duration flags are whole seconds and are applied only when given.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgsWithBools(os.Args[1:], []string{"-a", "-g", "-d", "-t", "-s", "-l", "-L", "-R"}, []string{"-R"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	storageTimeout := fs.Int("t", int(config.StorageTimeout.Seconds()), "storage call timeout (in seconds)")
	shutdownTimeout := fs.Int("s", int(config.ShutdownTimeout.Seconds()), "shutdown timeout (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogBackend, "L", config.LogBackend, "log backend (slog, zap)")
	fs.BoolVar(&config.RefreshTimeOnUpdate, "R", config.RefreshTimeOnUpdate, "refresh time_posted_epoch when a message text is updated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// explicit flags only
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.StorageTimeout = time.Duration(*storageTimeout) * time.Second
		case "s":
			config.ShutdownTimeout = time.Duration(*shutdownTimeout) * time.Second
		}
	})
}
