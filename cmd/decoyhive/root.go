package main

import (
	"log/slog"
	"os"

	"github.com/decoyhive/decoyhive/pkg/store"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	quiet    bool
	dbDriver string
	dbDSN    string
)

var rootCmd = &cobra.Command{
	Use:   "decoyhive",
	Short: "DecoyHive - decoy content generation and honeytoken tracking",
	Long: `DecoyHive generates realistic decoy artifacts (source files, configs,
logs, documents, honeytokens) for honeypot environments and tracks
issued honeytokens so their later use can be detected.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "sqlite", "Database driver: sqlite, postgres")
	rootCmd.PersistentFlags().StringVar(&dbDSN, "db", defaultDSN(), "Database path or connection string")

	// Add subcommands
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(populateCmd)
	rootCmd.AddCommand(probeAWSCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultDSN() string {
	if v := os.Getenv("DECOYHIVE_DB"); v != "" {
		return v
	}
	return "decoyhive.db"
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(logger *slog.Logger) (store.Store, error) {
	return store.New(store.Config{
		Driver: dbDriver,
		DSN:    dbDSN,
		Logger: logger,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
