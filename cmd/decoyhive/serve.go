package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/decoyhive/decoyhive/pkg/serve"
	"github.com/decoyhive/decoyhive/pkg/token"
	"github.com/decoyhive/decoyhive/pkg/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run DecoyHive as a long-lived server that accepts validate and
honeytoken requests via stdin and writes responses to stdout using
NDJSON format.

The process opens the store once at startup and handles requests until
stdin closes, a close request arrives, or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	st, err := openStore(logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	suite, err := validator.NewSuite()
	if err != nil {
		return fmt.Errorf("initializing validators: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.NewServer(suite, token.NewGenerator(suite), st, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
