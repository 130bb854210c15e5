package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"productsvc/internal/config"
	"productsvc/internal/logger"
)

// ExitDatabaseUnavailable is the exit status when the store cannot be reached
// at startup.
const ExitDatabaseUnavailable = 4

var envFile string

// NewRootCommand builds the product-service command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "product-service",
		Short:         "Product REST API service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP service",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "initdb",
			Short: "Create the products table and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runInitDB(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "events",
			Short: "Tail the product event queue",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEvents(cmd.Context())
			},
		},
	)
	return rootCmd
}

// Execute runs the command line until SIGINT or SIGTERM.
func Execute() {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and the process logger shared by every command.
func setup(process string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed loading config: %w", err)
	}

	l := logger.New(cfg.Log).With().Str(logger.KeyProcess, process).Logger()
	l.Debug().Str(logger.KeyTag, "cmd setup").Interface(logger.KeyConfig, cfg).Msg("loaded config")
	return cfg, l, nil
}
