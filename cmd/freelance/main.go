package main

import (
	"fmt"
	"os"

	"freelance-job-board/app"
	"freelance-job-board/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var configPath string
	rootCmd := &cobra.Command{
		Use:          "freelance",
		Short:        "Freelance job board engagement API",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing app.env")

	rootCmd.AddCommand(serveCmd(&configPath), migrateCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}

			logger, err := app.NewLogger(&cfg, os.Stdout)
			if err != nil {
				return err
			}

			return app.Run(&cfg, logger)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}

	for _, direction := range []struct {
		use   string
		short string
		up    bool
	}{
		{"up", "Apply all pending migrations", true},
		{"down", "Revert all migrations", false},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   direction.use,
			Short: direction.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadConfig(*configPath)
				if err != nil {
					return fmt.Errorf("cannot load config: %w", err)
				}
				if cfg.Storage != config.StoragePostgres {
					return fmt.Errorf("migrations need STORAGE=%s", config.StoragePostgres)
				}

				logger, err := app.NewLogger(&cfg, os.Stdout)
				if err != nil {
					return err
				}

				return app.Migrate(&cfg, logger, direction.up)
			},
		})
	}

	return cmd
}
