// Command qna-server serves the question and answer API.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/and161185/qna/internal/config"
	"github.com/and161185/qna/internal/migrate"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "qna-server",
	Short:        "Question and answer API server",
	Version:      version + " (" + buildDate + ")",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		logger, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		logger.Info("starting",
			zap.String("version", version),
			zap.String("buildDate", buildDate),
			zap.String("addr", cfg.Server.Addr),
			zap.String("database", cfg.Database.Type),
			zap.String("censor", cfg.Censor.Mode),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("init", zap.Error(err))
		}
		defer a.Close()

		return serve(ctx, cfg.Server, a.handler, logger)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|version]",
	Short: "Apply or roll back database migrations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Database.Type != config.DatabasePostgres {
			return fmt.Errorf("migrations need database.type = %q", config.DatabasePostgres)
		}
		ctx := cmd.Context()

		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		switch action {
		case "up":
			err = migrate.Up(ctx, cfg.Database.DSN)
		case "down":
			err = migrate.Down(ctx, cfg.Database.DSN)
		case "version":
			var v int64
			if v, err = migrate.Version(ctx, cfg.Database.DSN); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
			}
		default:
			return fmt.Errorf("unknown migrate action %q", action)
		}
		if err != nil {
			return fmt.Errorf("migrate %s: %w", action, err)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Write(cmd.OutOrStdout(), config.Default())
	},
}

// loadConfig reads --config and applies environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to TOML config (defaults + env when empty)")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address, overrides server.addr")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)

}
