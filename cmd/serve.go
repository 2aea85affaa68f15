package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/drubhattacharya/budget-simulator/internal/logging"
	"github.com/drubhattacharya/budget-simulator/internal/server"
	"github.com/drubhattacharya/budget-simulator/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagServeAddr      string
	flagServeLogLevel  string
	flagServeNoHistory bool
	flagServeBuffer    int
	flagServeGrace     time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection engine over an HTTP JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().StringVar(&flagServeLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().BoolVar(&flagServeNoHistory, "no-history", false, "Do not attach the scenario history database")
	serveCmd.Flags().IntVar(&flagServeBuffer, "recent-buffer", 50, "Projections kept for /v1/status")
	serveCmd.Flags().DurationVar(&flagServeGrace, "shutdown-grace", 5*time.Second, "Time allowed for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, defaults, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	level := cfg.Server.LogLevel
	if flagServeLogLevel != "" {
		level = flagServeLogLevel
	}

	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcCfg := server.Config{
		Addr:          addr,
		Defaults:      defaults,
		RecentBuffer:  flagServeBuffer,
		Logger:        logger,
		ShutdownGrace: flagServeGrace,
	}

	if cfg.History.Enabled && !flagServeNoHistory {
		st, err := store.Open(ctx, cfg.HistoryPath())
		if err != nil {
			logger.Warn("history unavailable, serving without it",
				zap.String("path", cfg.HistoryPath()), zap.Error(err))
		} else {
			defer st.Close()
			svcCfg.Store = st
			logger.Info("history attached", zap.String("path", cfg.HistoryPath()))
		}
	}

	return server.New(svcCfg).Run(ctx)
}
