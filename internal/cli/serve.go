package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/A2B-Technology-Corporation/SlicerTools/internal/config"
	"github.com/A2B-Technology-Corporation/SlicerTools/internal/logger"
	"github.com/A2B-Technology-Corporation/SlicerTools/internal/metrics"
	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/gateway"
	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/slicerrpc"
	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/slicertools"
	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/toolexecutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Slicer and serve the tool gateway",
	Long: `Connect to the Slicer bridge, register the scene tools and serve
them to an orchestrator over the JSON-RPC gateway until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logging
	appLogger, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.NewMetrics()
	}

	// Connect to the Slicer bridge
	dialCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Slicer.HandshakeTimeout)*time.Second)
	defer cancel()

	bridge, err := slicerrpc.Dial(dialCtx, slicerrpc.Config{
		URL:              cfg.Slicer.URL,
		HandshakeTimeout: time.Duration(cfg.Slicer.HandshakeTimeout) * time.Second,
		Logger:           appLogger.GetZerolog(),
		Metrics:          appMetrics,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Slicer bridge: %w", err)
	}
	defer bridge.Close()

	// Build the tool executor and register the Slicer tools
	executor := toolexecutor.New()
	slicer := slicertools.New(bridge, appLogger.GetZerolog())
	if err := slicertools.RegisterSlicerTools(executor, slicer); err != nil {
		return fmt.Errorf("failed to register Slicer tools: %w", err)
	}

	// Start the gateway
	server, err := gateway.NewServer(gateway.Config{
		Host:           cfg.Gateway.Host,
		Port:           cfg.Gateway.Port,
		SharedSecret:   cfg.Gateway.SharedSecret,
		IdempotencyTTL: time.Duration(cfg.Gateway.IdempotencyTTL) * time.Second,
		Executor:       executor,
		Metrics:        appMetrics,
		Logger:         appLogger.GetZerolog(),
	})
	if err != nil {
		return fmt.Errorf("failed to create gateway server: %w", err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start gateway server: %w", err)
	}

	appLogger.Info().
		Int("tools", executor.GetToolCount()).
		Str("bridge", cfg.Slicer.URL).
		Msg("SlicerTools serving")

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return server.Stop()
}
