package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stubd/stubd/pkg/config"
	"github.com/stubd/stubd/pkg/engine"
	"github.com/stubd/stubd/pkg/logging"
)

// serveFlags holds all flags for the root serve command.
type serveFlags struct {
	configPath      string
	host            string
	port            int
	printURL        bool
	logLevel        string
	logFormat       string
	shutdownTimeout time.Duration
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

func init() {
	f := &serveFlagVals

	addFileFlag(rootCmd, &f.configPath)
	rootCmd.Flags().StringVar(&f.host, "host", config.DefaultHost, "Bind address (overrides the config)")
	rootCmd.Flags().IntVarP(&f.port, "port", "p", config.DefaultPort, "TCP port, 0 = OS auto-assign (overrides the config)")
	rootCmd.Flags().BoolVar(&f.printURL, "print-url", false, "Print the server URL to stdout on startup")
	rootCmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: config log_level)")
	rootCmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format: text, json (default: config log_format)")
	rootCmd.Flags().DurationVar(&f.shutdownTimeout, "shutdown-timeout", 5*time.Second, "How long to wait for in-flight requests on shutdown")
}

func runServe(cmd *cobra.Command, _ []string) error {
	f := &serveFlagVals

	path := configPath(f.configPath)
	if f.configPath == "" {
		written, err := ensureDefaultConfig(path)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s not found, wrote a default config to it. Edit it and run stubd again.\n", path)
			return nil
		}
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, f, cfg)

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	for _, w := range cfg.Check().Warnings {
		log.Warn("config warning", "field", w.Field, "message", w.Message)
	}

	srv := engine.NewServer(cfg, engine.WithLogger(log.With("component", "engine")))
	if err := srv.Start(); err != nil {
		if isAddrInUseError(err) {
			return fmt.Errorf("port %d is already in use, try --port 0 for auto-assign", cfg.Port)
		}
		return fmt.Errorf("failed to start server: %w", err)
	}

	if f.printURL {
		fmt.Fprintln(cmd.OutOrStdout(), srv.URL())
	}
	log.Info("stubd started",
		"addr", srv.Addr().String(),
		"routes", srv.Handler().RouteCount(),
		"config", path,
		"configHash", computeConfigHash(cfg),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.Background(), f.shutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ensureDefaultConfig writes the starter config to path if nothing exists
// there yet, and reports whether it did.
func ensureDefaultConfig(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := config.WriteDefault(path); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}

// applyServeFlags lets explicitly set flags override the loaded config.
func applyServeFlags(cmd *cobra.Command, f *serveFlags, cfg *config.ServerConfig) {
	if cmd.Flags().Changed("host") {
		cfg.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
}

func newLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	lc, err := logging.FromStrings(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	lc.Output = os.Stderr
	return logging.New(lc), nil
}
