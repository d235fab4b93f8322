// Package logging provides structured logging configuration for stubd.
//
// This package wraps log/slog so every stubd component logs the same way.
// The CLI builds one logger from flags (or the config file's log_level) and
// hands it to the engine; nothing below the CLI reads the environment.
//
// # Usage
//
//	cfg, err := logging.FromStrings("debug", "json")
//	if err != nil {
//	    return err
//	}
//	logger := logging.New(cfg)
//
//	logger.Info("stub server listening", "addr", "127.0.0.1:8080")
//
// # Integration
//
// Components accept a *slog.Logger through an option or setter. When none is
// given they fall back to logging.Nop().
package logging
