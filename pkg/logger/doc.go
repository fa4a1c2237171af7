// Package logger provides structured logging for the box art downloader.
//
// It wraps zerolog behind a small interface with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - Optional file output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{Level: "info"}
//	err := logger.Initialize(cfg)
//
//	logger.Info("run started")
//	logger.WithField("name", "contra").Info("image saved")
//	logger.WithError(err).Error("fetch failed")
package logger
