// Package main is the entry point for the portfolio server.
//
// The main package is kept minimal. Its job is to:
//  1. Read configuration (environment, optionally a .env file)
//  2. Create dependencies (logger, mailer)
//  3. Start the application and stop it on SIGINT/SIGTERM
//
// All actual logic lives in internal/server and the packages it wires.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sakif/portfolio/internal/config"
	"github.com/sakif/portfolio/internal/mail"
	"github.com/sakif/portfolio/internal/server"
	"github.com/sakif/portfolio/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === LOGGING ===
	// Text logs to stdout; LOG_FILE adds a size-rotated copy on disk.
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		defer rotating.Close()
		out = io.MultiWriter(os.Stdout, rotating)
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// "data/portfolio.db" needs its directory; ":memory:" needs nothing
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return err
		}
	}

	var mailer service.Mailer = mail.Unconfigured{}
	if cfg.MailEnabled() {
		smtp, err := mail.NewSMTPMailer(mail.Config{
			Host:      cfg.Email.Host,
			Port:      cfg.Email.Port,
			Secure:    cfg.Email.Secure,
			Username:  cfg.Email.User,
			Password:  cfg.Email.Password,
			From:      cfg.Email.From,
			Recipient: cfg.Email.Recipient,
			Timeout:   cfg.Email.Timeout,
		})
		if err != nil {
			return err
		}
		mailer = smtp
	} else {
		logger.Warn("EMAIL_USER not set: the contact form will report delivery failures")
	}

	srv, err := server.New(cfg, logger, server.Deps{Mailer: mailer})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
