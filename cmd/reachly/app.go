package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/reachly/reachly/internal/activitylog"
	"github.com/reachly/reachly/internal/campaign"
	"github.com/reachly/reachly/internal/config"
	"github.com/reachly/reachly/internal/deliver"
	"github.com/reachly/reachly/internal/directory"
	"github.com/reachly/reachly/internal/generate"
)

// app bundles everything a command needs after bootstrap.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *directory.Store
	log        *activitylog.BoltLog
	controller *campaign.Controller
}

func (a *app) Close() {
	if a.log != nil {
		a.log.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	store, err := directory.Open(cfg.Storage.ContactsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open contact directory: %w", err)
	}

	log, err := activitylog.NewBoltLog(cfg.Storage.ActivityLogPath)
	if err != nil {
		store.Close()
		return nil, err
	}

	deliverer, err := newDeliverer(cfg, logger)
	if err != nil {
		log.Close()
		store.Close()
		return nil, err
	}

	controller := campaign.NewController(campaign.Options{
		Log:      log,
		Contacts: store,
		Generator: generate.NewClient(
			cfg.Generation.BaseURL,
			cfg.Generation.APIKey,
			cfg.Generation.Model,
			cfg.Generation.Timeout,
		),
		Deliverer: deliverer,
		Drafts:    store,
		Sender:    cfg.Sender,
		Logger:    logger,
	})

	return &app{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		log:        log,
		controller: controller,
	}, nil
}

func newDeliverer(cfg *config.Config, logger *slog.Logger) (*deliver.SMTPDeliverer, error) {
	opts := deliver.Options{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.Sender.Name,
		FromEmail: cfg.Sender.Email,
		Timeout:   cfg.SMTP.Timeout,
	}

	if cfg.SMTP.DKIM.KeyFile != "" {
		signer, err := deliver.NewSignerFromFile(cfg.SMTP.DKIM.KeyFile, cfg.SMTP.DKIM.Domain, cfg.SMTP.DKIM.Selector)
		if err != nil {
			return nil, err
		}
		opts.Signer = signer
	}

	return deliver.New(opts, logger), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
