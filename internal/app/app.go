package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"backoffice-api/internal/adapters/auth/jwtauth"
	"backoffice-api/internal/adapters/auth/static"
	mem "backoffice-api/internal/adapters/storage/memory"
	pg "backoffice-api/internal/adapters/storage/postgres"
	"backoffice-api/internal/config"
	"backoffice-api/internal/domain/clients"
	"backoffice-api/internal/domain/reminders"
	"backoffice-api/internal/domain/webhooks"
	"backoffice-api/internal/notifier"
	"backoffice-api/internal/platform/httpclient"
	"backoffice-api/internal/platform/logger"
	"backoffice-api/internal/ports/auth"
	"backoffice-api/internal/scheduler"
)

// App agrupa las dependencias ya cableadas. La arma Build a partir de la config.
type App struct {
	Config config.Config
	Log    logger.Logger

	DB *sql.DB // nil => repos in-memory

	Clients   *clients.Service
	Reminders *reminders.Service
	Processor *reminders.Processor
	Webhooks  *webhooks.Service
	Notifier  *notifier.Service

	// AuthVerifier nil => modo dev (X-Debug-User-ID).
	AuthVerifier auth.AuthVerifier
	// TriggerVerifier nil => POST /lembretes/webhook abierto.
	TriggerVerifier auth.AuthVerifier

	// Scheduler nil => sin disparo in-process.
	Scheduler *scheduler.Scheduler
}

func Build(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{Config: cfg, Log: log}

	var (
		clientRepo   clients.Repository
		reminderRepo reminders.Repository
		webhookRepo  webhooks.Repository
	)

	if dsn := cfg.Database.DSN; dsn != "" {
		db, err := pg.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.DB = db
		clientRepo = pg.NewClientsRepo(db)
		reminderRepo = pg.NewRemindersRepo(db)
		webhookRepo = pg.NewWebhooksRepo(db)
		log.Info("storage: postgres", nil)
	} else {
		clientRepo = mem.NewClientRepo()
		reminderRepo = mem.NewReminderRepo()
		webhookRepo = mem.NewWebhookRepo()
		log.Warn("storage: in-memory (DB_DSN not set)", nil)
	}

	a.Clients = clients.NewService(clientRepo)
	a.Reminders = reminders.NewService(reminderRepo, a.Clients)
	a.Webhooks = webhooks.NewService(webhookRepo)

	a.Notifier = notifier.New(a.Webhooks, notifier.Options{
		DefaultURL:    cfg.Webhooks.DefaultURL,
		SignatureMode: cfg.Webhooks.SignatureMode,
		Timeout:       cfg.Webhooks.Timeout,
		RatePerSec:    cfg.Webhooks.RatePerSec,
		Client:        httpclient.New(cfg.Webhooks.Timeout),
		Log:           log.With(map[string]any{"component": "notifier"}),
	})
	a.Processor = reminders.NewProcessor(reminderRepo, a.Notifier, log.With(map[string]any{"component": "processor"}))

	if secret := cfg.Auth.JWTSecret; secret != "" {
		a.AuthVerifier = jwtauth.NewVerifier(secret)
	} else {
		log.Warn("auth: dev mode (JWT_SECRET not set)", nil)
	}
	// Evita un interface no-nil con puntero nil.
	if v := static.NewVerifier(cfg.Auth.ProcessToken, "scheduler"); v != nil {
		a.TriggerVerifier = v
	}

	s, err := scheduler.New(cfg.Scheduler, a.RunPass, log)
	switch {
	case errors.Is(err, scheduler.ErrDisabled):
	case err != nil:
		a.Close()
		return nil, err
	default:
		a.Scheduler = s
	}

	return a, nil
}

// RunPass adapta Processor.Run al Job del scheduler.
func (a *App) RunPass(ctx context.Context) error {
	_, err := a.Processor.Run(ctx)
	return err
}

func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
