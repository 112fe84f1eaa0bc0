package router

import (
	"net/http"

	_ "backoffice-api/docs"
	"backoffice-api/internal/app"
	"backoffice-api/internal/domain/clients"
	"backoffice-api/internal/domain/reminders"
	"backoffice-api/internal/domain/webhooks"
	"backoffice-api/internal/middleware"
	"backoffice-api/internal/platform/logger"
	"backoffice-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Log logger.Logger

	AuthVerifier    auth.AuthVerifier // puede ser nil (modo dev)
	TriggerVerifier auth.AuthVerifier // nil => /lembretes/webhook abierto

	Clients   *clients.Service
	Reminders *reminders.Service
	Processor *reminders.Processor
	Webhooks  *webhooks.Service
	Pinger    webhooks.Pinger
}

// FromApp arma Options a partir de las dependencias ya cableadas.
func FromApp(a *app.App) Options {
	return Options{
		Log:             a.Log,
		AuthVerifier:    a.AuthVerifier,
		TriggerVerifier: a.TriggerVerifier,
		Clients:         a.Clients,
		Reminders:       a.Reminders,
		Processor:       a.Processor,
		Webhooks:        a.Webhooks,
		Pinger:          a.Notifier,
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.AccessLog(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	clients.RegisterRoutes(r, opts.Clients)
	reminders.RegisterRoutes(r, opts.Reminders, opts.Processor, opts.TriggerVerifier)
	webhooks.RegisterRoutes(r, opts.Webhooks, opts.Pinger)

	return r
}
