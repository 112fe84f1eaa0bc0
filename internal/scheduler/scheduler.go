package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"backoffice-api/internal/config"
	"backoffice-api/internal/platform/logger"

	"github.com/robfig/cron/v3"
)

var ErrDisabled = errors.New("scheduler disabled")

// Job es una pasada de procesamiento (reminders.Processor.Run la satisface vía adapter).
type Job func(ctx context.Context) error

// Scheduler dispara Job según una expresión cron, sin solapar ejecuciones.
type Scheduler struct {
	log     logger.Logger
	c       *cron.Cron
	timeout time.Duration

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New arma el scheduler. Con cfg.Spec vacío devuelve ErrDisabled.
// Acepta 5 o 6 campos (segundos opcionales) y descriptores como "@every 1m".
func New(cfg config.SchedulerConfig, job Job, log logger.Logger) (*Scheduler, error) {
	spec := strings.TrimSpace(cfg.Spec)
	if spec == "" {
		return nil, ErrDisabled
	}
	if job == nil {
		return nil, errors.New("scheduler: nil job")
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(map[string]any{"component": "scheduler"})

	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("scheduler timezone: %w", err)
		}
		loc = l
	}

	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	cl := cronLogger{log: log}
	s := &Scheduler{
		log:     log,
		timeout: 5 * time.Minute,
		c: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cl)),
			cron.WithLogger(cl),
		),
	}

	if _, err := s.c.AddFunc(spec, func() { s.run(job) }); err != nil {
		return nil, fmt.Errorf("scheduler spec %q: %w", spec, err)
	}
	log.Info("scheduler configured", map[string]any{"spec": spec, "tz": loc.String()})
	return s, nil
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.c.Start()
	s.log.Info("scheduler started", nil)
}

// Stop espera la ejecución en curso o hasta que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	done := s.c.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		cancel()
		<-done
	}
	cancel()
	s.log.Info("scheduler stopped", nil)
}

func (s *Scheduler) run(job Job) {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()
	if parent == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in scheduled job", map[string]any{"panic": r, "stack": string(debug.Stack())})
		}
	}()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error("scheduled pass failed", map[string]any{"error": err, "duration_ms": time.Since(start).Milliseconds()})
		return
	}
	s.log.Debug("scheduled pass done", map[string]any{"duration_ms": time.Since(start).Milliseconds()})
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug("cron: "+msg, fields(kv))
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	f := fields(kv)
	f["error"] = err
	l.log.Error("cron: "+msg, f)
}

func fields(kv []interface{}) map[string]any {
	out := make(map[string]any, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
