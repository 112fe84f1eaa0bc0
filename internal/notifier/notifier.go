package notifier

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"backoffice-api/internal/config"
	"backoffice-api/internal/domain/reminders"
	"backoffice-api/internal/domain/webhooks"
	"backoffice-api/internal/platform/httpclient"
	"backoffice-api/internal/platform/logger"

	"golang.org/x/time/rate"
)

const SignatureHeader = "X-Webhook-Signature"

// Directory es lo que el notifier necesita del módulo webhooks.
type Directory interface {
	ListActiveByEvent(ctx context.Context, ev webhooks.EventType) ([]webhooks.Webhook, error)
	RecordDelivery(ctx context.Context, id string, at time.Time, status int) error
}

type Options struct {
	// DefaultURL recibe los eventos cuando no hay endpoints registrados.
	DefaultURL    string
	SignatureMode string // config.SignatureRaw | config.SignatureHMAC
	Timeout       time.Duration
	RatePerSec    int

	Retry  RetryPolicy
	Client *httpclient.Client
	Log    logger.Logger
}

// Service entrega eventos a endpoints externos: best-effort, concurrente por
// endpoint y con rate limit global. Los fallos se registran y nunca se propagan.
type Service struct {
	dir        Directory
	client     *httpclient.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	defaultURL string
	signMode   string
	log        logger.Logger
	now        func() time.Time
}

func New(dir Directory, opts Options) *Service {
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 10
	}
	if opts.Retry == nil {
		opts.Retry = NoRetry{}
	}
	if opts.Client == nil {
		opts.Client = httpclient.New(opts.Timeout)
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if strings.TrimSpace(opts.SignatureMode) == "" {
		opts.SignatureMode = config.SignatureRaw
	}

	// Token bucket: burst = rate por segundo.
	limiter := rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.RatePerSec)

	return &Service{
		dir:        dir,
		client:     opts.Client,
		limiter:    limiter,
		retry:      opts.Retry,
		defaultURL: strings.TrimSpace(opts.DefaultURL),
		signMode:   opts.SignatureMode,
		log:        opts.Log,
		now:        time.Now,
	}
}

// NotifyReminder publica lembrete.disparado; true si algún endpoint respondió 2xx.
func (s *Service) NotifyReminder(ctx context.Context, r reminders.Reminder, m reminders.Medication, firedAt time.Time) bool {
	attempts := s.Publish(ctx, webhooks.EventReminderFired, reminderFired(r, m, firedAt))
	for _, a := range attempts {
		if a.Success() {
			return true
		}
	}
	return false
}

// Publish entrega data como evento ev a todos los endpoints activos suscritos
// (o al default si no hay ninguno) y devuelve un Attempt por endpoint.
func (s *Service) Publish(ctx context.Context, ev webhooks.EventType, data any) []webhooks.Attempt {
	body, err := json.Marshal(Payload{Event: ev, Timestamp: s.now().UTC(), Data: data})
	if err != nil {
		s.log.Error("marshal webhook payload", map[string]any{"event": ev, "error": err})
		return nil
	}

	targets := s.targets(ctx, ev)
	if len(targets) == 0 {
		s.log.Warn("no webhook endpoint for event", map[string]any{"event": ev})
		return nil
	}

	attempts := make([]webhooks.Attempt, len(targets))
	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i, t := range targets {
		go func(i int, t webhooks.Webhook) {
			defer wg.Done()
			attempts[i] = s.deliver(ctx, t, ev, body)
		}(i, t)
	}
	wg.Wait()

	for _, a := range attempts {
		s.record(ctx, a)
	}
	return attempts
}

// SendTest envía webhook.teste a un endpoint puntual, aunque no esté suscrito o esté inactivo.
func (s *Service) SendTest(ctx context.Context, w webhooks.Webhook) webhooks.Attempt {
	body, err := json.Marshal(Payload{
		Event:     webhooks.EventTest,
		Timestamp: s.now().UTC(),
		Data: testPing{
			WebhookID: w.ID,
			Name:      w.Name,
			Message:   "Teste de webhook",
		},
	})
	if err != nil {
		return webhooks.Attempt{WebhookID: w.ID, URL: w.URL, Event: webhooks.EventTest, Err: err}
	}

	a := s.deliver(ctx, w, webhooks.EventTest, body)
	s.record(ctx, a)
	return a
}

func (s *Service) targets(ctx context.Context, ev webhooks.EventType) []webhooks.Webhook {
	var out []webhooks.Webhook
	if s.dir != nil {
		items, err := s.dir.ListActiveByEvent(ctx, ev)
		if err != nil {
			// sigue con el default
			s.log.Error("list webhook endpoints", map[string]any{"event": ev, "error": err})
		}
		out = items
	}
	if len(out) == 0 && s.defaultURL != "" {
		out = []webhooks.Webhook{{URL: s.defaultURL}}
	}
	return out
}

func (s *Service) deliver(ctx context.Context, w webhooks.Webhook, ev webhooks.EventType, body []byte) webhooks.Attempt {
	headers := map[string]string{}
	if sig := s.signature(w.Secret, body); sig != "" {
		headers[SignatureHeader] = sig
	}

	var a webhooks.Attempt
	for n := 1; ; n++ {
		a = webhooks.Attempt{
			WebhookID: w.ID,
			URL:       w.URL,
			Event:     ev,
			StartedAt: s.now(),
		}

		if err := s.limiter.Wait(ctx); err != nil {
			a.Err = err
			return a
		}

		start := time.Now()
		resp, err := s.client.Do(ctx, http.MethodPost, w.URL, headers, body)
		a.Duration = time.Since(start)
		a.StatusCode = resp.StatusCode
		if a.StatusCode == 0 {
			a.StatusCode = httpclient.StatusCode(err)
		}
		a.Err = err

		if a.Success() {
			return a
		}
		s.log.Warn("webhook delivery failed", map[string]any{
			"event":       ev,
			"webhook_id":  w.ID,
			"url":         w.URL,
			"status":      a.StatusCode,
			"attempt":     n,
			"duration_ms": a.Duration.Milliseconds(),
			"error":       a.Err,
		})

		delay, again := s.retry.Next(a, n)
		if !again {
			return a
		}
		if !sleepCtx(ctx, delay) {
			return a
		}
	}
}

// signature: raw manda el segredo tal cual; hmac-sha256 manda "sha256=<hex>" del body.
func (s *Service) signature(secret string, body []byte) string {
	if secret == "" {
		return ""
	}
	if s.signMode == config.SignatureHMAC {
		return Sign(secret, body)
	}
	return secret
}

// Sign calcula "sha256=" + hex(HMAC-SHA256(body, secret)).
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify es la contraparte de Sign para receptores.
func Verify(secret string, body []byte, header string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(strings.TrimSpace(header)))
}

func (s *Service) record(ctx context.Context, a webhooks.Attempt) {
	if a.WebhookID == "" || s.dir == nil {
		return
	}
	if errors.Is(a.Err, context.Canceled) && a.StatusCode == 0 {
		return
	}
	if err := s.dir.RecordDelivery(context.WithoutCancel(ctx), a.WebhookID, a.StartedAt, a.StatusCode); err != nil {
		s.log.Warn("record webhook delivery", map[string]any{"webhook_id": a.WebhookID, "error": err})
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
