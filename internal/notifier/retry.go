package notifier

import (
	"time"

	"backoffice-api/internal/domain/webhooks"
	"backoffice-api/internal/platform/httpclient"
)

// RetryPolicy decide si repetir una entrega fallida. n empieza en 1 (primer intento).
type RetryPolicy interface {
	Next(last webhooks.Attempt, n int) (time.Duration, bool)
}

// NoRetry es la política por defecto: como mucho un intento por endpoint.
type NoRetry struct{}

func (NoRetry) Next(webhooks.Attempt, int) (time.Duration, bool) { return 0, false }

// Backoff reintenta con espera exponencial base*2^(n-1), acotada por MaxDelay.
// Solo reintenta errores de red y 5xx/429; un 4xx no cambia con reintentos.
type Backoff struct {
	MaxAttempts int
	Base        time.Duration
	MaxDelay    time.Duration
}

func (b Backoff) Next(last webhooks.Attempt, n int) (time.Duration, bool) {
	if n >= b.MaxAttempts || last.Success() {
		return 0, false
	}
	if !httpclient.Retryable(last.StatusCode, last.Err) {
		return 0, false
	}

	base := b.Base
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxD := b.MaxDelay
	if maxD <= 0 {
		maxD = 10 * time.Second
	}

	d := base
	for i := 1; i < n; i++ {
		d *= 2
		if d >= maxD {
			return maxD, true
		}
	}
	return d, true
}
