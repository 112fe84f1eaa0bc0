package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultMaxBody = 1 << 20
	UserAgent      = "backoffice-api/1.0"
)

// Options configura un Client. Todo es opcional.
type Options struct {
	Timeout   time.Duration
	BaseURL   string // permite paths relativos en Do/DoJSON
	UserAgent string
	MaxBody   int64 // tope de lectura de la respuesta
	Transport http.RoundTripper
}

// Client es el transporte saliente: webhooks del notifier y el comando process --remote.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	userAgent string
	maxBody   int64
}

// New crea un Client con solo timeout (<= 0 usa DefaultTimeout).
func New(timeout time.Duration) *Client {
	c, _ := NewWithOptions(Options{Timeout: timeout})
	return c
}

func NewWithOptions(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = UserAgent
	}

	c := &Client{
		HTTP:      &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBody,
	}

	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		u, err := url.ParseRequestURI(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("httpclient: invalid base url %q", base)
		}
		c.BaseURL = strings.TrimRight(base, "/")
	}
	return c, nil
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusCode devuelve el status de un *HTTPError envuelto, o 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Retryable: errores de red, 429 y 5xx. Un ctx cancelado o un 4xx no.
func Retryable(status int, err error) bool {
	switch {
	case errors.Is(err, context.Canceled):
		return false
	case status == http.StatusTooManyRequests || status >= 500:
		return true
	case status == 0:
		return err != nil
	default:
		return false
	}
}

// Response es el resultado crudo de Do.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do envía body ya serializado como JSON. Un status no-2xx vuelve como
// *HTTPError junto con la Response (el body se lee hasta MaxBody).
func (c *Client) Do(ctx context.Context, method, pathOrURL string, headers map[string]string, body []byte) (Response, error) {
	if c == nil || c.HTTP == nil {
		return Response{}, errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return Response{}, err
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, rdr)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		if strings.TrimSpace(k) != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: %s %s: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	// descarta el resto para reusar la conexión
	_, _ = io.Copy(io.Discard, resp.Body)

	out := Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return out, nil
}

// DoJSON serializa in (nil = sin body) y decodifica la respuesta en out (nil = se ignora).
func (c *Client) DoJSON(ctx context.Context, method, pathOrURL string, headers map[string]string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = b
	}

	resp, err := c.Do(ctx, method, pathOrURL, headers, body)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}
	if c.BaseURL == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}
	return c.BaseURL + "/" + strings.TrimLeft(pathOrURL, "/"), nil
}
