package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDo_ReturnsStatusAndHTTPErrorOnNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("missing extra header")
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != `{"a":1}` {
			t.Errorf("unexpected body %q", string(b))
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer ts.Close()

	c, _ := NewWithOptions(Options{Timeout: time.Second, MaxBody: 8})
	resp, err := c.Do(context.Background(), http.MethodPost, ts.URL, map[string]string{"X-Test": "1"}, []byte(`{"a":1}`))
	if err == nil {
		t.Fatalf("expected error for 502")
	}
	if resp.StatusCode != http.StatusBadGateway || StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("expected 502, got resp=%d err=%d", resp.StatusCode, StatusCode(err))
	}
	if string(resp.Body) != "upstream" {
		t.Fatalf("expected body capped at MaxBody, got %q", string(resp.Body))
	}
}

func TestDoJSON_RelativePathWithBaseURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lembretes/webhook" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"disparados":3}`))
	}))
	defer ts.Close()

	c, err := NewWithOptions(Options{BaseURL: ts.URL + "/", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	var out struct {
		Fired int `json:"disparados"`
	}
	if err := c.DoJSON(context.Background(), http.MethodPost, "lembretes/webhook", nil, nil, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Fired != 3 {
		t.Fatalf("expected 3, got %d", out.Fired)
	}
}

func TestDo_RelativePathWithoutBaseURLFails(t *testing.T) {
	c := New(0)
	if _, err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil); err == nil {
		t.Fatalf("expected error for relative url without BaseURL")
	}
}

func TestNewWithOptions_RejectsBadBaseURL(t *testing.T) {
	if _, err := NewWithOptions(Options{BaseURL: "ftp://example.com"}); err == nil {
		t.Fatalf("expected error for non-http base url")
	}
}

func TestDo_SendsUserAgent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "probe/2" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c, _ := NewWithOptions(Options{UserAgent: "probe/2"})
	if _, err := c.Do(context.Background(), http.MethodPost, ts.URL, nil, []byte(`{}`)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		status int
		err    error
		want   bool
	}{
		{0, errors.New("connection refused"), true},
		{0, context.Canceled, false},
		{0, nil, false},
		{http.StatusTooManyRequests, nil, true},
		{http.StatusServiceUnavailable, nil, true},
		{http.StatusBadRequest, nil, false},
		{http.StatusNoContent, nil, false},
	}
	for _, tc := range cases {
		if got := Retryable(tc.status, tc.err); got != tc.want {
			t.Fatalf("Retryable(%d, %v) = %v, want %v", tc.status, tc.err, got, tc.want)
		}
	}
}
