package webhooks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	order []string
	byID  map[string]Webhook
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Webhook{}}
}

func (r *testRepo) Create(ctx context.Context, w Webhook) error {
	r.byID[w.ID] = w
	r.order = append(r.order, w.ID)
	return nil
}

func (r *testRepo) Update(ctx context.Context, w Webhook) error {
	if _, ok := r.byID[w.ID]; !ok {
		return ErrNotFound
	}
	r.byID[w.ID] = w
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Webhook, error) {
	w, ok := r.byID[id]
	if !ok {
		return Webhook{}, ErrNotFound
	}
	return w, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Webhook, error) {
	out := make([]Webhook, 0)
	for _, id := range r.order {
		if w, ok := r.byID[id]; ok && filter.Matches(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) RecordDelivery(ctx context.Context, id string, at time.Time, status int) error {
	w, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	w.LastFiredAt = &at
	w.LastStatus = status
	r.byID[id] = w
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_Create_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())

	w, err := svc.Create(ctx, "u1", Input{Name: "n8n", URL: "https://hooks.example.com/lembretes", Secret: strPtr("s3cr3t")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.Status != StatusActive {
		t.Fatalf("expected default status ativo, got %q", w.Status)
	}
	if len(w.Events) != 1 || w.Events[0] != EventReminderFired {
		t.Fatalf("expected default events [lembrete.disparado], got %v", w.Events)
	}
	if w.Secret != "s3cr3t" {
		t.Fatalf("expected secret stored")
	}

	bad := []Input{
		{Name: "", URL: "https://x.example.com"},
		{Name: "x", URL: "/relative/path"},
		{Name: "x", URL: "ftp://x.example.com"},
		{Name: "x", URL: "https://x.example.com", Events: []EventType{"pedido.criado"}},
		{Name: "x", URL: "https://x.example.com", Status: "pausado"},
	}
	for i, in := range bad {
		if _, err := svc.Create(ctx, "u1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Update_KeepsSecretWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())

	w, _ := svc.Create(ctx, "u1", Input{Name: "a", URL: "https://a.example.com", Secret: strPtr("k")})

	up, err := svc.Update(ctx, w.ID, Input{Name: "a2", URL: "https://a.example.com/v2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Secret != "k" || up.Name != "a2" {
		t.Fatalf("expected secret kept and name updated, got %+v", up)
	}

	cleared, err := svc.Update(ctx, w.ID, Input{Name: "a2", URL: "https://a.example.com/v2", Secret: strPtr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cleared.Secret != "" {
		t.Fatalf("expected secret cleared")
	}
}

func TestService_ListActiveByEvent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())

	a, _ := svc.Create(ctx, "u1", Input{Name: "a", URL: "https://a.example.com"})
	_, _ = svc.Create(ctx, "u1", Input{Name: "b", URL: "https://b.example.com", Events: []EventType{EventTest}})
	c, _ := svc.Create(ctx, "u1", Input{Name: "c", URL: "https://c.example.com"})
	if _, err := svc.SetStatus(ctx, c.ID, StatusInactive); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err := svc.ListActiveByEvent(ctx, EventReminderFired)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected only %s, got %v", a.ID, got)
	}
}

func TestService_RecordDelivery(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestRepo())
	w, _ := svc.Create(ctx, "u1", Input{Name: "a", URL: "https://a.example.com"})

	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	if err := svc.RecordDelivery(ctx, w.ID, at, 202); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, _ := svc.GetByID(ctx, w.ID)
	if got.LastStatus != 202 || got.LastFiredAt == nil || !got.LastFiredAt.Equal(at) {
		t.Fatalf("unexpected bookkeeping: %+v", got)
	}
}

func TestAttempt_Success(t *testing.T) {
	cases := []struct {
		a    Attempt
		want bool
	}{
		{Attempt{StatusCode: 200}, true},
		{Attempt{StatusCode: 204}, true},
		{Attempt{StatusCode: 302}, false},
		{Attempt{StatusCode: 500}, false},
		{Attempt{StatusCode: 200, Err: errors.New("read body")}, false},
		{Attempt{}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Success(); got != tc.want {
			t.Fatalf("Success(%+v) = %v, want %v", tc.a, got, tc.want)
		}
	}
}
