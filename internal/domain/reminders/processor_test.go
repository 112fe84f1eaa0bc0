package reminders

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu     sync.Mutex
	calls  []string
	result bool
	delay  time.Duration
}

func (n *recordingNotifier) NotifyReminder(ctx context.Context, r Reminder, m Medication, firedAt time.Time) bool {
	if n.delay > 0 {
		time.Sleep(n.delay)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, r.ID+"/"+m.ID)
	return n.result
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newTestProcessor(repo Repository, n Notifier, now time.Time) *Processor {
	p := NewProcessor(repo, n, nil)
	p.now = func() time.Time { return now }
	return p
}

func TestProcessor_Run_FiresAndAdvances(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	end := now.Add(100 * time.Hour)
	repo := newTestRepo()

	_ = repo.Create(ctx, activeReminder("r1", now,
		hourly("a", now.Add(-time.Hour), end),
		hourly("b", now.Add(30*time.Second-time.Hour), end),
		hourly("c", now.Add(5*time.Minute-time.Hour), end),
	))
	_ = repo.Create(ctx, activeReminder("r2", now.Add(time.Hour),
		hourly("d", now.Add(time.Hour), end),
	))

	n := &recordingNotifier{result: true}
	sum, err := newTestProcessor(repo, n, now).Run(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if sum.Examined != 1 || sum.Advanced != 1 || sum.Due != 2 || sum.Delivered != 2 || sum.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if got := n.calls; len(got) != 2 || got[0] != "r1/a" || got[1] != "r1/b" {
		t.Fatalf("unexpected notifications: %v", got)
	}

	stored, _ := repo.GetByID(ctx, "r1")
	if stored.Version != 2 {
		t.Fatalf("expected version bumped, got %d", stored.Version)
	}
	if want := now.Add(5 * time.Minute); stored.NextOccurrence == nil || !stored.NextOccurrence.Equal(want) {
		t.Fatalf("expected next at %s, got %v", want, stored.NextOccurrence)
	}

	// Segunda pasada con el mismo now: nada para disparar.
	sum2, err := newTestProcessor(repo, n, now).Run(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum2.Due != 0 || n.count() != 2 {
		t.Fatalf("expected no re-fire, summary=%+v calls=%d", sum2, n.count())
	}
}

func TestProcessor_Run_ExpiredEntryIsDeactivated(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	repo := newTestRepo()

	_ = repo.Create(ctx, activeReminder("r1", now.Add(-2*time.Hour),
		hourly("a", now.Add(-10*time.Hour), now.Add(-time.Hour)),
	))

	n := &recordingNotifier{result: true}
	sum, err := newTestProcessor(repo, n, now).Run(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Deactivated != 1 || sum.Due != 0 || n.count() != 0 {
		t.Fatalf("unexpected summary: %+v calls=%d", sum, n.count())
	}

	stored, _ := repo.GetByID(ctx, "r1")
	if stored.Active || stored.NextOccurrence != nil {
		t.Fatalf("expected inactive without next occurrence, got %+v", stored)
	}
}

func TestProcessor_Run_FailedDeliveryStillAdvances(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	repo := newTestRepo()

	_ = repo.Create(ctx, activeReminder("r1", now,
		hourly("a", now.Add(-time.Hour), now.Add(24*time.Hour)),
	))

	sum, err := newTestProcessor(repo, &recordingNotifier{result: false}, now).Run(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Failed != 1 || sum.Delivered != 0 || sum.Advanced != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestProcessor_Run_ConcurrentPassesFireOnce(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	repo := newTestRepo()

	_ = repo.Create(ctx, activeReminder("r1", now,
		hourly("a", now.Add(-time.Hour), now.Add(24*time.Hour)),
	))

	n := &recordingNotifier{result: true, delay: 5 * time.Millisecond}

	const passes = 8
	var wg sync.WaitGroup
	wg.Add(passes)
	for i := 0; i < passes; i++ {
		go func() {
			defer wg.Done()
			_, _ = newTestProcessor(repo, n, now).Run(ctx)
		}()
	}
	wg.Wait()

	if got := n.count(); got != 1 {
		t.Fatalf("expected exactly one notification, got %d", got)
	}
}

func TestProcessor_Run_SkipsManuallyDeactivated(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	repo := newTestRepo()

	r := activeReminder("r1", now, hourly("a", now.Add(-time.Hour), now.Add(24*time.Hour)))
	r.Active = false
	_ = repo.Create(ctx, r)

	n := &recordingNotifier{result: true}
	sum, _ := newTestProcessor(repo, n, now).Run(ctx)
	if sum.Examined != 0 || n.count() != 0 {
		t.Fatalf("expected inactive entry ignored, summary=%+v", sum)
	}
}
