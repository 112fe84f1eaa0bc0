package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory, check-and-set)
// -------------------------

type testRepo struct {
	mu    sync.Mutex
	order []string
	byID  map[string]Reminder
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Reminder{}}
}

func (r *testRepo) Create(ctx context.Context, rem Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rem.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[rem.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[rem.ID] = rem
	r.order = append(r.order, rem.ID)
	return nil
}

func (r *testRepo) Update(ctx context.Context, rem Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[rem.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Version != rem.Version {
		return ErrConflict
	}
	rem.Version++
	r.byID[rem.ID] = rem
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.byID[id]
	if !ok {
		return Reminder{}, ErrNotFound
	}
	return rem, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Reminder, 0, len(r.order))
	for _, id := range r.order {
		if rem := r.byID[id]; filter.Matches(rem) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeDirectory map[string][2]string

func (d fakeDirectory) ContactOf(ctx context.Context, id string) (string, string, error) {
	c, ok := d[id]
	if !ok {
		return "", "", errors.New("client not found")
	}
	return c[0], c[1], nil
}

func newTestService(repo Repository, dir ClientDirectory, now time.Time) *Service {
	s := NewService(repo, dir)
	s.now = func() time.Time { return now }
	return s
}

func medInput(name string, start, end time.Time) MedicationInput {
	return MedicationInput{
		Name:           name,
		Dosage:         "10ml",
		FrequencyValue: 8,
		FrequencyUnit:  "horas",
		StartsAt:       start,
		EndsAt:         end,
	}
}

func TestService_Create_AssignsIDsAndSchedule(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	svc := newTestService(newTestRepo(), nil, now)

	r, err := svc.Create(ctx, "user-1", CreateInput{
		Recipient: Recipient{Name: "  Ana  ", Phone: "+55 11 99999-0000"},
		Medications: []MedicationInput{
			medInput("Amoxicilina", now.Add(-25*time.Hour), now.Add(100*time.Hour)),
			medInput("Dipirona", now.Add(2*time.Hour), now.Add(10*time.Hour)),
		},
		Notes: "após refeição",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if r.ID == "" || r.Version != 1 || r.CreatedBy != "user-1" {
		t.Fatalf("unexpected metadata: %+v", r)
	}
	if r.Recipient.Name != "Ana" {
		t.Fatalf("expected trimmed recipient name, got %q", r.Recipient.Name)
	}
	if len(r.Medications) != 2 {
		t.Fatalf("expected 2 medications, got %d", len(r.Medications))
	}
	seen := map[string]bool{}
	for _, m := range r.Medications {
		if m.ID == "" || seen[m.ID] {
			t.Fatalf("expected unique non-empty ids, got %q", m.ID)
		}
		seen[m.ID] = true
	}
	if !r.Active || r.NextOccurrence == nil {
		t.Fatalf("expected active with next occurrence")
	}
	// Amoxicilina: start-25h cada 8h => próxima en now+7h; Dipirona arranca en now+2h.
	if want := now.Add(2 * time.Hour); !r.NextOccurrence.Equal(want) {
		t.Fatalf("expected next at %s, got %s", want, *r.NextOccurrence)
	}
}

func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	svc := newTestService(newTestRepo(), nil, now)

	valid := medInput("X", now, now.Add(time.Hour))

	cases := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"no recipient", CreateInput{Medications: []MedicationInput{valid}}, "destinatario.nome"},
		{"no medications", CreateInput{Recipient: Recipient{Name: "Ana"}}, "medicamentos"},
		{"bad unit", CreateInput{Recipient: Recipient{Name: "Ana"}, Medications: []MedicationInput{{
			Name: "X", FrequencyValue: 1, FrequencyUnit: "semanas", StartsAt: now, EndsAt: now.Add(time.Hour),
		}}}, "medicamentos[0].frequencia.unidade"},
		{"zero value", CreateInput{Recipient: Recipient{Name: "Ana"}, Medications: []MedicationInput{{
			Name: "X", FrequencyValue: 0, FrequencyUnit: "horas", StartsAt: now, EndsAt: now.Add(time.Hour),
		}}}, "medicamentos[0].frequencia.valor"},
		{"value too large", CreateInput{Recipient: Recipient{Name: "Ana"}, Medications: []MedicationInput{{
			Name: "X", FrequencyValue: 200000, FrequencyUnit: "dias", StartsAt: now, EndsAt: now.Add(time.Hour),
		}}}, "medicamentos[0].frequencia.valor"},
		{"missing end", CreateInput{Recipient: Recipient{Name: "Ana"}, Medications: []MedicationInput{{
			Name: "X", FrequencyValue: 1, FrequencyUnit: "horas", StartsAt: now,
		}}}, "medicamentos[0].dataFim"},
		{"end before start", CreateInput{Recipient: Recipient{Name: "Ana"}, Medications: []MedicationInput{
			valid,
			{Name: "Y", FrequencyValue: 1, FrequencyUnit: "horas", StartsAt: now, EndsAt: now.Add(-time.Hour)},
		}}, "medicamentos[1].dataFim"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-1", tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestService_Create_ResolvesRecipientFromDirectory(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	dir := fakeDirectory{"c-1": {"Maria Souza", "+55 21 98888-0000"}}
	svc := newTestService(newTestRepo(), dir, now)

	r, err := svc.Create(ctx, "user-1", CreateInput{
		Recipient:   Recipient{ClientID: "c-1"},
		Medications: []MedicationInput{medInput("X", now, now.Add(time.Hour))},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Recipient.Name != "Maria Souza" || r.Recipient.Phone != "+55 21 98888-0000" {
		t.Fatalf("expected recipient resolved from directory, got %+v", r.Recipient)
	}

	_, err = svc.Create(ctx, "user-1", CreateInput{
		Recipient:   Recipient{ClientID: "missing"},
		Medications: []MedicationInput{medInput("X", now, now.Add(time.Hour))},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown client, got %v", err)
	}
}

func TestService_Update_PreservesMetadataAndRegeneratesIDs(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	repo := newTestRepo()
	svc := newTestService(repo, nil, now)

	created, err := svc.Create(ctx, "user-1", CreateInput{
		Recipient:   Recipient{Name: "Ana"},
		Medications: []MedicationInput{medInput("X", now, now.Add(time.Hour))},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	later := now.Add(time.Minute)
	svc.now = func() time.Time { return later }

	updated, err := svc.Update(ctx, created.ID, UpdateInput{CreateInput: CreateInput{
		Recipient:   Recipient{Name: "Ana Paula"},
		Medications: []MedicationInput{medInput("Y", later, later.Add(time.Hour))},
	}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != created.ID || updated.CreatedBy != "user-1" || !updated.CreatedAt.Equal(now) {
		t.Fatalf("expected id/criadoPor/createdAt preserved, got %+v", updated)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("expected updatedAt refreshed")
	}
	if updated.Medications[0].ID == created.Medications[0].ID {
		t.Fatalf("expected fresh medication id on update")
	}
	if updated.Version != 2 {
		t.Fatalf("expected version 2, got %d", updated.Version)
	}

	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Version != 2 || stored.Recipient.Name != "Ana Paula" {
		t.Fatalf("expected stored update, got %+v", stored)
	}
}

func TestService_Update_IfMatchConflict(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	svc := newTestService(newTestRepo(), nil, now)

	created, _ := svc.Create(ctx, "user-1", CreateInput{
		Recipient:   Recipient{Name: "Ana"},
		Medications: []MedicationInput{medInput("X", now, now.Add(time.Hour))},
	})

	stale := 7
	_, err := svc.Update(ctx, created.ID, UpdateInput{
		CreateInput: CreateInput{
			Recipient:   Recipient{Name: "Ana"},
			Medications: []MedicationInput{medInput("X", now, now.Add(time.Hour))},
		},
		ExpectedVersion: &stale,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if _, err := svc.Update(ctx, "nope", UpdateInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SetStatus(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	svc := newTestService(newTestRepo(), nil, now)

	r, _ := svc.Create(ctx, "user-1", CreateInput{
		Recipient:   Recipient{Name: "Ana"},
		Medications: []MedicationInput{medInput("X", now.Add(-time.Hour), now.Add(2*time.Hour))},
	})

	off, err := svc.SetStatus(ctx, r.ID, false)
	if err != nil || off.Active {
		t.Fatalf("expected deactivated, got active=%v err=%v", off.Active, err)
	}

	on, err := svc.SetStatus(ctx, r.ID, true)
	if err != nil || !on.Active || on.NextOccurrence == nil {
		t.Fatalf("expected reactivated with next occurrence, got %+v err=%v", on, err)
	}

	// Ventana vencida: no se puede reactivar.
	svc.now = func() time.Time { return now.Add(3 * time.Hour) }
	if _, err := svc.SetStatus(ctx, r.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.SetStatus(ctx, r.ID, true); !errors.Is(err, ErrBadState) {
		t.Fatalf("expected ErrBadState, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	now := baseNow
	svc := newTestService(newTestRepo(), nil, now)

	r, _ := svc.Create(ctx, "user-1", CreateInput{
		Recipient:   Recipient{Name: "Ana"},
		Medications: []MedicationInput{medInput("X", now, now.Add(time.Hour))},
	})

	if err := svc.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := svc.GetByID(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
