package foundpets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/notify"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	nextID int64
	byID   map[int64]FoundPet

	lastFrom     Status
	beforeUpdate func()
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]FoundPet{}}
}

func (r *testRepo) Create(ctx context.Context, fp FoundPet) (FoundPet, error) {
	r.nextID++
	fp.ID = r.nextID
	r.byID[fp.ID] = fp
	return fp, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (FoundPet, error) {
	fp, ok := r.byID[id]
	if !ok {
		return FoundPet{}, errs.ErrNotFound
	}
	return fp, nil
}

func (r *testRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]FoundPet, error) {
	out := make([]FoundPet, 0)
	for _, fp := range r.byID {
		if fp.VolunteerID == volunteerID {
			out = append(out, fp)
		}
	}
	return out, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]FoundPet, error) {
	out := make([]FoundPet, 0)
	for _, fp := range r.byID {
		if f.Type != "" && fp.Type != f.Type {
			continue
		}
		if f.Status != "" && fp.Status != f.Status {
			continue
		}
		out = append(out, fp)
	}
	return out, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, id int64, from, to Status, at time.Time) (FoundPet, error) {
	r.lastFrom = from
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	fp, ok := r.byID[id]
	if !ok {
		return FoundPet{}, errs.ErrNotFound
	}
	if from != "" && fp.Status != from {
		return FoundPet{}, errs.ErrConflict
	}
	fp.Status = to
	fp.UpdatedAt = at
	r.byID[id] = fp
	return fp, nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// alertList hace el matching real con geo sobre una lista fija.
type alertList []alerts.Alert

func (l alertList) Match(ctx context.Context, petType pets.Type, at geo.Point) ([]alerts.Alert, error) {
	out := make([]alerts.Alert, 0)
	for _, a := range l {
		if a.Active && a.PetType == petType && geo.WithinRadius(a.Location.Center(), a.Location.RadiusKm, at) {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []notify.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt notify.Event) error {
	p.events = append(p.events, evt)
	return nil
}

type countingObserver struct{ reports, matches int }

func (o *countingObserver) FoundPetReported(matches int) {
	o.reports++
	o.matches += matches
}

type recordingCleaner struct {
	owner   string
	removed []string
}

func (c *recordingCleaner) RemoveImages(ctx context.Context, ownerID string, urls []string) {
	c.owner = ownerID
	c.removed = append(c.removed, urls...)
}

func f64(v float64) *float64 { return &v }

var (
	volunteer = auth.Claims{UserID: "vol-1", Role: auth.RoleVolunteer}
	other     = auth.Claims{UserID: "vol-2", Role: auth.RoleVolunteer}
	shelter   = auth.Claims{UserID: "sh-1", Role: auth.RoleShelter}
)

func sampleAlerts() alertList {
	return alertList{
		{ID: 1, VolunteerID: "vol-2", PetType: pets.TypeDog, Location: alerts.Location{Lat: 40.0, Lng: -74.0, RadiusKm: 5}, Active: true},
		{ID: 2, VolunteerID: "vol-3", PetType: pets.TypeCat, Location: alerts.Location{Lat: 40.0, Lng: -74.0, RadiusKm: 5}, Active: true},
		{ID: 3, VolunteerID: "vol-4", PetType: pets.TypeDog, Location: alerts.Location{Lat: 40.0, Lng: -74.0, RadiusKm: 50}, Active: false},
	}
}

func report(t *testing.T, svc *Service, actor auth.Claims, typ string, lat, lng float64) ReportResult {
	t.Helper()
	res, err := svc.Report(context.Background(), actor, ReportInput{
		Type: typ, Description: "perro marrón con collar", Lat: f64(lat), Lng: f64(lng),
	})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	return res
}

// -------------------------
// Tests
// -------------------------

func TestReport_MatchesAndPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	obs := &countingObserver{}
	svc := NewService(newTestRepo(), sampleAlerts(), Options{Publisher: pub, Observer: obs})

	res := report(t, svc, volunteer, "dog", 40.0, -74.05)
	if res.FoundPet.ID == 0 || res.FoundPet.Status != StatusReported {
		t.Fatalf("unexpected found pet: %+v", res.FoundPet)
	}
	if len(res.Matches) != 1 || res.Matches[0].ID != 1 {
		t.Fatalf("expected only alert 1, got %+v", res.Matches)
	}
	if len(pub.events) != 1 || pub.events[0].Type != notify.EventAlertMatched || pub.events[0].RecipientID != "vol-2" {
		t.Fatalf("expected alert.matched to vol-2, got %+v", pub.events)
	}
	if obs.reports != 1 || obs.matches != 1 {
		t.Fatalf("unexpected observer counts: %+v", obs)
	}

	far := report(t, svc, volunteer, "dog", 40.0, -74.2)
	if len(far.Matches) != 0 {
		t.Fatalf("expected no matches at ~17km, got %+v", far.Matches)
	}
}

func TestReport_Validation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, sampleAlerts(), Options{})
	ctx := context.Background()

	cases := []struct {
		name  string
		actor auth.Claims
		in    ReportInput
		want  error
	}{
		{"anonymous", auth.Claims{}, ReportInput{Type: "dog", Description: "x", Lat: f64(1), Lng: f64(1)}, errs.ErrUnauthorized},
		{"shelter", shelter, ReportInput{Type: "dog", Description: "x", Lat: f64(1), Lng: f64(1)}, errs.ErrForbidden},
		{"empty description", volunteer, ReportInput{Type: "dog", Description: "  ", Lat: f64(1), Lng: f64(1)}, errs.ErrInvalidInput},
		{"missing lng", volunteer, ReportInput{Type: "dog", Description: "x", Lat: f64(1)}, errs.ErrInvalidInput},
		{"bad type", volunteer, ReportInput{Type: "lizard", Description: "x", Lat: f64(1), Lng: f64(1)}, errs.ErrInvalidInput},
		{"lng out of range", volunteer, ReportInput{Type: "dog", Description: "x", Lat: f64(1), Lng: f64(200)}, errs.ErrInvalidInput},
		{"bad image", volunteer, ReportInput{Type: "dog", Description: "x", Lat: f64(1), Lng: f64(1), Images: []string{"not a url"}}, errs.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Report(ctx, tc.actor, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(repo.byID) != 0 {
		t.Fatalf("failed reports must not be stored, got %d", len(repo.byID))
	}
}

func TestUpdateStatus_PermissiveByDefault(t *testing.T) {
	svc := NewService(newTestRepo(), sampleAlerts(), Options{})
	ctx := context.Background()

	fp := report(t, svc, volunteer, "cat", 1, 1).FoundPet

	for _, st := range []string{"rescued", "reported", "processed", "reported"} {
		got, err := svc.UpdateStatus(ctx, fp.ID, st, volunteer)
		if err != nil {
			t.Fatalf("status %s: unexpected err: %v", st, err)
		}
		if string(got.Status) != st {
			t.Fatalf("expected %s, got %s", st, got.Status)
		}
	}

	if _, err := svc.UpdateStatus(ctx, fp.ID, "lost", volunteer); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, fp.ID, "rescued", other); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, 999, "rescued", volunteer); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_StrictForwardOnly(t *testing.T) {
	svc := NewService(newTestRepo(), sampleAlerts(), Options{StrictTransitions: true})
	ctx := context.Background()

	fp := report(t, svc, volunteer, "cat", 1, 1).FoundPet

	if _, err := svc.UpdateStatus(ctx, fp.ID, "processed", volunteer); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, fp.ID, "reported", volunteer); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, fp.ID, "rescued", volunteer); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, fp.ID, "processed", volunteer); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateStatus_StrictLosesRaceWithConflict(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, sampleAlerts(), Options{StrictTransitions: true})
	ctx := context.Background()

	fp := report(t, svc, volunteer, "cat", 1, 1).FoundPet

	// otro request pasa a rescued entre la lectura y el update
	repo.beforeUpdate = func() {
		got := repo.byID[fp.ID]
		got.Status = StatusRescued
		repo.byID[fp.ID] = got
	}
	if _, err := svc.UpdateStatus(ctx, fp.ID, "processed", volunteer); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if repo.lastFrom != StatusReported {
		t.Fatalf("update must be conditional on %s, got %q", StatusReported, repo.lastFrom)
	}
	if repo.byID[fp.ID].Status != StatusRescued {
		t.Fatalf("status moved backward to %s", repo.byID[fp.ID].Status)
	}
}

func TestUpdateStatus_PermissiveIsUnconditional(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, sampleAlerts(), Options{})
	fp := report(t, svc, volunteer, "cat", 1, 1).FoundPet

	if _, err := svc.UpdateStatus(context.Background(), fp.ID, "rescued", volunteer); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastFrom != "" {
		t.Fatalf("permissive update must not be conditional, got %q", repo.lastFrom)
	}
}
