package alerts

import (
	"context"
	"errors"
	"testing"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	nextID int64
	byID   map[int64]Alert
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Alert{}}
}

func (r *testRepo) Create(ctx context.Context, a Alert) (Alert, error) {
	r.nextID++
	a.ID = r.nextID
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Alert, error) {
	a, ok := r.byID[id]
	if !ok {
		return Alert{}, errs.ErrNotFound
	}
	return a, nil
}

func (r *testRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]Alert, error) {
	out := make([]Alert, 0)
	for _, a := range r.byID {
		if a.VolunteerID == volunteerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) Toggle(ctx context.Context, id int64) (Alert, error) {
	a, ok := r.byID[id]
	if !ok {
		return Alert{}, errs.ErrNotFound
	}
	a.Active = !a.Active
	r.byID[id] = a
	return a, nil
}

func (r *testRepo) ListActiveByType(ctx context.Context, petType pets.Type) ([]Alert, error) {
	out := make([]Alert, 0)
	for _, a := range r.byID {
		if a.Active && a.PetType == petType {
			out = append(out, a)
		}
	}
	return out, nil
}

func f64(v float64) *float64 { return &v }

var (
	volunteer = auth.Claims{UserID: "vol-1", Role: auth.RoleVolunteer}
	other     = auth.Claims{UserID: "vol-2", Role: auth.RoleVolunteer}
	shelter   = auth.Claims{UserID: "sh-1", Role: auth.RoleShelter}
)

func mustCreate(t *testing.T, svc *Service, actor auth.Claims, typ string, lat, lng, radius float64) Alert {
	t.Helper()
	a, err := svc.Create(context.Background(), actor, CreateInput{
		PetType: typ, Lat: f64(lat), Lng: f64(lng), RadiusKm: f64(radius),
	})
	if err != nil {
		t.Fatalf("create alert: %v", err)
	}
	return a
}

// -------------------------
// Tests
// -------------------------

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		actor auth.Claims
		in    CreateInput
		want  error
	}{
		{"anonymous", auth.Claims{}, CreateInput{PetType: "dog", Lat: f64(1), Lng: f64(1), RadiusKm: f64(1)}, errs.ErrUnauthorized},
		{"shelter", shelter, CreateInput{PetType: "dog", Lat: f64(1), Lng: f64(1), RadiusKm: f64(1)}, errs.ErrForbidden},
		{"bad type", volunteer, CreateInput{PetType: "horse", Lat: f64(1), Lng: f64(1), RadiusKm: f64(1)}, errs.ErrInvalidInput},
		{"missing lat", volunteer, CreateInput{PetType: "dog", Lng: f64(1), RadiusKm: f64(1)}, errs.ErrInvalidInput},
		{"lat out of range", volunteer, CreateInput{PetType: "dog", Lat: f64(95), Lng: f64(1), RadiusKm: f64(1)}, errs.ErrInvalidInput},
		{"zero radius", volunteer, CreateInput{PetType: "dog", Lat: f64(1), Lng: f64(1), RadiusKm: f64(0)}, errs.ErrInvalidInput},
		{"huge radius", volunteer, CreateInput{PetType: "dog", Lat: f64(1), Lng: f64(1), RadiusKm: f64(5000)}, errs.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.actor, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreate_ZeroCoordinatesAreValid(t *testing.T) {
	svc := NewService(newTestRepo())

	a := mustCreate(t, svc, volunteer, "cat", 0, 0, 3)
	if !a.Active || a.PetType != pets.TypeCat || a.Location.RadiusKm != 3 {
		t.Fatalf("unexpected alert: %+v", a)
	}
}

func TestMatch_RadiusBoundary(t *testing.T) {
	svc := NewService(newTestRepo())
	a := mustCreate(t, svc, volunteer, "dog", 40.0, -74.0, 5)

	near, err := svc.Match(context.Background(), pets.TypeDog, geo.Point{Lat: 40.0, Lng: -74.05})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(near) != 1 || near[0].ID != a.ID {
		t.Fatalf("expected match at ~4.26km, got %+v", near)
	}

	far, _ := svc.Match(context.Background(), pets.TypeDog, geo.Point{Lat: 40.0, Lng: -74.2})
	if len(far) != 0 {
		t.Fatalf("expected no match at ~17km, got %+v", far)
	}
}

func TestMatch_FiltersByTypeAndActive(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	dog := mustCreate(t, svc, volunteer, "dog", 40.0, -74.0, 10)
	mustCreate(t, svc, volunteer, "cat", 40.0, -74.0, 10)
	inactive := mustCreate(t, svc, other, "dog", 40.0, -74.0, 10)
	if _, err := svc.Toggle(ctx, inactive.ID, other); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got, err := svc.Match(ctx, pets.TypeDog, geo.Point{Lat: 40.0, Lng: -74.0})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != dog.ID {
		t.Fatalf("expected only active dog alert, got %+v", got)
	}
}

func TestToggleAndDelete_Ownership(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	a := mustCreate(t, svc, volunteer, "rabbit", 10, 10, 2)

	if _, err := svc.Toggle(ctx, a.ID, other); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	toggled, err := svc.Toggle(ctx, a.ID, volunteer)
	if err != nil || toggled.Active {
		t.Fatalf("expected inactive after toggle, got %+v err=%v", toggled, err)
	}

	if err := svc.Delete(ctx, a.ID, other); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, a.ID, volunteer); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.Delete(ctx, a.ID, volunteer); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
