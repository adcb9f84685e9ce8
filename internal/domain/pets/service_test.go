package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/ports/auth"
)

// -------------------------
// Fakes
// -------------------------

type testRepo struct {
	nextID     int64
	pets       map[int64]Pet
	lastFilter ListFilter
}

func newTestRepo() *testRepo {
	return &testRepo{pets: map[int64]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) (Pet, error) {
	r.nextID++
	p.ID = r.nextID
	r.pets[p.ID] = p
	return p, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Pet, error) {
	p, ok := r.pets[id]
	if !ok {
		return Pet{}, errs.ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetWithShelter(ctx context.Context, id int64) (PetWithShelter, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return PetWithShelter{}, err
	}
	return PetWithShelter{Pet: p, Shelter: ShelterSummary{ID: p.ShelterID, Name: "Happy Paws"}}, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Pet, error) {
	r.lastFilter = f
	return nil, nil
}

func (r *testRepo) Random(ctx context.Context, n int) ([]Pet, error) {
	out := make([]Pet, 0, n)
	for _, p := range r.pets {
		if len(out) == n {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.pets[p.ID]; !ok {
		return errs.ErrNotFound
	}
	r.pets[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.pets[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

type recordingCleaner struct {
	owner   string
	removed []string
}

func (c *recordingCleaner) RemoveImages(ctx context.Context, ownerID string, urls []string) {
	c.owner = ownerID
	c.removed = append(c.removed, urls...)
}

var (
	shelter      = auth.Claims{UserID: "shelter-1", Role: auth.RoleShelter}
	otherShelter = auth.Claims{UserID: "shelter-2", Role: auth.RoleShelter}
	volunteer    = auth.Claims{UserID: "vol-1", Role: auth.RoleVolunteer}
)

func newTestService() (*Service, *testRepo, *recordingCleaner) {
	repo := newTestRepo()
	cleaner := &recordingCleaner{}
	svc := NewService(repo, cleaner)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, cleaner
}

func validInput() CreateInput {
	return CreateInput{Name: " Milo ", Sex: "Male", Age: 3, Type: "dog"}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsAndNormalization(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), shelter, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 || p.ShelterID != "shelter-1" || p.Name != "Milo" || p.Sex != SexMale || p.Status != StatusWaiting {
		t.Fatalf("unexpected pet %+v", p)
	}
	if p.Images == nil || len(p.Images) != 0 {
		t.Fatalf("images must be an empty slice, got %#v", p.Images)
	}
}

func TestCreate_RequiresShelter(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, auth.Claims{}, validInput()); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Create(ctx, volunteer, validInput()); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden for volunteer, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := map[string]func(*CreateInput){
		"empty name":     func(in *CreateInput) { in.Name = "  " },
		"bad sex":        func(in *CreateInput) { in.Sex = "unknown" },
		"bad type":       func(in *CreateInput) { in.Type = "dragon" },
		"negative age":   func(in *CreateInput) { in.Age = -1 },
		"huge age":       func(in *CreateInput) { in.Age = 1 << 31 },
		"bad status":     func(in *CreateInput) { in.Status = "lost" },
		"relative image": func(in *CreateInput) { in.Images = []string{"/img/a.png"} },
		"ftp image":      func(in *CreateInput) { in.Images = []string{"ftp://x/a.png"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			if _, err := svc.Create(context.Background(), shelter, in); !errors.Is(err, errs.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestUpdate_OwnerOnlyAndPartial(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, shelter, validInput())

	status := "adopted"
	if _, err := svc.Update(ctx, p.ID, otherShelter, UpdateInput{Status: &status}); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden for other shelter, got %v", err)
	}

	updated, err := svc.Update(ctx, p.ID, shelter, UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusAdopted || updated.Name != "Milo" || updated.ShelterID != "shelter-1" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if repo.pets[p.ID].Status != StatusAdopted {
		t.Fatalf("update not persisted")
	}

	huge := 1 << 31
	if _, err := svc.Update(ctx, p.ID, shelter, UpdateInput{Age: &huge}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected invalid input on huge age, got %v", err)
	}

	empty := ""
	if _, err := svc.Update(ctx, p.ID, shelter, UpdateInput{Name: &empty}); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected invalid input on empty name, got %v", err)
	}
}

func TestDelete_RemovesImages(t *testing.T) {
	svc, repo, cleaner := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Images = []string{"https://cdn.test/pets/a.png"}
	p, _ := svc.Create(ctx, shelter, in)

	if err := svc.Delete(ctx, p.ID, otherShelter); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, p.ID, shelter); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.pets[p.ID]; ok {
		t.Fatalf("pet still present")
	}
	if cleaner.owner != "shelter-1" || len(cleaner.removed) != 1 || cleaner.removed[0] != "https://cdn.test/pets/a.png" {
		t.Fatalf("expected images removed, got %v", cleaner.removed)
	}
}

func TestExistsAndOwnerOf(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, shelter, validInput())

	if ok, err := svc.Exists(ctx, p.ID); err != nil || !ok {
		t.Fatalf("expected exists, got %v %v", ok, err)
	}
	if ok, err := svc.Exists(ctx, 999); err != nil || ok {
		t.Fatalf("expected missing pet to not exist, got %v %v", ok, err)
	}
	if ok, err := svc.Exists(ctx, 0); err != nil || ok {
		t.Fatalf("invalid id must not exist, got %v %v", ok, err)
	}

	owner, err := svc.OwnerOf(ctx, p.ID)
	if err != nil || owner != "shelter-1" {
		t.Fatalf("unexpected owner %q err=%v", owner, err)
	}
}

func TestList_ClampsPagination(t *testing.T) {
	svc, repo, _ := newTestService()

	_, _ = svc.List(context.Background(), ListFilter{Limit: 1000, Offset: -5, Name: "  milo "})
	if repo.lastFilter.Limit != maxListLimit || repo.lastFilter.Offset != 0 || repo.lastFilter.Name != "milo" {
		t.Fatalf("unexpected filter %+v", repo.lastFilter)
	}

	_, _ = svc.List(context.Background(), ListFilter{})
	if repo.lastFilter.Limit != defaultListLimit {
		t.Fatalf("expected default limit, got %d", repo.lastFilter.Limit)
	}
}
