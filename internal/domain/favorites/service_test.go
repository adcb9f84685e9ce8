package favorites

import (
	"context"
	"errors"
	"testing"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/ports/auth"
)

// -------------------------
// Fakes
// -------------------------

type key struct {
	vol string
	pet int64
}

type testRepo struct {
	nextID int64
	rows   map[key]Favorite
	pets   map[int64]pets.Pet
}

func newTestRepo(petIDs ...int64) *testRepo {
	r := &testRepo{rows: map[key]Favorite{}, pets: map[int64]pets.Pet{}}
	for _, id := range petIDs {
		r.pets[id] = pets.Pet{ID: id, Name: "pet"}
	}
	return r
}

func (r *testRepo) Add(ctx context.Context, f Favorite) (Favorite, error) {
	k := key{f.VolunteerID, f.PetID}
	if _, ok := r.rows[k]; ok {
		return Favorite{}, errs.ErrConflict
	}
	r.nextID++
	f.ID = r.nextID
	r.rows[k] = f
	return f, nil
}

func (r *testRepo) Remove(ctx context.Context, volunteerID string, petID int64) error {
	k := key{volunteerID, petID}
	if _, ok := r.rows[k]; !ok {
		return errs.ErrNotFound
	}
	delete(r.rows, k)
	return nil
}

func (r *testRepo) Exists(ctx context.Context, volunteerID string, petID int64) (bool, error) {
	_, ok := r.rows[key{volunteerID, petID}]
	return ok, nil
}

func (r *testRepo) ListWithPets(ctx context.Context, volunteerID string) ([]WithPet, error) {
	out := make([]WithPet, 0)
	for k, f := range r.rows {
		if k.vol != volunteerID {
			continue
		}
		p, ok := r.pets[k.pet]
		if !ok {
			continue
		}
		out = append(out, WithPet{Favorite: f, Pet: p})
	}
	return out, nil
}

type petsFromRepo struct{ r *testRepo }

func (p petsFromRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := p.r.pets[id]
	return ok, nil
}

var (
	volunteer = auth.Claims{UserID: "vol-1", Role: auth.RoleVolunteer}
	shelter   = auth.Claims{UserID: "sh-1", Role: auth.RoleShelter}
)

// -------------------------
// Tests
// -------------------------

func TestAddRemoveIsFavorite(t *testing.T) {
	repo := newTestRepo(10)
	svc := NewService(repo, petsFromRepo{repo})
	ctx := context.Background()

	f, err := svc.Add(ctx, volunteer, 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if f.ID == 0 || f.VolunteerID != "vol-1" || f.PetID != 10 {
		t.Fatalf("unexpected favorite: %+v", f)
	}

	ok, err := svc.IsFavorite(ctx, volunteer, 10)
	if err != nil || !ok {
		t.Fatalf("expected favorite after add, ok=%v err=%v", ok, err)
	}

	if err := svc.Remove(ctx, volunteer, 10); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ok, _ = svc.IsFavorite(ctx, volunteer, 10)
	if ok {
		t.Fatalf("expected not favorite after remove")
	}

	if err := svc.Remove(ctx, volunteer, 10); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestAdd_DuplicateIsConflictAndKeepsOneRow(t *testing.T) {
	repo := newTestRepo(10)
	svc := NewService(repo, petsFromRepo{repo})
	ctx := context.Background()

	if _, err := svc.Add(ctx, volunteer, 10); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Add(ctx, volunteer, 10); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(repo.rows))
	}
}

func TestAdd_Validation(t *testing.T) {
	repo := newTestRepo(10)
	svc := NewService(repo, petsFromRepo{repo})
	ctx := context.Background()

	if _, err := svc.Add(ctx, auth.Claims{}, 10); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Add(ctx, shelter, 10); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Add(ctx, volunteer, 99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIsFavorite_AnonymousIsFalse(t *testing.T) {
	repo := newTestRepo(10)
	svc := NewService(repo, petsFromRepo{repo})

	ok, err := svc.IsFavorite(context.Background(), auth.Claims{}, 10)
	if err != nil || ok {
		t.Fatalf("expected false,nil got %v,%v", ok, err)
	}
}

func TestListForVolunteer_SkipsOrphans(t *testing.T) {
	repo := newTestRepo(10, 11)
	svc := NewService(repo, petsFromRepo{repo})
	ctx := context.Background()

	for _, id := range []int64{10, 11} {
		if _, err := svc.Add(ctx, volunteer, id); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	delete(repo.pets, 11)

	items, err := svc.ListForVolunteer(ctx, volunteer)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || items[0].Pet.ID != 10 {
		t.Fatalf("expected only pet 10, got %+v", items)
	}
}
