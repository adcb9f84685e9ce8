package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/foundpets"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/ports/auth"
)

func seed(t *testing.T) (*Store, pets.Pet) {
	t.Helper()
	s := NewStore()
	ur := NewUserRepo(s)
	ctx := context.Background()

	if err := ur.CreateAccount(ctx, users.Account{
		User:    users.User{ID: "sh-1", Role: auth.RoleShelter},
		Shelter: &users.Shelter{ID: "sh-1", Name: "Patitas"},
	}); err != nil {
		t.Fatalf("create shelter: %v", err)
	}
	if err := ur.CreateAccount(ctx, users.Account{
		User:      users.User{ID: "vol-1", Role: auth.RoleVolunteer},
		Volunteer: &users.Volunteer{ID: "vol-1", Phone: "555"},
	}); err != nil {
		t.Fatalf("create volunteer: %v", err)
	}

	p, err := NewPetRepo(s).Create(ctx, pets.Pet{
		ShelterID: "sh-1", Name: "Toby", Type: pets.TypeDog, Status: pets.StatusWaiting,
		Images: []string{"https://cdn.test/a.jpg"}, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	return s, p
}

func TestCreateAccount_DuplicateIsConflict(t *testing.T) {
	s, _ := seed(t)
	err := NewUserRepo(s).CreateAccount(context.Background(), users.Account{
		User:      users.User{ID: "vol-1", Role: auth.RoleVolunteer},
		Volunteer: &users.Volunteer{ID: "vol-1"},
	})
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestFavorites_ConcurrentAddKeepsOneRow(t *testing.T) {
	s, p := seed(t)
	repo := NewFavoriteRepo(s)

	var wg sync.WaitGroup
	var mu sync.Mutex
	conflicts := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Add(context.Background(), favorites.Favorite{VolunteerID: "vol-1", PetID: p.ID})
			if errors.Is(err, errs.ErrConflict) {
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if conflicts != 19 {
		t.Fatalf("expected 19 conflicts, got %d", conflicts)
	}
	if len(s.favorites) != 1 {
		t.Fatalf("expected one row, got %d", len(s.favorites))
	}
}

func TestPetDelete_CascadesFavoritesAndRequests(t *testing.T) {
	s, p := seed(t)
	ctx := context.Background()

	if _, err := NewFavoriteRepo(s).Add(ctx, favorites.Favorite{VolunteerID: "vol-1", PetID: p.ID}); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	if _, err := NewAdoptionRepo(s).Create(ctx, adoptions.Request{VolunteerID: "vol-1", PetID: p.ID, Status: adoptions.StatusPending}); err != nil {
		t.Fatalf("create request: %v", err)
	}

	if err := NewPetRepo(s).Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete pet: %v", err)
	}
	if len(s.favorites) != 0 || len(s.adoptions) != 0 {
		t.Fatalf("expected cascade, favorites=%d adoptions=%d", len(s.favorites), len(s.adoptions))
	}

	items, err := NewFavoriteRepo(s).ListWithPets(ctx, "vol-1")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %d err=%v", len(items), err)
	}
}

func TestListWithPets_SkipsOrphans(t *testing.T) {
	s, p := seed(t)
	ctx := context.Background()

	// huérfano forzado (no pasa por Delete)
	s.favorites[999] = favorites.Favorite{ID: 999, VolunteerID: "vol-1", PetID: 12345}
	if _, err := NewFavoriteRepo(s).Add(ctx, favorites.Favorite{VolunteerID: "vol-1", PetID: p.ID}); err != nil {
		t.Fatalf("add favorite: %v", err)
	}

	items, err := NewFavoriteRepo(s).ListWithPets(ctx, "vol-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || items[0].Pet.Name != "Toby" {
		t.Fatalf("expected only Toby, got %+v", items)
	}
}

func TestDecide_OnlyFromPending(t *testing.T) {
	s, p := seed(t)
	repo := NewAdoptionRepo(s)
	ctx := context.Background()

	req, err := repo.Create(ctx, adoptions.Request{VolunteerID: "vol-1", PetID: p.ID, Status: adoptions.StatusPending})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Decide(ctx, req.ID, adoptions.StatusApproved, time.Now())
	if err != nil || got.Status != adoptions.StatusApproved {
		t.Fatalf("expected approved, got %+v err=%v", got, err)
	}
	if _, err := repo.Decide(ctx, req.ID, adoptions.StatusRejected, time.Now()); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	views, err := repo.ListForShelter(ctx, "sh-1")
	if err != nil || len(views) != 1 {
		t.Fatalf("expected one view, got %d err=%v", len(views), err)
	}
	if views[0].Pet.Name != "Toby" || views[0].Volunteer.Phone != "555" {
		t.Fatalf("join not resolved: %+v", views[0])
	}
}

func TestPetRepo_ImagesAreCopied(t *testing.T) {
	s, p := seed(t)
	repo := NewPetRepo(s)

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Images[0] = "mutated"

	again, _ := repo.GetByID(context.Background(), p.ID)
	if again.Images[0] != "https://cdn.test/a.jpg" {
		t.Fatalf("store leaked its slice")
	}
}

func TestFoundPetUpdateStatus_ConditionalOnPrevious(t *testing.T) {
	s, _ := seed(t)
	repo := NewFoundPetRepo(s)
	ctx := context.Background()

	fp, err := repo.Create(ctx, foundpets.FoundPet{VolunteerID: "vol-1", Type: pets.TypeCat, Description: "x", Status: foundpets.StatusReported})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.UpdateStatus(ctx, fp.ID, foundpets.StatusReported, foundpets.StatusRescued, time.Now()); err != nil {
		t.Fatalf("update: %v", err)
	}
	// otro update que leyó "reported" llega tarde
	if _, err := repo.UpdateStatus(ctx, fp.ID, foundpets.StatusReported, foundpets.StatusProcessed, time.Now()); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, _ := repo.GetByID(ctx, fp.ID)
	if got.Status != foundpets.StatusRescued {
		t.Fatalf("status moved back to %s", got.Status)
	}

	if _, err := repo.UpdateStatus(ctx, fp.ID, "", foundpets.StatusReported, time.Now()); err != nil {
		t.Fatalf("unconditional update: %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, 999, "", foundpets.StatusReported, time.Now()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
