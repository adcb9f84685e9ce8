package favorites

import (
	"context"
	"fmt"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/ports/auth"
)

// PetLookup evita importar el service de pets (lo implementa pets.Service).
type PetLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo Repository
	pets PetLookup
	now  func() time.Time
}

func NewService(repo Repository, pets PetLookup) *Service {
	return &Service{
		repo: repo,
		pets: pets,
		now:  time.Now,
	}
}

func (s *Service) Add(ctx context.Context, actor auth.Claims, petID int64) (Favorite, error) {
	if err := requireVolunteer(actor); err != nil {
		return Favorite{}, err
	}
	if petID <= 0 {
		return Favorite{}, fmt.Errorf("pet_id required: %w", errs.ErrInvalidInput)
	}

	ok, err := s.pets.Exists(ctx, petID)
	if err != nil {
		return Favorite{}, err
	}
	if !ok {
		return Favorite{}, fmt.Errorf("pet %d: %w", petID, errs.ErrNotFound)
	}

	// el duplicado lo detecta el índice único del store
	return s.repo.Add(ctx, Favorite{
		VolunteerID: actor.UserID,
		PetID:       petID,
		CreatedAt:   s.now(),
	})
}

func (s *Service) Remove(ctx context.Context, actor auth.Claims, petID int64) error {
	if err := requireVolunteer(actor); err != nil {
		return err
	}
	if petID <= 0 {
		return fmt.Errorf("pet_id required: %w", errs.ErrInvalidInput)
	}
	return s.repo.Remove(ctx, actor.UserID, petID)
}

// IsFavorite nunca falla por falta de sesión: un anónimo simplemente no tiene favoritos.
func (s *Service) IsFavorite(ctx context.Context, actor auth.Claims, petID int64) (bool, error) {
	if !actor.Authenticated() || petID <= 0 {
		return false, nil
	}
	return s.repo.Exists(ctx, actor.UserID, petID)
}

func (s *Service) ListForVolunteer(ctx context.Context, actor auth.Claims) ([]WithPet, error) {
	if err := requireVolunteer(actor); err != nil {
		return nil, err
	}
	return s.repo.ListWithPets(ctx, actor.UserID)
}

func requireVolunteer(actor auth.Claims) error {
	if !actor.Authenticated() {
		return errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return fmt.Errorf("only volunteers have favorites: %w", errs.ErrForbidden)
	}
	return nil
}
