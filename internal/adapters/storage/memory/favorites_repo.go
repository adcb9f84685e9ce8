package memory

import (
	"context"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/favorites"
)

type favoriteRepo struct {
	s *Store
}

func NewFavoriteRepo(s *Store) favorites.Repository {
	return &favoriteRepo{s: s}
}

// Add chequea el par bajo el lock de escritura: equivale al índice único de Postgres.
func (r *favoriteRepo) Add(ctx context.Context, f favorites.Favorite) (favorites.Favorite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.volunteers[f.VolunteerID]; !ok {
		return favorites.Favorite{}, errs.ErrNotFound
	}
	if _, ok := r.s.pets[f.PetID]; !ok {
		return favorites.Favorite{}, errs.ErrNotFound
	}
	for _, cur := range r.s.favorites {
		if cur.VolunteerID == f.VolunteerID && cur.PetID == f.PetID {
			return favorites.Favorite{}, errs.ErrConflict
		}
	}

	f.ID = r.s.nextID()
	r.s.favorites[f.ID] = f
	return f, nil
}

func (r *favoriteRepo) Remove(ctx context.Context, volunteerID string, petID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, f := range r.s.favorites {
		if f.VolunteerID == volunteerID && f.PetID == petID {
			delete(r.s.favorites, id)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (r *favoriteRepo) Exists(ctx context.Context, volunteerID string, petID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, f := range r.s.favorites {
		if f.VolunteerID == volunteerID && f.PetID == petID {
			return true, nil
		}
	}
	return false, nil
}

func (r *favoriteRepo) ListWithPets(ctx context.Context, volunteerID string) ([]favorites.WithPet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]favorites.WithPet, 0)
	for _, f := range r.s.favorites {
		if f.VolunteerID != volunteerID {
			continue
		}
		p, ok := r.s.pets[f.PetID]
		if !ok {
			// huérfano: igual que el INNER JOIN, no se devuelve
			continue
		}
		p.Images = cloneStrings(p.Images)
		out = append(out, favorites.WithPet{Favorite: f, Pet: p})
	}
	return out, nil
}
