package memory

import (
	"context"
	"sort"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/foundpets"
)

type foundPetRepo struct {
	s *Store
}

func NewFoundPetRepo(s *Store) foundpets.Repository {
	return &foundPetRepo{s: s}
}

func (r *foundPetRepo) Create(ctx context.Context, fp foundpets.FoundPet) (foundpets.FoundPet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.volunteers[fp.VolunteerID]; !ok {
		return foundpets.FoundPet{}, errs.ErrNotFound
	}
	fp.ID = r.s.nextID()
	fp.Images = cloneStrings(fp.Images)
	r.s.foundPets[fp.ID] = fp
	return fp, nil
}

func (r *foundPetRepo) GetByID(ctx context.Context, id int64) (foundpets.FoundPet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	fp, ok := r.s.foundPets[id]
	if !ok {
		return foundpets.FoundPet{}, errs.ErrNotFound
	}
	fp.Images = cloneStrings(fp.Images)
	return fp, nil
}

func (r *foundPetRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]foundpets.FoundPet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]foundpets.FoundPet, 0)
	for _, fp := range r.s.foundPets {
		if fp.VolunteerID == volunteerID {
			fp.Images = cloneStrings(fp.Images)
			out = append(out, fp)
		}
	}
	sortFoundPets(out)
	return out, nil
}

func (r *foundPetRepo) List(ctx context.Context, f foundpets.ListFilter) ([]foundpets.FoundPet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]foundpets.FoundPet, 0)
	for _, fp := range r.s.foundPets {
		if f.Type != "" && fp.Type != f.Type {
			continue
		}
		if f.Status != "" && fp.Status != f.Status {
			continue
		}
		fp.Images = cloneStrings(fp.Images)
		out = append(out, fp)
	}
	sortFoundPets(out)
	return page(out, f.Limit, f.Offset), nil
}

func (r *foundPetRepo) UpdateStatus(ctx context.Context, id int64, from, to foundpets.Status, at time.Time) (foundpets.FoundPet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	fp, ok := r.s.foundPets[id]
	if !ok {
		return foundpets.FoundPet{}, errs.ErrNotFound
	}
	if from != "" && fp.Status != from {
		return foundpets.FoundPet{}, errs.ErrConflict
	}
	fp.Status = to
	fp.UpdatedAt = at
	r.s.foundPets[id] = fp
	fp.Images = cloneStrings(fp.Images)
	return fp, nil
}

func (r *foundPetRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.foundPets[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.foundPets, id)
	return nil
}

func sortFoundPets(items []foundpets.FoundPet) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
