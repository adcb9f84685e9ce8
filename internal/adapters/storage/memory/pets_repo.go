package memory

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
)

type petRepo struct {
	s *Store
}

func NewPetRepo(s *Store) pets.Repository {
	return &petRepo{s: s}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.shelters[p.ShelterID]; !ok {
		return pets.Pet{}, errs.ErrNotFound
	}
	p.ID = r.s.nextID()
	p.Images = cloneStrings(p.Images)
	r.s.pets[p.ID] = p
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, errs.ErrNotFound
	}
	p.Images = cloneStrings(p.Images)
	return p, nil
}

func (r *petRepo) GetWithShelter(ctx context.Context, id int64) (pets.PetWithShelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.PetWithShelter{}, errs.ErrNotFound
	}
	sh, ok := r.s.shelters[p.ShelterID]
	if !ok {
		return pets.PetWithShelter{}, errs.ErrNotFound
	}
	p.Images = cloneStrings(p.Images)
	return pets.PetWithShelter{
		Pet: p,
		Shelter: pets.ShelterSummary{
			ID:           sh.ID,
			Name:         sh.Name,
			Address:      sh.Address,
			Phone:        sh.Phone,
			Website:      sh.Website,
			DonationLink: sh.DonationLink,
		},
	}, nil
}

func (r *petRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	name := strings.ToLower(f.Name)
	health := strings.ToLower(f.Health)

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if len(f.Types) > 0 && !containsType(f.Types, p.Type) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, p.Status) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		if health != "" && !strings.Contains(strings.ToLower(p.Health), health) {
			continue
		}
		if f.ShelterID != "" && p.ShelterID != f.ShelterID {
			continue
		}
		p.Images = cloneStrings(p.Images)
		out = append(out, p)
	}

	// mismo orden que el SQL: más nuevas primero, id como desempate
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return page(out, f.Limit, f.Offset), nil
}

func (r *petRepo) Random(ctx context.Context, n int) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	candidates := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.Status == pets.StatusAdopted {
			continue
		}
		p.Images = cloneStrings(p.Images)
		candidates = append(candidates, p)
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates, nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.pets[p.ID]
	if !ok {
		return errs.ErrNotFound
	}
	p.ShelterID = cur.ShelterID
	p.CreatedAt = cur.CreatedAt
	p.Images = cloneStrings(p.Images)
	r.s.pets[p.ID] = p
	return nil
}

// Delete replica el ON DELETE CASCADE de favorites y adoption_requests.
func (r *petRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.pets, id)
	for fid, f := range r.s.favorites {
		if f.PetID == id {
			delete(r.s.favorites, fid)
		}
	}
	for aid, a := range r.s.adoptions {
		if a.PetID == id {
			delete(r.s.adoptions, aid)
		}
	}
	return nil
}

func containsType(list []pets.Type, t pets.Type) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func containsStatus(list []pets.Status, st pets.Status) bool {
	for _, v := range list {
		if v == st {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
