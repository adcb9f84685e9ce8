package memory

import (
	"context"
	"sort"
	"strings"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/platform/geo"
)

type userRepo struct {
	s *Store
}

func NewUserRepo(s *Store) users.Repository {
	return &userRepo{s: s}
}

func (r *userRepo) CreateAccount(ctx context.Context, a users.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.User.ID) == "" {
		return errs.ErrInvalidInput
	}
	if _, exists := r.s.users[a.User.ID]; exists {
		return errs.ErrConflict
	}

	r.s.users[a.User.ID] = a.User
	if a.Shelter != nil {
		r.s.shelters[a.User.ID] = cloneShelter(*a.Shelter)
	}
	if a.Volunteer != nil {
		r.s.volunteers[a.User.ID] = *a.Volunteer
	}
	return nil
}

func (r *userRepo) GetUser(ctx context.Context, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetShelter(ctx context.Context, id string) (users.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sh, ok := r.s.shelters[id]
	if !ok {
		return users.Shelter{}, errs.ErrNotFound
	}
	return cloneShelter(sh), nil
}

func (r *userRepo) ListShelters(ctx context.Context, name string, limit, offset int) ([]users.Shelter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	name = strings.ToLower(name)
	out := make([]users.Shelter, 0, len(r.s.shelters))
	for _, sh := range r.s.shelters {
		if name != "" && !strings.Contains(strings.ToLower(sh.Name), name) {
			continue
		}
		out = append(out, cloneShelter(sh))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

func (r *userRepo) UpdateShelter(ctx context.Context, sh users.Shelter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.shelters[sh.ID]
	if !ok {
		return errs.ErrNotFound
	}
	sh.CreatedAt = cur.CreatedAt
	r.s.shelters[sh.ID] = cloneShelter(sh)
	return nil
}

func (r *userRepo) GetVolunteer(ctx context.Context, id string) (users.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.volunteers[id]
	if !ok {
		return users.Volunteer{}, errs.ErrNotFound
	}
	return v, nil
}

func (r *userRepo) UpdateVolunteer(ctx context.Context, v users.Volunteer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.volunteers[v.ID]
	if !ok {
		return errs.ErrNotFound
	}
	v.CreatedAt = cur.CreatedAt
	r.s.volunteers[v.ID] = v
	return nil
}

func cloneShelter(sh users.Shelter) users.Shelter {
	if sh.Location != nil {
		loc := geo.Point{Lat: sh.Location.Lat, Lng: sh.Location.Lng}
		sh.Location = &loc
	}
	return sh
}
