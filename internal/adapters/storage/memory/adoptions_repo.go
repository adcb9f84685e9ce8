package memory

import (
	"context"
	"sort"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/errs"
)

type adoptionRepo struct {
	s *Store
}

func NewAdoptionRepo(s *Store) adoptions.Repository {
	return &adoptionRepo{s: s}
}

func (r *adoptionRepo) Create(ctx context.Context, req adoptions.Request) (adoptions.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.volunteers[req.VolunteerID]; !ok {
		return adoptions.Request{}, errs.ErrNotFound
	}
	if _, ok := r.s.pets[req.PetID]; !ok {
		return adoptions.Request{}, errs.ErrNotFound
	}

	req.ID = r.s.nextID()
	r.s.adoptions[req.ID] = req
	return req, nil
}

func (r *adoptionRepo) GetByID(ctx context.Context, id int64) (adoptions.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.adoptions[id]
	if !ok {
		return adoptions.Request{}, errs.ErrNotFound
	}
	return req, nil
}

func (r *adoptionRepo) ListForShelter(ctx context.Context, shelterID string) ([]adoptions.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.views(func(req adoptions.Request) bool {
		p, ok := r.s.pets[req.PetID]
		return ok && p.ShelterID == shelterID
	}), nil
}

func (r *adoptionRepo) ListForVolunteer(ctx context.Context, volunteerID string) ([]adoptions.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.views(func(req adoptions.Request) bool {
		return req.VolunteerID == volunteerID
	}), nil
}

// Decide es el equivalente al UPDATE ... WHERE status = 'pending'.
func (r *adoptionRepo) Decide(ctx context.Context, id int64, status adoptions.Status, at time.Time) (adoptions.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.adoptions[id]
	if !ok {
		return adoptions.Request{}, errs.ErrNotFound
	}
	if req.Status != adoptions.StatusPending {
		return adoptions.Request{}, errs.ErrInvalidTransition
	}
	req.Status = status
	req.UpdatedAt = at
	r.s.adoptions[id] = req
	return req, nil
}

// views arma el join request + pet + volunteer. Requiere mu tomado.
func (r *adoptionRepo) views(match func(adoptions.Request) bool) []adoptions.View {
	out := make([]adoptions.View, 0)
	for _, req := range r.s.adoptions {
		if !match(req) {
			continue
		}
		p, ok := r.s.pets[req.PetID]
		if !ok {
			continue
		}
		v := r.s.volunteers[req.VolunteerID]
		out = append(out, adoptions.View{
			Request: req,
			Pet: adoptions.PetSummary{
				ID:        p.ID,
				ShelterID: p.ShelterID,
				Name:      p.Name,
				Type:      p.Type,
				Status:    p.Status,
				Images:    cloneStrings(p.Images),
			},
			Volunteer: adoptions.VolunteerSummary{
				ID:    req.VolunteerID,
				Bio:   v.Bio,
				Phone: v.Phone,
			},
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Request, out[j].Request
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out
}
