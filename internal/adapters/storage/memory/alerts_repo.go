package memory

import (
	"context"
	"sort"

	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
)

type alertRepo struct {
	s *Store
}

func NewAlertRepo(s *Store) alerts.Repository {
	return &alertRepo{s: s}
}

func (r *alertRepo) Create(ctx context.Context, a alerts.Alert) (alerts.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.volunteers[a.VolunteerID]; !ok {
		return alerts.Alert{}, errs.ErrNotFound
	}
	a.ID = r.s.nextID()
	r.s.alerts[a.ID] = a
	return a, nil
}

func (r *alertRepo) GetByID(ctx context.Context, id int64) (alerts.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.alerts[id]
	if !ok {
		return alerts.Alert{}, errs.ErrNotFound
	}
	return a, nil
}

func (r *alertRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]alerts.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]alerts.Alert, 0)
	for _, a := range r.s.alerts {
		if a.VolunteerID == volunteerID {
			out = append(out, a)
		}
	}
	sortAlerts(out)
	return out, nil
}

func (r *alertRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.alerts[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.alerts, id)
	return nil
}

func (r *alertRepo) Toggle(ctx context.Context, id int64) (alerts.Alert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.alerts[id]
	if !ok {
		return alerts.Alert{}, errs.ErrNotFound
	}
	a.Active = !a.Active
	r.s.alerts[id] = a
	return a, nil
}

func (r *alertRepo) ListActiveByType(ctx context.Context, petType pets.Type) ([]alerts.Alert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]alerts.Alert, 0)
	for _, a := range r.s.alerts {
		if a.Active && a.PetType == petType {
			out = append(out, a)
		}
	}
	sortAlerts(out)
	return out, nil
}

func sortAlerts(items []alerts.Alert) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
