package alerts

import (
	"context"
	"fmt"
	"math"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/ports/auth"
)

const maxRadiusKm = 500

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// CreateInput usa punteros para distinguir "no enviado" de 0 (lat/lng 0 son válidos).
type CreateInput struct {
	PetType  string
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
}

func (s *Service) Create(ctx context.Context, actor auth.Claims, in CreateInput) (Alert, error) {
	if err := requireVolunteer(actor); err != nil {
		return Alert{}, err
	}

	typ, ok := pets.ParseType(in.PetType)
	if !ok {
		return Alert{}, fmt.Errorf("invalid pet type: %w", errs.ErrInvalidInput)
	}
	if in.Lat == nil || in.Lng == nil || in.RadiusKm == nil {
		return Alert{}, fmt.Errorf("location requires lat, lng and radius: %w", errs.ErrInvalidInput)
	}
	center := geo.Point{Lat: *in.Lat, Lng: *in.Lng}
	if !center.Valid() {
		return Alert{}, fmt.Errorf("location out of range: %w", errs.ErrInvalidInput)
	}
	radius := *in.RadiusKm
	if math.IsNaN(radius) || radius <= 0 || radius > maxRadiusKm {
		return Alert{}, fmt.Errorf("radius must be in (0, %d] km: %w", maxRadiusKm, errs.ErrInvalidInput)
	}

	return s.repo.Create(ctx, Alert{
		VolunteerID: actor.UserID,
		PetType:     typ,
		Location:    Location{Lat: center.Lat, Lng: center.Lng, RadiusKm: radius},
		Active:      true,
		CreatedAt:   s.now(),
	})
}

func (s *Service) ListForVolunteer(ctx context.Context, actor auth.Claims) ([]Alert, error) {
	if err := requireVolunteer(actor); err != nil {
		return nil, err
	}
	return s.repo.ListByVolunteer(ctx, actor.UserID)
}

func (s *Service) Delete(ctx context.Context, id int64, actor auth.Claims) error {
	if _, err := s.authorizeOwner(ctx, id, actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Toggle(ctx context.Context, id int64, actor auth.Claims) (Alert, error) {
	if _, err := s.authorizeOwner(ctx, id, actor); err != nil {
		return Alert{}, err
	}
	return s.repo.Toggle(ctx, id)
}

// Match devuelve las alertas activas del mismo tipo cuyo círculo contiene el punto.
// Es de solo lectura; el borde del radio cuenta como dentro.
func (s *Service) Match(ctx context.Context, petType pets.Type, at geo.Point) ([]Alert, error) {
	candidates, err := s.repo.ListActiveByType(ctx, petType)
	if err != nil {
		return nil, err
	}

	out := make([]Alert, 0, len(candidates))
	for _, a := range candidates {
		if !a.Active || a.PetType != petType {
			continue
		}
		if geo.WithinRadius(a.Location.Center(), a.Location.RadiusKm, at) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) authorizeOwner(ctx context.Context, id int64, actor auth.Claims) (Alert, error) {
	if !actor.Authenticated() {
		return Alert{}, errs.ErrUnauthorized
	}
	if id <= 0 {
		return Alert{}, errs.ErrInvalidInput
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Alert{}, err
	}
	if a.VolunteerID != actor.UserID {
		return Alert{}, fmt.Errorf("alert belongs to another volunteer: %w", errs.ErrForbidden)
	}
	return a, nil
}

func requireVolunteer(actor auth.Claims) error {
	if !actor.Authenticated() {
		return errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return fmt.Errorf("only volunteers manage alerts: %w", errs.ErrForbidden)
	}
	return nil
}
