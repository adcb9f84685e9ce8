package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/ports/auth"
)

const defaultShelterName = "New Shelter"

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

type EnsureInput struct {
	Role string
	// Nombre inicial del refugio; si viene vacío se usa defaultShelterName.
	ShelterName string
	// Rol que trae el token, si trae. Si Role viene vacío se usa este; si
	// vienen los dos tienen que coincidir.
	ClaimedRole auth.Role
}

// EnsureUser registra al usuario en su primer sign-in (users + shelters|volunteers).
// Si ya existe lo devuelve sin tocar el rol.
func (s *Service) EnsureUser(ctx context.Context, userID string, in EnsureInput) (Account, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Account{}, errs.ErrUnauthorized
	}

	if acc, err := s.GetAccount(ctx, userID); err == nil {
		return acc, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return Account{}, err
	}

	raw := strings.TrimSpace(in.Role)
	if raw == "" {
		raw = string(in.ClaimedRole)
	}
	role, ok := auth.ParseRole(raw)
	if !ok {
		return Account{}, fmt.Errorf("role must be shelter or volunteer: %w", errs.ErrInvalidInput)
	}
	if in.ClaimedRole != "" && in.ClaimedRole != role {
		return Account{}, fmt.Errorf("role %s does not match token role %s: %w", role, in.ClaimedRole, errs.ErrInvalidInput)
	}

	now := s.now()
	acc := Account{User: User{ID: userID, Role: role, CreatedAt: now, UpdatedAt: now}}
	switch role {
	case auth.RoleShelter:
		name := strings.TrimSpace(in.ShelterName)
		if name == "" {
			name = defaultShelterName
		}
		acc.Shelter = &Shelter{ID: userID, Name: name, CreatedAt: now, UpdatedAt: now}
	case auth.RoleVolunteer:
		acc.Volunteer = &Volunteer{ID: userID, CreatedAt: now, UpdatedAt: now}
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		// carrera con otro sign-in concurrente: gana el que insertó primero
		if errors.Is(err, errs.ErrConflict) {
			return s.GetAccount(ctx, userID)
		}
		return Account{}, err
	}
	return acc, nil
}

func (s *Service) GetAccount(ctx context.Context, userID string) (Account, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return Account{}, err
	}

	acc := Account{User: u}
	switch u.Role {
	case auth.RoleShelter:
		sh, err := s.repo.GetShelter(ctx, userID)
		if err != nil {
			return Account{}, err
		}
		acc.Shelter = &sh
	case auth.RoleVolunteer:
		v, err := s.repo.GetVolunteer(ctx, userID)
		if err != nil {
			return Account{}, err
		}
		acc.Volunteer = &v
	}
	return acc, nil
}

// RoleOf implementa auth.RoleResolver para el middleware.
func (s *Service) RoleOf(ctx context.Context, userID string) (auth.Role, error) {
	u, err := s.repo.GetUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) GetShelter(ctx context.Context, id string) (Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Shelter{}, errs.ErrInvalidInput
	}
	return s.repo.GetShelter(ctx, id)
}

func (s *Service) ListShelters(ctx context.Context, name string, limit, offset int) ([]Shelter, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListShelters(ctx, strings.TrimSpace(name), limit, offset)
}

type ShelterPatch struct {
	Name         *string
	Description  *string
	Address      *string
	Phone        *string
	Website      *string
	DonationLink *string
	Location     *geo.Point
}

type VolunteerPatch struct {
	Bio   *string
	Phone *string
}

func (s *Service) UpdateShelter(ctx context.Context, actor auth.Claims, in ShelterPatch) (Shelter, error) {
	if !actor.Authenticated() {
		return Shelter{}, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleShelter {
		return Shelter{}, fmt.Errorf("not a shelter account: %w", errs.ErrForbidden)
	}

	sh, err := s.repo.GetShelter(ctx, actor.UserID)
	if err != nil {
		return Shelter{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Shelter{}, fmt.Errorf("name cannot be empty: %w", errs.ErrInvalidInput)
		}
		sh.Name = name
	}
	if in.Description != nil {
		sh.Description = strings.TrimSpace(*in.Description)
	}
	if in.Address != nil {
		sh.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		sh.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Website != nil {
		v, err := optionalURL(*in.Website)
		if err != nil {
			return Shelter{}, err
		}
		sh.Website = v
	}
	if in.DonationLink != nil {
		v, err := optionalURL(*in.DonationLink)
		if err != nil {
			return Shelter{}, err
		}
		sh.DonationLink = v
	}
	if in.Location != nil {
		if !in.Location.Valid() {
			return Shelter{}, fmt.Errorf("location out of range: %w", errs.ErrInvalidInput)
		}
		loc := *in.Location
		sh.Location = &loc
	}

	sh.UpdatedAt = s.now()
	if err := s.repo.UpdateShelter(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

func (s *Service) UpdateVolunteer(ctx context.Context, actor auth.Claims, in VolunteerPatch) (Volunteer, error) {
	if !actor.Authenticated() {
		return Volunteer{}, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return Volunteer{}, fmt.Errorf("not a volunteer account: %w", errs.ErrForbidden)
	}

	v, err := s.repo.GetVolunteer(ctx, actor.UserID)
	if err != nil {
		return Volunteer{}, err
	}
	if in.Bio != nil {
		v.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Phone != nil {
		v.Phone = strings.TrimSpace(*in.Phone)
	}

	v.UpdatedAt = s.now()
	if err := s.repo.UpdateVolunteer(ctx, v); err != nil {
		return Volunteer{}, err
	}
	return v, nil
}

func optionalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid url %q: %w", raw, errs.ErrInvalidInput)
	}
	return raw, nil
}
