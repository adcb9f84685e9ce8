package pets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/ports/auth"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	featuredCount    = 3
	// edad en años
	maxAge = 100
)

// ImageCleaner borra imágenes del blob store (best-effort).
type ImageCleaner interface {
	RemoveImages(ctx context.Context, ownerID string, urls []string)
}

type Service struct {
	repo   Repository
	images ImageCleaner
	now    func() time.Time
}

func NewService(repo Repository, images ImageCleaner) *Service {
	return &Service{
		repo:   repo,
		images: images,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name        string
	Sex         string
	Age         int
	Type        string
	Status      string
	Description string
	Health      string
	Images      []string
}

func (s *Service) Create(ctx context.Context, actor auth.Claims, in CreateInput) (Pet, error) {
	if !actor.Authenticated() {
		return Pet{}, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleShelter {
		return Pet{}, fmt.Errorf("only shelters can create pets: %w", errs.ErrForbidden)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Pet{}, fmt.Errorf("name required: %w", errs.ErrInvalidInput)
	}
	sex, ok := ParseSex(in.Sex)
	if !ok {
		return Pet{}, fmt.Errorf("sex must be male or female: %w", errs.ErrInvalidInput)
	}
	typ, ok := ParseType(in.Type)
	if !ok {
		return Pet{}, fmt.Errorf("invalid pet type: %w", errs.ErrInvalidInput)
	}
	if in.Age < 0 || in.Age > maxAge {
		return Pet{}, fmt.Errorf("age must be between 0 and %d: %w", maxAge, errs.ErrInvalidInput)
	}
	status := StatusWaiting
	if strings.TrimSpace(in.Status) != "" {
		if status, ok = ParseStatus(in.Status); !ok {
			return Pet{}, fmt.Errorf("invalid pet status: %w", errs.ErrInvalidInput)
		}
	}
	images, err := normalizeImages(in.Images)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	return s.repo.Create(ctx, Pet{
		ShelterID:   actor.UserID,
		Name:        name,
		Sex:         sex,
		Age:         in.Age,
		Type:        typ,
		Status:      status,
		Description: strings.TrimSpace(in.Description),
		Health:      strings.TrimSpace(in.Health),
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	if id <= 0 {
		return Pet{}, errs.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetWithShelter(ctx context.Context, id int64) (PetWithShelter, error) {
	if id <= 0 {
		return PetWithShelter{}, errs.ErrInvalidInput
	}
	return s.repo.GetWithShelter(ctx, id)
}

// Exists lo usan favoritos/adopciones para validar la mascota referida.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrInvalidInput):
		return false, nil
	default:
		return false, err
	}
}

// OwnerOf expone el shelterID de una mascota.
// Se usa para evitar ciclos de imports entre módulos (pets <-> adoptions).
func (s *Service) OwnerOf(ctx context.Context, petID int64) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.ShelterID, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Pet, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Health = strings.TrimSpace(f.Health)
	f.ShelterID = strings.TrimSpace(f.ShelterID)
	return s.repo.List(ctx, f)
}

// Featured devuelve mascotas al azar para la landing.
func (s *Service) Featured(ctx context.Context) ([]Pet, error) {
	return s.repo.Random(ctx, featuredCount)
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name        *string
	Sex         *string
	Age         *int
	Type        *string
	Status      *string
	Description *string
	Health      *string
	Images      *[]string
}

func (s *Service) Update(ctx context.Context, id int64, actor auth.Claims, in UpdateInput) (Pet, error) {
	p, err := s.authorizeOwner(ctx, id, actor)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, fmt.Errorf("name cannot be empty: %w", errs.ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Sex != nil {
		sex, ok := ParseSex(*in.Sex)
		if !ok {
			return Pet{}, fmt.Errorf("sex must be male or female: %w", errs.ErrInvalidInput)
		}
		p.Sex = sex
	}
	if in.Age != nil {
		if *in.Age < 0 || *in.Age > maxAge {
			return Pet{}, fmt.Errorf("age must be between 0 and %d: %w", maxAge, errs.ErrInvalidInput)
		}
		p.Age = *in.Age
	}
	if in.Type != nil {
		typ, ok := ParseType(*in.Type)
		if !ok {
			return Pet{}, fmt.Errorf("invalid pet type: %w", errs.ErrInvalidInput)
		}
		p.Type = typ
	}
	if in.Status != nil {
		st, ok := ParseStatus(*in.Status)
		if !ok {
			return Pet{}, fmt.Errorf("invalid pet status: %w", errs.ErrInvalidInput)
		}
		p.Status = st
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Health != nil {
		p.Health = strings.TrimSpace(*in.Health)
	}
	if in.Images != nil {
		images, err := normalizeImages(*in.Images)
		if err != nil {
			return Pet{}, err
		}
		p.Images = images
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Delete borra la mascota; favoritos y solicitudes caen en cascada en el store.
func (s *Service) Delete(ctx context.Context, id int64, actor auth.Claims) error {
	p, err := s.authorizeOwner(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil && len(p.Images) > 0 {
		s.images.RemoveImages(ctx, p.ShelterID, p.Images)
	}
	return nil
}

func (s *Service) authorizeOwner(ctx context.Context, id int64, actor auth.Claims) (Pet, error) {
	if !actor.Authenticated() {
		return Pet{}, errs.ErrUnauthorized
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.ShelterID != actor.UserID {
		return Pet{}, fmt.Errorf("pet belongs to another shelter: %w", errs.ErrForbidden)
	}
	return p, nil
}

func normalizeImages(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, fmt.Errorf("images must be absolute URLs: %w", errs.ErrInvalidInput)
		}
		out = append(out, raw)
	}
	return out, nil
}
