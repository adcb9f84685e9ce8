package adoptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/notify"

	"github.com/google/uuid"
)

const maxMessageLen = 2000

// PetOwnerLookup resuelve el refugio dueño de una mascota (lo implementa pets.Service).
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID int64) (string, error)
}

// Observer recibe las decisiones (métricas).
type Observer interface {
	AdoptionDecided(status string)
}

type Options struct {
	Publisher notify.Publisher
	Observer  Observer
	Logger    logger.Logger
}

type Service struct {
	repo      Repository
	pets      PetOwnerLookup
	publisher notify.Publisher
	observer  Observer
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, pets PetOwnerLookup, opts Options) *Service {
	pub := opts.Publisher
	if pub == nil {
		pub = notify.Discard{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		pets:      pets,
		publisher: pub,
		observer:  opts.Observer,
		log:       log,
		now:       time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor auth.Claims, petID int64, message string) (Request, error) {
	if !actor.Authenticated() {
		return Request{}, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return Request{}, fmt.Errorf("only volunteers can request adoptions: %w", errs.ErrForbidden)
	}
	if petID <= 0 {
		return Request{}, fmt.Errorf("pet_id required: %w", errs.ErrInvalidInput)
	}
	message = strings.TrimSpace(message)
	if len(message) > maxMessageLen {
		return Request{}, fmt.Errorf("message too long: %w", errs.ErrInvalidInput)
	}

	shelterID, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return Request{}, err
	}

	now := s.now()
	req, err := s.repo.Create(ctx, Request{
		VolunteerID: actor.UserID,
		PetID:       petID,
		Status:      StatusPending,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Request{}, err
	}

	s.publish(ctx, notify.Event{
		Type:        notify.EventAdoptionReceived,
		RecipientID: shelterID,
		Data: map[string]any{
			"request_id":   req.ID,
			"pet_id":       req.PetID,
			"volunteer_id": req.VolunteerID,
		},
	})
	return req, nil
}

func (s *Service) ListForShelter(ctx context.Context, actor auth.Claims) ([]View, error) {
	if !actor.Authenticated() {
		return nil, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleShelter {
		return nil, fmt.Errorf("not a shelter account: %w", errs.ErrForbidden)
	}
	return s.repo.ListForShelter(ctx, actor.UserID)
}

func (s *Service) ListForVolunteer(ctx context.Context, actor auth.Claims) ([]View, error) {
	if !actor.Authenticated() {
		return nil, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return nil, fmt.Errorf("not a volunteer account: %w", errs.ErrForbidden)
	}
	return s.repo.ListForVolunteer(ctx, actor.UserID)
}

// UpdateStatus aplica la decisión del refugio dueño de la mascota.
// Orden de chequeos: sesión, existencia, ownership, transición.
func (s *Service) UpdateStatus(ctx context.Context, id int64, newStatus string, actor auth.Claims) (Request, error) {
	if !actor.Authenticated() {
		return Request{}, errs.ErrUnauthorized
	}
	if id <= 0 {
		return Request{}, errs.ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Request{}, err
	}

	owner, err := s.pets.OwnerOf(ctx, current.PetID)
	if err != nil {
		return Request{}, err
	}
	if owner != actor.UserID {
		return Request{}, fmt.Errorf("request belongs to another shelter: %w", errs.ErrForbidden)
	}

	target, ok := ParseStatus(newStatus)
	if !ok || !target.IsDecision() {
		return Request{}, fmt.Errorf("status must be approved or rejected: %w", errs.ErrInvalidTransition)
	}
	if current.Status != StatusPending {
		return Request{}, fmt.Errorf("request already %s: %w", current.Status, errs.ErrInvalidTransition)
	}

	updated, err := s.repo.Decide(ctx, id, target, s.now())
	if err != nil {
		return Request{}, err
	}

	s.publish(ctx, notify.Event{
		Type:        notify.EventAdoptionDecided,
		RecipientID: updated.VolunteerID,
		Data: map[string]any{
			"request_id": updated.ID,
			"pet_id":     updated.PetID,
			"status":     string(updated.Status),
		},
	})
	if s.observer != nil {
		s.observer.AdoptionDecided(string(updated.Status))
	}
	return updated, nil
}

// publish entrega el evento al despachador. Un fallo no revierte la operación.
func (s *Service) publish(ctx context.Context, evt notify.Event) {
	evt.ID = uuid.NewString()
	evt.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("publish event failed", map[string]any{
			"event_type": string(evt.Type),
			"event_id":   evt.ID,
			"error":      err.Error(),
		})
	}
}
