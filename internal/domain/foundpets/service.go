package foundpets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/notify"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// AlertMatcher lo implementa alerts.Service.
type AlertMatcher interface {
	Match(ctx context.Context, petType pets.Type, at geo.Point) ([]alerts.Alert, error)
}

// Observer recibe cada reporte creado con su cantidad de matches (métricas).
type Observer interface {
	FoundPetReported(matches int)
}

// ImageCleaner borra imágenes del blob store (best-effort).
type ImageCleaner interface {
	RemoveImages(ctx context.Context, ownerID string, urls []string)
}

type Options struct {
	// StrictTransitions exige reported -> processed -> rescued (sin retroceder).
	StrictTransitions bool

	Publisher notify.Publisher
	Observer  Observer
	Images    ImageCleaner
	Logger    logger.Logger
}

type Service struct {
	repo    Repository
	matcher AlertMatcher
	strict  bool

	publisher notify.Publisher
	observer  Observer
	images    ImageCleaner
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, matcher AlertMatcher, opts Options) *Service {
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
		matcher:   matcher,
		strict:    opts.StrictTransitions,
		publisher: pub,
		observer:  opts.Observer,
		images:    opts.Images,
		log:       log,
		now:       time.Now,
	}
}

type ReportInput struct {
	Type        string
	Description string
	Lat         *float64
	Lng         *float64
	Images      []string
}

// Report crea el reporte en estado reported y corre el matching contra las alertas activas.
func (s *Service) Report(ctx context.Context, actor auth.Claims, in ReportInput) (ReportResult, error) {
	if !actor.Authenticated() {
		return ReportResult{}, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return ReportResult{}, fmt.Errorf("only volunteers report found pets: %w", errs.ErrForbidden)
	}

	typ, ok := pets.ParseType(in.Type)
	if !ok {
		return ReportResult{}, fmt.Errorf("invalid pet type: %w", errs.ErrInvalidInput)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return ReportResult{}, fmt.Errorf("description required: %w", errs.ErrInvalidInput)
	}
	if in.Lat == nil || in.Lng == nil {
		return ReportResult{}, fmt.Errorf("location requires lat and lng: %w", errs.ErrInvalidInput)
	}
	loc := geo.Point{Lat: *in.Lat, Lng: *in.Lng}
	if !loc.Valid() {
		return ReportResult{}, fmt.Errorf("location out of range: %w", errs.ErrInvalidInput)
	}
	images, err := normalizeImages(in.Images)
	if err != nil {
		return ReportResult{}, err
	}

	now := s.now()
	fp, err := s.repo.Create(ctx, FoundPet{
		VolunteerID: actor.UserID,
		Type:        typ,
		Description: desc,
		Location:    loc,
		Status:      StatusReported,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return ReportResult{}, err
	}

	matches, err := s.matcher.Match(ctx, fp.Type, fp.Location)
	if err != nil {
		// el reporte ya quedó guardado; el matching se puede reintentar
		return ReportResult{}, fmt.Errorf("match alerts for found pet %d: %w", fp.ID, err)
	}

	for _, a := range matches {
		s.publish(ctx, notify.Event{
			Type:        notify.EventAlertMatched,
			RecipientID: a.VolunteerID,
			Data: map[string]any{
				"alert_id":     a.ID,
				"found_pet_id": fp.ID,
				"pet_type":     string(fp.Type),
				"distance_km":  geo.DistanceKm(a.Location.Center(), fp.Location),
			},
		})
	}
	if s.observer != nil {
		s.observer.FoundPetReported(len(matches))
	}

	return ReportResult{FoundPet: fp, Matches: matches}, nil
}

// MatchAlerts expone el matching sin crear reporte.
func (s *Service) MatchAlerts(ctx context.Context, petType pets.Type, at geo.Point) ([]alerts.Alert, error) {
	if !at.Valid() {
		return nil, fmt.Errorf("location out of range: %w", errs.ErrInvalidInput)
	}
	return s.matcher.Match(ctx, petType, at)
}

func (s *Service) Get(ctx context.Context, id int64) (FoundPet, error) {
	if id <= 0 {
		return FoundPet{}, errs.ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]FoundPet, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *Service) ListForVolunteer(ctx context.Context, actor auth.Claims) ([]FoundPet, error) {
	if !actor.Authenticated() {
		return nil, errs.ErrUnauthorized
	}
	if actor.Role != auth.RoleVolunteer {
		return nil, fmt.Errorf("not a volunteer account: %w", errs.ErrForbidden)
	}
	return s.repo.ListByVolunteer(ctx, actor.UserID)
}

// UpdateStatus solo lo puede hacer quien reportó. Por defecto acepta cualquiera de
// los tres estados; con StrictTransitions no se permite retroceder.
func (s *Service) UpdateStatus(ctx context.Context, id int64, newStatus string, actor auth.Claims) (FoundPet, error) {
	fp, err := s.authorizeReporter(ctx, id, actor)
	if err != nil {
		return FoundPet{}, err
	}

	target, ok := ParseStatus(newStatus)
	if !ok {
		return FoundPet{}, fmt.Errorf("status must be reported, processed or rescued: %w", errs.ErrInvalidInput)
	}
	var from Status
	if s.strict {
		if target.rank() < fp.Status.rank() {
			return FoundPet{}, fmt.Errorf("cannot move from %s to %s: %w", fp.Status, target, errs.ErrInvalidTransition)
		}
		// el chequeo vale solo si nadie cambió el estado en el medio
		from = fp.Status
	}

	return s.repo.UpdateStatus(ctx, id, from, target, s.now())
}

func (s *Service) Delete(ctx context.Context, id int64, actor auth.Claims) error {
	fp, err := s.authorizeReporter(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil && len(fp.Images) > 0 {
		s.images.RemoveImages(ctx, fp.VolunteerID, fp.Images)
	}
	return nil
}

func (s *Service) authorizeReporter(ctx context.Context, id int64, actor auth.Claims) (FoundPet, error) {
	if !actor.Authenticated() {
		return FoundPet{}, errs.ErrUnauthorized
	}
	fp, err := s.Get(ctx, id)
	if err != nil {
		return FoundPet{}, err
	}
	if fp.VolunteerID != actor.UserID {
		return FoundPet{}, fmt.Errorf("found pet reported by another volunteer: %w", errs.ErrForbidden)
	}
	return fp, nil
}

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
