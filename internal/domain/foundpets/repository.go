package foundpets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, fp FoundPet) (FoundPet, error)
	GetByID(ctx context.Context, id int64) (FoundPet, error)
	// ListByVolunteer devuelve los reportes del voluntario, más nuevos primero.
	ListByVolunteer(ctx context.Context, volunteerID string) ([]FoundPet, error)
	List(ctx context.Context, filter ListFilter) ([]FoundPet, error)
	// UpdateStatus pasa a to solo si el estado actual sigue siendo from (from vacío:
	// sin condición). Si otro update ganó devuelve errs.ErrConflict.
	UpdateStatus(ctx context.Context, id int64, from, to Status, at time.Time) (FoundPet, error)
	Delete(ctx context.Context, id int64) error
}
