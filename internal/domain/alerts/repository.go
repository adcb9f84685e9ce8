package alerts

import (
	"context"

	"pet-adoption/internal/domain/pets"
)

type Repository interface {
	Create(ctx context.Context, a Alert) (Alert, error)
	GetByID(ctx context.Context, id int64) (Alert, error)
	ListByVolunteer(ctx context.Context, volunteerID string) ([]Alert, error)
	Delete(ctx context.Context, id int64) error
	// Toggle invierte active en un solo update y devuelve la fila resultante.
	Toggle(ctx context.Context, id int64) (Alert, error)
	// ListActiveByType trae los candidatos para el matching; la distancia se filtra en el service.
	ListActiveByType(ctx context.Context, petType pets.Type) ([]Alert, error)
}
