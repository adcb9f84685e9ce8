package adoptions

import (
	"context"
	"time"
)

type Repository interface {
	// Create asigna ID y devuelve la fila persistida.
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id int64) (Request, error)

	// ListForShelter devuelve las solicitudes sobre mascotas del refugio, más nuevas primero.
	ListForShelter(ctx context.Context, shelterID string) ([]View, error)
	// ListForVolunteer devuelve las solicitudes del voluntario, más nuevas primero.
	ListForVolunteer(ctx context.Context, volunteerID string) ([]View, error)

	// Decide aplica la decisión solo si la fila sigue pending (update condicional).
	// Si ya no lo está devuelve errs.ErrInvalidTransition; si no existe, errs.ErrNotFound.
	Decide(ctx context.Context, id int64, status Status, at time.Time) (Request, error)
}
