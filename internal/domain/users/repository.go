package users

import "context"

type Repository interface {
	// CreateAccount inserta users + fila de detalle en una sola transacción.
	// Devuelve errs.ErrConflict si el usuario ya existe.
	CreateAccount(ctx context.Context, a Account) error
	GetUser(ctx context.Context, id string) (User, error)

	GetShelter(ctx context.Context, id string) (Shelter, error)
	ListShelters(ctx context.Context, name string, limit, offset int) ([]Shelter, error)
	UpdateShelter(ctx context.Context, s Shelter) error

	GetVolunteer(ctx context.Context, id string) (Volunteer, error)
	UpdateVolunteer(ctx context.Context, v Volunteer) error
}
