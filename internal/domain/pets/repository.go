package pets

import "context"

type Repository interface {
	// Create asigna ID y devuelve la fila persistida.
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	GetWithShelter(ctx context.Context, id int64) (PetWithShelter, error)
	List(ctx context.Context, filter ListFilter) ([]Pet, error)
	Random(ctx context.Context, n int) ([]Pet, error)
	Update(ctx context.Context, p Pet) error
	// Delete borra la mascota junto con sus favoritos y solicitudes de adopción.
	Delete(ctx context.Context, id int64) error
}
