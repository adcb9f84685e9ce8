package favorites

import "context"

type Repository interface {
	// Add inserta el favorito y asigna ID. Par repetido => errs.ErrConflict.
	Add(ctx context.Context, f Favorite) (Favorite, error)
	// Remove borra el par; si no existe => errs.ErrNotFound.
	Remove(ctx context.Context, volunteerID string, petID int64) error
	Exists(ctx context.Context, volunteerID string, petID int64) (bool, error)
	// ListWithPets hace el join con pets; filas huérfanas no se devuelven.
	ListWithPets(ctx context.Context, volunteerID string) ([]WithPet, error)
}
