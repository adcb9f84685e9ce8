package favorites

import (
	"time"

	"pet-adoption/internal/domain/pets"
)

// Favorite marca una mascota guardada por un voluntario.
// El par (VolunteerID, PetID) es único en el store.
type Favorite struct {
	ID          int64
	VolunteerID string
	PetID       int64
	CreatedAt   time.Time
}

// WithPet es el favorito resuelto contra la fila de la mascota (join en el store).
type WithPet struct {
	Favorite Favorite
	Pet      pets.Pet
}
