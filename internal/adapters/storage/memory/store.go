package memory

import (
	"sync"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/foundpets"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/users"
)

// Store guarda todas las tablas bajo un único lock, así los joins y las
// cascadas (borrar mascota => favoritos y solicitudes) son atómicos igual que en Postgres.
type Store struct {
	mu  sync.RWMutex
	seq int64

	users      map[string]users.User
	shelters   map[string]users.Shelter
	volunteers map[string]users.Volunteer

	pets      map[int64]pets.Pet
	favorites map[int64]favorites.Favorite
	adoptions map[int64]adoptions.Request
	alerts    map[int64]alerts.Alert
	foundPets map[int64]foundpets.FoundPet
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]users.User),
		shelters:   make(map[string]users.Shelter),
		volunteers: make(map[string]users.Volunteer),
		pets:       make(map[int64]pets.Pet),
		favorites:  make(map[int64]favorites.Favorite),
		adoptions:  make(map[int64]adoptions.Request),
		alerts:     make(map[int64]alerts.Alert),
		foundPets:  make(map[int64]foundpets.FoundPet),
	}
}

// nextID imita BIGSERIAL (una sola secuencia para todo el store). Requiere mu tomado.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
