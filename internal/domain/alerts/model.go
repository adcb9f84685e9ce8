package alerts

import (
	"time"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/geo"
)

// Location es el centro de la alerta y su radio en km.
type Location struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

func (l Location) Center() geo.Point {
	return geo.Point{Lat: l.Lat, Lng: l.Lng}
}

// Alert es una suscripción de un voluntario a reportes de mascotas encontradas.
type Alert struct {
	ID          int64
	VolunteerID string
	PetType     pets.Type
	Location    Location
	Active      bool
	CreatedAt   time.Time
}
