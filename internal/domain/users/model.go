package users

import (
	"time"

	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/ports/auth"
)

// User se crea en el primer sign-in. El rol no cambia después.
type User struct {
	ID        string
	Role      auth.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Shelter struct {
	ID           string
	Name         string
	Description  string
	Address      string
	Phone        string
	Website      string
	DonationLink string
	Location     *geo.Point

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Volunteer struct {
	ID    string
	Bio   string
	Phone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account es el usuario con su fila de detalle según rol (una de las dos).
type Account struct {
	User      User
	Shelter   *Shelter
	Volunteer *Volunteer
}
