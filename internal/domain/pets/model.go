package pets

import (
	"strings"
	"time"
)

// Type define las especies que maneja el catálogo (también usadas por alertas y reportes).
// @Enum cat, dog, rabbit, other
type Type string

const (
	TypeCat    Type = "cat"
	TypeDog    Type = "dog"
	TypeRabbit Type = "rabbit"
	TypeOther  Type = "other"
)

func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeCat, TypeDog, TypeRabbit, TypeOther:
		return t, true
	default:
		return "", false
	}
}

// Status es el estado de la mascota en el refugio.
// @Enum waiting, in_shelter, adopted
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusInShelter Status = "in_shelter"
	StatusAdopted   Status = "adopted"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusWaiting, StatusInShelter, StatusAdopted:
		return st, true
	default:
		return "", false
	}
}

// Sex define el sexo de la mascota.
// @Enum male, female
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func ParseSex(s string) (Sex, bool) {
	switch sx := Sex(strings.ToLower(strings.TrimSpace(s))); sx {
	case SexMale, SexFemale:
		return sx, true
	default:
		return "", false
	}
}

// Pet es una mascota publicada por un refugio. ShelterID no cambia nunca.
type Pet struct {
	ID        int64
	ShelterID string

	Name   string
	Sex    Sex
	Age    int
	Type   Type
	Status Status

	Description string
	Health      string
	Images      []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShelterSummary es lo mínimo del refugio que se muestra junto a la mascota.
type ShelterSummary struct {
	ID           string
	Name         string
	Address      string
	Phone        string
	Website      string
	DonationLink string
}

type PetWithShelter struct {
	Pet     Pet
	Shelter ShelterSummary
}

type ListFilter struct {
	Types     []Type
	Statuses  []Status
	Name      string
	ShelterID string
	Health    string

	Limit  int
	Offset int
}
