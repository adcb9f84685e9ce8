package adoptions

import (
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"
)

// Status de la solicitud. pending -> approved | rejected; ambos son terminales.
// @Enum pending, approved, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	default:
		return "", false
	}
}

// IsDecision indica si el status es un destino válido de una decisión del refugio.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

type Request struct {
	ID          int64
	VolunteerID string
	PetID       int64
	Status      Status
	Message     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PetSummary struct {
	ID        int64
	ShelterID string
	Name      string
	Type      pets.Type
	Status    pets.Status
	Images    []string
}

type VolunteerSummary struct {
	ID    string
	Bio   string
	Phone string
}

// View es la solicitud con los datos de mascota y voluntario resueltos en el store.
type View struct {
	Request   Request
	Pet       PetSummary
	Volunteer VolunteerSummary
}
