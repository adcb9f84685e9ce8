package foundpets

import (
	"strings"
	"time"

	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/geo"
)

// Status del reporte. El orden natural es reported -> processed -> rescued.
// @Enum reported, processed, rescued
type Status string

const (
	StatusReported  Status = "reported"
	StatusProcessed Status = "processed"
	StatusRescued   Status = "rescued"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusReported, StatusProcessed, StatusRescued:
		return st, true
	default:
		return "", false
	}
}

func (s Status) rank() int {
	switch s {
	case StatusReported:
		return 0
	case StatusProcessed:
		return 1
	case StatusRescued:
		return 2
	default:
		return -1
	}
}

// FoundPet es un animal callejero reportado por un voluntario.
type FoundPet struct {
	ID          int64
	VolunteerID string
	Type        pets.Type
	Description string
	Location    geo.Point
	Status      Status
	Images      []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportResult es lo que devuelve Report: el reporte creado y las alertas que matchearon.
type ReportResult struct {
	FoundPet FoundPet
	Matches  []alerts.Alert
}

type ListFilter struct {
	Type   pets.Type
	Status Status
	Limit  int
	Offset int
}
