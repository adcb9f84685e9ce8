package alerts

import (
	"net/http"
	"time"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/alerts", func(ar chi.Router) {
		ar.Get("/", listAlertsHandler(svc, log))
		ar.Post("/", createAlertHandler(svc, log))
		ar.Delete("/{alertID}", deleteAlertHandler(svc, log))
		ar.Post("/{alertID}/toggle", toggleAlertHandler(svc, log))
	})
}

type locationPayload struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius *float64 `json:"radius"` // km
}

type createAlertRequest struct {
	PetType  string          `json:"pet_type" enums:"cat,dog,rabbit,other"`
	Location locationPayload `json:"location"`
}

type LocationResponse struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius"`
}

// AlertResponse también lo usa foundpets para devolver las alertas matcheadas.
type AlertResponse struct {
	ID          int64            `json:"id"`
	VolunteerID string           `json:"volunteer_id"`
	PetType     pets.Type        `json:"pet_type"`
	Location    LocationResponse `json:"location"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
}

// createAlertHandler godoc
// @Summary Crear alerta
// @Description Solo voluntarios. radius en km, debe ser > 0.
// @Tags alerts
// @Accept json
// @Produce json
// @Param payload body createAlertRequest true "Tipo y ubicación"
// @Success 201 {object} AlertResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /alerts [post]
func createAlertHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createAlertRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.Create(r.Context(), claims, CreateInput{
			PetType:  req.PetType,
			Lat:      req.Location.Lat,
			Lng:      req.Location.Lng,
			RadiusKm: req.Location.Radius,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToAlertResponse(a))
	}
}

func listAlertsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListForVolunteer(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAlertResponses(items))
	}
}

func deleteAlertHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "alertID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if err := svc.Delete(r.Context(), id, claims); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// toggleAlertHandler godoc
// @Summary Activar/desactivar alerta
// @Tags alerts
// @Produce json
// @Param alertID path int true "ID de la alerta"
// @Success 200 {object} AlertResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /alerts/{alertID}/toggle [post]
func toggleAlertHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "alertID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.Toggle(r.Context(), id, claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToAlertResponse(a))
	}
}

func ToAlertResponse(a Alert) AlertResponse {
	return AlertResponse{
		ID:          a.ID,
		VolunteerID: a.VolunteerID,
		PetType:     a.PetType,
		Location: LocationResponse{
			Lat:    a.Location.Lat,
			Lng:    a.Location.Lng,
			Radius: a.Location.RadiusKm,
		},
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

func ToAlertResponses(items []Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToAlertResponse(a))
	}
	return out
}
