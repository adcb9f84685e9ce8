package foundpets

import (
	"net/http"
	"time"

	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de reportes. reportMW se aplica solo al POST
// (rate limit); puede ser nil.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, reportMW func(http.Handler) http.Handler) {
	r.Route("/found-pets", func(fr chi.Router) {
		fr.Get("/", listFoundPetsHandler(svc, log))
		if reportMW != nil {
			fr.With(reportMW).Post("/", reportHandler(svc, log))
		} else {
			fr.Post("/", reportHandler(svc, log))
		}

		fr.Get("/{foundPetID}", getFoundPetHandler(svc, log))
		fr.Patch("/{foundPetID}", updateStatusHandler(svc, log))
		fr.Delete("/{foundPetID}", deleteFoundPetHandler(svc, log))
	})

	r.Get("/me/found-pets", listMineHandler(svc, log))
}

type locationPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type reportRequest struct {
	Type        string          `json:"type" enums:"cat,dog,rabbit,other"`
	Description string          `json:"description"`
	Location    locationPayload `json:"location"`
	Images      []string        `json:"images"`
}

type updateStatusRequest struct {
	Status string `json:"status" enums:"reported,processed,rescued"`
}

type pointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type foundPetResponse struct {
	ID          int64         `json:"id"`
	VolunteerID string        `json:"volunteer_id"`
	Type        pets.Type     `json:"type"`
	Description string        `json:"description"`
	Location    pointResponse `json:"location"`
	Status      Status        `json:"status"`
	Images      []string      `json:"images"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type reportResponse struct {
	FoundPet       foundPetResponse       `json:"found_pet"`
	MatchingAlerts []alerts.AlertResponse `json:"matching_alerts"`
}

// reportHandler godoc
// @Summary Reportar mascota encontrada
// @Description Solo voluntarios. Crea el reporte en estado reported y devuelve las alertas activas del mismo tipo dentro de su radio.
// @Tags found-pets
// @Accept json
// @Produce json
// @Param payload body reportRequest true "Reporte"
// @Success 201 {object} reportResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /found-pets [post]
func reportHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req reportRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		res, err := svc.Report(r.Context(), claims, ReportInput{
			Type:        req.Type,
			Description: req.Description,
			Lat:         req.Location.Lat,
			Lng:         req.Location.Lng,
			Images:      req.Images,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, reportResponse{
			FoundPet:       toFoundPetResponse(res.FoundPet),
			MatchingAlerts: alerts.ToAlertResponses(res.Matches),
		})
	}
}

// listFoundPetsHandler godoc
// @Summary Listar reportes
// @Description Público.
// @Tags found-pets
// @Produce json
// @Param type query string false "cat,dog,rabbit,other"
// @Param status query string false "reported,processed,rescued"
// @Param limit query int false "default 20, max 100"
// @Param offset query int false "default 0"
// @Success 200 {array} foundPetResponse
// @Router /found-pets [get]
func listFoundPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, offset := httpx.Pagination(r, defaultListLimit, maxListLimit)

		f := ListFilter{Limit: limit, Offset: offset}
		// filtros inválidos se ignoran
		if t, ok := pets.ParseType(q.Get("type")); ok {
			f.Type = t
		}
		if st, ok := ParseStatus(q.Get("status")); ok {
			f.Status = st
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toFoundPetResponses(items))
	}
}

func getFoundPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(chi.URLParam(r, "foundPetID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		fp, err := svc.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toFoundPetResponse(fp))
	}
}

func listMineHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListForVolunteer(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toFoundPetResponses(items))
	}
}

// updateStatusHandler godoc
// @Summary Actualizar estado del reporte
// @Description Solo quien reportó.
// @Tags found-pets
// @Accept json
// @Produce json
// @Param foundPetID path int true "ID del reporte"
// @Param payload body updateStatusRequest true "Nuevo status"
// @Success 200 {object} foundPetResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /found-pets/{foundPetID} [patch]
func updateStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "foundPetID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req updateStatusRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		fp, err := svc.UpdateStatus(r.Context(), id, req.Status, claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toFoundPetResponse(fp))
	}
}

func deleteFoundPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "foundPetID"))
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

func toFoundPetResponse(fp FoundPet) foundPetResponse {
	images := fp.Images
	if images == nil {
		images = []string{}
	}
	return foundPetResponse{
		ID:          fp.ID,
		VolunteerID: fp.VolunteerID,
		Type:        fp.Type,
		Description: fp.Description,
		Location:    pointResponse{Lat: fp.Location.Lat, Lng: fp.Location.Lng},
		Status:      fp.Status,
		Images:      images,
		CreatedAt:   fp.CreatedAt,
		UpdatedAt:   fp.UpdatedAt,
	}
}

func toFoundPetResponses(items []FoundPet) []foundPetResponse {
	out := make([]foundPetResponse, 0, len(items))
	for _, fp := range items {
		out = append(out, toFoundPetResponse(fp))
	}
	return out
}
