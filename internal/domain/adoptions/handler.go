package adoptions

import (
	"net/http"
	"time"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de adopción. createMW se aplica solo al POST
// (rate limit); puede ser nil.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, createMW func(http.Handler) http.Handler) {
	r.Route("/adoption-requests", func(ar chi.Router) {
		if createMW != nil {
			ar.With(createMW).Post("/", createRequestHandler(svc, log))
		} else {
			ar.Post("/", createRequestHandler(svc, log))
		}
		ar.Patch("/{requestID}", updateStatusHandler(svc, log))
	})

	r.Get("/shelter/adoption-requests", listForShelterHandler(svc, log))
	r.Get("/me/adoption-requests", listForVolunteerHandler(svc, log))
}

type createRequest struct {
	PetID   int64  `json:"pet_id"`
	Message string `json:"message"`
}

type updateStatusRequest struct {
	Status string `json:"status" enums:"approved,rejected"`
}

type requestResponse struct {
	ID          int64     `json:"id"`
	VolunteerID string    `json:"volunteer_id"`
	PetID       int64     `json:"pet_id"`
	Status      Status    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type petSummaryResponse struct {
	ID        int64       `json:"id"`
	ShelterID string      `json:"shelter_id"`
	Name      string      `json:"name"`
	Type      pets.Type   `json:"type"`
	Status    pets.Status `json:"status"`
	Images    []string    `json:"images"`
}

type volunteerSummaryResponse struct {
	ID    string `json:"id"`
	Bio   string `json:"bio,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type viewResponse struct {
	requestResponse
	Pet       petSummaryResponse       `json:"pet"`
	Volunteer volunteerSummaryResponse `json:"volunteer"`
}

// createRequestHandler godoc
// @Summary Solicitar adopción
// @Description Solo voluntarios. La solicitud nace en pending.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param payload body createRequest true "Mascota y mensaje opcional"
// @Success 201 {object} requestResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Router /adoption-requests [post]
func createRequestHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out, err := svc.Create(r.Context(), claims, req.PetID, req.Message)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toRequestResponse(out))
	}
}

// updateStatusHandler godoc
// @Summary Decidir solicitud
// @Description Solo el refugio dueño de la mascota. pending -> approved|rejected; cualquier otra transición devuelve 409.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param requestID path int true "ID de la solicitud"
// @Param payload body updateStatusRequest true "Nuevo status"
// @Success 200 {object} requestResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /adoption-requests/{requestID} [patch]
func updateStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "requestID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req updateStatusRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out, err := svc.UpdateStatus(r.Context(), id, req.Status, claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func listForShelterHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListForShelter(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toViewResponses(items))
	}
}

func listForVolunteerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListForVolunteer(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toViewResponses(items))
	}
}

func toRequestResponse(req Request) requestResponse {
	return requestResponse{
		ID:          req.ID,
		VolunteerID: req.VolunteerID,
		PetID:       req.PetID,
		Status:      req.Status,
		Message:     req.Message,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

func toViewResponses(items []View) []viewResponse {
	out := make([]viewResponse, 0, len(items))
	for _, v := range items {
		images := v.Pet.Images
		if images == nil {
			images = []string{}
		}
		out = append(out, viewResponse{
			requestResponse: toRequestResponse(v.Request),
			Pet: petSummaryResponse{
				ID:        v.Pet.ID,
				ShelterID: v.Pet.ShelterID,
				Name:      v.Pet.Name,
				Type:      v.Pet.Type,
				Status:    v.Pet.Status,
				Images:    images,
			},
			Volunteer: volunteerSummaryResponse{
				ID:    v.Volunteer.ID,
				Bio:   v.Volunteer.Bio,
				Phone: v.Volunteer.Phone,
			},
		})
	}
	return out
}
