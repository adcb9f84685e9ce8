package pets

import (
	"net/http"
	"time"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, log))
		pr.Post("/", createPetHandler(svc, log))
		pr.Get("/featured", featuredPetsHandler(svc, log))

		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Patch("/{petID}", updatePetHandler(svc, log))
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})
}

type createPetRequest struct {
	Name        string   `json:"name"`
	Sex         string   `json:"sex" enums:"male,female"`
	Age         int      `json:"age"`
	Type        string   `json:"type" enums:"cat,dog,rabbit,other"`
	Status      string   `json:"status" enums:"waiting,in_shelter,adopted"` // opcional, default waiting
	Description string   `json:"description"`
	Health      string   `json:"health"`
	Images      []string `json:"images"`
}

type updatePetRequest struct {
	Name        *string   `json:"name"`
	Sex         *string   `json:"sex"`
	Age         *int      `json:"age"`
	Type        *string   `json:"type"`
	Status      *string   `json:"status"`
	Description *string   `json:"description"`
	Health      *string   `json:"health"`
	Images      *[]string `json:"images"`
}

// PetResponse es la mascota tal como la ve la API.
type PetResponse struct {
	ID          int64     `json:"id"`
	ShelterID   string    `json:"shelter_id"`
	Name        string    `json:"name"`
	Sex         Sex       `json:"sex"`
	Age         int       `json:"age"`
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	Health      string    `json:"health"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type shelterSummaryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Website      string `json:"website,omitempty"`
	DonationLink string `json:"donation_link,omitempty"`
}

type petDetailResponse struct {
	Pet     PetResponse            `json:"pet"`
	Shelter shelterSummaryResponse `json:"shelter"`
}

// createPetHandler godoc
// @Summary Publicar mascota
// @Description Solo refugios. La mascota queda asociada al refugio autenticado y ese vínculo no cambia.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param X-Debug-Role header string false "Solo en modo dev (shelter|volunteer)"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} PetResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Create(r.Context(), claims, CreateInput{
			Name:        req.Name,
			Sex:         req.Sex,
			Age:         req.Age,
			Type:        req.Type,
			Status:      req.Status,
			Description: req.Description,
			Health:      req.Health,
			Images:      req.Images,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, ToPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Público. Filtros: type y status aceptan CSV; name y health son búsquedas parciales.
// @Tags pets
// @Produce json
// @Param type query string false "cat,dog,rabbit,other"
// @Param status query string false "waiting,in_shelter,adopted"
// @Param name query string false "nombre parcial"
// @Param shelter query string false "ID del refugio"
// @Param health query string false "texto parcial de salud"
// @Param limit query int false "default 20, max 100"
// @Param offset query int false "default 0"
// @Success 200 {array} PetResponse
// @Router /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, offset := httpx.Pagination(r, defaultListLimit, maxListLimit)

		f := ListFilter{
			Name:      q.Get("name"),
			ShelterID: q.Get("shelter"),
			Health:    q.Get("health"),
			Limit:     limit,
			Offset:    offset,
		}

		// Si algún valor del CSV es inválido se ignora ese filtro completo.
		if raw := httpx.SplitCSV(q.Get("type")); len(raw) > 0 {
			types := make([]Type, 0, len(raw))
			for _, v := range raw {
				t, ok := ParseType(v)
				if !ok {
					types = nil
					break
				}
				types = append(types, t)
			}
			f.Types = types
		}
		if raw := httpx.SplitCSV(q.Get("status")); len(raw) > 0 {
			statuses := make([]Status, 0, len(raw))
			for _, v := range raw {
				st, ok := ParseStatus(v)
				if !ok {
					statuses = nil
					break
				}
				statuses = append(statuses, st)
			}
			f.Statuses = statuses
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponses(items))
	}
}

func featuredPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Featured(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponses(items))
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Description Público. Incluye el resumen del refugio.
// @Tags pets
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} petDetailResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		pw, err := svc.GetWithShelter(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, petDetailResponse{
			Pet: ToPetResponse(pw.Pet),
			Shelter: shelterSummaryResponse{
				ID:           pw.Shelter.ID,
				Name:         pw.Shelter.Name,
				Address:      pw.Shelter.Address,
				Phone:        pw.Shelter.Phone,
				Website:      pw.Shelter.Website,
				DonationLink: pw.Shelter.DonationLink,
			},
		})
	}
}

func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		// shelter_id no es editable: DecodeJSON rechaza campos desconocidos.
		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, claims, UpdateInput{
			Name:        req.Name,
			Sex:         req.Sex,
			Age:         req.Age,
			Type:        req.Type,
			Status:      req.Status,
			Description: req.Description,
			Health:      req.Health,
			Images:      req.Images,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(updated))
	}
}

func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		id, err := httpx.ParseID(chi.URLParam(r, "petID"))
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

func ToPetResponse(p Pet) PetResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return PetResponse{
		ID:          p.ID,
		ShelterID:   p.ShelterID,
		Name:        p.Name,
		Sex:         p.Sex,
		Age:         p.Age,
		Type:        p.Type,
		Status:      p.Status,
		Description: p.Description,
		Health:      p.Health,
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPetResponses(items []Pet) []PetResponse {
	out := make([]PetResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPetResponse(p))
	}
	return out
}
