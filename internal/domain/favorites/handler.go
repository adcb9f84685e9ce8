package favorites

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
	r.Route("/favorites", func(fr chi.Router) {
		fr.Get("/", listFavoritesHandler(svc, log))
		fr.Post("/", addFavoriteHandler(svc, log))
		fr.Get("/check", checkFavoriteHandler(svc, log))
		fr.Delete("/{petID}", removeFavoriteHandler(svc, log))
	})
}

type addFavoriteRequest struct {
	PetID int64 `json:"pet_id"`
}

type favoriteResponse struct {
	ID          int64     `json:"id"`
	VolunteerID string    `json:"volunteer_id"`
	PetID       int64     `json:"pet_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type favoriteWithPetResponse struct {
	favoriteResponse
	Pet pets.PetResponse `json:"pet"`
}

type checkResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

// addFavoriteHandler godoc
// @Summary Agregar favorito
// @Description Solo voluntarios. Un par voluntario/mascota repetido devuelve 409.
// @Tags favorites
// @Accept json
// @Produce json
// @Param payload body addFavoriteRequest true "Mascota"
// @Success 201 {object} favoriteResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /favorites [post]
func addFavoriteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req addFavoriteRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		f, err := svc.Add(r.Context(), claims, req.PetID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toFavoriteResponse(f))
	}
}

func removeFavoriteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		petID, err := httpx.ParseID(chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if err := svc.Remove(r.Context(), claims, petID); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// checkFavoriteHandler godoc
// @Summary ¿Es favorito?
// @Description Sin sesión siempre responde false.
// @Tags favorites
// @Produce json
// @Param pet_id query int true "ID de la mascota"
// @Success 200 {object} checkResponse
// @Failure 400 {object} map[string]string
// @Router /favorites/check [get]
func checkFavoriteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		petID, err := httpx.ParseID(r.URL.Query().Get("pet_id"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		ok, err := svc.IsFavorite(r.Context(), claims, petID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, checkResponse{IsFavorite: ok})
	}
}

func listFavoritesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListForVolunteer(r.Context(), claims)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]favoriteWithPetResponse, 0, len(items))
		for _, it := range items {
			out = append(out, favoriteWithPetResponse{
				favoriteResponse: toFavoriteResponse(it.Favorite),
				Pet:              pets.ToPetResponse(it.Pet),
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toFavoriteResponse(f Favorite) favoriteResponse {
	return favoriteResponse{
		ID:          f.ID,
		VolunteerID: f.VolunteerID,
		PetID:       f.PetID,
		CreatedAt:   f.CreatedAt,
	}
}
