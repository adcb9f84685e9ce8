package users

import (
	"net/http"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/geo"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	// /me no se monta como subrouter: otros módulos cuelgan rutas bajo /me/.
	r.Post("/me", onboardHandler(svc, log))
	r.Get("/me", getMeHandler(svc, log))
	r.Patch("/me/profile", updateProfileHandler(svc, log))

	r.Route("/shelters", func(sr chi.Router) {
		sr.Get("/", listSheltersHandler(svc, log))
		sr.Get("/{shelterID}", getShelterHandler(svc, log))
	})
}

type onboardRequest struct {
	Role        string `json:"role" enums:"shelter,volunteer"`
	ShelterName string `json:"shelter_name"`
}

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type shelterResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Address      string           `json:"address,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	Website      string           `json:"website,omitempty"`
	DonationLink string           `json:"donation_link,omitempty"`
	Location     *locationPayload `json:"location,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type volunteerResponse struct {
	ID        string    `json:"id"`
	Bio       string    `json:"bio,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type accountResponse struct {
	ID        string             `json:"id"`
	Role      auth.Role          `json:"role"`
	Shelter   *shelterResponse   `json:"shelter,omitempty"`
	Volunteer *volunteerResponse `json:"volunteer,omitempty"`
}

// Un solo body para ambos roles; se aplican los campos del rol del usuario.
type updateProfileRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Address      *string          `json:"address"`
	Website      *string          `json:"website"`
	DonationLink *string          `json:"donation_link"`
	Location     *locationPayload `json:"location"`
	Bio          *string          `json:"bio"`
	Phone        *string          `json:"phone"`
}

// onboardHandler godoc
// @Summary Registrar cuenta (primer sign-in)
// @Description Crea users + shelters|volunteers para el usuario autenticado. Idempotente: si ya existe devuelve la cuenta sin cambiar el rol.
// @Tags accounts
// @Accept json
// @Produce json
// @Param payload body onboardRequest true "Rol inicial"
// @Success 200 {object} accountResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /me [post]
func onboardHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req onboardRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		acc, err := svc.EnsureUser(r.Context(), claims.UserID, EnsureInput{
			Role:        req.Role,
			ShelterName: req.ShelterName,
			ClaimedRole: claims.Role,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acc))
	}
}

func getMeHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if !claims.Authenticated() {
			httpx.WriteError(w, r, log, errs.ErrUnauthorized)
			return
		}

		acc, err := svc.GetAccount(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acc))
	}
}

func updateProfileHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req updateProfileRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		if claims.Role == auth.RoleShelter {
			var loc *geo.Point
			if req.Location != nil {
				loc = &geo.Point{Lat: req.Location.Lat, Lng: req.Location.Lng}
			}
			sh, err := svc.UpdateShelter(r.Context(), claims, ShelterPatch{
				Name:         req.Name,
				Description:  req.Description,
				Address:      req.Address,
				Phone:        req.Phone,
				Website:      req.Website,
				DonationLink: req.DonationLink,
				Location:     loc,
			})
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, toShelterResponse(sh))
			return
		}

		v, err := svc.UpdateVolunteer(r.Context(), claims, VolunteerPatch{
			Bio:   req.Bio,
			Phone: req.Phone,
		})
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toVolunteerResponse(v))
	}
}

func listSheltersHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := httpx.Pagination(r, 20, 100)

		items, err := svc.ListShelters(r.Context(), r.URL.Query().Get("name"), limit, offset)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]shelterResponse, 0, len(items))
		for _, sh := range items {
			out = append(out, toShelterResponse(sh))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getShelterHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := svc.GetShelter(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toShelterResponse(sh))
	}
}

func toAccountResponse(a Account) accountResponse {
	out := accountResponse{ID: a.User.ID, Role: a.User.Role}
	if a.Shelter != nil {
		sh := toShelterResponse(*a.Shelter)
		out.Shelter = &sh
	}
	if a.Volunteer != nil {
		v := toVolunteerResponse(*a.Volunteer)
		out.Volunteer = &v
	}
	return out
}

func toShelterResponse(sh Shelter) shelterResponse {
	out := shelterResponse{
		ID:           sh.ID,
		Name:         sh.Name,
		Description:  sh.Description,
		Address:      sh.Address,
		Phone:        sh.Phone,
		Website:      sh.Website,
		DonationLink: sh.DonationLink,
		CreatedAt:    sh.CreatedAt,
		UpdatedAt:    sh.UpdatedAt,
	}
	if sh.Location != nil {
		out.Location = &locationPayload{Lat: sh.Location.Lat, Lng: sh.Location.Lng}
	}
	return out
}

func toVolunteerResponse(v Volunteer) volunteerResponse {
	return volunteerResponse{
		ID:        v.ID,
		Bio:       v.Bio,
		Phone:     v.Phone,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
