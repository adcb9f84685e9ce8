package media

import (
	"errors"
	"fmt"
	"net/http"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// overhead del multipart (boundaries, headers de la parte)
const multipartOverhead = 64 << 10

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/uploads", uploadHandler(svc, log))
}

type uploadResponse struct {
	URL string `json:"url"`
}

// uploadHandler godoc
// @Summary Subir imagen
// @Description Requiere sesión. Acepta jpeg, png y webp. Devuelve la URL pública para usar en images.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Imagen"
// @Success 201 {object} uploadResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /uploads [post]
func uploadHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if !claims.Authenticated() {
			httpx.WriteError(w, r, log, errs.ErrUnauthorized)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+multipartOverhead)
		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httpx.WriteError(w, r, log, fmt.Errorf("file too large: %w", errs.ErrInvalidInput))
				return
			}
			httpx.WriteError(w, r, log, fmt.Errorf("multipart field file required: %w", errs.ErrInvalidInput))
			return
		}
		defer file.Close()

		url, err := svc.Upload(r.Context(), claims, header.Filename, header.Size, file)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, uploadResponse{URL: url})
	}
}
