// Package httpx reúne los helpers HTTP compartidos por los módulos
// (writeJSON, mapeo de errores de dominio a status).
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/platform/logger"

	"github.com/getsentry/sentry-go"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusOf traduce un error de dominio al status HTTP equivalente.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError escribe el error como JSON. Los errores de cliente exponen el mensaje;
// los de infraestructura se loguean, se reportan a Sentry y salen como "internal error".
func WriteError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status := StatusOf(err)
	if status != http.StatusInternalServerError {
		WriteJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	if log != nil {
		log.Error("request failed", map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": chimw.GetReqID(r.Context()),
			"error":      err.Error(),
		})
	}
	if hub := sentry.CurrentHub(); hub != nil && hub.Client() != nil {
		hub.CaptureException(err)
	}
	WriteJSON(w, status, errorResponse{Error: "internal error"})
}

// DecodeJSON decodifica el body rechazando campos desconocidos y bodies gigantes.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.ErrInvalidInput
	}
	return nil
}

// ParseID parsea ids surrogate (BIGSERIAL) de path/query.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrInvalidInput
	}
	return id, nil
}

// Pagination lee limit/offset con default y tope.
func Pagination(r *http.Request, def, max int) (limit, offset int) {
	limit = def
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > max {
		limit = max
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// SplitCSV separa "a,b" ignorando vacíos.
func SplitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
