package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/platform/breaker"
	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
)

var ErrNotConfigured = errors.New("identity provider not configured")

const verifyPath = "/v1/tokens/verify"

// Config del proveedor de identidad remoto.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Verifier implementa auth.AuthVerifier delegando en un servicio de identidad
// externo (POST /v1/tokens/verify).
type Verifier struct {
	client       *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func New(cfg Config, log logger.Logger) (*Verifier, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	key := strings.TrimSpace(cfg.APIKey)
	if base == "" || key == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, err := httpclient.NewWithBaseURL(base, timeout)
	if err != nil {
		return nil, err
	}
	c.Breaker = breaker.New("identity", log)

	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	return &Verifier{client: c, apiKey: key, apiKeyHeader: h}, nil
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Verify devuelve errs.ErrUnauthorized si el proveedor rechaza el token.
// El rol es opcional: si no viene, el middleware lo resuelve desde users.
func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, errs.ErrUnauthorized
	}

	var out verifyResponse
	err := v.client.DoJSON(ctx, http.MethodPost, verifyPath,
		map[string]string{
			v.apiKeyHeader:  v.apiKey,
			"Authorization": "Bearer " + token,
		},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, errs.ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("identity verify: %w", err)
	}

	uid := strings.TrimSpace(out.UserID)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("identity verify: response missing user_id")
	}

	claims := auth.Claims{UserID: uid, Email: strings.TrimSpace(out.Email)}
	if role, ok := auth.ParseRole(out.Role); ok {
		claims.Role = role
	}
	return claims, nil
}
