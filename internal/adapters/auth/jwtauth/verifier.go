package jwtauth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Config: Secret (HS256) o PublicKeyPEM (RS256), no ambos.
type Config struct {
	Secret       string
	PublicKeyPEM []byte
	Issuer       string // opcional
	Audience     string // opcional
	Leeway       time.Duration
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier valida JWT localmente (sin llamadas de red).
type Verifier struct {
	key    any
	method string
	opts   []jwt.ParserOption
}

func New(cfg Config) (*Verifier, error) {
	v := &Verifier{}
	switch {
	case cfg.Secret != "" && len(cfg.PublicKeyPEM) > 0:
		return nil, errors.New("jwtauth: set either secret or public key")
	case cfg.Secret != "":
		v.key = []byte(cfg.Secret)
		v.method = jwt.SigningMethodHS256.Alg()
	case len(cfg.PublicKeyPEM) > 0:
		pub, err := jwt.ParseRSAPublicKeyFromPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("jwtauth: parse public key: %w", err)
		}
		v.key = pub
		v.method = jwt.SigningMethodRS256.Alg()
	default:
		return nil, errors.New("jwtauth: missing secret or public key")
	}

	v.opts = []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		v.opts = append(v.opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		v.opts = append(v.opts, jwt.WithAudience(cfg.Audience))
	}
	return v, nil
}

// Verify lee sub/email/role. Cualquier token inválido es errs.ErrUnauthorized.
func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, errs.ErrUnauthorized
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (any, error) {
		switch v.key.(type) {
		case *rsa.PublicKey:
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
		default:
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
		}
		return v.key, nil
	}, v.opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}

	sub := strings.TrimSpace(tc.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", errs.ErrUnauthorized)
	}

	claims := auth.Claims{UserID: sub, Email: strings.TrimSpace(tc.Email)}
	if role, ok := auth.ParseRole(tc.Role); ok {
		claims.Role = role
	}
	return claims, nil
}
