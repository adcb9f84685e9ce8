package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/ports/auth"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tokens/verify" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var in struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)

		switch in.Token {
		case "good":
			_ = json.NewEncoder(w).Encode(map[string]string{"user_id": "u-1", "email": "a@b.c", "role": "shelter"})
		case "norole":
			_ = json.NewEncoder(w).Encode(map[string]string{"user_id": "u-2"})
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
}

func TestVerifier_Verify(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	v, err := New(Config{BaseURL: srv.URL, APIKey: "secret"}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	c, err := v.Verify(ctx, "good")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if c.UserID != "u-1" || c.Email != "a@b.c" || c.Role != auth.RoleShelter {
		t.Fatalf("unexpected claims %+v", c)
	}

	c, err = v.Verify(ctx, "norole")
	if err != nil || c.Role != "" {
		t.Fatalf("expected empty role, got %+v err=%v", c, err)
	}

	if _, err := v.Verify(ctx, "bad"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := v.Verify(ctx, " "); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	if _, err := v.Verify(ctx, "boom"); err == nil || errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestVerifier_WrongAPIKeyIsUnauthorized(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()

	v, _ := New(Config{BaseURL: srv.URL, APIKey: "nope"}, nil)
	if _, err := v.Verify(context.Background(), "good"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "http://x"}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
