package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pet-adoption/internal/domain/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	boom := errors.New("boom")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, errs.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "favorites_volunteer_pet_key"}, errs.ErrConflict},
		{"fk", &pgconn.PgError{Code: "23503", ConstraintName: "favorites_pet_id_fkey"}, errs.ErrNotFound},
		{"check", &pgconn.PgError{Code: "23514"}, errs.ErrInvalidInput},
		{"out of range", &pgconn.PgError{Code: "22003", Message: "integer out of range"}, errs.ErrInvalidInput},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), errs.ErrConflict},
		{"other", boom, boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapError(tc.in); !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if mapError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestImagesRoundTrip(t *testing.T) {
	enc, err := encodeImages(nil)
	if err != nil || enc != "[]" {
		t.Fatalf("nil images must encode as [], got %q err=%v", enc, err)
	}

	got, err := decodeImages([]byte(`["https://a/1.jpg","https://a/2.jpg"]`))
	if err != nil || len(got) != 2 || got[1] != "https://a/2.jpg" {
		t.Fatalf("unexpected decode: %v err=%v", got, err)
	}

	if _, err := decodeImages([]byte(`{`)); err == nil {
		t.Fatalf("expected error on bad json")
	}
}

func TestSchemaHasCascadesAndUniquePair(t *testing.T) {
	for _, want := range []string{
		"CONSTRAINT favorites_volunteer_pet_key UNIQUE (volunteer_id, pet_id)",
		"pet_id        BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE",
		"CREATE TABLE IF NOT EXISTS pet_alerts",
		"CREATE TABLE IF NOT EXISTS found_pets",
	} {
		if !strings.Contains(schema, want) {
			t.Fatalf("schema missing %q", want)
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape: %q", got)
	}
}
