package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/foundpets"
)

type FoundPetsRepo struct {
	db *sql.DB
}

func NewFoundPetsRepo(db *sql.DB) *FoundPetsRepo {
	return &FoundPetsRepo{db: db}
}

const foundPetColumns = `id, volunteer_id, type, description, lat, lng, status, images, created_at, updated_at`

func scanFoundPet(row rowScanner) (foundpets.FoundPet, error) {
	var fp foundpets.FoundPet
	var images []byte
	if err := row.Scan(
		&fp.ID,
		&fp.VolunteerID,
		&fp.Type,
		&fp.Description,
		&fp.Location.Lat,
		&fp.Location.Lng,
		&fp.Status,
		&images,
		&fp.CreatedAt,
		&fp.UpdatedAt,
	); err != nil {
		return foundpets.FoundPet{}, err
	}
	imgs, err := decodeImages(images)
	if err != nil {
		return foundpets.FoundPet{}, err
	}
	fp.Images = imgs
	return fp, nil
}

func (r *FoundPetsRepo) Create(ctx context.Context, fp foundpets.FoundPet) (foundpets.FoundPet, error) {
	images, err := encodeImages(fp.Images)
	if err != nil {
		return foundpets.FoundPet{}, err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO found_pets (
			volunteer_id, type, description, lat, lng, status, images, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb,$8,$9)
		RETURNING id
	`,
		fp.VolunteerID,
		fp.Type,
		fp.Description,
		fp.Location.Lat,
		fp.Location.Lng,
		fp.Status,
		images,
		fp.CreatedAt,
		fp.UpdatedAt,
	).Scan(&fp.ID)
	if err != nil {
		return foundpets.FoundPet{}, mapError(err)
	}
	return fp, nil
}

func (r *FoundPetsRepo) GetByID(ctx context.Context, id int64) (foundpets.FoundPet, error) {
	fp, err := scanFoundPet(r.db.QueryRowContext(ctx, `SELECT `+foundPetColumns+` FROM found_pets WHERE id = $1`, id))
	if err != nil {
		return foundpets.FoundPet{}, mapError(err)
	}
	return fp, nil
}

func (r *FoundPetsRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]foundpets.FoundPet, error) {
	return r.list(ctx, `
		SELECT `+foundPetColumns+` FROM found_pets
		WHERE volunteer_id = $1
		ORDER BY created_at DESC, id DESC
	`, volunteerID)
}

func (r *FoundPetsRepo) List(ctx context.Context, f foundpets.ListFilter) ([]foundpets.FoundPet, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Type != "" {
		where = append(where, "type = "+arg(string(f.Type)))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}

	q := `SELECT ` + foundPetColumns + ` FROM found_pets`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	return r.list(ctx, q, args...)
}

func (r *FoundPetsRepo) UpdateStatus(ctx context.Context, id int64, from, to foundpets.Status, at time.Time) (foundpets.FoundPet, error) {
	fp, err := scanFoundPet(r.db.QueryRowContext(ctx, `
		UPDATE found_pets SET status = $2, updated_at = $3
		WHERE id = $1 AND ($4::text = '' OR status = $4::text)
		RETURNING `+foundPetColumns, id, to, at, from))
	if err == nil {
		return fp, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return foundpets.FoundPet{}, mapError(err)
	}

	// sin fila: o no existe o el estado cambió en el medio
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM found_pets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return foundpets.FoundPet{}, err
	}
	if !exists {
		return foundpets.FoundPet{}, errs.ErrNotFound
	}
	return foundpets.FoundPet{}, errs.ErrConflict
}

func (r *FoundPetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM found_pets WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *FoundPetsRepo) list(ctx context.Context, q string, args ...any) ([]foundpets.FoundPet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]foundpets.FoundPet, 0)
	for rows.Next() {
		fp, err := scanFoundPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}
