package postgres

import (
	"context"
	"database/sql"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/platform/geo"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

// CreateAccount inserta users y la fila de detalle en una transacción.
// Un id repetido viola la PK de users y sale como ErrConflict.
func (r *UsersRepo) CreateAccount(ctx context.Context, a users.Account) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4)
	`, a.User.ID, a.User.Role, a.User.CreatedAt, a.User.UpdatedAt); err != nil {
		return mapError(err)
	}

	if sh := a.Shelter; sh != nil {
		lat, lng := nullPoint(sh.Location)
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO shelters (
				id, name, description, address, phone, website, donation_link,
				lat, lng, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			sh.ID, sh.Name, sh.Description, sh.Address, sh.Phone, sh.Website, sh.DonationLink,
			lat, lng, sh.CreatedAt, sh.UpdatedAt,
		); err != nil {
			return mapError(err)
		}
	}

	if v := a.Volunteer; v != nil {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO volunteers (id, bio, phone, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5)
		`, v.ID, v.Bio, v.Phone, v.CreatedAt, v.UpdatedAt); err != nil {
			return mapError(err)
		}
	}

	return tx.Commit()
}

func (r *UsersRepo) GetUser(ctx context.Context, id string) (users.User, error) {
	var u users.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, role, created_at, updated_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return users.User{}, mapError(err)
	}
	return u, nil
}

const shelterColumns = `
	id, name, description, address, phone, website, donation_link,
	lat, lng, created_at, updated_at`

func scanShelter(row rowScanner) (users.Shelter, error) {
	var sh users.Shelter
	var lat, lng sql.NullFloat64
	if err := row.Scan(
		&sh.ID,
		&sh.Name,
		&sh.Description,
		&sh.Address,
		&sh.Phone,
		&sh.Website,
		&sh.DonationLink,
		&lat,
		&lng,
		&sh.CreatedAt,
		&sh.UpdatedAt,
	); err != nil {
		return users.Shelter{}, err
	}
	if lat.Valid && lng.Valid {
		sh.Location = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return sh, nil
}

func (r *UsersRepo) GetShelter(ctx context.Context, id string) (users.Shelter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE id = $1`, id)
	sh, err := scanShelter(row)
	if err != nil {
		return users.Shelter{}, mapError(err)
	}
	return sh, nil
}

func (r *UsersRepo) ListShelters(ctx context.Context, name string, limit, offset int) ([]users.Shelter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shelterColumns+`
		FROM shelters
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name ASC, id ASC
		LIMIT $2 OFFSET $3
	`, escapeLike(name), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.Shelter, 0)
	for rows.Next() {
		sh, err := scanShelter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (r *UsersRepo) UpdateShelter(ctx context.Context, sh users.Shelter) error {
	lat, lng := nullPoint(sh.Location)
	res, err := r.db.ExecContext(ctx, `
		UPDATE shelters
		SET
			name = $2,
			description = $3,
			address = $4,
			phone = $5,
			website = $6,
			donation_link = $7,
			lat = $8,
			lng = $9,
			updated_at = $10
		WHERE id = $1
	`,
		sh.ID, sh.Name, sh.Description, sh.Address, sh.Phone, sh.Website, sh.DonationLink,
		lat, lng, sh.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetVolunteer(ctx context.Context, id string) (users.Volunteer, error) {
	var v users.Volunteer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, bio, phone, created_at, updated_at FROM volunteers WHERE id = $1
	`, id).Scan(&v.ID, &v.Bio, &v.Phone, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return users.Volunteer{}, mapError(err)
	}
	return v, nil
}

func (r *UsersRepo) UpdateVolunteer(ctx context.Context, v users.Volunteer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE volunteers SET bio = $2, phone = $3, updated_at = $4 WHERE id = $1
	`, v.ID, v.Bio, v.Phone, v.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func nullPoint(p *geo.Point) (sql.NullFloat64, sql.NullFloat64) {
	if p == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: p.Lat, Valid: true}, sql.NullFloat64{Float64: p.Lng, Valid: true}
}
