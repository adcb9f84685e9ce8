package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/errs"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

func (r *AdoptionsRepo) Create(ctx context.Context, req adoptions.Request) (adoptions.Request, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO adoption_requests (volunteer_id, pet_id, status, message, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, req.VolunteerID, req.PetID, req.Status, req.Message, req.CreatedAt, req.UpdatedAt).Scan(&req.ID)
	if err != nil {
		return adoptions.Request{}, mapError(err)
	}
	return req, nil
}

const requestColumns = `r.id, r.volunteer_id, r.pet_id, r.status, r.message, r.created_at, r.updated_at`

func scanRequest(row rowScanner, extra ...any) (adoptions.Request, error) {
	var req adoptions.Request
	dest := []any{&req.ID, &req.VolunteerID, &req.PetID, &req.Status, &req.Message, &req.CreatedAt, &req.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return adoptions.Request{}, err
	}
	return req, nil
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id int64) (adoptions.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM adoption_requests r WHERE r.id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		return adoptions.Request{}, mapError(err)
	}
	return req, nil
}

func (r *AdoptionsRepo) ListForShelter(ctx context.Context, shelterID string) ([]adoptions.View, error) {
	return r.listViews(ctx, `p.shelter_id = $1`, shelterID)
}

func (r *AdoptionsRepo) ListForVolunteer(ctx context.Context, volunteerID string) ([]adoptions.View, error) {
	return r.listViews(ctx, `r.volunteer_id = $1`, volunteerID)
}

func (r *AdoptionsRepo) listViews(ctx context.Context, cond string, arg string) ([]adoptions.View, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+requestColumns+`,
			p.id, p.shelter_id, p.name, p.type, p.status, p.images,
			v.id, v.bio, v.phone
		FROM adoption_requests r
		JOIN pets p ON p.id = r.pet_id
		JOIN volunteers v ON v.id = r.volunteer_id
		WHERE `+cond+`
		ORDER BY r.created_at DESC, r.id DESC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.View, 0)
	for rows.Next() {
		var v adoptions.View
		var images []byte
		req, err := scanRequest(rows,
			&v.Pet.ID, &v.Pet.ShelterID, &v.Pet.Name, &v.Pet.Type, &v.Pet.Status, &images,
			&v.Volunteer.ID, &v.Volunteer.Bio, &v.Volunteer.Phone,
		)
		if err != nil {
			return nil, err
		}
		if v.Pet.Images, err = decodeImages(images); err != nil {
			return nil, err
		}
		v.Request = req
		out = append(out, v)
	}
	return out, rows.Err()
}

// Decide es un update condicional: si dos decisiones compiten, solo una encuentra pending.
func (r *AdoptionsRepo) Decide(ctx context.Context, id int64, status adoptions.Status, at time.Time) (adoptions.Request, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE adoption_requests r
		SET status = $2, updated_at = $3
		WHERE r.id = $1 AND r.status = 'pending'
		RETURNING `+requestColumns,
		id, status, at,
	)
	req, err := scanRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return adoptions.Request{}, mapError(err)
	}

	// sin fila: o no existe o ya no está pending
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM adoption_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return adoptions.Request{}, err
	}
	if !exists {
		return adoptions.Request{}, errs.ErrNotFound
	}
	return adoptions.Request{}, errs.ErrInvalidTransition
}
