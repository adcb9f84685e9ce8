package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	p.id, p.shelter_id,
	p.name, p.sex, p.age, p.type, p.status,
	p.description, p.health, p.images,
	p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner, extra ...any) (pets.Pet, error) {
	var p pets.Pet
	var images []byte
	dest := []any{
		&p.ID,
		&p.ShelterID,
		&p.Name,
		&p.Sex,
		&p.Age,
		&p.Type,
		&p.Status,
		&p.Description,
		&p.Health,
		&images,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return pets.Pet{}, err
	}
	imgs, err := decodeImages(images)
	if err != nil {
		return pets.Pet{}, err
	}
	p.Images = imgs
	return p, nil
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	images, err := encodeImages(p.Images)
	if err != nil {
		return pets.Pet{}, err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO pets (
			shelter_id,
			name, sex, age, type, status,
			description, health, images,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::jsonb,$10,$11)
		RETURNING id
	`,
		p.ShelterID,
		p.Name,
		p.Sex,
		p.Age,
		p.Type,
		p.Status,
		p.Description,
		p.Health,
		images,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return pets.Pet{}, mapError(err)
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets p WHERE p.id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, mapError(err)
	}
	return p, nil
}

func (r *PetsRepo) GetWithShelter(ctx context.Context, id int64) (pets.PetWithShelter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+`,
			s.id, s.name, s.address, s.phone, s.website, s.donation_link
		FROM pets p
		JOIN shelters s ON s.id = p.shelter_id
		WHERE p.id = $1
	`, id)

	var sh pets.ShelterSummary
	p, err := scanPet(row, &sh.ID, &sh.Name, &sh.Address, &sh.Phone, &sh.Website, &sh.DonationLink)
	if err != nil {
		return pets.PetWithShelter{}, mapError(err)
	}
	return pets.PetWithShelter{Pet: p, Shelter: sh}, nil
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 7)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.Types) > 0 {
		ph := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			ph = append(ph, arg(string(t)))
		}
		where = append(where, "p.type IN ("+strings.Join(ph, ",")+")")
	}
	if len(f.Statuses) > 0 {
		ph := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			ph = append(ph, arg(string(st)))
		}
		where = append(where, "p.status IN ("+strings.Join(ph, ",")+")")
	}
	if f.Name != "" {
		where = append(where, "p.name ILIKE "+arg("%"+escapeLike(f.Name)+"%"))
	}
	if f.Health != "" {
		where = append(where, "p.health ILIKE "+arg("%"+escapeLike(f.Health)+"%"))
	}
	if f.ShelterID != "" {
		where = append(where, "p.shelter_id = "+arg(f.ShelterID))
	}

	q := `SELECT ` + petColumns + ` FROM pets p`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY p.created_at DESC, p.id DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) Random(ctx context.Context, n int) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets p
		WHERE p.status IN ('waiting', 'in_shelter')
		ORDER BY random()
		LIMIT $1
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0, n)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update no toca shelter_id ni created_at.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	images, err := encodeImages(p.Images)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			sex = $3,
			age = $4,
			type = $5,
			status = $6,
			description = $7,
			health = $8,
			images = $9::jsonb,
			updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Sex,
		p.Age,
		p.Type,
		p.Status,
		p.Description,
		p.Health,
		images,
		p.UpdatedAt,
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

// Delete: favorites y adoption_requests caen por ON DELETE CASCADE.
func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
