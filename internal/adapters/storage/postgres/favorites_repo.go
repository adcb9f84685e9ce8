package postgres

import (
	"context"
	"database/sql"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/favorites"
)

type FavoritesRepo struct {
	db *sql.DB
}

func NewFavoritesRepo(db *sql.DB) *FavoritesRepo {
	return &FavoritesRepo{db: db}
}

// Add depende de favorites_volunteer_pet_key: el duplicado sale como 23505 => ErrConflict.
func (r *FavoritesRepo) Add(ctx context.Context, f favorites.Favorite) (favorites.Favorite, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO favorites (volunteer_id, pet_id, created_at)
		VALUES ($1,$2,$3)
		RETURNING id
	`, f.VolunteerID, f.PetID, f.CreatedAt).Scan(&f.ID)
	if err != nil {
		return favorites.Favorite{}, mapError(err)
	}
	return f, nil
}

func (r *FavoritesRepo) Remove(ctx context.Context, volunteerID string, petID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE volunteer_id = $1 AND pet_id = $2
	`, volunteerID, petID)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *FavoritesRepo) Exists(ctx context.Context, volunteerID string, petID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE volunteer_id = $1 AND pet_id = $2)
	`, volunteerID, petID).Scan(&ok)
	return ok, err
}

// ListWithPets usa INNER JOIN: un favorito sin mascota nunca aparece.
func (r *FavoritesRepo) ListWithPets(ctx context.Context, volunteerID string) ([]favorites.WithPet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.id, f.volunteer_id, f.pet_id, f.created_at, `+petColumns+`
		FROM favorites f
		JOIN pets p ON p.id = f.pet_id
		WHERE f.volunteer_id = $1
		ORDER BY f.created_at DESC, f.id DESC
	`, volunteerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]favorites.WithPet, 0)
	for rows.Next() {
		var fav favorites.Favorite
		var images []byte
		var it favorites.WithPet
		if err := rows.Scan(
			&fav.ID, &fav.VolunteerID, &fav.PetID, &fav.CreatedAt,
			&it.Pet.ID, &it.Pet.ShelterID,
			&it.Pet.Name, &it.Pet.Sex, &it.Pet.Age, &it.Pet.Type, &it.Pet.Status,
			&it.Pet.Description, &it.Pet.Health, &images,
			&it.Pet.CreatedAt, &it.Pet.UpdatedAt,
		); err != nil {
			return nil, err
		}
		imgs, err := decodeImages(images)
		if err != nil {
			return nil, err
		}
		it.Favorite = fav
		it.Pet.Images = imgs
		out = append(out, it)
	}
	return out, rows.Err()
}
