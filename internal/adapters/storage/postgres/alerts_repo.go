package postgres

import (
	"context"
	"database/sql"

	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/domain/pets"
)

type AlertsRepo struct {
	db *sql.DB
}

func NewAlertsRepo(db *sql.DB) *AlertsRepo {
	return &AlertsRepo{db: db}
}

const alertColumns = `id, volunteer_id, pet_type, lat, lng, radius_km, active, created_at`

func scanAlert(row rowScanner) (alerts.Alert, error) {
	var a alerts.Alert
	err := row.Scan(
		&a.ID,
		&a.VolunteerID,
		&a.PetType,
		&a.Location.Lat,
		&a.Location.Lng,
		&a.Location.RadiusKm,
		&a.Active,
		&a.CreatedAt,
	)
	return a, err
}

func (r *AlertsRepo) Create(ctx context.Context, a alerts.Alert) (alerts.Alert, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pet_alerts (volunteer_id, pet_type, lat, lng, radius_km, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`,
		a.VolunteerID,
		a.PetType,
		a.Location.Lat,
		a.Location.Lng,
		a.Location.RadiusKm,
		a.Active,
		a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return alerts.Alert{}, mapError(err)
	}
	return a, nil
}

func (r *AlertsRepo) GetByID(ctx context.Context, id int64) (alerts.Alert, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM pet_alerts WHERE id = $1`, id))
	if err != nil {
		return alerts.Alert{}, mapError(err)
	}
	return a, nil
}

func (r *AlertsRepo) ListByVolunteer(ctx context.Context, volunteerID string) ([]alerts.Alert, error) {
	return r.list(ctx, `
		SELECT `+alertColumns+` FROM pet_alerts
		WHERE volunteer_id = $1
		ORDER BY created_at DESC, id DESC
	`, volunteerID)
}

func (r *AlertsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pet_alerts WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *AlertsRepo) Toggle(ctx context.Context, id int64) (alerts.Alert, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx, `
		UPDATE pet_alerts SET active = NOT active
		WHERE id = $1
		RETURNING `+alertColumns, id))
	if err != nil {
		return alerts.Alert{}, mapError(err)
	}
	return a, nil
}

// ListActiveByType trae candidatos; la distancia (haversine) se calcula en Go.
func (r *AlertsRepo) ListActiveByType(ctx context.Context, petType pets.Type) ([]alerts.Alert, error) {
	return r.list(ctx, `
		SELECT `+alertColumns+` FROM pet_alerts
		WHERE active AND pet_type = $1
		ORDER BY created_at DESC, id DESC
	`, string(petType))
}

func (r *AlertsRepo) list(ctx context.Context, q string, args ...any) ([]alerts.Alert, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alerts.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
