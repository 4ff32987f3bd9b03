package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// FieldValue is the last committed value of one form field.
type FieldValue struct {
	ID        string    `json:"id"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *DB) Put(ctx context.Context, id, value string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO fields(field_id, value, updated_at_unixms)
		VALUES(?, ?, ?);
	`, id, value, unixMs(d.now()))
	return err
}

// Get reports false when the field was never stored.
func (d *DB) Get(ctx context.Context, id string) (FieldValue, bool, error) {
	var (
		fv FieldValue
		ms int64
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT field_id, value, updated_at_unixms FROM fields WHERE field_id = ?;
	`, id).Scan(&fv.ID, &fv.Value, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return FieldValue{}, false, nil
	}
	if err != nil {
		return FieldValue{}, false, err
	}
	fv.UpdatedAt = fromUnixMs(ms)
	return fv, true, nil
}

// List returns every stored field ordered by id.
func (d *DB) List(ctx context.Context) ([]FieldValue, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT field_id, value, updated_at_unixms FROM fields ORDER BY field_id ASC;
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FieldValue{}
	for rows.Next() {
		var (
			fv FieldValue
			ms int64
		)
		if err := rows.Scan(&fv.ID, &fv.Value, &ms); err != nil {
			return nil, err
		}
		fv.UpdatedAt = fromUnixMs(ms)
		out = append(out, fv)
	}
	return out, rows.Err()
}

// Values is List keyed by field id.
func (d *DB) Values(ctx context.Context) (map[string]string, error) {
	fvs, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fvs))
	for _, fv := range fvs {
		out[fv.ID] = fv.Value
	}
	return out, nil
}
