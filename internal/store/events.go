package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"timepick-cli/internal/form"
)

// Event is one recorded field notification.
type Event struct {
	ID       string         `json:"id"`
	Field    string         `json:"field"`
	Kind     form.EventKind `json:"kind"`
	Value    string         `json:"value"`
	IssuedAt time.Time      `json:"issuedAt"`
}

// Append records a notification with a fresh event id.
func (d *DB) Append(ctx context.Context, ev form.Event) (Event, error) {
	out := Event{
		ID:       uuid.NewString(),
		Field:    ev.Field,
		Kind:     ev.Kind,
		Value:    ev.Value,
		IssuedAt: d.now().UTC(),
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO events(event_id, field_id, kind, value, issued_at_unixms)
		VALUES(?, ?, ?, ?, ?);
	`, out.ID, out.Field, string(out.Kind), out.Value, unixMs(out.IssuedAt))
	if err != nil {
		return Event{}, err
	}
	return out, nil
}

// Events lists recorded notifications oldest first. An empty field matches every field;
// limit <= 0 means no limit (the newest limit events are kept).
func (d *DB) Events(ctx context.Context, field string, limit int) ([]Event, error) {
	q := `SELECT event_id, field_id, kind, value, issued_at_unixms FROM events`
	var args []any
	if strings.TrimSpace(field) != "" {
		q += ` WHERE field_id = ?`
		args = append(args, field)
	}
	q += ` ORDER BY seq DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			ev   Event
			kind string
			ms   int64
		)
		if err := rows.Scan(&ev.ID, &ev.Field, &kind, &ev.Value, &ms); err != nil {
			return nil, err
		}
		ev.Kind = form.EventKind(kind)
		ev.IssuedAt = fromUnixMs(ms)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
