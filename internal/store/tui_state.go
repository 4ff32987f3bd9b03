package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

const tuiStateKey = "tui_state"

// TUIState is small, user-facing UI state restored on relaunch. It is best effort:
// missing or invalid data reads as the zero state.
type TUIState struct {
	Version int `json:"version"`

	// FocusedField is the form field that had focus when the TUI quit.
	FocusedField string `json:"focusedField,omitempty"`
}

func (d *DB) LoadTUIState(ctx context.Context) (*TUIState, error) {
	var raw string
	err := d.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?;`, tuiStateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return &TUIState{Version: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (d *DB) SaveTUIState(ctx context.Context, st *TUIState) error {
	if st == nil {
		return errors.New("save tui state: nil state")
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?);`, tuiStateKey, string(b))
	return err
}
