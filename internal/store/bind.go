package store

import (
	"context"

	"go.uber.org/zap"

	"timepick-cli/internal/form"
)

// Load copies every stored value into f without notifying anyone.
func (d *DB) Load(ctx context.Context, f *form.Form) error {
	vals, err := d.Values(ctx)
	if err != nil {
		return err
	}
	for id, v := range vals {
		f.Set(id, v)
	}
	return nil
}

// Bind records every notification dispatched on f. Change notifications also persist
// the field value. Store failures are logged, never returned to the dispatcher.
func (d *DB) Bind(ctx context.Context, f *form.Form, log *zap.Logger) (unbind func()) {
	if log == nil {
		log = zap.NewNop()
	}
	return f.SubscribeAll(func(ev form.Event) {
		if ev.Kind == form.Change {
			if err := d.Put(ctx, ev.Field, ev.Value); err != nil {
				log.Warn("store field", zap.String("field", ev.Field), zap.Error(err))
				return
			}
		}
		if _, err := d.Append(ctx, ev); err != nil {
			log.Warn("store event", zap.String("field", ev.Field), zap.String("kind", string(ev.Kind)), zap.Error(err))
		}
	})
}
