package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"timepick-cli/internal/clock"
	"timepick-cli/internal/config"
	"timepick-cli/internal/constraint"
	"timepick-cli/internal/form"
	"timepick-cli/internal/picker"
	"timepick-cli/internal/store"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotTimeField = errors.New("not a time field")
)

// Options tune how a session is opened. Zero values are fine.
type Options struct {
	Logger   *zap.Logger
	Observer picker.Observer
	Clock    func() time.Time
}

// Session is one loaded form: configured fields, their current values, a picker per
// time field, and the store that persists committed values.
type Session struct {
	Config  *config.Config
	Form    *form.Form
	Pickers *picker.Registry
	DB      *store.DB
	Log     *zap.Logger

	// Problems are option warnings per time field, in form order.
	Problems map[string][]string

	unbind func()
}

// Open loads the form from cfg and the store in dir. Values are seeded from the
// config, then from the store; a stored or configured time value wins over the
// picker's construction-time default.
func Open(ctx context.Context, cfg *config.Config, dir string, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	db, err := store.Store{Dir: dir}.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	f := form.New()
	for _, fd := range cfg.Fields {
		if fd.Value != "" {
			f.Set(fd.ID, fd.Value)
		}
	}
	if err := db.Load(ctx, f); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load values: %w", err)
	}
	seeded := f.Snapshot()

	pickerOpts := []picker.Option{picker.WithLogger(log)}
	if opts.Observer != nil {
		pickerOpts = append(pickerOpts, picker.WithObserver(opts.Observer))
	}
	if opts.Clock != nil {
		pickerOpts = append(pickerOpts, picker.WithClock(opts.Clock))
	}

	s := &Session{
		Config:   cfg,
		Form:     f,
		Pickers:  picker.NewRegistry(f, pickerOpts...),
		DB:       db,
		Log:      log,
		Problems: map[string][]string{},
	}

	for _, fd := range cfg.TimeFields() {
		o, problems := constraint.ParseOptions(fd.Options)
		for _, p := range problems {
			log.Warn("picker option ignored", zap.String("field", fd.ID), zap.Error(p))
		}
		// Build problems are logged by the picker itself.
		_, buildProblems := o.Build()
		for _, p := range append(problems, buildProblems...) {
			s.Problems[fd.ID] = append(s.Problems[fd.ID], p.Error())
		}

		p := s.Pickers.Add(fd.ID, o)
		if v, ok := seeded[fd.ID]; ok && v != "" {
			if !p.Restore(v) {
				log.Warn("stored value is not a time", zap.String("field", fd.ID), zap.String("value", v))
			}
			// The stored text stays in the input even when the picker keeps its default.
			f.Set(fd.ID, v)
		}
	}
	// Later pickers may have written defaults that earlier ones reference.
	for _, p := range s.Pickers.Pickers() {
		p.Refresh()
	}

	s.unbind = db.Bind(ctx, f, log)
	return s, nil
}

// Close stops persistence, tears down the pickers and flushes the logger.
func (s *Session) Close() error {
	if s.unbind != nil {
		s.unbind()
	}
	s.Pickers.Close()
	_ = s.Log.Sync()
	return s.DB.Close()
}

// Field is a configured field with its current value.
type Field struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Kind     config.FieldKind  `json:"kind"`
	Value    string            `json:"value"`
	Options  map[string]string `json:"options,omitempty"`
	Problems []string          `json:"problems,omitempty"`
}

func (s *Session) Fields() []Field {
	out := make([]Field, 0, len(s.Config.Fields))
	for _, fd := range s.Config.Fields {
		out = append(out, s.field(fd))
	}
	return out
}

func (s *Session) Field(id string) (Field, error) {
	fd, ok := s.Config.Field(id)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, id)
	}
	return s.field(fd), nil
}

func (s *Session) field(fd config.FieldDef) Field {
	v, _ := s.Form.Value(fd.ID)
	return Field{
		ID:       fd.ID,
		Label:    fd.DisplayLabel(),
		Kind:     fd.Kind,
		Value:    v,
		Options:  fd.Options,
		Problems: s.Problems[fd.ID],
	}
}

// SetField commits a value the way a user leaving an edited input would: the value is
// written and a change notification is emitted. A time field's picker follows the new
// value only when that time is enabled; otherwise its selection is left alone.
func (s *Session) SetField(id, value string) (Field, error) {
	fd, ok := s.Config.Field(id)
	if !ok {
		return Field{}, fmt.Errorf("%w: %s", ErrUnknownField, id)
	}
	if p, ok := s.Pickers.Get(id); ok {
		if t, err := clock.Parse(value); err == nil {
			if disabled, _ := p.Check(t); !disabled {
				p.Restore(value)
			}
		}
	}
	s.Form.Commit(id, value)
	return s.field(fd), nil
}

// Picker returns the picker bound to a time field.
func (s *Session) Picker(id string) (*picker.Picker, error) {
	fd, ok := s.Config.Field(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, id)
	}
	if fd.Kind != config.KindTime {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotTimeField, id, fd.Kind)
	}
	p, ok := s.Pickers.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, id)
	}
	return p, nil
}
