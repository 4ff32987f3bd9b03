package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"timepick-cli/internal/clock"
	"timepick-cli/internal/constraint"
	"timepick-cli/internal/picker"
	"timepick-cli/internal/session"
)

type checkResult struct {
	Field    string             `json:"field"`
	Time     string             `json:"time"`
	Disabled bool               `json:"disabled"`
	Reasons  []constraint.Check `json:"reasons"`
}

func parseTimeArg(s string) (clock.Time, error) {
	t, err := clock.Parse(strings.TrimSpace(s))
	if err != nil {
		return clock.Time{}, fmt.Errorf("expected a time like \"3:30 PM\": %w", err)
	}
	return t, nil
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <field-id> <time>",
		Short: "Report whether a candidate time is disabled, and why",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTimeArg(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			p, err := lookupPicker(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			disabled, reasons := p.Check(t)
			if reasons == nil {
				reasons = []constraint.Check{}
			}
			return writeOut(cmd, app, checkResult{
				Field:    p.Field(),
				Time:     t.Format(p.Options().PadHour),
				Disabled: disabled,
				Reasons:  reasons,
			})
		},
	}
}

func newColumnsCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "columns <field-id>",
		Short: "Show offered hours, minutes and periods with their availability",
		Long: strings.TrimSpace(`
Show the three columns of a picker. Each column is evaluated with the other two held at
the current selection (or at --at, without changing the stored value).
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			p, err := lookupPicker(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(at) != "" {
				if _, err := parseTimeArg(at); err != nil {
					return writeErr(cmd, err)
				}
				p.Restore(at)
			}
			return writeOut(cmd, app, p.State())
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this selection instead of the current one")
	return cmd
}

func newSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <field-id> <time>",
		Short: "Pick a time the way the popup would, then confirm it",
		Long: strings.TrimSpace(`
Open the picker, select the hour, minute and period (skipping any order that would pass
through a disabled choice), then confirm. Confirming writes the field and notifies
pickers that watch it. A time that cannot be reached leaves the field untouched.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTimeArg(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			p, err := lookupPicker(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			sess.Pickers.Open(p.Field())
			if !p.SelectTime(t) {
				p.Cancel()
				_, reasons := p.Check(t)
				return writeErr(cmd, disabledError{field: p.Field(), value: t.Format(p.Options().PadHour), reasons: reasons})
			}
			p.Confirm()
			return writeOut(cmd, app, p.State())
		},
	}
}

type defaultResult struct {
	Field     string     `json:"field"`
	Applies   bool       `json:"applies"`
	Value     string     `json:"value"`
	Selection clock.Time `json:"selection"`
	Auto      bool       `json:"auto"`
}

func newDefaultCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "default <field-id>",
		Short: "Show the selection a picker would start with right now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			p, err := lookupPicker(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			opts := p.Options()
			sel, display, ok := picker.DefaultSelection(opts, time.Now())
			return writeOut(cmd, app, defaultResult{
				Field:     p.Field(),
				Applies:   ok,
				Value:     display,
				Selection: sel,
				Auto:      opts.AutoDefault,
			})
		},
	}
}
