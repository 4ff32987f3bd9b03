package cli

import (
	"github.com/spf13/cobra"

	"timepick-cli/internal/session"
	"timepick-cli/internal/store"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events [field-id]",
		Short: "List recorded change and input notifications (oldest-first)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()

			field := ""
			if len(args) == 1 {
				if _, err := lookupField(sess, args[0]); err != nil {
					return writeErr(cmd, err)
				}
				field = args[0]
			}
			evs, err := sess.DB.Events(cmd.Context(), field, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if evs == nil {
				evs = []store.Event{}
			}
			return writeOut(cmd, app, evs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	return cmd
}
