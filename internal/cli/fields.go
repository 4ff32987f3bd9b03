package cli

import (
	"github.com/spf13/cobra"

	"timepick-cli/internal/session"
)

func newFieldsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Inspect and edit form field values",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List fields with their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			return writeOut(cmd, app, sess.Fields())
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <field-id>",
		Short: "Show one field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			f, err := lookupField(sess, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, f)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <field-id> <value>",
		Short: "Commit a field value (pickers watching it revalidate)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app, session.Options{}, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer sess.Close()
			if _, err := lookupField(sess, args[0]); err != nil {
				return writeErr(cmd, err)
			}
			f, err := sess.SetField(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, f)
		},
	}

	cmd.AddCommand(listCmd, getCmd, setCmd)
	return cmd
}
