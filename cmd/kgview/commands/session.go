package commands

import (
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored view sessions",
	Long: `Manage stored view sessions.

A session remembers the relation filter and search text chosen with
'kgview view --save'. Sessions live in the context's session store.`,
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored sessions",
	Args:    cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		sessions, err := a.sessions()
		if err != nil {
			return err
		}
		list, err := sessions.List(a.cmd.Context())
		if err != nil {
			return err
		}
		if list == nil {
			list = sessionList{}
		}
		return a.output(sessionList(list))
	}),
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored session",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		sessions, err := a.sessions()
		if err != nil {
			return err
		}
		id := a.sessionID()
		if len(args) == 1 {
			id = args[0]
		}
		st, err := sessions.Get(a.cmd.Context(), id)
		if err != nil {
			return err
		}
		return a.output(sessionList{st})
	}),
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"rm"},
	Short:   "Delete a stored session",
	Args:    cobra.MaximumNArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		sessions, err := a.sessions()
		if err != nil {
			return err
		}
		id := a.sessionID()
		if len(args) == 1 {
			id = args[0]
		}
		if err := sessions.Delete(a.cmd.Context(), id); err != nil {
			return err
		}
		a.print.Success("session %q deleted", id)
		return nil
	}),
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)

	rootCmd.AddCommand(sessionCmd)
}
