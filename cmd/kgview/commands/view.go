package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/query"
)

var (
	viewRelations    []string
	viewAllRelations bool
	viewSearch       string
	viewSave         bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show records through a relation filter and vertex search",
	Long: `Show the table's records through a relation filter and vertex search.

The view starts from the stored session (--session, default "default")
and any flag given here replaces the stored value. A fresh session
selects every relation; --relations narrows the selection. An empty
selection (--all-relations=false with no --relations) shows the records
unfiltered with a warning. A search that matches no head or tail falls
back to the filtered records.

Examples:
  kgview view --relations knows,likes
  kgview view --all-relations --search ali --save
  kgview view --session review -o json`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		ctx := a.cmd.Context()
		sessions, err := a.sessions()
		if err != nil {
			return err
		}
		st, err := sessions.Load(ctx, a.sessionID(), a.tableName())
		if err != nil {
			return err
		}

		flags := a.cmd.Flags()
		if flags.Changed("relations") {
			st.View.Relations = viewRelations
			st.View.AllRelations = false
		}
		if flags.Changed("all-relations") {
			st.View.AllRelations = viewAllRelations
		}
		if flags.Changed("search") {
			st.View.Query = viewSearch
		}

		ws, err := a.workspace(ctx)
		if err != nil {
			return err
		}
		res := query.Apply(ws.Records(), st.View)
		if res.Status != query.StatusOK {
			a.print.Warning("%s", res.Message)
		}

		if viewSave {
			st.Table = a.tableName()
			if err := sessions.Save(ctx, st); err != nil {
				return err
			}
			a.log.Debug("session saved", zap.String("session", st.ID))
		}

		records := res.Records
		if records == nil {
			records = recordList{}
		}
		return a.output(viewResult{
			Session: st.ID,
			View:    st.View,
			Status:  res.Status,
			Records: records,
		})
	}),
}

func init() {
	f := viewCmd.Flags()
	f.StringSliceVar(&viewRelations, "relations", nil, "relations to show (comma-separated)")
	f.BoolVar(&viewAllRelations, "all-relations", false, "show every relation in the table")
	f.StringVarP(&viewSearch, "search", "s", "", "case-insensitive vertex search")
	f.BoolVar(&viewSave, "save", false, "store the resulting view in the session")

	rootCmd.AddCommand(viewCmd)
}
