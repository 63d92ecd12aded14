package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/query"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vertex and edge counts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		res := statsResult{Table: a.tableName()}
		err = ws.Read(func(s *graph.Store) error {
			res.Vertices, res.Edges = s.VertexCount(), s.EdgeCount()
			return nil
		})
		if err != nil {
			return err
		}
		return a.output(res)
	}),
}

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "List distinct relations in first-seen order",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		rels := query.Relations(ws.Records())
		if rels == nil {
			rels = []string{}
		}
		return a.output(relationList(rels))
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(relationsCmd)
}
