package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/kgview/pkg/graph"
)

var edgeRelation string

var edgeCmd = &cobra.Command{
	Use:     "edge",
	Aliases: []string{"e"},
	Short:   "Add, remove and inspect edges",
	Long: `Add, remove and inspect edges.

Edges are undirected for adjacency but keep the order given on insert.
Parallel edges are allowed. Removing by (source, relation, target)
removes the earliest matching edge.

Examples:
  kgview edge add Alice Bob --relation knows
  kgview edge check Alice Bob
  kgview edge rm Alice Bob --relation knows`,
}

var edgeAddCmd = &cobra.Command{
	Use:   "add <source> <target>",
	Short: "Add an edge between two existing vertices",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		e, err := ws.InsertEdge(a.cmd.Context(), args[0], args[1], edgeRelation)
		if err != nil {
			return err
		}
		a.print.Success("edge %s added (id %d)", e, e.ID)
		return nil
	}),
}

var edgeRmCmd = &cobra.Command{
	Use:     "rm <source> <target>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove one edge between two vertices",
	Long: `Remove one edge stored from source to target.

With --relation only an edge carrying that relation is removed. Without
it, the earliest edge from source to target is removed whatever its
relation.`,
	Args: cobra.ExactArgs(2),
	RunE: withApp(func(a *app, args []string) error {
		ctx := a.cmd.Context()
		ws, err := a.workspace(ctx)
		if err != nil {
			return err
		}
		var (
			removed bool
			target  graph.Edge
		)
		if a.cmd.Flags().Changed("relation") {
			key := graph.EdgeKey{Source: args[0], Relation: edgeRelation, Target: args[1]}
			target = graph.Edge{SourceLabel: key.Source, Relation: key.Relation, TargetLabel: key.Target}
			removed, err = ws.RemoveEdge(ctx, key)
		} else {
			var found bool
			err = ws.Read(func(s *graph.Store) error {
				if edges := s.EdgesBetween(args[0], args[1]); len(edges) > 0 {
					target, found = edges[0], true
				}
				return nil
			})
			if err == nil && found {
				removed, err = ws.RemoveEdgeByID(ctx, target.ID)
			}
		}
		if err != nil {
			return err
		}
		if !removed {
			a.print.Warning("no edge from %q to %q", args[0], args[1])
			return nil
		}
		a.print.Success("edge %s removed", target)
		return nil
	}),
}

var edgeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List edges in insertion order",
	Args:    cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		edges := edgeList{}
		err = ws.Read(func(s *graph.Store) error {
			edges = append(edges, s.Edges()...)
			return nil
		})
		if err != nil {
			return err
		}
		return a.output(edges)
	}),
}

var edgeCheckCmd = &cobra.Command{
	Use:   "check <a> <b>",
	Short: "Report whether two vertices share an edge",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		var adjacent bool
		err = ws.Read(func(s *graph.Store) error {
			adjacent, err = s.AreAdjacent(args[0], args[1])
			return err
		})
		if err != nil {
			return err
		}
		if adjacent {
			a.print.Success("%q and %q are adjacent", args[0], args[1])
		} else {
			a.print.Info("%q and %q are not adjacent", args[0], args[1])
		}
		return nil
	}),
}

func init() {
	edgeAddCmd.Flags().StringVarP(&edgeRelation, "relation", "r", "", "relation name (may be empty)")
	edgeRmCmd.Flags().StringVarP(&edgeRelation, "relation", "r", "", "only remove an edge with this relation")

	edgeCmd.AddCommand(edgeAddCmd)
	edgeCmd.AddCommand(edgeRmCmd)
	edgeCmd.AddCommand(edgeListCmd)
	edgeCmd.AddCommand(edgeCheckCmd)

	rootCmd.AddCommand(edgeCmd)
}
