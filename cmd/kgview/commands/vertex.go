package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/kgview/pkg/graph"
)

var vertexCmd = &cobra.Command{
	Use:     "vertex",
	Aliases: []string{"v"},
	Short:   "Add, remove and inspect vertices",
	Long: `Add, remove and inspect vertices.

Labels are unique and compared exactly. Removing a vertex also removes
every edge that touches it.

Examples:
  kgview vertex add Alice
  kgview vertex degree Alice
  kgview vertex adjacent Alice
  kgview vertex rm Alice`,
}

var vertexAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a vertex",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		v, err := ws.InsertVertex(a.cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a.print.Success("vertex %q added (id %d)", v.Label, v.ID)
		return nil
	}),
}

var vertexRmCmd = &cobra.Command{
	Use:     "rm <label>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a vertex and its edges",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		var degree int
		err = ws.Read(func(s *graph.Store) error {
			if _, ok := s.Vertex(args[0]); !ok {
				return nil
			}
			d, err := s.Degree(args[0])
			degree = d
			return err
		})
		if err != nil {
			return err
		}
		n, err := ws.RemoveVertex(a.cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if n == 0 {
			a.print.Warning("vertex %q not found", args[0])
			return nil
		}
		a.print.Success("vertex %q removed with %d edge(s)", args[0], degree)
		return nil
	}),
}

var vertexListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List vertices in insertion order",
	Args:    cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		list := vertexList{}
		err = ws.Read(func(s *graph.Store) error {
			for _, v := range s.Vertices() {
				d, err := s.Degree(v.Label)
				if err != nil {
					return err
				}
				list = append(list, vertexRow{ID: v.ID, Label: v.Label, Degree: d})
			}
			return nil
		})
		if err != nil {
			return err
		}
		return a.output(list)
	}),
}

var vertexDegreeCmd = &cobra.Command{
	Use:   "degree <label>",
	Short: "Show the number of edges touching a vertex",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		var row vertexRow
		err = ws.Read(func(s *graph.Store) error {
			v, ok := s.Vertex(args[0])
			if !ok {
				return &graph.UnknownVertexError{Labels: []string{args[0]}}
			}
			d, err := s.Degree(v.Label)
			row = vertexRow{ID: v.ID, Label: v.Label, Degree: d}
			return err
		})
		if err != nil {
			return err
		}
		return a.output(vertexList{row})
	}),
}

var vertexAdjacentCmd = &cobra.Command{
	Use:   "adjacent <label>",
	Short: "List neighbors, one entry per incident edge",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		labels := labelList{}
		err = ws.Read(func(s *graph.Store) error {
			vs, err := s.AdjacentVertices(args[0])
			for _, v := range vs {
				labels = append(labels, v.Label)
			}
			return err
		})
		if err != nil {
			return err
		}
		return a.output(labels)
	}),
}

var vertexIncidentCmd = &cobra.Command{
	Use:   "incident <label>",
	Short: "List edges touching a vertex",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, args []string) error {
		ws, err := a.workspace(a.cmd.Context())
		if err != nil {
			return err
		}
		var edges []graph.Edge
		err = ws.Read(func(s *graph.Store) error {
			edges, err = s.IncidentEdges(args[0])
			return err
		})
		if err != nil {
			return err
		}
		return a.output(edgeList(edges))
	}),
}

func init() {
	vertexCmd.AddCommand(vertexAddCmd)
	vertexCmd.AddCommand(vertexRmCmd)
	vertexCmd.AddCommand(vertexListCmd)
	vertexCmd.AddCommand(vertexDegreeCmd)
	vertexCmd.AddCommand(vertexAdjacentCmd)
	vertexCmd.AddCommand(vertexIncidentCmd)

	rootCmd.AddCommand(vertexCmd)
}
