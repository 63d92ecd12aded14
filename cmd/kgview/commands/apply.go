package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/cli"
	"github.com/haivivi/kgview/pkg/graph"
	"github.com/haivivi/kgview/pkg/persist"
)

var applyFile string

// applyRequest is a batch of graph mutations read from YAML or JSON.
type applyRequest struct {
	Ops []applyOp `json:"ops" yaml:"ops"`
}

type applyOp struct {
	Op       string `json:"op" yaml:"op"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
}

var errUnknownOp = errors.New("unknown op")

// run applies the op. Each successful mutation rewrites the table.
func (op applyOp) run(ctx context.Context, ws *persist.Workspace) (changed bool, err error) {
	switch op.Op {
	case "add-vertex":
		_, err = ws.InsertVertex(ctx, op.Label)
		return err == nil, err
	case "rm-vertex":
		n, err := ws.RemoveVertex(ctx, op.Label)
		return n > 0, err
	case "add-edge":
		_, err = ws.InsertEdge(ctx, op.Source, op.Target, op.Relation)
		return err == nil, err
	case "rm-edge":
		return ws.RemoveEdge(ctx, graph.EdgeKey{Source: op.Source, Relation: op.Relation, Target: op.Target})
	default:
		return false, fmt.Errorf("%w %q", errUnknownOp, op.Op)
	}
}

var applyCmd = &cobra.Command{
	Use:   "apply -f <file>",
	Short: "Apply a batch of mutations from a YAML or JSON file",
	Long: `Apply a batch of mutations from a YAML or JSON file.

Ops run in order and stop at the first failure. Ops applied before the
failure stay in the table.

Supported ops: add-vertex, rm-vertex, add-edge, rm-edge.

Example file:
  ops:
    - op: add-vertex
      label: Alice
    - op: add-vertex
      label: Bob
    - op: add-edge
      source: Alice
      target: Bob
      relation: knows

Use -f - to read from stdin.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		if applyFile == "" {
			return errors.New("-f is required")
		}
		var req applyRequest
		if err := cli.LoadRequest(applyFile, a.cmd.InOrStdin(), &req); err != nil {
			return err
		}
		ctx := a.cmd.Context()
		ws, err := a.workspace(ctx)
		if err != nil {
			return err
		}
		var changed int
		for i, op := range req.Ops {
			ok, err := op.run(ctx, ws)
			if err != nil {
				return fmt.Errorf("op %d (%s): %w", i+1, op.Op, err)
			}
			if ok {
				changed++
			} else {
				a.log.Debug("op matched nothing", zap.Int("op", i+1), zap.String("kind", op.Op))
			}
		}
		a.print.Success("applied %d op(s), %d changed the graph", len(req.Ops), changed)
		return nil
	}),
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "request file (YAML or JSON, - for stdin)")
	rootCmd.AddCommand(applyCmd)
}
