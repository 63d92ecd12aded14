package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/haivivi/kgview/cmd/kgview/internal/config"
)

var (
	ctxTable       string
	ctxS3Bucket    string
	ctxS3Prefix    string
	ctxS3Region    string
	ctxS3Endpoint  string
	ctxPathStyle   bool
	ctxSessionsDir string
	ctxSessionTTL  string
	ctxUse         bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage contexts.

A context is a named directory holding a workspace.yaml (where the table
lives, session store and logging settings) and the context's sessions.

Examples:
  kgview config list-contexts
  kgview config add-context team --table /srv/kg/team.csv
  kgview config add-context shared --table graph.csv --s3-bucket kg --s3-prefix prod
  kgview config use-context team
  kgview config current-context
  kgview config show team`,
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		names, err := cfg.ListContexts()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No contexts configured.")
			fmt.Fprintln(out, "Create one with: kgview config add-context <name> --table <path>")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tTABLE")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			table := "(invalid)"
			if ws, err := config.LoadWorkspace(cfg.ContextDir(name)); err == nil {
				table = describeTable(ws.Table)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", current, name, table)
		}
		return w.Flush()
	},
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create a new context",
	Long: `Create a new context.

Without --s3-bucket the table is a local file and --table is resolved to
an absolute path. With --s3-bucket, --table is the object key below
--s3-prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		ws := config.DefaultWorkspace()
		if ctxS3Bucket != "" {
			ws.Table = config.Table{
				Backend:      "s3",
				Path:         ctxTable,
				Bucket:       ctxS3Bucket,
				Prefix:       ctxS3Prefix,
				Region:       ctxS3Region,
				Endpoint:     ctxS3Endpoint,
				UsePathStyle: ctxPathStyle,
			}
		} else if ctxTable != "" {
			abs, err := filepath.Abs(ctxTable)
			if err != nil {
				return err
			}
			ws.UseTable(abs)
		}
		ws.Sessions.Dir = ctxSessionsDir
		ws.Sessions.TTL = ctxSessionTTL

		if err := cfg.AddContext(name, ws); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Context %q created.\n", name)
		if ctxUse || cfg.CurrentContext == "" {
			if err := cfg.UseContext(name); err != nil {
				return err
			}
			fmt.Fprintf(out, "Switched to context %q.\n", name)
		}
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context and its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Context %q deleted.\n", name)
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := args[0]

		if err := cfg.UseContext(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %q.\n", name)
		return nil
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Display the current context name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No current context set.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.CurrentContext)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a context's workspace settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name, err := contextArg(cfg, args)
		if err != nil {
			return err
		}
		ws, err := config.LoadWorkspace(cfg.ContextDir(name))
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(ws)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit [name]",
	Short: "Open a context's workspace.yaml in the default editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name, err := contextArg(cfg, args)
		if err != nil {
			return err
		}
		path := cfg.WorkspacePath(name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("context %q has no workspace config: %w", name, err)
		}

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}
		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return err
		}
		if _, err := config.LoadWorkspace(cfg.ContextDir(name)); err != nil {
			return fmt.Errorf("saved config is invalid: %w", err)
		}
		return nil
	},
}

// contextArg returns the context named in args, or the current context.
func contextArg(cfg *config.Config, args []string) (string, error) {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	name, err := cfg.ResolveContext(name)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("no context given and no current context set")
	}
	return name, nil
}

func describeTable(t config.Table) string {
	if t.Backend == "s3" {
		if t.Prefix != "" {
			return "s3://" + t.Bucket + "/" + t.Prefix + "/" + t.Path
		}
		return "s3://" + t.Bucket + "/" + t.Path
	}
	dir := t.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, t.Path)
}

func init() {
	f := configAddContextCmd.Flags()
	f.StringVar(&ctxTable, "table", "graph.csv", "table path (object key with --s3-bucket)")
	f.StringVar(&ctxS3Bucket, "s3-bucket", "", "store the table in this S3 bucket")
	f.StringVar(&ctxS3Prefix, "s3-prefix", "", "S3 key prefix")
	f.StringVar(&ctxS3Region, "s3-region", "", "S3 region (default from AWS config)")
	f.StringVar(&ctxS3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	f.BoolVar(&ctxPathStyle, "path-style", false, "use path-style S3 addressing")
	f.StringVar(&ctxSessionsDir, "sessions-dir", "", "session store directory (default: <context>/sessions)")
	f.StringVar(&ctxSessionTTL, "session-ttl", "", "expire unsaved sessions after this duration, e.g. 720h")
	f.BoolVar(&ctxUse, "use", false, "switch to the new context")

	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configCurrentContextCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)

	rootCmd.AddCommand(configCmd)
}
