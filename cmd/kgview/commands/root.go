package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/kgview/cmd/kgview/internal/config"
	"github.com/haivivi/kgview/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	contextName  string
	tableFlag    string
	sessionFlag  string
	outputFormat string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
	globalEnv    config.Env
)

var rootCmd = &cobra.Command{
	Use:   "kgview",
	Short: "Query and edit a labeled knowledge graph stored as CSV",
	Long: `kgview - view and edit a small labeled knowledge graph.

The graph is persisted as a CSV table with the header head,relation,tail.
Every row is an edge (head -relation-> tail) or, with empty relation and
tail, an isolated vertex. Every mutation rewrites the whole table.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/kgview/
  Linux:   ~/.config/kgview/
  Windows: %AppData%/kgview/

Without a context, kgview uses ./graph.csv.

Examples:
  # Work on a table directly
  kgview --table people.csv vertex add Alice
  kgview --table people.csv edge add Alice Bob --relation knows

  # Create a context and make it current
  kgview config add-context team --table /srv/kg/team.csv
  kgview config use-context team

  # Filter, search and remember the view
  kgview view --relations knows,likes --search ali --save
  kgview serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		cli.NewPrinter(rootCmd.OutOrStdout(), rootCmd.ErrOrStderr()).Error("%v", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&contextName, "context", "c", "", "context to use (default: current context)")
	pf.StringVar(&tableFlag, "table", "", "CSV table path (overrides the context)")
	pf.StringVar(&sessionFlag, "session", "", "view session id (default: \"default\")")
	pf.StringVarP(&outputFormat, "output", "o", "table", "output format: table, yaml, json, raw (tab-separated rows)")
}

// configLoadErr stores the error from config loading for deferred reporting.
var configLoadErr error

func initConfig() {
	configLoadErr = nil
	globalConfig = nil
	e, err := config.LoadEnv()
	if err != nil {
		configLoadErr = err
		return
	}
	globalEnv = e
	cfg, err := config.Load(e.ConfigDir)
	if err != nil {
		// Commands that need config get a clear error via GetConfig. This
		// keeps 'kgview version' working without a config directory.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load(globalEnv.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}
