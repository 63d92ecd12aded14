package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haivivi/kgview/pkg/server"
)

var (
	serveAddr     string
	serveSessions bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the graph over HTTP",
	Long: `Serve the graph over HTTP.

The REST API lives under /api/v1 and a live change feed is available as
a WebSocket at /api/v1/ws. The table is loaded once at startup; every
mutation through the API rewrites it.

Examples:
  kgview serve
  kgview serve --addr 127.0.0.1:9000 --table people.csv`,
	Args: cobra.NoArgs,
	RunE: withApp(func(a *app, _ []string) error {
		ctx, stop := signal.NotifyContext(a.cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ws, err := a.workspace(ctx)
		if err != nil {
			return err
		}
		opts := []server.Option{
			server.WithLogger(a.log),
			server.WithAllowedOrigins(a.settings.Serve.AllowedOrigins...),
		}
		if serveSessions {
			sessions, err := a.sessions()
			if err != nil {
				return err
			}
			opts = append(opts, server.WithSessions(sessions))
		}

		addr := a.settings.Serve.Addr
		if a.cmd.Flags().Changed("addr") || addr == "" {
			addr = serveAddr
		}
		a.print.Info("serving %s on %s", a.tableName(), addr)
		a.log.Debug("serve", zap.String("table", a.tableName()), zap.Bool("sessions", serveSessions))
		return server.New(ws, opts...).ListenAndServe(ctx, addr)
	}),
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&serveSessions, "sessions", true, "enable the /api/v1/sessions endpoints")
	rootCmd.AddCommand(serveCmd)
}
