package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/haivivi/kgview/cmd/kgview/internal/config"
	"github.com/haivivi/kgview/pkg/cli"
	"github.com/haivivi/kgview/pkg/kv"
	"github.com/haivivi/kgview/pkg/observability"
	"github.com/haivivi/kgview/pkg/persist"
	"github.com/haivivi/kgview/pkg/session"
	"github.com/haivivi/kgview/pkg/storage"
)

// app is the per-invocation state of a command: the resolved workspace
// settings and the resources opened from them.
type app struct {
	cmd      *cobra.Command
	cfg      *config.Config
	context  string
	settings *config.Workspace
	log      *zap.Logger
	print    *cli.Printer
	format   cli.OutputFormat

	closers []func() error
}

// newApp resolves the context, applies environment and flag overrides and
// builds the logger.
func newApp(cmd *cobra.Command) (*app, error) {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	name := contextName
	if name == "" {
		name = globalEnv.Context
	}
	name, err = cfg.ResolveContext(name)
	if err != nil {
		return nil, err
	}

	settings := config.DefaultWorkspace()
	if name != "" {
		if settings, err = config.LoadWorkspace(cfg.ContextDir(name)); err != nil {
			return nil, err
		}
	}
	globalEnv.Apply(settings)
	if tableFlag != "" {
		settings.UseTable(tableFlag)
	}
	if verbose {
		settings.Log.Level = "debug"
	}

	log, err := observability.New(settings.Log, zapcore.AddSync(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	return &app{
		cmd:      cmd,
		cfg:      cfg,
		context:  name,
		settings: settings,
		log:      log.Named("kgview"),
		print:    cli.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		format:   format,
	}, nil
}

// Close releases everything opened through the app.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.log.Sync()
	return errors.Join(errs...)
}

// fileStore opens the configured table backend.
func (a *app) fileStore(ctx context.Context) (storage.FileStore, error) {
	t := a.settings.Table
	switch t.Backend {
	case "", "local":
		dir := t.Dir
		if dir == "" {
			dir = "."
		}
		return storage.NewLocal(dir)
	case "s3":
		return storage.OpenS3(ctx, storage.S3Options{
			Bucket:       t.Bucket,
			Prefix:       t.Prefix,
			Region:       t.Region,
			Endpoint:     t.Endpoint,
			UsePathStyle: t.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown table backend %q", t.Backend)
	}
}

// gateway returns the gateway for the configured table.
func (a *app) gateway(ctx context.Context) (*persist.Gateway, error) {
	files, err := a.fileStore(ctx)
	if err != nil {
		return nil, err
	}
	return persist.NewGateway(files, a.settings.Table.Path, persist.WithLogger(a.log)), nil
}

// workspace loads the configured table.
func (a *app) workspace(ctx context.Context) (*persist.Workspace, error) {
	g, err := a.gateway(ctx)
	if err != nil {
		return nil, err
	}
	return persist.Open(ctx, g)
}

// sessions opens the session store. Badger stores live in the context
// directory, or in the config directory when no context is in use.
func (a *app) sessions() (*session.Store, error) {
	var store kv.Store
	switch a.settings.Sessions.Backend {
	case "memory":
		store = kv.NewMemory(nil)
	default:
		dir := a.settings.Sessions.Dir
		if dir == "" {
			if a.context != "" {
				dir = filepath.Join(a.cfg.ContextDir(a.context), "sessions")
			} else {
				dir = filepath.Join(a.cfg.Dir, "sessions")
			}
		}
		b, err := kv.NewBadger(kv.BadgerOptions{Dir: dir, Logger: a.log})
		if err != nil {
			return nil, fmt.Errorf("open session store %s: %w", dir, err)
		}
		store = b
	}
	a.closers = append(a.closers, store.Close)
	return session.NewStore(store, session.WithTTL(a.settings.SessionTTL())), nil
}

// sessionID is --session, then $KGVIEW_SESSION, then the default session.
func (a *app) sessionID() string {
	if sessionFlag != "" {
		return sessionFlag
	}
	if globalEnv.Session != "" {
		return globalEnv.Session
	}
	return session.DefaultID
}

// tableName describes the table for messages.
func (a *app) tableName() string {
	return describeTable(a.settings.Table)
}

// output writes v in the selected format to stdout.
func (a *app) output(v any) error {
	return cli.Output(a.cmd.OutOrStdout(), v, a.format)
}

// withApp adapts a command body that needs an app.
func withApp(fn func(a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		runErr := fn(a, args)
		if err := a.Close(); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	}
}
