package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/haivivi/kgview/pkg/observability"
)

// Env holds the KGVIEW_* environment overrides.
type Env struct {
	ConfigDir string `env:"KGVIEW_CONFIG_DIR"`
	Context   string `env:"KGVIEW_CONTEXT"`
	Table     string `env:"KGVIEW_TABLE"`
	Session   string `env:"KGVIEW_SESSION"`

	Log observability.Config `envPrefix:"KGVIEW_LOG_"`
}

// LoadEnv parses the environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// UseTable points the workspace at a local CSV file.
func (w *Workspace) UseTable(path string) {
	w.Table = Table{Backend: "local", Dir: filepath.Dir(path), Path: filepath.Base(path)}
}

// Apply overrides workspace settings with the non-empty values of e.
func (e Env) Apply(w *Workspace) {
	if e.Table != "" {
		w.UseTable(e.Table)
	}
	if e.Log.Level != "" {
		w.Log.Level = e.Log.Level
	}
	if e.Log.Format != "" {
		w.Log.Format = e.Log.Format
	}
	if e.Log.File != "" {
		w.Log.File = e.Log.File
	}
	if e.Log.Color {
		w.Log.Color = true
	}
}
