package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/haivivi/kgview/pkg/observability"
)

// workspaceFile is the per-context settings file.
const workspaceFile = "workspace.yaml"

// Workspace is the content of a context's workspace.yaml.
type Workspace struct {
	Table    Table                `yaml:"table"`
	Sessions Sessions             `yaml:"sessions,omitempty"`
	Log      observability.Config `yaml:"log,omitempty"`
	Serve    Serve                `yaml:"serve,omitempty"`
}

// Table says where the CSV table lives.
type Table struct {
	// Backend is local or s3. Default local.
	Backend string `yaml:"backend,omitempty" validate:"omitempty,oneof=local s3"`

	// Dir is the local directory holding the table. Default ".".
	Dir string `yaml:"dir,omitempty"`

	// Path is the table path within Dir or the bucket prefix.
	Path string `yaml:"path" validate:"required"`

	Bucket       string `yaml:"bucket,omitempty" validate:"required_if=Backend s3"`
	Prefix       string `yaml:"prefix,omitempty"`
	Region       string `yaml:"region,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty"`
}

// Sessions configures the session view-state store.
type Sessions struct {
	// Backend is badger or memory. Default badger.
	Backend string `yaml:"backend,omitempty" validate:"omitempty,oneof=badger memory"`

	// Dir is the badger directory. Default <context>/sessions.
	Dir string `yaml:"dir,omitempty"`

	// TTL expires sessions not saved for this long, e.g. "720h".
	TTL string `yaml:"ttl,omitempty" validate:"omitempty,duration"`
}

// Serve configures `kgview serve`.
type Serve struct {
	Addr           string   `yaml:"addr,omitempty" validate:"omitempty,hostname_port|startswith=:"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// DefaultWorkspace is used when no context is configured: graph.csv in the
// working directory.
func DefaultWorkspace() *Workspace {
	return &Workspace{
		Table: Table{Backend: "local", Dir: ".", Path: "graph.csv"},
		Log:   observability.Config{Level: "warn"},
		Serve: Serve{Addr: ":8080"},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the settings.
func (w *Workspace) Validate() error {
	err := validate.Struct(w)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Workspace.")
		switch e.Tag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid: %v", field, e.Value()))
		}
	}
	return fmt.Errorf("invalid workspace: %s", strings.Join(msgs, "; "))
}

// SessionTTL parses Sessions.TTL. Empty means no expiry.
func (w *Workspace) SessionTTL() time.Duration {
	if w.Sessions.TTL == "" {
		return 0
	}
	d, _ := time.ParseDuration(w.Sessions.TTL)
	return d
}

// LoadWorkspace reads workspace.yaml from contextDir. Fields missing from
// the file take their DefaultWorkspace values.
func LoadWorkspace(contextDir string) (*Workspace, error) {
	path := filepath.Join(contextDir, workspaceFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("workspace config not found in context (expected: %s)", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ws := DefaultWorkspace()
	if err := yaml.Unmarshal(data, ws); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ws, nil
}

// SaveWorkspace writes ws to contextDir/workspace.yaml.
func SaveWorkspace(contextDir string, ws *Workspace) error {
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		return fmt.Errorf("create context dir: %w", err)
	}
	data, err := yaml.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace config: %w", err)
	}
	path := filepath.Join(contextDir, workspaceFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WorkspacePath returns the workspace.yaml path of a context.
func (c *Config) WorkspacePath(name string) string {
	return filepath.Join(c.ContextDir(name), workspaceFile)
}
