package blanker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"gokoans/internal/config"
	"gokoans/internal/logging"
)

// ErrWorkspaceExists is returned when the target already holds koans
var ErrWorkspaceExists = errors.New("workspace already exists")

// Versions written into a learner workspace's go.mod. GoVersion names a
// full release, since GOTOOLCHAIN=auto cannot download a bare "1.24".
const (
	GoVersion      = "1.24.0"
	TestifyVersion = "v1.9.0"
)

// WorkspaceOptions controls how a learner workspace is written
type WorkspaceOptions struct {
	Dir        string
	ModulePath string
	Force      bool
	// Tidy runs go mod tidy in the new workspace to fetch testify
	Tidy     bool
	GoBinary string
}

// WorkspaceFile is one file written to a workspace
type WorkspaceFile struct {
	Path         string
	Placeholders int
}

// Workspace describes a written workspace
type Workspace struct {
	Dir   string
	Files []WorkspaceFile
	Tidy  bool
}

// Placeholders returns the number of placeholders across all files
func (w Workspace) Placeholders() int {
	total := 0
	for _, f := range w.Files {
		total += f.Placeholders
	}
	return total
}

// Generator writes learner workspaces from the solved koans
type Generator struct {
	sources fs.FS
	blanker *Blanker
	logger  *zap.Logger
}

// NewGenerator creates a Generator reading solved koans from sources
func NewGenerator(sources fs.FS, logger *zap.Logger) *Generator {
	logger = logging.OrNop(logger)
	return &Generator{sources: sources, blanker: New(), logger: logger}
}

// Write creates a workspace: the blanked koans under koans/, a go.mod and a
// default .gokoans.yaml.
func (g *Generator) Write(ctx context.Context, opts WorkspaceOptions) (*Workspace, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("workspace directory is required")
	}
	if opts.ModulePath == "" {
		opts.ModulePath = filepath.Base(opts.Dir)
	}

	koanDir := filepath.Join(opts.Dir, config.DefaultTestPath)
	if !opts.Force {
		if _, err := os.Stat(koanDir); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, koanDir)
		}
	}
	if err := os.MkdirAll(koanDir, 0755); err != nil {
		return nil, fmt.Errorf("create koan dir: %w", err)
	}

	names, err := fs.Glob(g.sources, "*.go")
	if err != nil {
		return nil, fmt.Errorf("list koan sources: %w", err)
	}
	sort.Strings(names)

	ws := &Workspace{Dir: opts.Dir}
	for _, name := range names {
		src, err := fs.ReadFile(g.sources, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		content, count := src, 0
		if strings.HasSuffix(name, "_test.go") {
			content, count, err = g.blanker.Blank(name, src)
			if err != nil {
				return nil, err
			}
		}

		target := filepath.Join(koanDir, path.Base(name))
		if err := os.WriteFile(target, content, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", target, err)
		}
		ws.Files = append(ws.Files, WorkspaceFile{Path: target, Placeholders: count})
		g.logger.Debug("koan file written", zap.String("path", target), zap.Int("placeholders", count))
	}

	if err := g.writeModule(opts); err != nil {
		return nil, err
	}
	if err := g.writeConfig(opts); err != nil {
		return nil, err
	}

	if opts.Tidy {
		if err := g.tidy(ctx, opts); err != nil {
			// The workspace is usable once the learner runs go mod tidy
			g.logger.Warn("go mod tidy failed", zap.String("dir", opts.Dir), zap.Error(err))
		} else {
			ws.Tidy = true
		}
	}

	return ws, nil
}

func (g *Generator) writeModule(opts WorkspaceOptions) error {
	gomod := filepath.Join(opts.Dir, "go.mod")
	if _, err := os.Stat(gomod); err == nil && !opts.Force {
		return nil
	}
	content := fmt.Sprintf("module %s\n\ngo %s\n\nrequire github.com/stretchr/testify %s\n", opts.ModulePath, GoVersion, TestifyVersion)
	if err := os.WriteFile(gomod, []byte(content), 0644); err != nil {
		return fmt.Errorf("write go.mod: %w", err)
	}
	return nil
}

func (g *Generator) writeConfig(opts WorkspaceOptions) error {
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		return nil
	}
	data, err := config.New().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", config.ConfigFileName, err)
	}
	return nil
}

func (g *Generator) tidy(ctx context.Context, opts WorkspaceOptions) error {
	binary := opts.GoBinary
	if binary == "" {
		binary = config.DefaultGoBinary
	}
	cmd := exec.CommandContext(ctx, binary, "mod", "tidy")
	cmd.Dir = opts.Dir
	cmd.Env = os.Environ()
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
