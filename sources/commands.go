package sources

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/quickdex/core"
)

// CommandSource harvests the executables reachable on PATH as
// KindCommand items.
type CommandSource struct {
	pathEnv string
	logger  *slog.Logger
}

var _ Source = (*CommandSource)(nil)

// CommandOption configures a CommandSource.
type CommandOption func(*CommandSource)

// WithPathEnv overrides the PATH value to scan, mainly for tests.
func WithPathEnv(pathEnv string) CommandOption {
	return func(s *CommandSource) {
		s.pathEnv = pathEnv
	}
}

// WithCommandLogger sets a custom logger.
// Default is slog.Default().
func WithCommandLogger(logger *slog.Logger) CommandOption {
	return func(s *CommandSource) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewCommandSource creates a source over the PATH executables.
func NewCommandSource(opts ...CommandOption) *CommandSource {
	s := &CommandSource{
		pathEnv: os.Getenv("PATH"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the source in logs.
func (s *CommandSource) Name() string {
	return "commands"
}

// Volatile reports true: PATH directories are not fingerprinted, so a
// smart run still re-harvests them.
func (s *CommandSource) Volatile() bool {
	return true
}

// Harvest scans each PATH directory for executable files. When the
// same command name appears in several directories, the first wins,
// matching shell lookup order.
func (s *CommandSource) Harvest(ctx context.Context) ([]core.Item, error) {
	seen := make(map[string]struct{})
	var items []core.Item

	for _, dir := range filepath.SplitList(s.pathEnv) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if dir == "" {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("skipping path directory", "dir", dir, "err", err)
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if _, ok := seen[strings.ToLower(name)]; ok {
				continue
			}

			info, err := entry.Info()
			if err != nil || info.Mode()&0111 == 0 {
				continue
			}

			seen[strings.ToLower(name)] = struct{}{}
			items = append(items, core.Item{
				Path:        filepath.Join(dir, name),
				Name:        name,
				Description: dir,
				Kind:        core.KindCommand,
			})
		}
	}
	return items, nil
}
