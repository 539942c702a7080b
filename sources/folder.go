package sources

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/quickdex/core"
)

// FolderSource harvests files and sub-folders under configured roots.
type FolderSource struct {
	folders       []string
	extensions    map[string]struct{}
	maxDepth      int
	includeHidden bool
	logger        *slog.Logger
}

var _ Source = (*FolderSource)(nil)

// FolderOption configures a FolderSource.
type FolderOption func(*FolderSource)

// WithExtensions restricts harvested files to the given extensions
// (with or without leading dot, case-insensitive). Empty means every
// file qualifies.
func WithExtensions(extensions []string) FolderOption {
	return func(s *FolderSource) {
		if len(extensions) == 0 {
			s.extensions = nil
			return
		}
		set := make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			set[ext] = struct{}{}
		}
		s.extensions = set
	}
}

// WithMaxDepth bounds recursion below each root; 0 means only the
// root's immediate entries. Default is 3.
func WithMaxDepth(depth int) FolderOption {
	return func(s *FolderSource) {
		if depth < 0 {
			depth = 0
		}
		s.maxDepth = depth
	}
}

// WithIncludeHidden includes dot-prefixed files and folders.
func WithIncludeHidden(include bool) FolderOption {
	return func(s *FolderSource) {
		s.includeHidden = include
	}
}

// WithFolderLogger sets a custom logger.
// Default is slog.Default().
func WithFolderLogger(logger *slog.Logger) FolderOption {
	return func(s *FolderSource) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewFolderSource creates a source over the given folder roots.
func NewFolderSource(folders []string, opts ...FolderOption) (*FolderSource, error) {
	if len(folders) == 0 {
		return nil, ErrNoFolders
	}
	s := &FolderSource{
		folders:  folders,
		maxDepth: 3,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the source in logs.
func (s *FolderSource) Name() string {
	return "folders"
}

// Volatile reports false: folder contents are tracked by fingerprints,
// so an unchanged fingerprint means the harvest is already current.
func (s *FolderSource) Volatile() bool {
	return false
}

// Harvest walks every configured root and returns its files and
// sub-folders as items. A missing or unreadable root is logged and
// skipped so one bad root never empties the whole index.
func (s *FolderSource) Harvest(ctx context.Context) ([]core.Item, error) {
	var items []core.Item
	for _, root := range s.folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		harvested, err := s.walkRoot(ctx, root)
		if err != nil {
			s.logger.Warn("skipping folder root", "root", root, "err", err)
			continue
		}
		items = append(items, harvested...)
	}
	return items, nil
}

// HarvestRoot walks a single root, for incremental rescans of one
// changed folder.
func (s *FolderSource) HarvestRoot(ctx context.Context, root string) ([]core.Item, error) {
	return s.walkRoot(ctx, root)
}

func (s *FolderSource) walkRoot(ctx context.Context, root string) ([]core.Item, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	parent := filepath.Dir(root)
	return s.walkDir(ctx, root, parent, 0)
}

func (s *FolderSource) walkDir(ctx context.Context, dir, root string, depth int) ([]core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			s.logger.Debug("permission denied", "dir", dir)
			return nil, nil
		}
		return nil, err
	}

	var items []core.Item
	for _, entry := range entries {
		name := entry.Name()
		if !s.includeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)

		if entry.Type()&os.ModeSymlink != 0 {
			if item, ok := s.resolveLink(path, name); ok {
				items = append(items, item)
			}
			continue
		}

		if entry.IsDir() {
			items = append(items, core.Item{
				Path:        path,
				Name:        name,
				Description: describe(path, root),
				Kind:        core.KindFolder,
			})
			if depth < s.maxDepth {
				sub, err := s.walkDir(ctx, path, root, depth+1)
				if err != nil {
					return nil, err
				}
				items = append(items, sub...)
			}
			continue
		}

		if !s.extensionAllowed(name) {
			continue
		}

		items = append(items, core.Item{
			Path:        path,
			Name:        name,
			Description: describe(path, root),
			Kind:        KindForFile(name),
		})
	}
	return items, nil
}

// resolveLink turns a symlink entry into an item keyed by the link
// path itself, described by its resolved target. Linked folders are
// not descended into, which keeps cycles out of the walk. Broken
// links are skipped.
func (s *FolderSource) resolveLink(path, name string) (core.Item, bool) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		s.logger.Debug("skipping broken link", "path", path)
		return core.Item{}, false
	}
	info, err := os.Stat(target)
	if err != nil {
		return core.Item{}, false
	}
	kind := KindForFile(name)
	if info.IsDir() {
		kind = core.KindFolder
	} else if !s.extensionAllowed(name) {
		return core.Item{}, false
	}
	return core.Item{
		Path:        path,
		Name:        name,
		Description: target,
		Kind:        kind,
	}, true
}

func (s *FolderSource) extensionAllowed(name string) bool {
	if s.extensions == nil {
		return true
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// describe renders the item's parent folder relative to the harvest
// root, the way a launcher shows "where this came from".
func describe(path, root string) string {
	parent := filepath.Dir(path)
	if rel, err := filepath.Rel(root, parent); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return parent
}

var scriptExtensions = map[string]struct{}{
	".sh":  {},
	".ps1": {},
	".bat": {},
	".cmd": {},
	".py":  {},
}

// KindForFile classifies a file name as a script or plain file by its
// extension. Used by harvesters and by incremental change application.
func KindForFile(name string) core.ItemKind {
	if _, ok := scriptExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return core.KindScript
	}
	return core.KindFile
}
