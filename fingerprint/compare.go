package fingerprint

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/poiesic/quickdex/core"
	"github.com/poiesic/quickdex/storage"
)

// ErrRepositoryRequired is returned when a fingerprint repository is not provided.
var ErrRepositoryRequired = errors.New("fingerprint repository required")

// Comparison is the outcome of comparing the configured folders
// against the fingerprints stored by the previous indexing run.
type Comparison struct {
	// New folders are configured but have no stored fingerprint.
	New []string
	// Modified folders have a stored fingerprint with a different digest.
	Modified []string
	// Deleted folders are stored but no longer configured, or gone
	// from disk.
	Deleted []string
	// Unchanged folders match their stored digest.
	Unchanged []string
	// Fingerprints holds the freshly computed fingerprint for every
	// configured folder that still exists, so callers can persist them
	// without recomputing.
	Fingerprints map[string]core.FolderFingerprint
}

// Empty reports whether nothing needs rescanning.
func (c *Comparison) Empty() bool {
	return len(c.New) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0
}

// Detector compares current folder state against stored fingerprints.
type Detector struct {
	repo   storage.FingerprintRepository
	logger *slog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DetectorOption {
	return func(d *Detector) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// NewDetector creates a detector backed by the given repository.
func NewDetector(repo storage.FingerprintRepository, opts ...DetectorOption) (*Detector, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	d := &Detector{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Compare computes a fresh fingerprint for every configured folder and
// classifies it against storage. Folders that vanished from disk are
// reported deleted; folders that cannot be fingerprinted for other
// reasons are skipped with a warning so one bad root never aborts a
// smart-indexing decision.
func (d *Detector) Compare(ctx context.Context, folders []string, opts Options) (*Comparison, error) {
	stored, err := d.repo.ListFingerprints(ctx)
	if err != nil {
		return nil, err
	}

	storedByPath := make(map[string]core.FolderFingerprint, len(stored))
	for _, fp := range stored {
		storedByPath[fp.FolderPath] = fp
	}

	cmp := &Comparison{
		Fingerprints: make(map[string]core.FolderFingerprint, len(folders)),
	}
	configured := make(map[string]struct{}, len(folders))

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		configured[folder] = struct{}{}

		current, err := Compute(folder, opts)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				if _, ok := storedByPath[folder]; ok {
					cmp.Deleted = append(cmp.Deleted, folder)
				}
				continue
			}
			d.logger.Warn("skipping folder during comparison", "folder", folder, "err", err)
			continue
		}
		cmp.Fingerprints[folder] = current

		previous, ok := storedByPath[folder]
		switch {
		case !ok:
			cmp.New = append(cmp.New, folder)
		case previous.Digest != current.Digest:
			cmp.Modified = append(cmp.Modified, folder)
		default:
			cmp.Unchanged = append(cmp.Unchanged, folder)
		}
	}

	// Stored folders dropped from configuration.
	for path := range storedByPath {
		if _, ok := configured[path]; !ok {
			cmp.Deleted = append(cmp.Deleted, path)
		}
	}

	return cmp, nil
}
