package fingerprint

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/quickdex/core"
)

const digestSize = 32

// Options controls the traversal that feeds the digest. The same
// options must be used for fingerprints to be comparable.
type Options struct {
	// Extensions is the allowed file-extension set, lowercase with
	// leading dot ("." entries like ".txt"). Empty means every file
	// qualifies.
	Extensions []string
	// MaxDepth bounds recursion; 0 means only the root folder's
	// immediate entries.
	MaxDepth int
	// IncludeHidden includes dot-prefixed files and folders.
	IncludeHidden bool
}

// Compute walks folderPath and returns its fingerprint. The traversal
// is deterministic: directory entries come back name-sorted, so an
// unchanged tree always produces the same digest.
func Compute(folderPath string, opts Options) (core.FolderFingerprint, error) {
	info, err := os.Stat(folderPath)
	if err != nil {
		return core.FolderFingerprint{}, fmt.Errorf("stat %s: %w", folderPath, err)
	}
	if !info.IsDir() {
		return core.FolderFingerprint{}, fmt.Errorf("%s: not a directory", folderPath)
	}

	allowed := extensionSet(opts.Extensions)

	fp := core.FolderFingerprint{
		FolderPath: folderPath,
	}

	// Folder lines carry names only. A folder's mtime moves whenever
	// any direct child churns, filtered-out ones included, so feeding
	// it to the digest would react to files that never get indexed.
	var buf strings.Builder
	fmt.Fprintf(&buf, "D|%s\n", filepath.Base(folderPath))

	if err := walk(&buf, &fp, folderPath, 0, allowed, opts); err != nil {
		return core.FolderFingerprint{}, err
	}

	fmt.Fprintf(&buf, "T|%d|%d|%d|%d\n",
		fp.FileCount, fp.FolderCount, fp.TotalSizeBytes, fp.LatestModifiedAt.UnixNano())

	h, err := blake2b.New(digestSize, nil)
	if err != nil {
		return core.FolderFingerprint{}, fmt.Errorf("blake2b: %w", err)
	}
	h.Write([]byte(buf.String()))
	fp.Digest = hex.EncodeToString(h.Sum(nil))
	fp.ComputedAt = time.Now().UTC()

	return fp, nil
}

// walk appends one line per entry of dir to buf and recurses into
// sub-folders while depth allows. Entries that cannot be stat'ed are
// skipped; one unreadable entry must not poison the whole digest.
func walk(buf *strings.Builder, fp *core.FolderFingerprint, dir string, depth int, allowed map[string]struct{}, opts Options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if entry.IsDir() {
			fp.FolderCount++
			fmt.Fprintf(buf, "D|%s\n", name)
			if depth < opts.MaxDepth {
				if err := walk(buf, fp, filepath.Join(dir, name), depth+1, allowed, opts); err != nil {
					return err
				}
			}
			// Below the depth limit, churn stays invisible.
			continue
		}

		if !extensionAllowed(name, allowed) {
			continue
		}

		fp.FileCount++
		fp.TotalSizeBytes += uint64(info.Size())
		if info.ModTime().After(fp.LatestModifiedAt) {
			fp.LatestModifiedAt = info.ModTime()
		}
		fmt.Fprintf(buf, "F|%s|%d|%d\n", name, info.Size(), info.ModTime().UnixNano())
	}

	return nil
}

func extensionSet(extensions []string) map[string]struct{} {
	if len(extensions) == 0 {
		return nil
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
	return set
}

func extensionAllowed(name string, allowed map[string]struct{}) bool {
	if allowed == nil {
		return true
	}
	_, ok := allowed[strings.ToLower(filepath.Ext(name))]
	return ok
}
