package ingest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

// Supported reports whether path has a contract extension (pdf, docx).
func Supported(path string) bool {
	return constants.MapExtToFormat(filepath.Ext(path)) != ""
}

// IsHidden matches dotfiles and Office lock files ("~$name.docx").
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}

type ScanStats struct {
	Scanned int
	Matched int
	Failed  int
}

// ScanDir walks root and returns supported contract files in lexical order.
// Unreadable entries are counted and skipped.
func ScanDir(root string, skipHidden bool) ([]string, ScanStats, error) {
	var stats ScanStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, errors.New("root path is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	sort.Strings(paths)
	return paths, stats, nil
}
