package inventory

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"trackstrip/internal/logging"
	"trackstrip/internal/media"
)

// Discover walks root and returns regular files with a recognized container
// extension (case-insensitive). Groups follow media.RecognizedContainers order;
// paths within a group are sorted lexically.
//
// Only an unreadable root fails the walk. Entries below it that cannot be
// read are logged and skipped.
func Discover(fsys afero.Fs, root string, logger *slog.Logger) ([]string, error) {
	groups := make(map[media.Container][]string, len(media.RecognizedContainers))
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.WarnWithContext(logger, "file skipped", "file_skipped",
				logging.String(logging.FieldPath, path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "entry is excluded from the inventory"),
			)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		container, parseErr := media.ParseContainer(ext)
		if parseErr != nil || !container.Recognized() {
			return nil
		}
		groups[container] = append(groups[container], path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var paths []string
	for _, container := range media.RecognizedContainers {
		group := groups[container]
		slices.Sort(group)
		paths = append(paths, group...)
	}
	return paths, nil
}
