// Package outdir guards and resets the output folder a generation run owns.
package outdir

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitefreeze/internal/fsutil"
	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/paths"
)

const (
	// MarkerFileName is the empty file written into every output folder.
	MarkerFileName = ".sitefreeze"
	// LegacyMarkerFileName is still accepted by the guard for folders
	// exported by older tooling.
	LegacyMarkerFileName = ".kirbystatic"
)

// Guard decides whether a folder may be erased and regenerated.
type Guard struct {
	// IndexFile is the configured index file name; its presence at the top
	// level marks a previous export.
	IndexFile string
	// Protected lists folders that must never be erased, directly or as a
	// descendant of the output folder (project root, content directory).
	Protected []string
}

// Check returns nil when folder is safe to take over. Errors are classified
// as config, permission or unsafe_overwrite.
func (g Guard) Check(folder string) error {
	if strings.TrimSpace(folder) == "" {
		return ferrors.ConfigError("please specify a valid output folder").Build()
	}
	if fi, err := os.Stat(folder); err == nil && !fi.IsDir() {
		return ferrors.ConfigError("output folder is not a directory").
			WithContext("folder", folder).Build()
	}
	if err := g.checkProtected(folder); err != nil {
		return err
	}

	empty, err := fsutil.IsEmpty(folder)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPermission, "cannot read output folder").
			WithContext("folder", folder).Fatal().Build()
	}
	if empty {
		return nil
	}
	if !fsutil.IsWritable(folder) {
		return ferrors.PermissionError("the output folder is not writable").
			WithContext("folder", folder).Build()
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryPermission, "cannot list output folder").
			WithContext("folder", folder).Fatal().Build()
	}
	for _, e := range entries {
		switch e.Name() {
		case MarkerFileName, LegacyMarkerFileName, g.IndexFile:
			return nil
		}
	}
	return ferrors.UnsafeOverwriteError(
		`output folder "` + folder + `" already contains other files or folders. ` +
			`Use a path that does not exist yet or is empty. If it has to be this path, create an empty ` +
			MarkerFileName + ` file in it and retry. Everything in the folder not starting with "." is erased before generation`).
		WithContext("folder", folder).Build()
}

func (g Guard) checkProtected(folder string) error {
	if _, err := filepath.Abs(folder); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid output folder").Fatal().Build()
	}
	abs := paths.Canonical(folder)
	if abs == filepath.Dir(abs) {
		return ferrors.UnsafeOverwriteError("refusing to use the filesystem root as output folder").Build()
	}
	for _, p := range g.Protected {
		if p == "" {
			continue
		}
		if within(abs, paths.Canonical(p)) {
			return ferrors.UnsafeOverwriteError("output folder would erase a protected path").
				WithContext("folder", folder).
				WithContext("protected", p).Build()
		}
	}
	return nil
}

// within reports whether target is dir or lies below it.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// WriteMarker creates folder if needed and writes the empty marker file.
func WriteMarker(folder string) error {
	if err := fsutil.WriteFile(filepath.Join(folder, MarkerFileName), nil); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write output marker").
			WithContext("folder", folder).Fatal().Build()
	}
	return nil
}
