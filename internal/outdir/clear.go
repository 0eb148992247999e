package outdir

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
)

// Clear removes every top-level entry of folder except dot-prefixed names and
// names listed in preserve. Failures are logged and do not stop the pass; the
// result is true only when every attempted removal succeeded. A missing folder
// clears trivially.
func Clear(folder string, preserve []string) bool {
	entries, err := os.ReadDir(folder)
	if os.IsNotExist(err) {
		return true
	}
	if err != nil {
		slog.Warn("Cannot list folder to clear", logfields.Path(folder), logfields.Error(err))
		return false
	}

	ok := true
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || slices.Contains(preserve, name) {
			continue
		}
		p := filepath.Join(folder, name)
		if err := os.RemoveAll(p); err != nil {
			slog.Warn("Failed to remove entry", logfields.Path(p), logfields.Error(err))
			ok = false
		}
	}
	return ok
}
