package paths

import (
	"regexp"
	"strings"
)

// DefaultIndexFile is the file name written for directory-style URLs.
const DefaultIndexFile = "index.html"

var (
	doubledSlashes = regexp.MustCompile(`/{2,}`)
	invalidIndex   = regexp.MustCompile(`[^A-Za-z0-9.]`)
)

// Cleaner derives output paths for a fixed index file name.
type Cleaner struct {
	indexFile string
	fileLike  *regexp.Regexp
	dotted    *regexp.Regexp
}

// NewCleaner builds a Cleaner for indexFile (DefaultIndexFile when empty).
func NewCleaner(indexFile string) *Cleaner {
	if indexFile == "" {
		indexFile = DefaultIndexFile
	}
	q := regexp.QuoteMeta(indexFile)
	return &Cleaner{
		indexFile: indexFile,
		fileLike:  regexp.MustCompile(`(?i)([^/]+\.[a-z]{2,5})/` + q + `$`),
		dotted:    regexp.MustCompile(`(?i)(\.[^/.]+)/` + q + `$`),
	}
}

// IndexFile returns the index file name the cleaner collapses.
func (c *Cleaner) IndexFile() string { return c.indexFile }

// Clean collapses doubled separators and drops a trailing "/<index file>"
// when the preceding segment already names a file ("feed.xml/index.html"
// becomes "feed.xml"). Clean is idempotent.
func (c *Cleaner) Clean(p string) string {
	for {
		next := doubledSlashes.ReplaceAllString(p, "/")
		next = c.fileLike.ReplaceAllString(next, "$1")
		next = c.dotted.ReplaceAllString(next, "$1")
		if next == p {
			return p
		}
		p = next
	}
}

// SanitizeIndexFileName strips characters other than ASCII letters, digits and
// dots. The result is rejected (ok == false) unless it keeps at least one dot
// and at least one letter or digit.
func SanitizeIndexFileName(name string) (string, bool) {
	name = invalidIndex.ReplaceAllString(name, "")
	if !strings.Contains(name, ".") || strings.Trim(name, ".") == "" {
		return "", false
	}
	return name, true
}
