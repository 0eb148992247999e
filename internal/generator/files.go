package generator

import "sort"

// fileSet is the deduplicated manifest of written or copied paths.
type fileSet struct {
	seen map[string]struct{}
}

func newFileSet() *fileSet {
	return &fileSet{seen: make(map[string]struct{})}
}

func (s *fileSet) add(paths ...string) {
	for _, p := range paths {
		s.seen[p] = struct{}{}
	}
}

func (s *fileSet) len() int { return len(s.seen) }

func (s *fileSet) reset() {
	s.seen = make(map[string]struct{})
}

// list returns the manifest sorted for stable output.
func (s *fileSet) list() []string {
	out := make([]string, 0, len(s.seen))
	for p := range s.seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
