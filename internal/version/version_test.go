package version

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Fatal("build metadata must be initialized")
	}
}

func TestString(t *testing.T) {
	oldV, oldC, oldB := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldV, oldC, oldB })

	Version, GitCommit, BuildTime = "v1.0.0", "unknown", "unknown"
	if got := String(); got != "sitefreeze v1.0.0" {
		t.Fatalf("unexpected version line %q", got)
	}

	GitCommit, BuildTime = "abc123", "2026-01-01"
	got := String()
	if !strings.Contains(got, "abc123") || !strings.Contains(got, "2026-01-01") {
		t.Fatalf("expected commit and build time in %q", got)
	}
}
