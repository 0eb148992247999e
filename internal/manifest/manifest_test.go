package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/sitefreeze/internal/generator"
)

func sampleRecord() *BuildRecord {
	r := &BuildRecord{
		ID:        "build-123",
		RunID:     "run-1",
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Inputs: Inputs{
			ConfigHash: "config-hash-123",
			Commit:     "abc123",
			Languages:  []string{"en", "de"},
		},
		Plan: Plan{
			IndexFile:  "index.html",
			RenderBase: "https://sitefreeze-1",
			BaseURL:    "/",
			Routes:     []string{"feed.xml"},
			Plugins:    []PluginVersion{{Name: "gallery", Version: "v1"}},
		},
		Outputs: Outputs{Folder: "/out", Files: map[string]string{"index.html": "aa"}},
		Status:  "success",
	}
	r.SetNodes(map[string]map[string]string{
		"b": {"en": "fp-b"},
		"a": {"en": "fp-a", "de": "fp-a-de"},
	})
	return r
}

func TestRecordSerialization(t *testing.T) {
	r := sampleRecord()
	data, err := r.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	restored, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if restored.ID != r.ID || restored.RunID != r.RunID {
		t.Errorf("ids not restored: %+v", restored)
	}
	if len(restored.Inputs.Nodes) != 2 || restored.Inputs.Nodes[0].Key != "a" {
		t.Errorf("nodes not sorted: %+v", restored.Inputs.Nodes)
	}
	if restored.Outputs.Files["index.html"] != "aa" {
		t.Errorf("outputs not restored: %+v", restored.Outputs)
	}
	if _, err := FromJSON([]byte("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestHashIgnoresVolatileFields(t *testing.T) {
	a, b := sampleRecord(), sampleRecord()
	b.ID = "other"
	b.Timestamp = time.Now()
	b.Plan.RenderBase = "https://sitefreeze-2"
	b.Outputs.Files = nil
	b.Status = "failed"

	ha, err := a.Hash()
	if err != nil {
		t.Fatal(err)
	}
	hb, err := b.Hash()
	if err != nil {
		t.Fatal(err)
	}
	if ha != hb {
		t.Errorf("hash changed with volatile fields: %s != %s", ha, hb)
	}

	b.Inputs.Nodes[0].Fingerprints["en"] = "changed"
	hc, _ := b.Hash()
	if hc == ha {
		t.Error("hash did not change with content")
	}
}

func TestWriteAndRead(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "build.json")
	if err := sampleRecord().Write(p); err != nil {
		t.Fatal(err)
	}
	r, err := Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != "build-123" {
		t.Errorf("ID = %s", r.ID)
	}
}

func TestHashOutputs(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "blog", "index.html")
	if err := os.MkdirAll(filepath.Dir(f), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := HashOutputs(dir, []string{f})
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Files["blog/index.html"]; got != HashBytes([]byte("hello")) {
		t.Errorf("hash = %s", got)
	}
	if _, err := HashOutputs(dir, []string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHeadCommit(t *testing.T) {
	none, err := HeadCommit(t.TempDir())
	if err != nil || none != "" {
		t.Fatalf("outside repository: %q, %v", none, err)
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if c, err := HeadCommit(dir); err != nil || c != "" {
		t.Fatalf("unborn HEAD: %q, %v", c, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatal(err)
	}
	hash, err := wt.Commit("init", &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	if err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(dir, "content")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	c, err := HeadCommit(sub)
	if err != nil {
		t.Fatal(err)
	}
	if c != hash.String() {
		t.Errorf("commit = %s, want %s", c, hash)
	}
}

func TestWriterObserver(t *testing.T) {
	out := t.TempDir()
	page := filepath.Join(out, "index.html")
	if err := os.WriteFile(page, []byte("<html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	recordPath := filepath.Join(t.TempDir(), "build.json")

	w := NewWriter(recordPath, Source{
		ConfigHash: "cfg",
		Plan:       Plan{IndexFile: "index.html"},
		Fingerprints: func() (map[string]map[string]string, error) {
			return map[string]map[string]string{"home": {"": "fp"}}, nil
		},
	})
	w.RunFinished(t.Context(), generator.RunSummary{
		RunInfo: generator.RunInfo{ID: "run-9", OutputFolder: out, RenderBase: "https://sitefreeze-x", Started: time.Now()},
		Files:   []string{page},
		Err:     errors.New("boom"),
	})

	r, err := Read(recordPath)
	if err != nil {
		t.Fatal(err)
	}
	if r.RunID != "run-9" || r.Status != "failed" || r.Error != "boom" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Plan.RenderBase != "https://sitefreeze-x" || r.Inputs.ConfigHash != "cfg" {
		t.Errorf("plan/inputs not filled: %+v", r)
	}
	if r.Outputs.Files["index.html"] != HashBytes([]byte("<html>")) {
		t.Errorf("outputs = %+v", r.Outputs)
	}
	if len(r.Inputs.Nodes) != 1 || w.Last() == nil {
		t.Errorf("nodes = %+v", r.Inputs.Nodes)
	}
}
