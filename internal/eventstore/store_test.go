package eventstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndGetByRunID(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	if err := store.Append(ctx, "run-1", TypeRunStarted, []byte(`{"output_folder":"static"}`), map[string]string{"host": "ci"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, "run-2", TypeRunStarted, nil, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(ctx, "run-1", TypePageGenerated, []byte(`{"key":"home"}`), nil); err != nil {
		t.Fatalf("Append: %v", err)
	}

	events, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type() != TypeRunStarted || events[1].Type() != TypePageGenerated {
		t.Fatalf("unexpected order: %s, %s", events[0].Type(), events[1].Type())
	}
	if events[0].Metadata()["host"] != "ci" {
		t.Fatalf("metadata not restored: %v", events[0].Metadata())
	}
	if events[0].ID() >= events[1].ID() {
		t.Fatalf("ids not increasing: %d, %d", events[0].ID(), events[1].ID())
	}

	other, err := store.GetByRunID(ctx, "run-2")
	if err != nil {
		t.Fatalf("GetByRunID: %v", err)
	}
	if len(other) != 1 || string(other[0].Payload()) != "{}" {
		t.Fatalf("expected empty object payload, got %+v", other)
	}
}

func TestGetRange(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	before := time.Now().Add(-time.Second)
	if err := store.Append(ctx, "run-1", TypeRunStarted, nil, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	after := time.Now().Add(time.Second)

	events, err := store.GetRange(ctx, before, after)
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event in range, got %d", len(events))
	}

	events, err = store.GetRange(ctx, after, after.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetRange: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestPersistentStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := store.Append(t.Context(), "run-1", TypeRunStarted, nil, nil); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	events, err := reopened.GetByRunID(t.Context(), "run-1")
	if err != nil {
		t.Fatalf("GetByRunID: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected event to survive reopen, got %d", len(events))
	}
}

func TestAppendCanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := store.Append(ctx, "run-1", TypeRunStarted, nil, nil)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if !errors.Is(err, ErrEventAppendFailed) {
		t.Fatalf("expected ErrEventAppendFailed, got %v", err)
	}
	if ferrors.GetCategory(err) != ferrors.CategoryEventStore {
		t.Fatalf("unexpected category %s", ferrors.GetCategory(err))
	}
}

func TestRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	for _, id := range []string{"run-a", "run-b", "run-c"} {
		rec := NewRecorder(store)
		rec.runID = id
		rec.record(ctx, TypeRunStarted, RunStartedData{OutputFolder: "static", BaseURL: "/"})
		rec.record(ctx, TypePageGenerated, PageGeneratedData{Key: "home", Path: "index.html"})
		rec.record(ctx, TypeRunFinished, RunFinishedData{Status: "success", Files: 3, DurationMS: 1500})
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := store.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-c" || runs[1].RunID != "run-b" {
		t.Fatalf("expected newest first, got %s, %s", runs[0].RunID, runs[1].RunID)
	}
	r := runs[0]
	if r.Status != "success" || r.Files != 3 || r.Pages != 1 || r.Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected summary %+v", r)
	}
	if r.FinishedAt == nil || r.OutputFolder != "static" {
		t.Fatalf("unexpected summary %+v", r)
	}

	all, err := store.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected default limit to return all 3 runs, got %d", len(all))
	}
}
