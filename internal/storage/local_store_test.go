package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(
		filepath.Join(dir, "uploads"),
		filepath.Join(dir, "preprocessed"),
		filepath.Join(dir, "results"),
	)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	return store, dir
}

func TestNewLocalStoreCreatesAreas(t *testing.T) {
	_, dir := newTestStore(t)
	for _, area := range []string{"uploads", "preprocessed", "results"} {
		if info, err := os.Stat(filepath.Join(dir, area)); err != nil || !info.IsDir() {
			t.Errorf("area %s was not created", area)
		}
	}
}

func TestNewIDIsRandomAndFilenameSafe(t *testing.T) {
	store, _ := newTestStore(t)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := store.NewID()
		if len(id) != 32 {
			t.Fatalf("NewID() = %q, want 32 hex chars", id)
		}
		if strings.ContainsAny(id, "-/\\.") {
			t.Fatalf("NewID() = %q contains separator characters", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("NewID() produced duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSaveUploadAndResult(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()
	id := store.NewID()

	uploadPath, err := store.SaveUpload(ctx, id, "png", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	if filepath.Base(uploadPath) != id+".png" {
		t.Errorf("upload name = %s, want %s.png", filepath.Base(uploadPath), id)
	}
	data, err := os.ReadFile(uploadPath)
	if err != nil || string(data) != "fake image bytes" {
		t.Errorf("upload content = %q, err = %v", data, err)
	}

	resultPath, err := store.SaveResult(ctx, id, "line one\nline two")
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if filepath.Base(resultPath) != id+".txt" {
		t.Errorf("result name = %s, want %s.txt", filepath.Base(resultPath), id)
	}
	data, err = os.ReadFile(resultPath)
	if err != nil || string(data) != "line one\nline two" {
		t.Errorf("result content = %q, err = %v", data, err)
	}

	normalized := store.NormalizedPath(id, "png")
	if filepath.Base(normalized) != "preprocessed_"+id+".png" {
		t.Errorf("normalized name = %s, want preprocessed_%s.png", filepath.Base(normalized), id)
	}
	if filepath.Dir(normalized) != filepath.Join(dir, "preprocessed") {
		t.Errorf("normalized path in wrong area: %s", normalized)
	}
}

func TestSaveUploadHonorsCancelledContext(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.SaveUpload(ctx, store.NewID(), "png", strings.NewReader("x")); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestSaveUploadLeavesNoTempFilesBehind(t *testing.T) {
	store, dir := newTestStore(t)
	if _, err := store.SaveUpload(context.Background(), store.NewID(), "png", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".upload-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("uploads area has %d entries, want 1", len(entries))
	}
}
