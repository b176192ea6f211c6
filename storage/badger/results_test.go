package badger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/poiesic/qaembed/core"
	"github.com/poiesic/qaembed/storage"
)

func testResults() []*core.ResultRecord {
	var out []*core.ResultRecord
	for i, url := range []string{"https://so/q/1", "https://so/q/2", "https://so/q/3"} {
		rec := &core.Record{
			Ordinal:  i + 1,
			PostURL:  url,
			Question: "How do I do thing " + url + "?",
			Answer:   "Like this.",
			Labels:   core.Labels{Level1: "SAM"},
		}
		out = append(out, core.NewResultRecord(rec, []float32{float32(i), 1}, 50+i))
	}
	return out
}

func TestResultStore_WriteAndGet(t *testing.T) {
	store, err := NewMemoryResultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	results := testResults()
	if err := store.Write(ctx, results); err != nil {
		t.Fatalf("Failed to write results: %v", err)
	}

	got, err := store.Get(ctx, results[1].Id)
	if err != nil {
		t.Fatalf("Failed to get result: %v", err)
	}
	if got.PostURL != "https://so/q/2" {
		t.Fatalf("Expected 'https://so/q/2', got '%s'", got.PostURL)
	}
	if got.UsedLength != 51 {
		t.Fatalf("Expected used length 51, got %d", got.UsedLength)
	}
	if got.Id != results[1].Id {
		t.Fatalf("Expected ID %d, got %d", results[1].Id, got.Id)
	}
}

func TestResultStore_WriteDuplicates(t *testing.T) {
	var buf bytes.Buffer
	backend, err := OpenBackend("", true, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()
	store := NewResultStore(backend)

	results := testResults()
	dup := *results[0]
	dup.Ordinal = 4
	dup.UsedLength = 99
	if err := store.Write(context.Background(), append(results, &dup)); err != nil {
		t.Fatalf("Failed to write results: %v", err)
	}

	all, err := store.All(context.Background())
	if err != nil {
		t.Fatalf("Failed to list results: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 stored results, got %d", len(all))
	}
	got, err := store.Get(context.Background(), dup.Id)
	if err != nil {
		t.Fatalf("Failed to get result: %v", err)
	}
	if got.Ordinal != 4 || got.UsedLength != 99 {
		t.Fatalf("Expected the last duplicate to win, got ordinal %d used length %d", got.Ordinal, got.UsedLength)
	}
	if !strings.Contains(buf.String(), "ordinals=[4]") {
		t.Fatalf("Expected a duplicate warning, got %q", buf.String())
	}
}

func TestResultStore_All(t *testing.T) {
	store, err := NewMemoryResultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Write(ctx, testResults()); err != nil {
		t.Fatalf("Failed to write results: %v", err)
	}
	// Same content again overwrites
	if err := store.Write(ctx, testResults()); err != nil {
		t.Fatalf("Failed to rewrite results: %v", err)
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("Failed to list results: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Id >= all[i].Id {
			t.Fatal("Expected records ordered by ID")
		}
	}
}

func TestResultStore_GetMissing(t *testing.T) {
	store, err := NewMemoryResultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	_, err = store.Get(context.Background(), core.ID(42))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestResultStore_WriteAfterClose(t *testing.T) {
	store, err := NewMemoryResultStore()
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	err = store.Write(context.Background(), testResults())
	if !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed, got %v", err)
	}
}

func TestResultStore_SharedBackend(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	store := NewResultStore(backend)
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}
	if backend.IsClosed() {
		t.Fatal("Expected caller-owned backend to stay open")
	}
}

func TestResultStore_OpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenResultStore(dir)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	ctx := context.Background()
	results := testResults()
	if err := store.Write(ctx, results); err != nil {
		t.Fatalf("Failed to write results: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	reopened, err := OpenResultStore(dir)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, results[0].Id)
	if err != nil {
		t.Fatalf("Failed to get result after reopen: %v", err)
	}
	if got.Title != results[0].Title {
		t.Fatalf("Expected title %q, got %q", results[0].Title, got.Title)
	}
}
