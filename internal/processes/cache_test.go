package processes_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/flowbit/flowbit/internal/processes"
	"github.com/flowbit/flowbit/pkg/cache"
	"github.com/flowbit/flowbit/pkg/lifecycle"
)

type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) error {
	raw, ok := f.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Start(*lifecycle.Coordinator) error { return nil }

func newCached(sys *mockSystem, store *fakeCache) processes.System {
	return processes.WithCache(sys, store, discardLogger(), testPagination())
}

func TestCachedFind(t *testing.T) {
	rec := sampleRecord()
	finds := 0
	sys := &mockSystem{
		findFn: func(_ context.Context, _ uuid.UUID) (*processes.Record, error) {
			finds++
			return &rec, nil
		},
	}
	cached := newCached(sys, newFakeCache())

	for range 2 {
		got, err := cached.Find(context.Background(), rec.ID)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if got.ID != rec.ID {
			t.Errorf("id = %v, want %v", got.ID, rec.ID)
		}
	}

	if finds != 1 {
		t.Errorf("inner finds = %d, want 1 (second served from cache)", finds)
	}
}

func TestCachedFindErrorNotCached(t *testing.T) {
	store := newFakeCache()
	sys := &mockSystem{
		findFn: func(_ context.Context, _ uuid.UUID) (*processes.Record, error) {
			return nil, processes.ErrNotFound
		},
	}
	cached := newCached(sys, store)

	if _, err := cached.Find(context.Background(), uuid.New()); err != processes.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(store.data) != 0 {
		t.Errorf("cache entries = %d, want 0", len(store.data))
	}
}

func TestCachedProcessPrimes(t *testing.T) {
	rec := sampleRecord()
	finds := 0
	sys := &mockSystem{
		processFn: func(_ context.Context, _ processes.ProcessCommand) (*processes.Record, error) {
			return &rec, nil
		},
		findFn: func(_ context.Context, _ uuid.UUID) (*processes.Record, error) {
			finds++
			return &rec, nil
		},
	}
	cached := newCached(sys, newFakeCache())

	if _, err := cached.Process(context.Background(), processes.ProcessCommand{Content: []byte("x")}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if _, err := cached.Find(context.Background(), rec.ID); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if finds != 0 {
		t.Errorf("inner finds = %d, want 0 (primed by Process)", finds)
	}
}

func TestCachedBatchPrimes(t *testing.T) {
	rec := sampleRecord()
	finds := 0
	sys := &mockSystem{
		batchFn: func(_ context.Context, cmds []processes.ProcessCommand) []processes.BatchResult {
			return []processes.BatchResult{
				{Record: &rec, Source: "a"},
				{Source: "b", Error: "empty content"},
			}
		},
		findFn: func(_ context.Context, _ uuid.UUID) (*processes.Record, error) {
			finds++
			return &rec, nil
		},
	}
	cached := newCached(sys, newFakeCache())

	results := cached.ProcessBatch(context.Background(), []processes.ProcessCommand{
		{Source: "a", Content: []byte("x")},
		{Source: "b"},
	})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	if _, err := cached.Find(context.Background(), rec.ID); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if finds != 0 {
		t.Errorf("inner finds = %d, want 0 (primed by batch)", finds)
	}
}

func TestCachedDeleteInvalidates(t *testing.T) {
	rec := sampleRecord()
	finds := 0
	sys := &mockSystem{
		findFn: func(_ context.Context, _ uuid.UUID) (*processes.Record, error) {
			finds++
			return &rec, nil
		},
		deleteFn: func(_ context.Context, _ uuid.UUID) error { return nil },
	}
	cached := newCached(sys, newFakeCache())

	if _, err := cached.Find(context.Background(), rec.ID); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if err := cached.Delete(context.Background(), rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cached.Find(context.Background(), rec.ID); err != nil {
		t.Fatalf("Find after delete: %v", err)
	}

	if finds != 2 {
		t.Errorf("inner finds = %d, want 2 (cache invalidated)", finds)
	}
}
