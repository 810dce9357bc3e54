package seed

import (
	"context"
	"errors"
	"testing"
)

// countingStore wraps a MemoryStore and counts parent resolutions.
type countingStore struct {
	*MemoryStore
	resolves int
}

func (s *countingStore) ResolveParents(ctx context.Context, jCode, programCode, courseCode string) (Parents, error) {
	s.resolves++
	return s.MemoryStore.ResolveParents(ctx, jCode, programCode, courseCode)
}

func TestCatalogMemoizes(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore()}
	want := store.AddParents("CA", "DE", "DE-ONLINE")

	catalog := NewCatalog(store, nil)
	for i := 0; i < 3; i++ {
		got, err := catalog.Resolve(ctx, "CA", "DE", "DE-ONLINE")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != want {
			t.Fatalf("Resolve() = %+v, want %+v", got, want)
		}
	}
	if store.resolves != 1 {
		t.Errorf("store resolved %d times, want 1", store.resolves)
	}
}

func TestCatalogNeverCachesMisses(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore()}
	catalog := NewCatalog(store, nil)

	if _, err := catalog.Resolve(ctx, "CA", "DE", "DE-ONLINE"); !errors.Is(err, ErrMissingParent) {
		t.Fatalf("error = %v, want ErrMissingParent", err)
	}

	// Provisioning after a miss must be visible on the next resolve.
	want := store.AddParents("CA", "DE", "DE-ONLINE")
	got, err := catalog.Resolve(ctx, "CA", "DE", "DE-ONLINE")
	if err != nil {
		t.Fatalf("Resolve() after provisioning error = %v", err)
	}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
	if store.resolves != 2 {
		t.Errorf("store resolved %d times, want 2", store.resolves)
	}
}
