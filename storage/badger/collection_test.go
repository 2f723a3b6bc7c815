package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

func TestCollectionBasics(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	added, err := repos.Collections.AddCollection(ctx, &core.Collection{Name: "docs"})
	if err != nil {
		t.Fatalf("Failed to add collection: %v", err)
	}
	if added.ID == uuid.Nil {
		t.Fatal("Expected non-nil ID")
	}
	if added.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := repos.Collections.GetCollection(ctx, added.ID)
	if err != nil {
		t.Fatalf("Failed to get collection: %v", err)
	}
	if retrieved.Name != "docs" {
		t.Fatalf("Expected 'docs', got '%s'", retrieved.Name)
	}

	byName, err := repos.Collections.FindCollectionByName(ctx, "docs")
	if err != nil {
		t.Fatalf("Failed to find collection by name: %v", err)
	}
	if byName.ID != added.ID {
		t.Fatalf("Expected ID %s, got %s", added.ID, byName.ID)
	}
}

func TestCollectionNameUnique(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	if _, err := repos.Collections.AddCollection(ctx, &core.Collection{Name: "docs"}); err != nil {
		t.Fatalf("Failed to add collection: %v", err)
	}

	_, err = repos.Collections.AddCollection(ctx, &core.Collection{Name: "docs"})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestCollectionValidation(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	_, err = repos.Collections.AddCollection(context.Background(), &core.Collection{Name: ""})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func TestCollectionListSortedByName(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := repos.Collections.AddCollection(ctx, &core.Collection{Name: name}); err != nil {
			t.Fatalf("Failed to add collection %q: %v", name, err)
		}
	}

	list, err := repos.Collections.ListCollections(ctx)
	if err != nil {
		t.Fatalf("Failed to list collections: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 collections, got %d", len(list))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, c := range list {
		if c.Name != want[i] {
			t.Fatalf("Expected %q at position %d, got %q", want[i], i, c.Name)
		}
	}
}

func TestCollectionDelete(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	added, err := repos.Collections.AddCollection(ctx, &core.Collection{Name: "ephemeral"})
	if err != nil {
		t.Fatalf("Failed to add collection: %v", err)
	}

	if err := repos.Collections.DeleteCollection(ctx, added.ID); err != nil {
		t.Fatalf("Failed to delete collection: %v", err)
	}

	if _, err := repos.Collections.GetCollection(ctx, added.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	// Name is free for reuse after delete
	if _, err := repos.Collections.AddCollection(ctx, &core.Collection{Name: "ephemeral"}); err != nil {
		t.Fatalf("Failed to reuse name after delete: %v", err)
	}

	if err := repos.Collections.DeleteCollection(ctx, core.NewID()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing collection, got %v", err)
	}
}
