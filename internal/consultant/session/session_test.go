package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreGetMissingReturnsNilNil(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	defer store.Close()

	s, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil session for missing ID, got %+v", s)
	}
}

func TestMemoryStoreUpsertThenGet(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	defer store.Close()
	ctx := context.Background()

	s := &Session{ID: "abc"}
	s.Append("user", "hello")
	if err := store.Upsert(ctx, s); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored session")
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be stamped on upsert")
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	defer store.Close()
	ctx := context.Background()

	if err := store.Upsert(ctx, &Session{ID: "abc", Messages: []Message{{Role: "user", Content: "hi"}}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	first, _ := store.Get(ctx, "abc")
	first.Messages[0].Content = "mutated"

	second, _ := store.Get(ctx, "abc")
	if second.Messages[0].Content != "hi" {
		t.Fatal("mutating a returned session must not affect the store")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(10*time.Millisecond, 10)
	defer store.Close()
	ctx := context.Background()

	if err := store.Upsert(ctx, &Session{ID: "abc"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired session to be gone")
	}
}

func TestMemoryStoreEvictsOldestWhenFull(t *testing.T) {
	store := NewMemoryStore(time.Hour, 2)
	defer store.Close()
	ctx := context.Background()

	if err := store.Upsert(ctx, &Session{ID: "first"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := store.Upsert(ctx, &Session{ID: "second"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := store.Upsert(ctx, &Session{ID: "third"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", store.Len())
	}
	oldest, _ := store.Get(ctx, "first")
	if oldest != nil {
		t.Fatal("expected the stalest session to be evicted")
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	defer store.Close()
	ctx := context.Background()

	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete of absent session should be a no-op, got %v", err)
	}
}

func TestGetOrCreateReturnsFreshSession(t *testing.T) {
	store := NewMemoryStore(time.Hour, 10)
	defer store.Close()

	s, err := GetOrCreate(context.Background(), store, "new-id")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if s == nil || s.ID != "new-id" {
		t.Fatalf("expected fresh session with the requested ID, got %+v", s)
	}
	if len(s.Messages) != 0 || s.Quote != nil {
		t.Fatal("fresh session must start empty")
	}
}

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreFromClient(client, time.Hour)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	s := &Session{ID: "abc"}
	s.Append("user", "I need a website")
	s.Append("assistant", "Happy to help")
	if err := store.Upsert(ctx, s); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored session")
	}
	if len(got.Messages) != 2 || got.Messages[1].Role != "assistant" {
		t.Fatalf("unexpected transcript: %+v", got.Messages)
	}
}

func TestRedisStoreGetMissingReturnsNilNil(t *testing.T) {
	store := newTestRedisStore(t)

	got, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, &Session{ID: "abc"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected session to be gone after delete")
	}
}
