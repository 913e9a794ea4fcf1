package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(sessionID string) string {
	return fmt.Sprintf("sess:%s", sessionID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
		now:   func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func TestManagerCreateLookupRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	id, err := manager.Create(ctx, Record{UserID: "u-1", Role: "user", AccessToken: "upstream-token"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected session id")
	}
	if got := store.ttls["sess:"+id]; got != time.Hour {
		t.Fatalf("expected ttl 1h, got %v", got)
	}

	rec, err := manager.Lookup(ctx, id)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.AccessToken != "upstream-token" || rec.Role != "user" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be stamped")
	}

	if err := manager.Revoke(ctx, id); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := manager.Lookup(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revoke, got %v", err)
	}
}

func TestManagerCreateRequiresToken(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Create(context.Background(), Record{UserID: "u-1"}); err == nil {
		t.Fatal("expected missing access token to fail")
	}
}

func TestManagerLookupBlankID(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Lookup(context.Background(), "  "); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerLookupCorruptRecord(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	store.data["sess:bad"] = "{not json"
	if _, err := manager.Lookup(context.Background(), "bad"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestManagerUpdateAccessToken(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	id, err := manager.Create(ctx, Record{UserID: "u-1", Role: "user", AccessToken: "old"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := manager.UpdateAccessToken(ctx, id, "new"); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec, err := manager.Lookup(ctx, id)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.AccessToken != "new" || rec.UserID != "u-1" {
		t.Fatalf("unexpected record %+v", rec)
	}

	if err := manager.UpdateAccessToken(ctx, "missing", "new"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
