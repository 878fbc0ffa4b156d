package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]struct{}
}

func newMockStore(keys ...string) *mockStore {
	m := &mockStore{data: make(map[string]struct{})}
	for _, k := range keys {
		m.data[k] = struct{}{}
	}
	return m
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func TestCheckerHasSession(t *testing.T) {
	store := newMockStore("sess:access-123")
	checker := &Checker{store: store, keyer: store}
	ctx := context.Background()

	ok, err := checker.HasSession(ctx, "access-123")
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}

	ok, err = checker.HasSession(ctx, "other")
	if err != nil || ok {
		t.Fatalf("expected missing session, ok=%v err=%v", ok, err)
	}

	delete(store.data, "sess:access-123")
	if ok, _ := checker.HasSession(ctx, "access-123"); ok {
		t.Fatal("session should be gone once the key is deleted")
	}
}

func TestCheckerRequiresAccessID(t *testing.T) {
	store := newMockStore()
	checker := &Checker{store: store, keyer: store}
	if _, err := checker.HasSession(context.Background(), " "); err == nil {
		t.Fatal("expected blank access id to fail")
	}
}

func TestNewCheckerRequiresClient(t *testing.T) {
	if _, err := NewChecker(nil); err == nil {
		t.Fatal("expected nil client to fail")
	}
}
