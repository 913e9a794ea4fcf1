package demousers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

func TestStoreAddAndList(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if got := store.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty store, got %v", got)
	}

	users, err := store.Add(ctx, User{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one user, got %d", len(users))
	}

	_, err = store.Add(ctx, User{Name: "Other", Email: "ADA@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if got := store.List(ctx); len(got) != 1 {
		t.Fatalf("duplicate must not be stored, got %v", got)
	}
}

func TestStoreListReturnsCopy(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if _, err := store.Add(ctx, User{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	list := store.List(ctx)
	list[0].Name = "mutated"
	if store.List(ctx)[0].Name != "Ada" {
		t.Fatal("list must not alias internal state")
	}
}

func TestStoreConcurrentAdds(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Add(ctx, User{Name: "u", Email: fmt.Sprintf("u%d@example.com", i%25)})
		}(i)
	}
	wg.Wait()

	if got := len(store.List(ctx)); got != 25 {
		t.Fatalf("expected 25 unique users, got %d", got)
	}
}
