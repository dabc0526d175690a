package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

func TestInMemoryStore_EmptyUser(t *testing.T) {
	s := NewInMemoryStore(10)
	if got := s.Get(context.Background(), 1); got != nil {
		t.Errorf("unknown user should have nil history, got %v", got)
	}
}

func TestInMemoryStore_AppendAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(10)

	s.Append(ctx, 1, domain.Turn{User: "hi", Bot: "hello"})
	s.Append(ctx, 1, domain.Turn{User: "how are you", Bot: "fine"})

	got := s.Get(ctx, 1)
	if len(got) != 2 {
		t.Fatalf("got %d turns, want 2", len(got))
	}
	if got[0].User != "hi" || got[1].User != "how are you" {
		t.Errorf("turns out of order: %v", got)
	}
}

func TestInMemoryStore_CapEvictsOldestFirst(t *testing.T) {
	ctx := context.Background()
	const limit = 10
	s := NewInMemoryStore(limit)

	for i := 0; i < limit+1; i++ {
		s.Append(ctx, 1, domain.Turn{User: fmt.Sprintf("msg-%d", i), Bot: "ok"})
	}

	got := s.Get(ctx, 1)
	if len(got) != limit {
		t.Fatalf("got %d turns, want %d", len(got), limit)
	}
	if got[0].User != "msg-1" {
		t.Errorf("oldest surviving turn = %q, want msg-1", got[0].User)
	}
	if got[limit-1].User != fmt.Sprintf("msg-%d", limit) {
		t.Errorf("newest turn = %q", got[limit-1].User)
	}
}

func TestInMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(10)

	s.Append(ctx, 1, domain.Turn{User: "hi", Bot: "hello"})
	s.Clear(ctx, 1)

	if got := s.Get(ctx, 1); got != nil {
		t.Errorf("cleared user should have nil history, got %v", got)
	}
}

func TestInMemoryStore_UsersIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(10)

	s.Append(ctx, 1, domain.Turn{User: "from one", Bot: "ok"})
	s.Append(ctx, 2, domain.Turn{User: "from two", Bot: "ok"})
	s.Clear(ctx, 1)

	if got := s.Get(ctx, 2); len(got) != 1 || got[0].User != "from two" {
		t.Errorf("user 2 history affected by user 1 clear: %v", got)
	}
}

func TestInMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(10)

	s.Append(ctx, 1, domain.Turn{User: "original", Bot: "ok"})
	got := s.Get(ctx, 1)
	got[0].User = "mutated"

	if again := s.Get(ctx, 1); again[0].User != "original" {
		t.Error("Get must return a copy, not the backing slice")
	}
}
