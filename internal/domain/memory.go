package domain

import "context"

// Turn is one completed exchange between the user and the bot.
type Turn struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// MemoryStore keeps a bounded, ordered conversation history per user.
//
// The store is ephemeral by contract: a process restart (in-memory backend) or
// a cache flush (redis backend) silently loses history, and horizontal
// scale-out fragments it across instances. That is an accepted property of the
// deployment model, not a defect.
//
// Implementations swallow backend failures and return zero values so the
// message pipeline never blocks on memory.
type MemoryStore interface {
	// Get returns the stored turns for the user, oldest first, or nil.
	Get(ctx context.Context, userID int64) []Turn
	// Append pushes one turn, evicting the oldest when the cap is exceeded.
	Append(ctx context.Context, userID int64, turn Turn)
	// Clear removes the user's history entirely.
	Clear(ctx context.Context, userID int64)
}
