package domain

// MediaRef is an opaque handle to a platform-hosted file. It can be resolved
// to bytes through the Bot API for the lifetime of the request, nothing more.
type MediaRef struct {
	FileID string
}

// InboundEvent is the canonical form of one webhook update. It is built once
// per request by the normalizer and never mutated afterwards.
type InboundEvent struct {
	ChatID int64
	UserID int64 // falls back to ChatID when the payload carries no sender

	Text    string
	Caption string

	// PhotoRefs is ordered smallest to largest, following the platform
	// convention for photo size arrays.
	PhotoRefs []MediaRef
}

// PromptText returns the user-supplied text, preferring the message text over
// the photo caption. Empty when the event carries neither.
func (e *InboundEvent) PromptText() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Caption
}

// HasPhoto reports whether the event carries at least one photo reference.
func (e *InboundEvent) HasPhoto() bool {
	return len(e.PhotoRefs) > 0
}

// LargestPhoto returns the highest-resolution photo reference.
func (e *InboundEvent) LargestPhoto() (MediaRef, bool) {
	if len(e.PhotoRefs) == 0 {
		return MediaRef{}, false
	}
	return e.PhotoRefs[len(e.PhotoRefs)-1], true
}
