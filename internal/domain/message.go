package domain

import "context"

// OutboundMessage is one platform message ready to send. A non-empty PhotoURL
// switches the message to a captioned photo, with Text as the caption.
type OutboundMessage struct {
	ChatID    int64
	Text      string
	PhotoURL  string
	ParseMode string // "" plain, "HTML" for verbatim code blocks, "Markdown" for canned replies
}

// Sender delivers messages to the platform. Implementations are best-effort:
// a failed send is reported but never retried.
type Sender interface {
	// SendTyping shows the typing indicator. Fire-and-forget.
	SendTyping(ctx context.Context, chatID int64)
	Send(ctx context.Context, msg OutboundMessage) error
}

// FileResolver turns a platform file ID into a transient authenticated
// download URL.
type FileResolver interface {
	FileURL(ctx context.Context, fileID string) (string, error)
}

// MediaRelay re-hosts a platform attachment at a publicly fetchable URL.
// It returns the empty string on any failure; the pipeline then proceeds
// text-only.
type MediaRelay interface {
	PublicURL(ctx context.Context, ref MediaRef) string
}
