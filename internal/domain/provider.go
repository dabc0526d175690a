package domain

import "context"

// GenerationRequest is the outbound request to the generation upstream.
type GenerationRequest struct {
	Prompt   string
	ImageURL string
	// UserToken is a throwaway correlation id regenerated per call. It is
	// not an identity and is never derived from the sender.
	UserToken string
}

// Provider calls an opaque upstream that turns a prompt (plus optional image
// URL) into natural-language text. A nil error guarantees a non-empty reply;
// transport failures are returned as errors and mapped to the sentinel reply
// by the caller.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
