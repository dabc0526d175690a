// Package pipeline runs the message-processing sequence for one inbound
// event: command routing, media relay, memory, prompt construction,
// generation, formatting, and sequential best-effort sends.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
	"github.com/Jking123456/gemini-ai-by-homer/internal/format"
	"github.com/Jking123456/gemini-ai-by-homer/internal/provider"
)

// Pipeline wires the collaborators for one deployment. It is stateless apart
// from the injected memory store; every Handle call is independent.
type Pipeline struct {
	store     domain.MemoryStore
	provider  domain.Provider
	relay     domain.MediaRelay
	formatter *format.Formatter
	sender    domain.Sender
	logger    *slog.Logger

	generateTimeout time.Duration
}

type Config struct {
	Store           domain.MemoryStore
	Provider        domain.Provider
	Relay           domain.MediaRelay
	Formatter       *format.Formatter
	Sender          domain.Sender
	Logger          *slog.Logger
	GenerateTimeout time.Duration
}

func New(cfg Config) *Pipeline {
	if cfg.Formatter == nil {
		cfg.Formatter = format.New()
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 60 * time.Second
	}
	return &Pipeline{
		store:           cfg.Store,
		provider:        cfg.Provider,
		relay:           cfg.Relay,
		formatter:       cfg.Formatter,
		sender:          cfg.Sender,
		logger:          cfg.Logger,
		generateTimeout: cfg.GenerateTimeout,
	}
}

// Handle processes one event end to end. It never returns an error: every
// downstream failure degrades to a fallback value, and the webhook always
// acknowledges the event regardless of what happened here.
func (p *Pipeline) Handle(ctx context.Context, ev *domain.InboundEvent) {
	p.sender.SendTyping(ctx, ev.ChatID)

	if p.routeCommand(ctx, ev) {
		return
	}

	text := ev.PromptText()
	if text == "" && !ev.HasPhoto() {
		// Stickers, joins, etc. Nothing to generate from.
		p.logger.Debug("event carries no prompt material, ignoring", "chat_id", ev.ChatID)
		return
	}

	imageURL := ""
	if ref, ok := ev.LargestPhoto(); ok {
		imageURL = p.relay.PublicURL(ctx, ref)
	}

	history := p.store.Get(ctx, ev.UserID)
	prompt := buildPrompt(history, text, imageURL)

	reply := p.generate(ctx, prompt, imageURL)

	p.store.Append(ctx, ev.UserID, domain.Turn{User: userTurnText(text, imageURL), Bot: reply})

	for i, msg := range p.formatter.Plan(ev.ChatID, text, reply, imageURL) {
		if err := p.sender.Send(ctx, msg); err != nil {
			p.logger.Error("send failed, continuing", "chat_id", ev.ChatID, "part", i, "err", err)
		}
	}
}

// generate calls the upstream once with a bounded timeout and a throwaway
// user token. Any failure becomes the sentinel reply; the user always gets
// some answer.
func (p *Pipeline) generate(ctx context.Context, prompt, imageURL string) string {
	genCtx, cancel := context.WithTimeout(ctx, p.generateTimeout)
	defer cancel()

	reply, err := p.provider.Generate(genCtx, domain.GenerationRequest{
		Prompt:    prompt,
		ImageURL:  imageURL,
		UserToken: uuid.NewString(),
	})
	if err != nil {
		p.logger.Warn("generation failed, using sentinel reply", "provider", p.provider.Name(), "err", err)
		return provider.Sentinel
	}
	return reply
}

// userTurnText is what gets remembered as the user's side of the turn: the
// text they typed, or the image fallback phrase for text-less photo events.
func userTurnText(text, imageURL string) string {
	if text == "" && imageURL != "" {
		return imageFallbackPrompt
	}
	return text
}

const imageFallbackPrompt = "Describe this image"

// contextSeparator sits between the remembered history block and the new
// message in the outbound prompt.
const contextSeparator = "\n\n"

// buildPrompt concatenates prior context, separator, and the event text.
// Output is always non-empty: text-less photo events fall back to a fixed
// phrase. Command text never reaches this point.
func buildPrompt(history []domain.Turn, text, imageURL string) string {
	if text == "" {
		text = imageFallbackPrompt
	}
	if len(history) == 0 {
		return text
	}

	var b strings.Builder
	for _, turn := range history {
		b.WriteString("User: ")
		b.WriteString(turn.User)
		b.WriteString("\nBot: ")
		b.WriteString(turn.Bot)
		b.WriteString("\n")
	}
	b.WriteString(contextSeparator)
	b.WriteString(text)
	return b.String()
}
