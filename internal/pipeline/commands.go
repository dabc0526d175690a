package pipeline

import (
	"context"
	"strings"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// Canned command replies. The greeting keeps the original bot's wording.
const (
	startReply = "👋 Hi! I'm your AI bot. I can chat, analyze images, and generate code for *any* language with formatting!"
	helpReply  = "📖 Send me any message and I'll answer with AI.\n\n" +
		"• Send a photo (with or without a caption) and I'll describe or analyze it.\n" +
		"• Ask for code and I'll reply with a formatted code block.\n\n" +
		"Commands:\n/start — greeting\n/help — this message\n/clear_memory — forget our conversation"
	clearReply = "🗑 Memory cleared. We're starting fresh."
)

// routeCommand handles the fixed command set and reports whether the event
// was consumed. Commands match the trimmed text exactly; any other
// slash-prefixed text is ordinary input and flows to generation, so there is
// no unknown-command reply.
func (p *Pipeline) routeCommand(ctx context.Context, ev *domain.InboundEvent) bool {
	var reply string

	switch strings.TrimSpace(ev.PromptText()) {
	case "/start":
		reply = startReply
	case "/help":
		reply = helpReply
	case "/clear_memory":
		p.store.Clear(ctx, ev.UserID)
		reply = clearReply
	default:
		return false
	}

	msg := domain.OutboundMessage{ChatID: ev.ChatID, Text: reply, ParseMode: "Markdown"}
	if err := p.sender.Send(ctx, msg); err != nil {
		p.logger.Error("command reply send failed", "chat_id", ev.ChatID, "err", err)
	}
	return true
}
