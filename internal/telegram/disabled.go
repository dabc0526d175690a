package telegram

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// Disabled is the fail-closed stand-in used when the bot credential is
// absent or rejected: the webhook keeps acknowledging events so the platform
// does not retry, but nothing is sent and nothing resolves.
type Disabled struct {
	logger *slog.Logger
}

func NewDisabled(logger *slog.Logger) *Disabled {
	return &Disabled{logger: logger}
}

func (d *Disabled) SendTyping(context.Context, int64) {}

func (d *Disabled) Send(_ context.Context, msg domain.OutboundMessage) error {
	d.logger.Warn("telegram disabled, message dropped", "chat_id", msg.ChatID, "text_len", len(msg.Text))
	return nil
}

func (d *Disabled) FileURL(context.Context, string) (string, error) {
	return "", fmt.Errorf("telegram disabled: no bot token")
}
