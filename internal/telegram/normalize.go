package telegram

import (
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// Normalize extracts the canonical event from a raw webhook body. It fails
// soft: malformed JSON or an update without a message-like object returns
// nil, and the caller acknowledges the request so the platform does not
// retry.
//
// When the payload carries no sender, UserID falls back to the chat id. That
// collapses per-user memory to per-chat memory for such events.
func Normalize(body []byte) *domain.InboundEvent {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return nil
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	userID := msg.Chat.ID
	if msg.From != nil {
		userID = msg.From.ID
	}

	ev := &domain.InboundEvent{
		ChatID:  msg.Chat.ID,
		UserID:  userID,
		Text:    msg.Text,
		Caption: msg.Caption,
	}
	for _, photo := range msg.Photo {
		ev.PhotoRefs = append(ev.PhotoRefs, domain.MediaRef{FileID: photo.FileID})
	}
	return ev
}
