// Package telegram is the platform boundary: webhook payload normalization
// and the Bot API client used for sends and file resolution.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// Client implements domain.Sender and domain.FileResolver over the Bot API.
type Client struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

type ClientConfig struct {
	Token   string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClient connects to the Bot API. The token is validated against getMe,
// so an absent or bad credential surfaces here instead of on the first send.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram: bot token is not configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}

	cfg.Logger.Info("telegram bot connected", "username", api.Self.UserName, "id", api.Self.ID)
	return &Client{api: api, logger: cfg.Logger}, nil
}

// SendTyping shows the typing indicator. Best-effort; failures are only
// logged at debug because a missing indicator is cosmetic.
func (c *Client) SendTyping(_ context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := c.api.Request(action); err != nil {
		c.logger.Debug("typing action failed", "chat_id", chatID, "err", err)
	}
}

// Send delivers one outbound message: a captioned photo when PhotoURL is set,
// a text message otherwise.
func (c *Client) Send(_ context.Context, msg domain.OutboundMessage) error {
	if msg.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(msg.ChatID, tgbotapi.FileURL(msg.PhotoURL))
		photo.Caption = msg.Text
		if _, err := c.api.Send(photo); err != nil {
			return fmt.Errorf("telegram sendPhoto: %w", err)
		}
		return nil
	}

	m := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	m.ParseMode = msg.ParseMode
	if _, err := c.api.Send(m); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}

// FileURL resolves a file id to the authenticated download URL. The URL
// embeds the bot token and must never be handed to third parties directly;
// the relay re-hosts the bytes instead.
func (c *Client) FileURL(_ context.Context, fileID string) (string, error) {
	file, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("telegram getFile: %w", err)
	}
	return file.Link(c.api.Token), nil
}
