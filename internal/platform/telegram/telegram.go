// Package telegram adapts the Telegram Bot API to the board surface the
// queue projection posts to, plus one-shot requisition announcements.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/garnizeh/quartermaster/internal/queue"
)

// Client wraps an authorized bot. Telegram message ids are ints on the wire;
// they travel as int64 refs everywhere else here.
type Client struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

var _ queue.Board = (*Client)(nil)

// New connects to the production Bot API endpoint.
func New(token string, debug bool, logger *slog.Logger) (*Client, error) {
	return NewWithClient(token, tgbotapi.APIEndpoint, debug, nil, logger)
}

// NewWithClient connects through a custom endpoint and HTTP client, which is
// how tests point the bot at a local server.
func NewWithClient(token, endpoint string, debug bool, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("telegram bot authorized", "account", api.Self.UserName)

	return &Client{api: api, logger: logger}, nil
}

// Post sends the queue artifact to a channel and returns the new message ref.
func (c *Client) Post(ctx context.Context, channelRef int64, text string) (int64, error) {
	msg, err := c.api.Send(tgbotapi.NewMessage(channelRef, text))
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}

	return int64(msg.MessageID), nil
}

// Delete removes a previously posted message. Telegram reports already-gone
// messages as errors; callers decide whether that matters.
func (c *Client) Delete(ctx context.Context, channelRef, messageRef int64) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(channelRef, int(messageRef))); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return nil
}

// Announce posts a notification text to a channel, fire and forget.
func (c *Client) Announce(ctx context.Context, channelRef int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(channelRef, text)); err != nil {
		return fmt.Errorf("send announcement: %w", err)
	}

	return nil
}
