package notify

import (
	"context"
	"fmt"

	"github.com/spigell/career-center-bot/internal/telegram"
)

// ChatSink delivers notices to the administrator's Telegram chat.
type ChatSink struct {
	client *telegram.Client
	chatID int64
}

func NewChat(client *telegram.Client, chatID int64) *ChatSink {
	return &ChatSink{
		client: client,
		chatID: chatID,
	}
}

func (s *ChatSink) Name() string { return "chat" }

func (s *ChatSink) Send(ctx context.Context, n Notice) error {
	if err := s.client.SendMessageContext(ctx, s.chatID, n.Body); err != nil {
		return fmt.Errorf("chat notification: %w", err)
	}

	return nil
}
