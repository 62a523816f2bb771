package telegram

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL = "https://api.telegram.org"
	// Long poll duration for getUpdates, in seconds.
	pollTimeout = 30
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			// The long poll holds the connection open for pollTimeout
			// seconds, so the client timeout must exceed it.
			Timeout: (pollTimeout + 10) * time.Second,
		},
		logger: logger,
	}
}

// Updates long-polls the Bot API for updates with ids greater than or equal
// to offset.
func (c *Client) Updates(offset int64) ([]*Update, error) {
	var updates []*Update

	err := c.call("getUpdates", map[string]any{
		"offset":  offset,
		"timeout": pollTimeout,
	}, &updates)
	if err != nil {
		return nil, err
	}

	return updates, nil
}

// SendMessage delivers a new message to a chat.
func (c *Client) SendMessage(chatID int64, text string, markup *InlineKeyboardMarkup) error {
	params := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup != nil {
		params["reply_markup"] = markup
	}

	return c.call("sendMessage", params, nil)
}

// SendMessageContext is SendMessage bound to the caller's context, for
// callers that enforce their own deadline on delivery.
func (c *Client) SendMessageContext(ctx context.Context, chatID int64, text string) error {
	return c.callContext(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, nil)
}

// EditMessageText replaces the text and keyboard of an existing message. The
// bot navigates by editing one message in place instead of flooding the chat.
func (c *Client) EditMessageText(chatID int64, messageID int64, text string, markup *InlineKeyboardMarkup) error {
	params := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if markup != nil {
		params["reply_markup"] = markup
	}

	return c.call("editMessageText", params, nil)
}

// AnswerCallbackQuery acknowledges a button press. A non-empty text is shown
// to the user, as a popup when alert is set.
func (c *Client) AnswerCallbackQuery(id string, text string, alert bool) error {
	params := map[string]any{
		"callback_query_id": id,
	}
	if text != "" {
		params["text"] = text
		params["show_alert"] = alert
	}

	return c.call("answerCallbackQuery", params, nil)
}
