package telegram

import "strings"

type Update struct {
	ID            int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	ID   int64  `json:"message_id"`
	From *User  `json:"from,omitempty"`
	Chat *Chat  `json:"chat"`
	Text string `json:"text,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// FullName joins the user's first and last names the way Telegram clients
// display them.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}

	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return name
}

// Command returns the bot command of a message ("/start" -> "start") and its
// argument string, or an empty command for ordinary text.
func (m *Message) Command() (string, string) {
	if m == nil || !strings.HasPrefix(m.Text, "/") {
		return "", ""
	}

	cmd, args, _ := strings.Cut(m.Text[1:], " ")
	// Commands may carry the bot mention suffix: /start@my_bot.
	cmd, _, _ = strings.Cut(cmd, "@")

	return cmd, strings.TrimSpace(args)
}
