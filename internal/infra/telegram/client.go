// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain Client interface using the
// gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// chatRecipient passes a chat identifier through to the Bot API as-is.
// Telegram accepts both numeric IDs and @channel usernames as chat_id,
// which telebot's own Chat type does not.
type chatRecipient string

func (r chatRecipient) Recipient() string { return string(r) }

// SendMessage sends a text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(recipient string, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	_, err := tba.bot.Send(chatRecipient(recipient), text, options)
	return err
}

// CheckDirectChat verifies the bot can see the private chat. Telegram
// reports a distinct error when the user never initiated a conversation.
func (tba *TelebotAdapter) CheckDirectChat(chatID int64) error {
	_, err := tba.bot.ChatByID(chatID)
	return err
}

// Username returns the bot's own @username.
func (tba *TelebotAdapter) Username() string {
	if tba.bot.Me == nil {
		return ""
	}
	return tba.bot.Me.Username
}
