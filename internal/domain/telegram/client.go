// internal/domain/telegram/client.go
package telegram

import (
	"errors"
	"strings"

	"gopkg.in/telebot.v3"
)

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	// SendMessage sends a text message to a chat. The recipient is either
	// a numeric chat ID rendered as a string, or an @username of a channel.
	SendMessage(recipient string, text string, options *telebot.SendOptions) error

	// CheckDirectChat verifies that the bot can reach a private chat.
	// Returns an error satisfying IsNotStartedByUser when the user has
	// never initiated a conversation with the bot.
	CheckDirectChat(chatID int64) error

	// Username returns the bot's own @username, if known.
	Username() string
}

// IsNotStartedByUser reports whether an error means the recipient never
// pressed /start, so the bot is forbidden from initiating the conversation.
// This condition is not auto-recoverable and needs operator attention.
func IsNotStartedByUser(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, telebot.ErrNotStartedByUser) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "can't initiate conversation") ||
		strings.Contains(msg, "bot can't initiate")
}
