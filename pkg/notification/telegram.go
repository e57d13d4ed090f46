package notification

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// Sender is the part of the bot API used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram is a notify.Notifier that writes to a set of chats.
type Telegram struct {
	client    Sender
	receivers []int64
}

func NewTelegram(client Sender) *Telegram {
	return &Telegram{client: client}
}

func (t *Telegram) AddReceivers(chatIDs ...int64) {
	t.receivers = append(t.receivers, chatIDs...)
}

// Send stops at the first chat that cannot be reached.
func (t *Telegram) Send(ctx context.Context, subject, message string) error {
	text := subject + "\n" + message
	for _, chatID := range t.receivers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := t.client.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			return errors.Wrapf(err, "send to chat %d", chatID)
		}
	}
	return nil
}
