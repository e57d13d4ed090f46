package apps

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const unknownInput = "Sorry, I did not understand that. Use /menu to see what I can do."

// Bot routes telegram updates to the root app.
type Bot struct {
	bot    Sender
	root   Accepter
	logger *slog.Logger
}

func NewBot(bot Sender, root Accepter, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{bot: bot, root: root, logger: logger}
}

// Run handles updates one at a time until ctx is cancelled or updates is
// closed.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := b.HandleUpdate(ctx, update); err != nil {
				b.logger.Error("error handling update", "update", update.UpdateID, "error", err)
			}
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil {
		return nil
	}
	ctx = WithUser(ctx, message.From, message.Chat)
	b.logger.Debug("message received", "user", message.From.ID, "text", message.Text)

	var (
		accept  bool
		handler func(ctx context.Context, chatId int64) error
	)
	if message.IsCommand() {
		accept, handler = b.root.AcceptCommand(message.Text)
	} else {
		accept, handler = b.root.AcceptButton(message.Text)
	}
	if !accept {
		return SendText(b.bot, message.Chat.ID, unknownInput, nil)
	}
	return handler(ctx, message.Chat.ID)
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	var chat *tgbotapi.Chat
	if query.Message != nil {
		chat = query.Message.Chat
	}
	ctx = WithUser(ctx, query.From, chat)

	accept, handler := b.root.AcceptCallback(query)
	var err error
	if accept {
		err = handler(ctx, query)
	} else {
		b.logger.Warn("unhandled callback", "data", query.Data)
	}
	if _, ackErr := b.bot.Request(tgbotapi.NewCallback(query.ID, "")); ackErr != nil && err == nil {
		err = ackErr
	}
	return err
}
