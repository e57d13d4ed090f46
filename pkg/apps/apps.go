package apps

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Accepter interface {
	AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error)
	AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error)
}

// Sender is the part of *tgbotapi.BotAPI the apps talk to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type ContextUser string
type ContextChatID string

const (
	UserContextKey ContextUser   = "user"
	ChatContextKey ContextChatID = "chat"
)

func WithUser(ctx context.Context, user *tgbotapi.User, chat *tgbotapi.Chat) context.Context {
	if user != nil {
		ctx = context.WithValue(ctx, UserContextKey, user)
	}
	if chat != nil {
		ctx = context.WithValue(ctx, ChatContextKey, chat)
	}
	return ctx
}

// UserID is the id of the user who sent the update, if known.
func UserID(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(UserContextKey).(*tgbotapi.User)
	if !ok || user == nil {
		return "", false
	}
	return fmt.Sprintf("%d", user.ID), true
}

func UserName(ctx context.Context) string {
	user, ok := ctx.Value(UserContextKey).(*tgbotapi.User)
	if !ok || user == nil {
		return ""
	}
	return user.UserName
}

// CommandArgs splits "/chart team_pace 2024 1 race" into the command and
// its arguments. A bot mention ("/chart@formulastatsbot") is dropped.
func CommandArgs(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	command, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(command), fields[1:]
}

// SendText sends a plain message, keeping the keyboard when one is given.
func SendText(bot Sender, chatId int64, text string, keyboard any) error {
	msg := tgbotapi.NewMessage(chatId, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	_, err := bot.Send(msg)
	return err
}

// Code wraps text in a MarkdownV2 code block.
func Code(text string) string {
	r := strings.NewReplacer("\\", "\\\\", "`", "\\`")
	return "```\n" + r.Replace(text) + "```"
}
