package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"formulastats/pkg/apps"
	"formulastats/pkg/menus"
	"formulastats/pkg/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	subcommandPreferences = "prefs"
	headerPreferences     = "Chart preferences\n(tap to toggle)"
)

var buttonLabels = map[string]string{
	settings.Outliers:  "Outliers",
	settings.Compounds: "Compounds",
	settings.Scheme:    "Colours",
	settings.Roster:    "Roster alerts",
}

type Toggler interface {
	Preferences(userID string) (settings.Preferences, error)
	Toggle(userID, name, chatID, setting string) (settings.Preferences, error)
}

type PreferencesApp struct {
	bot     apps.Sender
	appMenu menus.ApplicationMenu
	sm      Toggler
	logger  *slog.Logger
	mu      sync.Mutex
}

func NewPreferencesApp(bot apps.Sender, appMenu menus.ApplicationMenu, sm Toggler, logger *slog.Logger) *PreferencesApp {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreferencesApp{
		bot:     bot,
		sm:      sm,
		appMenu: appMenu,
		logger:  logger,
	}
}

func (pa *PreferencesApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	return false, nil
}

func (pa *PreferencesApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	data := strings.Split(query.Data, ":")
	if len(data) != 3 || data[0] != subcommandPreferences {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		pa.mu.Lock()
		defer pa.mu.Unlock()

		userID, setting := data[1], data[2]
		chat, ok := ctx.Value(apps.ChatContextKey).(*tgbotapi.Chat)
		if !ok || chat == nil {
			return apps.SendText(pa.bot, query.Message.Chat.ID, "Could not read the chat", pa.appMenu.PrevMenu())
		}
		if current, _ := apps.UserID(ctx); current != userID {
			return apps.SendText(pa.bot, chat.ID, "These preferences belong to someone else", nil)
		}

		p, err := pa.sm.Toggle(userID, apps.UserName(ctx), fmt.Sprintf("%d", chat.ID), setting)
		if err != nil {
			pa.logger.Error("error toggling preference", "user", userID, "setting", setting, "error", err)
			return apps.SendText(pa.bot, chat.ID, "Could not change the preference", pa.appMenu.PrevMenu())
		}
		msg := tgbotapi.NewEditMessageText(chat.ID, query.Message.MessageID, headerPreferences+"\n\n"+p.String())
		keyboard := getPreferencesInlineKeyboard(userID, p)
		msg.ReplyMarkup = &keyboard
		_, err = pa.bot.Send(msg)
		return err
	}
}

func (pa *PreferencesApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == pa.appMenu.Name {
		return true, pa.renderPreferences
	}
	return false, nil
}

func (pa *PreferencesApp) renderPreferences(ctx context.Context, chatId int64) error {
	userID, ok := apps.UserID(ctx)
	if !ok {
		return apps.SendText(pa.bot, chatId, "Could not read the user", pa.appMenu.PrevMenu())
	}
	p, err := pa.sm.Preferences(userID)
	if err != nil {
		pa.logger.Error("error reading preferences", "user", userID, "error", err)
		return apps.SendText(pa.bot, chatId, "Could not read your preferences", pa.appMenu.PrevMenu())
	}
	msg := tgbotapi.NewMessage(chatId, headerPreferences+"\n\n"+p.String())
	msg.ReplyMarkup = getPreferencesInlineKeyboard(userID, p)
	_, err = pa.bot.Send(msg)
	return err
}

func getPreferencesInlineKeyboard(userID string, p settings.Preferences) tgbotapi.InlineKeyboardMarkup {
	button := func(setting string) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(buttonLabels[setting]+" "+p.Symbol(setting),
			fmt.Sprintf("%s:%s:%s", subcommandPreferences, userID, setting))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button(settings.Outliers), button(settings.Compounds)),
		tgbotapi.NewInlineKeyboardRow(button(settings.Scheme), button(settings.Roster)),
	)
}
