package mainapp

import (
	"context"
	"fmt"
	"log/slog"

	"formulastats/pkg/apps"
	"formulastats/pkg/apps/preferences"
	"formulastats/pkg/apps/records"
	"formulastats/pkg/apps/schedule"
	"formulastats/pkg/apps/visuals"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/menus"
	"formulastats/pkg/settings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	menuStart      = "/start"
	menuMenu       = "/menu"
	buttonSchedule = "Schedule"
	buttonCharts   = "Charts"
	buttonRecords  = "Records"
	buttonSettings = "Settings"
	appName        = "menu"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonSchedule),
			tgbotapi.NewKeyboardButton(buttonCharts),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonRecords),
			tgbotapi.NewKeyboardButton(buttonSettings),
		),
	)
)

type menuer struct{}

func (m menuer) Menu() tgbotapi.ReplyKeyboardMarkup {
	return menuKeyboard
}

type MainApp struct {
	bot       apps.Sender
	accepters []apps.Accepter
}

func NewMainApp(bot apps.Sender, svc *dashboard.Service, sm *settings.Manager, logger *slog.Logger) *MainApp {
	var prefs visuals.Preferencer
	if sm != nil {
		prefs = sm
	}
	scheduleApp := schedule.NewScheduleApp(bot, svc, menus.NewApplicationMenu(buttonSchedule, appName, menuer{}))
	visualsApp := visuals.NewVisualsApp(bot, svc, prefs, menus.NewApplicationMenu(buttonCharts, appName, menuer{}), logger)
	recordsApp := records.NewRecordsApp(bot, svc, menus.NewApplicationMenu(buttonRecords, appName, menuer{}))

	accepters := []apps.Accepter{scheduleApp, visualsApp, recordsApp}
	if sm != nil {
		prefsApp := preferences.NewPreferencesApp(bot, menus.NewApplicationMenu(buttonSettings, appName, menuer{}), sm, logger)
		accepters = append(accepters, prefsApp)
	}

	return &MainApp{
		bot:       bot,
		accepters: accepters,
	}
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	switch cmd, _ := apps.CommandArgs(command); cmd {
	case menuStart:
		return true, m.renderStart()
	case menuMenu:
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		message := "Hi, I draw Formula 1 session charts: lap time distributions, team pace, weather and track maps.\n\n"
		message += "You can use these commands:\n\n"
		message += fmt.Sprintf("%s - Shows the bot menu\n", menuMenu)
		message += "/schedule [year] - Season calendar\n"
		message += "/records - All-time records\n\n"
		message += visuals.Usage()
		return apps.SendText(m.bot, chatId, message, menuKeyboard)
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, chatId int64) error {
	return func(ctx context.Context, chatId int64) error {
		return apps.SendText(m.bot, chatId, "Bot menu.", menuKeyboard)
	}
}
