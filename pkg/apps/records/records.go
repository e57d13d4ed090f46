package records

import (
	"context"
	"strings"

	"formulastats/pkg/apps"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/menus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const commandRecords = "/records"

type RecordsApp struct {
	bot     apps.Sender
	svc     *dashboard.Service
	appMenu menus.ApplicationMenu
}

func NewRecordsApp(bot apps.Sender, svc *dashboard.Service, appMenu menus.ApplicationMenu) *RecordsApp {
	return &RecordsApp{
		bot:     bot,
		svc:     svc,
		appMenu: appMenu,
	}
}

func (ra *RecordsApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	if cmd, _ := apps.CommandArgs(command); cmd == commandRecords {
		return true, ra.render
	}
	return false, nil
}

func (ra *RecordsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == ra.appMenu.Name {
		return true, ra.render
	}
	return false, nil
}

func (ra *RecordsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	return false, nil
}

func (ra *RecordsApp) render(ctx context.Context, chatId int64) error {
	records, err := ra.svc.Records(ctx)
	if err != nil {
		return apps.ReplyError(ra.bot, chatId, err)
	}
	if len(records) == 0 {
		return apps.SendText(ra.bot, chatId, "No records available", nil)
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = "🏆 " + r.String()
	}
	return apps.SendText(ra.bot, chatId, "F1 all-time records\n\n"+strings.Join(lines, "\n"), nil)
}
