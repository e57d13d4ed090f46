package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"formulastats/pkg/apps"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/helper"
	"formulastats/pkg/menus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	commandSchedule = "/schedule"
	pagerKey        = "schedule."
	eventsPerPage   = 8
)

type ScheduleApp struct {
	bot     apps.Sender
	svc     *dashboard.Service
	appMenu menus.ApplicationMenu
	perPage int
}

func NewScheduleApp(bot apps.Sender, svc *dashboard.Service, appMenu menus.ApplicationMenu) *ScheduleApp {
	return &ScheduleApp{
		bot:     bot,
		svc:     svc,
		appMenu: appMenu,
		perPage: eventsPerPage,
	}
}

func (sa *ScheduleApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	cmd, args := apps.CommandArgs(command)
	if cmd != commandSchedule {
		return false, nil
	}
	return true, func(ctx context.Context, chatId int64) error {
		year, err := sa.year(args)
		if err != nil {
			return apps.ReplyError(sa.bot, chatId, err)
		}
		return sa.render(chatId, year, 0, nil)
	}
}

func (sa *ScheduleApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == sa.appMenu.Name {
		return true, func(ctx context.Context, chatId int64) error {
			year, err := sa.year(nil)
			if err != nil {
				return apps.ReplyError(sa.bot, chatId, err)
			}
			return sa.render(chatId, year, 0, nil)
		}
	}
	return false, nil
}

func (sa *ScheduleApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	key, page, _, ok := apps.ParsePager(query.Data)
	if !ok || !strings.HasPrefix(key, pagerKey) {
		return false, nil
	}
	year, err := strconv.Atoi(strings.TrimPrefix(key, pagerKey))
	if err != nil {
		return false, nil
	}
	return true, func(ctx context.Context, query *tgbotapi.CallbackQuery) error {
		return sa.render(query.Message.Chat.ID, year, page, &query.Message.MessageID)
	}
}

// year is the first argument or the newest season available.
func (sa *ScheduleApp) year(args []string) (int, error) {
	if len(args) > 0 {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, &dashboard.ValidationError{Field: "year", Reason: fmt.Sprintf("%q is not a year", args[0])}
		}
		return year, nil
	}
	years, err := sa.svc.Years()
	if err != nil {
		return 0, err
	}
	if len(years) == 0 {
		return 0, &dashboard.ValidationError{Field: "year", Reason: "no season has been downloaded yet"}
	}
	return years[0], nil
}

func (sa *ScheduleApp) render(chatId int64, year, page int, messageId *int) error {
	rows, err := sa.svc.Schedule(year)
	if err != nil {
		return apps.ReplyError(sa.bot, chatId, err)
	}
	pages := apps.Pages(len(rows), sa.perPage)
	page = min(max(page, 0), pages-1)
	lo, hi := apps.PageRange(len(rows), page, sa.perPage)

	cells := make([][]string, 0, hi-lo)
	for _, r := range rows[lo:hi] {
		cells = append(cells, []string{strconv.Itoa(r.Round), r.Name, r.Date, r.Format})
	}
	text := apps.Code(fmt.Sprintf("%d schedule (%d/%d)\n\n%s", year, page+1, pages,
		helper.RenderTable([]string{"R", "Event", "Date", "Format"}, cells)))
	keyboard, hasKeyboard := apps.PagerKeyboard(fmt.Sprintf("%s%d", pagerKey, year), page, sa.perPage, pages)

	var cfg tgbotapi.Chattable
	if messageId == nil {
		msg := tgbotapi.NewMessage(chatId, text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		if hasKeyboard {
			msg.ReplyMarkup = keyboard
		}
		cfg = msg
	} else {
		msg := tgbotapi.NewEditMessageText(chatId, *messageId, text)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		if hasKeyboard {
			msg.ReplyMarkup = &keyboard
		}
		cfg = msg
	}
	_, err = sa.bot.Send(cfg)
	return err
}
