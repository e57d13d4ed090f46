// Package visuals answers the chart and pace commands of the bot.
package visuals

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"formulastats/pkg/apps"
	"formulastats/pkg/charts"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/helper"
	"formulastats/pkg/menus"
	"formulastats/pkg/settings"
	"formulastats/pkg/stats"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	commandChart = "/chart"
	commandPace  = "/pace"
)

// Preferencer hands out the chart preferences of a user.
type Preferencer interface {
	Preferences(userID string) (settings.Preferences, error)
}

type VisualsApp struct {
	bot     apps.Sender
	svc     *dashboard.Service
	prefs   Preferencer
	appMenu menus.ApplicationMenu
	logger  *slog.Logger
}

func NewVisualsApp(bot apps.Sender, svc *dashboard.Service, prefs Preferencer, appMenu menus.ApplicationMenu, logger *slog.Logger) *VisualsApp {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisualsApp{
		bot:     bot,
		svc:     svc,
		prefs:   prefs,
		appMenu: appMenu,
		logger:  logger,
	}
}

func Usage() string {
	kinds := make([]string, len(charts.Kinds))
	for i, k := range charts.Kinds {
		kinds[i] = string(k)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s <kind> <year> <round> <session> [driver lap | average|fastest|<lap>]\n", commandChart)
	fmt.Fprintf(&b, "%s <year> <round> <session> [average|fastest|<lap>]\n\n", commandPace)
	fmt.Fprintf(&b, "Chart kinds:\n%s\n\n", strings.Join(kinds, "\n"))
	b.WriteString("Example: /chart gear_shifts_per_lap 2024 1 race VER 12")
	return b.String()
}

func (va *VisualsApp) AcceptCommand(command string) (bool, func(ctx context.Context, chatId int64) error) {
	cmd, args := apps.CommandArgs(command)
	switch cmd {
	case commandChart:
		return true, func(ctx context.Context, chatId int64) error {
			return va.sendChart(ctx, chatId, args)
		}
	case commandPace:
		return true, func(ctx context.Context, chatId int64) error {
			return va.sendPace(ctx, chatId, args)
		}
	}
	return false, nil
}

func (va *VisualsApp) AcceptButton(button string) (bool, func(ctx context.Context, chatId int64) error) {
	if button == va.appMenu.Name {
		return true, func(ctx context.Context, chatId int64) error {
			return apps.SendText(va.bot, chatId, Usage(), nil)
		}
	}
	return false, nil
}

func (va *VisualsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	return false, nil
}

// parseRef reads "<year> <round> <session>" off the front of args.
func parseRef(args []string) (dashboard.SessionRef, []string, error) {
	if len(args) < 3 {
		return dashboard.SessionRef{}, nil, &dashboard.ValidationError{Field: "arguments", Reason: "expected <year> <round> <session>"}
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return dashboard.SessionRef{}, nil, &dashboard.ValidationError{Field: "year", Reason: fmt.Sprintf("%q is not a year", args[0])}
	}
	return dashboard.SessionRef{Year: year, Event: args[1], Session: args[2]}, args[3:], nil
}

// parsePace reads "average", "fastest" or a lap number; nothing means average.
func parsePace(args []string) (stats.PaceMode, int, error) {
	if len(args) == 0 {
		return stats.PaceAverage, 0, nil
	}
	if lap, err := strconv.Atoi(args[0]); err == nil {
		return stats.PaceSpecific, lap, nil
	}
	mode, err := stats.ParsePaceMode(args[0])
	return mode, 0, err
}

func (va *VisualsApp) chartRequest(ctx context.Context, args []string) (dashboard.ChartRequest, error) {
	if len(args) == 0 {
		return dashboard.ChartRequest{}, &dashboard.ValidationError{Field: "kind", Reason: "missing, see the Charts button"}
	}
	kind, err := charts.ParseKind(args[0])
	if err != nil {
		return dashboard.ChartRequest{}, err
	}
	ref, rest, err := parseRef(args[1:])
	if err != nil {
		return dashboard.ChartRequest{}, err
	}
	req := dashboard.ChartRequest{SessionRef: ref, Kind: kind}
	switch {
	case kind.IsTrackMap():
		if len(rest) < 2 {
			return req, &dashboard.ValidationError{Field: "driver", Reason: "track maps need a driver and a lap"}
		}
		req.Driver = strings.ToUpper(rest[0])
		if req.Lap, err = strconv.Atoi(rest[1]); err != nil {
			return req, &dashboard.ValidationError{Field: "lap", Reason: fmt.Sprintf("%q is not a lap number", rest[1])}
		}
	case kind == charts.TeamPace:
		if req.PaceMode, req.PaceLap, err = parsePace(rest); err != nil {
			return req, err
		}
	}
	va.applyPreferences(ctx, &req)
	return req, nil
}

func (va *VisualsApp) applyPreferences(ctx context.Context, req *dashboard.ChartRequest) {
	userID, ok := apps.UserID(ctx)
	if !ok || va.prefs == nil {
		return
	}
	p, err := va.prefs.Preferences(userID)
	if err != nil {
		va.logger.Warn("using default chart preferences", "user", userID, "error", err)
		return
	}
	req.RemoveOutliers = &p.RemoveOutliers
	req.ShowCompounds = p.ShowCompounds
	req.Scheme = p.Scheme
}

func (va *VisualsApp) sendChart(ctx context.Context, chatId int64, args []string) error {
	req, err := va.chartRequest(ctx, args)
	if err != nil {
		return apps.ReplyError(va.bot, chatId, err)
	}
	img, err := va.svc.Chart(ctx, req)
	if err != nil {
		return apps.ReplyError(va.bot, chatId, err)
	}
	photo := tgbotapi.NewPhoto(chatId, tgbotapi.FileBytes{Name: img.FileName, Bytes: img.PNG})
	photo.Caption = img.FileName
	_, err = va.bot.Send(photo)
	return err
}

func (va *VisualsApp) sendPace(ctx context.Context, chatId int64, args []string) error {
	ref, rest, err := parseRef(args)
	if err != nil {
		return apps.ReplyError(va.bot, chatId, err)
	}
	mode, lap, err := parsePace(rest)
	if err != nil {
		return apps.ReplyError(va.bot, chatId, err)
	}
	deltas, err := va.svc.Pace(ctx, ref, mode, lap)
	if err != nil {
		return apps.ReplyError(va.bot, chatId, err)
	}
	msg := tgbotapi.NewMessage(chatId, apps.Code(fmt.Sprintf("Team pace, lap: %s\n\n%s", mode.LapLabel(lap), PaceTable(deltas))))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err = va.bot.Send(msg)
	return err
}

// PaceTable renders pace deltas, fastest first.
func PaceTable(deltas []stats.PaceDelta) string {
	rows := make([][]string, 0, len(deltas))
	for _, d := range deltas {
		if !d.HasData {
			rows = append(rows, []string{d.Team, "No Data", "-"})
			continue
		}
		t, err := helper.FormatLapTime(d.Representative)
		if err != nil {
			t = "-"
		}
		rows = append(rows, []string{d.Team, t, helper.DeltaLabel(d.Delta)})
	}
	return helper.RenderTable([]string{"Team", "Lap", "Delta"}, rows)
}
