package mainapp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"formulastats/pkg/apps"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/roster"
	"formulastats/pkg/settings"
	"formulastats/pkg/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) last(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	switch m := f.last(t).(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	}
	t.Fatalf("last sent is %T, not a text message", f.last(t))
	return ""
}

type fakeRosters struct{}

func (fakeRosters) Get(_ context.Context, category roster.Category) (roster.Roster, error) {
	return roster.Roster{
		Category: category,
		Header:   []string{"Driver name", "Race entries", "Race starts", "Pole positions", "Race wins"},
		Rows:     [][]string{{"Lewis Hamilton", "356", "356", "104", "105"}},
	}, nil
}

var (
	user = &tgbotapi.User{ID: 7, UserName: "ana"}
	chat = &tgbotapi.Chat{ID: 70}
)

func newBot(t *testing.T) (*apps.Bot, *fakeBot) {
	t.Helper()
	st := store.New(t.TempDir(), nil)
	require.NoError(t, store.Seed(st, 2024))
	opts := dashboard.DefaultOptions()
	opts.DPI = 50
	svc := dashboard.NewService(st, fakeRosters{}, opts, nil)

	sm, err := settings.NewManager(filepath.Join(t.TempDir(), "bot.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sm.Close() })

	fb := &fakeBot{}
	return apps.NewBot(fb, NewMainApp(fb, svc, sm, nil), nil), fb
}

func message(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{MessageID: 1, From: user, Chat: chat, Text: text}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])}}
	}
	return tgbotapi.Update{Message: msg}
}

func callback(data string, messageID int) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    user,
		Message: &tgbotapi.Message{MessageID: messageID, Chat: chat},
		Data:    data,
	}}
}

func TestStartShowsMenu(t *testing.T) {
	b, fb := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), message("/start")))
	msg, ok := fb.last(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(70), msg.ChatID)
	assert.Equal(t, menuKeyboard, msg.ReplyMarkup)
	assert.Contains(t, msg.Text, "/chart <kind>")
}

func TestUnknownInput(t *testing.T) {
	b, fb := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), message("hello")))
	assert.Contains(t, fb.lastText(t), "/menu")
}

func TestPaceCommand(t *testing.T) {
	b, fb := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), message("/pace 2024 1 race fastest")))
	text := fb.lastText(t)
	assert.Contains(t, text, "lap: Fastest")
	assert.Contains(t, text, "Red Bull Racing")
	assert.Contains(t, text, "+0.00%")

	require.NoError(t, b.HandleUpdate(context.Background(), message("/pace 2024")))
	assert.Contains(t, fb.lastText(t), "Invalid request")
}

func TestChartCommand(t *testing.T) {
	b, fb := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), message("/chart team_pace_comparison 2024 1 q")))
	photo, ok := fb.last(t).(tgbotapi.PhotoConfig)
	require.True(t, ok, "%T", fb.last(t))
	assert.Equal(t, "team_pace_comparison_2024_bahrain_grand_prix_qualifying.png", photo.Caption)

	require.NoError(t, b.HandleUpdate(context.Background(), message("/chart gear_shifts_per_lap 2024 1 race")))
	assert.Contains(t, fb.lastText(t), "track maps need a driver and a lap")

	require.NoError(t, b.HandleUpdate(context.Background(), message("/chart pie 2024 1 race")))
	assert.Contains(t, fb.lastText(t), "unknown chart kind")

	require.NoError(t, b.HandleUpdate(context.Background(), message("/chart team_lap_time_dist 2024 3 race")))
	assert.Contains(t, fb.lastText(t), "Nothing found")
}

func TestScheduleAndRecords(t *testing.T) {
	b, fb := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), message("/schedule")))
	text := fb.lastText(t)
	assert.Contains(t, text, "2024 schedule (1/1)")
	assert.Contains(t, text, "Chinese Grand Prix")

	require.NoError(t, b.HandleUpdate(context.Background(), message(buttonRecords)))
	assert.Contains(t, fb.lastText(t), "Most Wins: Lewis Hamilton - 105 wins")
}

func TestSettingsToggle(t *testing.T) {
	b, fb := newBot(t)
	require.NoError(t, b.HandleUpdate(context.Background(), message(buttonSettings)))
	msg, ok := fb.last(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "✅ Remove outlier laps")
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	data := *keyboard.InlineKeyboard[0][0].CallbackData
	assert.Equal(t, "prefs:7:Outliers", data)

	require.NoError(t, b.HandleUpdate(context.Background(), callback(data, 5)))
	edit, ok := fb.last(t).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 5, edit.MessageID)
	assert.Contains(t, edit.Text, "⬜ Remove outlier laps")
	require.Len(t, fb.requests, 1)
	_, ok = fb.requests[0].(tgbotapi.CallbackConfig)
	assert.True(t, ok)
}
