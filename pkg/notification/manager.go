// Package notification tells bot users that a driver roster was refreshed.
package notification

import (
	"context"
	"log/slog"
	"strconv"

	"formulastats/pkg/model"
	"formulastats/pkg/settings"

	"github.com/nikoksr/notify"
)

const subjectRosterRefreshed = "Driver roster updated:"

type Lister interface {
	ListUsersForRosterUpdates() ([]settings.TelegramUser, error)
}

type Manager struct {
	lister Lister
	bot    Sender
	logger *slog.Logger
}

func NewManager(bot Sender, lister Lister, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		bot:    bot,
		lister: lister,
		logger: logger,
	}
}

// Start delivers every event received on refreshed until ctx is done or
// the channel is closed.
func (m *Manager) Start(ctx context.Context, refreshed <-chan model.RosterRefreshed) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-refreshed:
			if !ok {
				return
			}
			m.handleNotification(ctx, ev)
		}
	}
}

func (m *Manager) handleNotification(ctx context.Context, ev model.RosterRefreshed) {
	recipients, err := m.lister.ListUsersForRosterUpdates()
	if err != nil {
		m.logger.Error("error listing users for roster updates", "error", err)
		return
	}
	m.logger.Info("sending roster notification", "category", ev.Category, "users", len(recipients))
	if err = m.sendNotification(ctx, recipients, ev); err != nil {
		m.logger.Error("error notifying users", "category", ev.Category, "error", err)
	}
}

func (m *Manager) sendNotification(ctx context.Context, users []settings.TelegramUser, ev model.RosterRefreshed) error {
	if len(users) == 0 {
		return nil
	}

	tg := NewTelegram(m.bot)
	for _, u := range users {
		chatID, err := strconv.ParseInt(u.ChatID, 0, 64)
		if err != nil {
			m.logger.Warn("skipping user with invalid chat id", "user", u.ID, "chat", u.ChatID)
			continue
		}
		tg.AddReceivers(chatID)
	}

	n := notify.NewWithServices(tg)
	return n.Send(ctx, subjectRosterRefreshed, ev.String())
}
