// Package settings keeps the per user chart preferences of the bot.
package settings

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"formulastats/pkg/palette"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	DefaultDbName = "./formulastats.db"

	Outliers  = "Outliers"
	Compounds = "Compounds"
	Scheme    = "Scheme"
	Roster    = "Roster"
)

var Settings = []string{Outliers, Compounds, Scheme, Roster}

var ErrUnknownSetting = errors.New("unknown setting")

type TelegramUser struct {
	ID     string
	Name   string
	ChatID string
}

type Preferences struct {
	RemoveOutliers bool
	ShowCompounds  bool
	Scheme         palette.Scheme
	RosterUpdates  bool
}

func Defaults() Preferences {
	return Preferences{
		RemoveOutliers: true,
		Scheme:         palette.SchemeOfficial,
	}
}

// Symbol is the status shown on the toggle button of setting.
func (p Preferences) Symbol(setting string) string {
	switch setting {
	case Outliers:
		return symbolStatus(p.RemoveOutliers)
	case Compounds:
		return symbolStatus(p.ShowCompounds)
	case Scheme:
		if p.Scheme == palette.SchemeOfficial {
			return "🎨"
		}
		return "🖌"
	case Roster:
		return bellStatus(p.RosterUpdates)
	}
	return ""
}

func (p Preferences) String() string {
	status := []string{
		fmt.Sprintf("%s Remove outlier laps", p.Symbol(Outliers)),
		fmt.Sprintf("%s Show tyre compounds", p.Symbol(Compounds)),
		fmt.Sprintf("%s Team colours: %s", p.Symbol(Scheme), p.Scheme),
		fmt.Sprintf("%s Driver roster updates", p.Symbol(Roster)),
	}
	return strings.Join(status, "\n")
}

func (p Preferences) toggle(setting string) (Preferences, error) {
	switch setting {
	case Outliers:
		p.RemoveOutliers = !p.RemoveOutliers
	case Compounds:
		p.ShowCompounds = !p.ShowCompounds
	case Scheme:
		if p.Scheme == palette.SchemeOfficial {
			p.Scheme = palette.SchemeFastf1
		} else {
			p.Scheme = palette.SchemeOfficial
		}
	case Roster:
		p.RosterUpdates = !p.RosterUpdates
	default:
		return p, errors.Wrapf(ErrUnknownSetting, "%q", setting)
	}
	return p, nil
}

func symbolStatus(enabled bool) string {
	if enabled {
		return "✅"
	}
	return "⬜"
}

func bellStatus(enabled bool) string {
	if enabled {
		return "🔔"
	}
	return "🔕"
}

type Manager struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

func NewManager(path string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = DefaultDbName
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if _, err = db.Exec(buildCreatePreferencesTable()); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "init %s", path)
	}
	logger.Debug("settings database ready", "path", path)

	return &Manager{
		db:     db,
		logger: logger,
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// Toggle flips setting for the user and returns the stored preferences.
func (m *Manager) Toggle(userID, name, chatID, setting string) (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.preferences(userID)
	if err != nil {
		return p, err
	}
	if p, err = p.toggle(setting); err != nil {
		return p, err
	}

	query, args := buildUpsertUserCommand(userID, name, chatID, p)
	if _, err = m.db.Exec(query, args...); err != nil {
		m.logger.Error("error updating preferences", "user", userID, "error", err)
		return p, errors.Wrap(err, "update preferences")
	}
	m.logger.Info("preference toggled", "user", userID, "setting", setting)
	return p, nil
}

// Preferences returns the stored preferences of a user, or the defaults
// when the user never changed one.
func (m *Manager) Preferences(userID string) (Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.preferences(userID)
}

func (m *Manager) ListUsersForRosterUpdates() ([]TelegramUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, read := buildSelectRosterSubscribersCommand()
	rows, err := m.db.Query(query)
	if err != nil {
		return []TelegramUser{}, errors.Wrap(err, "list roster subscribers")
	}
	return read(rows)
}

func (m *Manager) preferences(userID string) (Preferences, error) {
	query, read := buildSelectUserCommand()
	rows, err := m.db.Query(query, userID)
	if err != nil {
		return Defaults(), errors.Wrap(err, "read preferences")
	}
	return read(rows)
}
