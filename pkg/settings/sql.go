package settings

import (
	"database/sql"

	"formulastats/pkg/palette"
)

func buildCreatePreferencesTable() string {
	return `CREATE TABLE IF NOT EXISTS preferences (
		userid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chatid TEXT NOT NULL,
		outliers INTEGER,
		compounds INTEGER,
		scheme TEXT,
		roster INTEGER);`
}

func buildSelectUserCommand() (string, func(*sql.Rows) (Preferences, error)) {
	fields := "outliers, compounds, scheme, roster"
	return `SELECT ` + fields + ` FROM preferences WHERE userid = ?`, processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) (Preferences, error) {
	defer rows.Close()

	p := Defaults()
	// only can be one row
	if rows.Next() {
		var outliers, compounds, roster int
		var scheme string
		if err := rows.Scan(&outliers, &compounds, &scheme, &roster); err != nil {
			return p, err
		}
		p.RemoveOutliers = outliers == 1
		p.ShowCompounds = compounds == 1
		p.Scheme = palette.ParseScheme(scheme)
		p.RosterUpdates = roster == 1
	}
	return p, rows.Err()
}

func buildSelectRosterSubscribersCommand() (string, func(rows *sql.Rows) ([]TelegramUser, error)) {
	return `SELECT userid, name, chatid FROM preferences WHERE roster = 1 ORDER BY userid`, processSelectUsersRows
}

func processSelectUsersRows(rows *sql.Rows) ([]TelegramUser, error) {
	defer rows.Close()

	users := make([]TelegramUser, 0)
	for rows.Next() {
		var u TelegramUser
		if err := rows.Scan(&u.ID, &u.Name, &u.ChatID); err != nil {
			return users, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func buildUpsertUserCommand(userID, name, chatID string, p Preferences) (string, []any) {
	if name == "" {
		name = userID
	}
	return `INSERT OR REPLACE INTO preferences (userid, name, chatid, outliers, compounds, scheme, roster)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		[]any{userID, name, chatID, boolToInt(p.RemoveOutliers), boolToInt(p.ShowCompounds), string(p.Scheme), boolToInt(p.RosterUpdates)}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
