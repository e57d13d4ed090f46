package model

import (
	"fmt"
	"regexp"
	"strings"
)

type SessionKind int

const (
	SessionUnknown SessionKind = iota
	SessionRace
	SessionQualifying
	SessionSprint
	SessionSprintQualifying
	SessionPractice1
	SessionPractice2
	SessionPractice3
)

var sessionAliases = map[string]SessionKind{
	"race":              SessionRace,
	"r":                 SessionRace,
	"qualifying":        SessionQualifying,
	"q":                 SessionQualifying,
	"quali":             SessionQualifying,
	"sprint":            SessionSprint,
	"s":                 SessionSprint,
	"sprint_qualifying": SessionSprintQualifying,
	"practice_1":        SessionPractice1,
	"fp1":               SessionPractice1,
	"p1":                SessionPractice1,
	"practice_2":        SessionPractice2,
	"fp2":               SessionPractice2,
	"p2":                SessionPractice2,
	"practice_3":        SessionPractice3,
	"fp3":               SessionPractice3,
	"p3":                SessionPractice3,
}

var sessionNames = map[SessionKind]string{
	SessionRace:             "Race",
	SessionQualifying:       "Qualifying",
	SessionSprint:           "Sprint",
	SessionSprintQualifying: "Sprint Qualifying",
	SessionPractice1:        "Practice 1",
	SessionPractice2:        "Practice 2",
	SessionPractice3:        "Practice 3",
}

type UnknownSessionError struct {
	Input string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown session %q", e.Input)
}

// ParseSession maps any accepted spelling of a session to its kind.
func ParseSession(s string) (SessionKind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if kind, ok := sessionAliases[key]; ok {
		return kind, nil
	}
	return SessionUnknown, &UnknownSessionError{Input: s}
}

func (k SessionKind) String() string {
	if name, ok := sessionNames[k]; ok {
		return name
	}
	return "Unknown"
}

// DirName is the directory holding the session tables, e.g. "practice_1".
func (k SessionKind) DirName() string {
	return SessionDirName(k.String())
}

var whitespace = regexp.MustCompile(`\s+`)

// SessionDirName converts a schedule session name ("Sprint Shootout") into the
// directory name used on disk ("sprint_shootout").
func SessionDirName(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(name), "_"))
}

// SessionTitle turns a session directory name back into a display title,
// e.g. "practice_1" becomes "Practice 1".
func SessionTitle(dir string) string {
	words := strings.Fields(strings.ReplaceAll(dir, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
