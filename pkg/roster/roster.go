// Package roster holds the driver tables scraped from the wiki and the
// lookups the dashboard runs over them.
package roster

import (
	"strconv"
	"strings"
)

const ColumnDriverName = "Driver name"

type Category string

const (
	CategoryF1 Category = "f1"
	CategoryF2 Category = "f2"
	CategoryF3 Category = "f3"
)

var Categories = []Category{CategoryF1, CategoryF2, CategoryF3}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Roster is a scraped table: a header and rows of cell text. Rows shorter
// than the header read as empty cells.
type Roster struct {
	Category Category   `json:"category"`
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
}

func (r Roster) Len() int {
	return len(r.Rows)
}

// Column returns the index of name in the header, -1 when absent.
func (r Roster) Column(name string) int {
	for i, h := range r.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func (r Roster) Value(row int, column string) string {
	c := r.Column(column)
	if c < 0 || row < 0 || row >= len(r.Rows) || c >= len(r.Rows[row]) {
		return ""
	}
	return r.Rows[row][c]
}

func (r Roster) Int(row int, column string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(r.Value(row, column)))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Names lists the "Driver name" column.
func (r Roster) Names() []string {
	out := make([]string, 0, len(r.Rows))
	for i := range r.Rows {
		out = append(out, r.Value(i, ColumnDriverName))
	}
	return out
}

// Where keeps the rows for which keep returns true.
func (r Roster) Where(keep func(row int) bool) Roster {
	out := Roster{Category: r.Category, Header: r.Header, Rows: [][]string{}}
	for i, row := range r.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

type Record struct {
	Title  string `json:"title"`
	Driver string `json:"driver"`
	Value  int    `json:"value"`
	Unit   string `json:"unit"`
}

func (r Record) String() string {
	return r.Title + ": " + r.Driver + " - " + strconv.Itoa(r.Value) + " " + r.Unit
}

var recordColumns = []struct {
	column, title, unit string
}{
	{"Race wins", "Most Wins", "wins"},
	{"Race starts", "Most Race Starts", "race starts"},
	{"Pole positions", "Most Pole Positions", "pole positions"},
	{"Race entries", "Most Race Entries", "race entries"},
}

// Records returns the all-time leaders of an F1 roster. The first row wins
// ties; columns missing from the roster are skipped.
func Records(r Roster) []Record {
	out := []Record{}
	for _, rc := range recordColumns {
		if r.Column(rc.column) < 0 {
			continue
		}
		best, bestRow := 0, -1
		for i := range r.Rows {
			v, ok := r.Int(i, rc.column)
			if ok && (bestRow < 0 || v > best) {
				best, bestRow = v, i
			}
		}
		if bestRow < 0 {
			continue
		}
		out = append(out, Record{Title: rc.title, Driver: r.Value(bestRow, ColumnDriverName), Value: best, Unit: rc.unit})
	}
	return out
}
