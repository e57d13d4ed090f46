package scrape

import (
	"regexp"
	"strings"

	"formulastats/pkg/roster"
)

var (
	leadingDigits = regexp.MustCompile(`^\d+`)
	anyDigit      = regexp.MustCompile(`\d`)
	nameMarks     = regexp.MustCompile(`[~*^]`)
	footnotes     = regexp.MustCompile(`\[.*?\]`)
)

var f1Renames = map[string]string{"Points[a]": "Points"}

var f1Numeric = []string{"Race entries", "Race starts", "Pole positions", "Race wins", "Podiums", "Fastest laps", "Points"}

const f1Championships = "Drivers' Championships"

var f2Renames = map[string]string{"Championshiptitles": "Championship titles", "Fastestlaps[a]": "Fastest laps"}

var f2Numeric = []string{"Entries", "Starts", "Poles", "Sprint wins", "Feature Wins", "Total wins", "Podiums", "Fastest laps", "Points"}

// Clean applies the per-category fixes to a freshly scraped table: column
// renames, footnote and marker removal, counts reduced to their leading
// digits. F3 tables are kept as scraped.
func Clean(r roster.Roster) roster.Roster {
	switch r.Category {
	case roster.CategoryF1:
		r = rename(r, f1Renames)
		r = mapColumn(r, f1Championships, func(v string) string { return anyDigit.FindString(v) })
		for _, c := range f1Numeric {
			r = mapColumn(r, c, leadingDigits.FindString)
		}
		r = mapColumn(r, roster.ColumnDriverName, func(v string) string {
			v = nameMarks.ReplaceAllString(v, "")
			return strings.TrimSpace(footnotes.ReplaceAllString(v, ""))
		})
	case roster.CategoryF2:
		r = rename(r, f2Renames)
		for _, c := range f2Numeric {
			r = mapColumn(r, c, leadingDigits.FindString)
		}
	}
	return r
}

func rename(r roster.Roster, names map[string]string) roster.Roster {
	header := make([]string, len(r.Header))
	for i, h := range r.Header {
		if to, ok := names[h]; ok {
			h = to
		}
		header[i] = h
	}
	r.Header = header
	return r
}

func mapColumn(r roster.Roster, column string, f func(string) string) roster.Roster {
	c := r.Column(column)
	if c < 0 {
		return r
	}
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = append([]string(nil), row...)
		if c < len(rows[i]) {
			rows[i][c] = f(rows[i][c])
		}
	}
	r.Rows = rows
	return r
}
