package store

import (
	"formulastats/pkg/roster"
)

// WriteRoster stores a scraped table one cell per row, since wiki tables
// have no fixed columns.
func WriteRoster(path string, r roster.Roster) error {
	cells := make([]rosterCell, 0, len(r.Header)*(len(r.Rows)+1))
	for c, h := range r.Header {
		cells = append(cells, rosterCell{Row: -1, Column: int32(c), Value: h})
	}
	for i, row := range r.Rows {
		for c, v := range row {
			cells = append(cells, rosterCell{Row: int32(i), Column: int32(c), Value: v})
		}
	}
	return writeFile(path, cells)
}

func ReadRoster(path string, category roster.Category) (roster.Roster, error) {
	cells, err := readFile[rosterCell](path)
	if err != nil {
		return roster.Roster{}, err
	}
	width, height := 0, 0
	for _, c := range cells {
		width = max(width, int(c.Column)+1)
		height = max(height, int(c.Row)+1)
	}
	r := roster.Roster{Category: category, Header: make([]string, width), Rows: make([][]string, height)}
	for i := range r.Rows {
		r.Rows[i] = make([]string, width)
	}
	for _, c := range cells {
		if c.Row < 0 {
			r.Header[c.Column] = c.Value
			continue
		}
		r.Rows[c.Row][c.Column] = c.Value
	}
	return r, nil
}
