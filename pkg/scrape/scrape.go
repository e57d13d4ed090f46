// Package scrape fetches the driver lists from the wiki and keeps a dated
// copy of each on disk.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"formulastats/pkg/roster"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var DefaultURLs = map[roster.Category]string{
	roster.CategoryF1: "https://en.wikipedia.org/wiki/List_of_Formula_One_drivers",
	roster.CategoryF2: "https://en.wikipedia.org/wiki/List_of_FIA_Formula_2_Championship_drivers",
	roster.CategoryF3: "https://en.wikipedia.org/wiki/List_of_FIA_Formula_3_Championship_drivers",
}

// the first wikitable on each page is a legend
const driverTableIndex = 1

var ErrNoTable = errors.New("driver table not found")

type Fetcher interface {
	Fetch(ctx context.Context, category roster.Category) (roster.Roster, error)
}

type Scraper struct {
	client  *http.Client
	urls    map[roster.Category]string
	limiter *rate.Limiter
	logger  *slog.Logger
}

type Option func(*Scraper)

func WithClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

func WithURLs(urls map[roster.Category]string) Option {
	return func(s *Scraper) { s.urls = urls }
}

func WithLimiter(l *rate.Limiter) Option {
	return func(s *Scraper) { s.limiter = l }
}

func NewScraper(logger *slog.Logger, opts ...Option) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scraper{
		client:  http.DefaultClient,
		urls:    DefaultURLs,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scraper) Fetch(ctx context.Context, category roster.Category) (roster.Roster, error) {
	url, ok := s.urls[category]
	if !ok {
		return roster.Roster{}, errors.Errorf("no source for category %q", category)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return roster.Roster{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return roster.Roster{}, err
	}
	req.Header.Set("User-Agent", "formulastats/1.0")

	s.logger.Info("fetching driver list", "category", category, "url", url)
	response, err := s.client.Do(req)
	if err != nil {
		return roster.Roster{}, errors.Wrapf(err, "get %s", url)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return roster.Roster{}, fmt.Errorf("error getting driver list: %s (%s)", response.Status, url)
	}

	doc, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return roster.Roster{}, errors.Wrapf(err, "parse %s", url)
	}
	r, err := ParseTable(doc)
	if err != nil {
		return roster.Roster{}, errors.Wrapf(err, "%s", url)
	}
	r.Category = category
	return Clean(r), nil
}

// ParseTable reads the driver table: header cells of the first row, then
// every row that has data cells.
func ParseTable(doc *goquery.Document) (roster.Roster, error) {
	tables := doc.Find("table.wikitable")
	if tables.Length() <= driverTableIndex {
		return roster.Roster{}, ErrNoTable
	}
	table := tables.Eq(driverTableIndex)

	r := roster.Roster{Header: []string{}, Rows: [][]string{}}
	table.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		r.Header = append(r.Header, strings.TrimSpace(th.Text()))
	})
	table.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		r.Rows = append(r.Rows, row)
	})
	return r, nil
}
