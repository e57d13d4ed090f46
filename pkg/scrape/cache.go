package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"formulastats/pkg/model"
	"formulastats/pkg/roster"
	"formulastats/pkg/store"

	"github.com/pkg/errors"
)

const dateLayout = "02-01-2006"

// ErrNeedsRefresh means there is no roster file for today yet.
var ErrNeedsRefresh = errors.New("roster needs refresh")

type Publisher interface {
	Publish(topic string, data model.RosterRefreshed)
}

// Cache keeps one roster file per category, named after the day it was
// scraped. Files from other days are removed on refresh.
type Cache struct {
	dir       string
	fetcher   Fetcher
	publisher Publisher
	topic     string
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	locks map[roster.Category]*sync.Mutex
}

func NewCache(dir string, fetcher Fetcher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		dir:     dir,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		locks:   map[roster.Category]*sync.Mutex{},
	}
}

// PublishTo announces every successful scrape on topic.
func (c *Cache) PublishTo(p Publisher, topic string) {
	c.publisher = p
	c.topic = topic
}

func prefix(category roster.Category) string {
	return fmt.Sprintf("%s_drivers_wiki_", category)
}

func (c *Cache) FilePath(category roster.Category, day time.Time) string {
	return filepath.Join(c.dir, prefix(category)+day.Format(dateLayout)+".parquet")
}

func (c *Cache) lock(category roster.Category) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[category]
	if !ok {
		l = &sync.Mutex{}
		c.locks[category] = l
	}
	return l
}

// Load reads today's roster, or returns ErrNeedsRefresh when it is missing.
func (c *Cache) Load(category roster.Category) (roster.Roster, error) {
	path := c.FilePath(category, c.now())
	r, err := store.ReadRoster(path, category)
	if store.IsNotFound(err) {
		return roster.Roster{}, ErrNeedsRefresh
	}
	return r, err
}

// RemoveStale deletes the roster files of category not dated today.
func (c *Cache) RemoveStale(category roster.Category) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "list %s", c.dir)
	}
	today := filepath.Base(c.FilePath(category, c.now()))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix(category)) || !strings.HasSuffix(name, ".parquet") || name == today {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil {
			return errors.Wrapf(err, "remove %s", name)
		}
		c.logger.Info("removed outdated roster", "file", name)
	}
	return nil
}

// Refresh removes stale files and scrapes category unless today's file
// already exists.
func (c *Cache) Refresh(ctx context.Context, category roster.Category) (roster.Roster, error) {
	l := c.lock(category)
	l.Lock()
	defer l.Unlock()

	if err := c.RemoveStale(category); err != nil {
		return roster.Roster{}, err
	}
	if r, err := c.Load(category); !errors.Is(err, ErrNeedsRefresh) {
		if err == nil {
			c.logger.Info("roster cache is fresh", "category", category)
		}
		return r, err
	}

	r, err := c.fetcher.Fetch(ctx, category)
	if err != nil {
		return roster.Roster{}, err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return roster.Roster{}, errors.Wrapf(err, "create %s", c.dir)
	}
	now := c.now()
	path := c.FilePath(category, now)
	if err := store.WriteRoster(path, r); err != nil {
		return roster.Roster{}, err
	}
	c.logger.Info("roster file created", "category", category, "path", path, "drivers", r.Len())

	if c.publisher != nil {
		c.publisher.Publish(c.topic, model.RosterRefreshed{Category: string(category), Drivers: r.Len(), Path: path, At: now})
	}
	return r, nil
}

// Get returns today's roster, scraping it first when needed.
func (c *Cache) Get(ctx context.Context, category roster.Category) (roster.Roster, error) {
	r, err := c.Load(category)
	if errors.Is(err, ErrNeedsRefresh) {
		return c.Refresh(ctx, category)
	}
	return r, err
}
