package resources

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const DefaultDir = "./resources"

// Builder writes a resource to filePath.
type Builder func(ctx context.Context, filePath string) error

// PNG adapts a renderer returning encoded bytes to a Builder.
func PNG(render func(ctx context.Context) ([]byte, error)) Builder {
	return func(ctx context.Context, filePath string) error {
		data, err := render(ctx)
		if err != nil {
			return err
		}
		return os.WriteFile(filePath, data, 0o644)
	}
}

// Resource is a file built once and then served from disk. Resources built
// with different ids never collide, even with the same name.
type Resource struct {
	id   string
	name string
	dir  string
}

func (r Resource) prefix() string {
	if r.id == "" {
		return ""
	}
	return r.id + "_"
}

func (r Resource) IsZero() bool {
	return r.name == ""
}

func (r Resource) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Dir: %s", r.id, r.name, r.dir)
}

// Name is the file name without the id prefix.
func (r Resource) Name() string {
	return r.name
}

func (r Resource) FileName() string {
	return r.prefix() + r.name
}

func (r Resource) FilePath() string {
	return filepath.Join(r.dir, r.FileName())
}

func (r Resource) Read() ([]byte, error) {
	data, err := os.ReadFile(r.FilePath())
	return data, errors.Wrapf(err, "read resource %s", r.FileName())
}

// Manager owns one resource directory.
type Manager struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(dir string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create resources dir %s", dir)
	}
	return &Manager{dir: dir, logger: logger, locks: map[string]*sync.Mutex{}}, nil
}

func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) lock(path string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[path]
	if !ok {
		l = &sync.Mutex{}
		m.locks[path] = l
	}
	return l
}

// Build returns the resource, running builder first when its file does not
// exist yet. A failed build leaves nothing behind.
func (m *Manager) Build(ctx context.Context, id, name string, builder Builder) (Resource, error) {
	if name == "" {
		return Resource{}, errors.New("resource name cannot be empty")
	}
	r := Resource{id: id, name: name, dir: m.dir}
	filePath := r.FilePath()

	l := m.lock(filePath)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(filePath); err == nil {
		m.logger.Debug("resource already exists", "file", r.FileName())
		return r, nil
	} else if !os.IsNotExist(err) {
		return Resource{}, errors.Wrapf(err, "stat %s", filePath)
	}

	tmp := filePath + ".tmp"
	if err := builder(ctx, tmp); err != nil {
		_ = os.Remove(tmp)
		m.logger.Warn("error building resource", "file", r.FileName(), "error", err)
		return Resource{}, err
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return Resource{}, errors.Wrapf(err, "store resource %s", r.FileName())
	}
	m.logger.Info("resource created", "file", r.FileName())
	return r, nil
}

// Remove deletes a resource so the next Build recreates it.
func (m *Manager) Remove(id, name string) error {
	r := Resource{id: id, name: name, dir: m.dir}
	l := m.lock(r.FilePath())
	l.Lock()
	defer l.Unlock()
	if err := os.Remove(r.FilePath()); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", r.FileName())
	}
	return nil
}
