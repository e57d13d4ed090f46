package webserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"formulastats/pkg/dashboard"
	"formulastats/pkg/resources"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type Config struct {
	Address       string
	ResourcesDir  string
	ChartCacheDir string // rendered charts are kept here when set
	RateLimit     RateLimitConfig
}

type Manager struct {
	r      *mux.Router
	svc    *dashboard.Service
	charts *resources.Manager
	cfg    Config
	logger *slog.Logger
}

func NewManager(svc *dashboard.Service, cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	m := &Manager{
		r:      mux.NewRouter(),
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}

	if cfg.ChartCacheDir != "" {
		res, err := resources.NewManager(cfg.ChartCacheDir, logger)
		if err != nil {
			logger.Warn("chart cache disabled", "dir", cfg.ChartCacheDir, "error", err)
		} else {
			m.charts = res
		}
	}

	m.r.Use(requestID, accessLog(logger), rateLimiter(cfg.RateLimit))
	m.rootHandlers()
	m.pageHandlers()
	m.apiHandlers()
	return m
}

func (m *Manager) Handler() http.Handler {
	return m.r
}

func (m *Manager) rootHandlers() {
	if m.cfg.ResourcesDir == "" {
		return
	}
	fs := http.FileServer(http.Dir(m.cfg.ResourcesDir))
	resStr := "/resources/"

	m.r.PathPrefix(resStr).Handler(http.StripPrefix(resStr, fs))
}

func (m *Manager) pageHandlers() {
	m.r.HandleFunc("/", m.handleVisuals).Methods(http.MethodGet)
	m.r.HandleFunc("/schedule", m.handleSchedule).Methods(http.MethodGet)
	m.r.HandleFunc("/drivers", m.handleDrivers).Methods(http.MethodGet)
	m.r.HandleFunc("/records", m.handleRecords).Methods(http.MethodGet)
	m.r.HandleFunc("/charts/{kind:[a-z_]+}.png", m.handleChart).Methods(http.MethodGet)
}

func (m *Manager) apiHandlers() {
	api := m.r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/years", m.handleYears).Methods(http.MethodGet)
	api.HandleFunc("/events", m.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/sessions", m.handleSessions).Methods(http.MethodGet)
	api.HandleFunc("/pace", m.handlePace).Methods(http.MethodGet)
	api.HandleFunc("/order", m.handleOrder).Methods(http.MethodGet)
	api.HandleFunc("/speeds", m.handleSpeeds).Methods(http.MethodGet)
}

// Debug logs every registered route.
func (m *Manager) Debug() {
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		m.logger.Debug("route", "path", pathTemplate, "methods", strings.Join(methods, ","))
		return nil
	})
}

// Serve listens until ctx is cancelled, then shuts the server down,
// waiting up to ten seconds for open requests.
func (m *Manager) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         m.cfg.Address,
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}

	errc := make(chan error, 1)
	go func() {
		m.logger.Info("webserver listening", "address", m.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "webserver")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m.logger.Info("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}
