package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"formulastats/pkg/charts"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/helper"
	"formulastats/pkg/palette"
	"formulastats/pkg/resources"
	"formulastats/pkg/roster"
	"formulastats/pkg/stats"
	"formulastats/pkg/store"

	"github.com/gorilla/mux"
)

type apiError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch dashboard.Classify(err) {
	case dashboard.ErrorNotFound, dashboard.ErrorNoData:
		return http.StatusNotFound
	case dashboard.ErrorInvalid:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (m *Manager) apiFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	m.logFailure(r, status, err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, apiError{Code: status, Message: msg, RequestID: RequestID(r.Context())})
}

func (m *Manager) logFailure(r *http.Request, status int, err error) {
	if status == http.StatusInternalServerError {
		m.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
		return
	}
	m.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
}

func intParam(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &dashboard.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a number", v)}
	}
	return n, nil
}

func boolParam(r *http.Request, name string) (*bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &dashboard.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a boolean", v)}
	}
	return &b, nil
}

// year reads the year parameter, defaulting to the newest season on disk.
func (m *Manager) year(r *http.Request) (int, error) {
	year, err := intParam(r, "year")
	if err != nil || year != 0 {
		return year, err
	}
	years, err := m.svc.Years()
	if err != nil {
		return 0, err
	}
	if len(years) == 0 {
		return 0, &store.NotFoundError{What: "any season"}
	}
	return years[0], nil
}

func (m *Manager) sessionRef(r *http.Request) (dashboard.SessionRef, error) {
	year, err := m.year(r)
	if err != nil {
		return dashboard.SessionRef{}, err
	}
	q := r.URL.Query()
	return dashboard.SessionRef{Year: year, Event: q.Get("event"), Session: q.Get("session")}, nil
}

func (m *Manager) chartRequest(r *http.Request) (dashboard.ChartRequest, error) {
	kind, err := charts.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		return dashboard.ChartRequest{}, err
	}
	ref, err := m.sessionRef(r)
	if err != nil {
		return dashboard.ChartRequest{}, err
	}
	q := r.URL.Query()
	req := dashboard.ChartRequest{SessionRef: ref, Kind: kind, Driver: strings.ToUpper(q.Get("driver"))}
	if req.Lap, err = intParam(r, "lap"); err != nil {
		return req, err
	}
	if req.PaceMode, req.PaceLap, err = paceParams(r); err != nil {
		return req, err
	}
	compounds, err := boolParam(r, "compounds")
	if err != nil {
		return req, err
	}
	req.ShowCompounds = compounds != nil && *compounds
	if req.RemoveOutliers, err = boolParam(r, "outliers"); err != nil {
		return req, err
	}
	if s := q.Get("scheme"); s != "" {
		req.Scheme = palette.ParseScheme(s)
	}
	if c := q.Get("channels"); c != "" {
		req.Channels = strings.Split(c, ",")
	}
	return req, nil
}

// paceParams reads mode=average|fastest or a lap number.
func paceParams(r *http.Request) (stats.PaceMode, int, error) {
	mode := r.URL.Query().Get("mode")
	if lap, err := strconv.Atoi(mode); err == nil {
		return stats.PaceSpecific, lap, nil
	}
	pm, err := stats.ParsePaceMode(mode)
	if err != nil {
		return 0, 0, err
	}
	lap, err := intParam(r, "pace_lap")
	return pm, lap, err
}

func (m *Manager) handleChart(w http.ResponseWriter, r *http.Request) {
	req, err := m.chartRequest(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	if m.charts != nil {
		m.cachedChart(w, r, req)
		return
	}
	img, err := m.svc.Chart(r.Context(), req)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writePNG(w, img.FileName, img.PNG)
}

// cachedChart renders each distinct request once. The cache key covers the
// query and the service options, both of which change the picture.
func (m *Manager) cachedChart(w http.ResponseWriter, r *http.Request, req dashboard.ChartRequest) {
	name, err := m.svc.ChartFileName(req)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	key := helper.ToID(fmt.Sprintf("%s?%s|%+v", req.Kind, r.URL.Query().Encode(), m.svc.Options()))
	res, err := m.charts.Build(r.Context(), key, name, resources.PNG(func(ctx context.Context) ([]byte, error) {
		img, err := m.svc.Chart(ctx, req)
		return img.PNG, err
	}))
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	data, err := res.Read()
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writePNG(w, res.Name(), data)
}

func writePNG(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (m *Manager) handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := m.svc.Years()
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}

func (m *Manager) handleEvents(w http.ResponseWriter, r *http.Request) {
	year, err := m.year(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	events, err := m.svc.Events(year)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (m *Manager) handleSessions(w http.ResponseWriter, r *http.Request) {
	year, err := m.year(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	sessions, err := m.svc.Sessions(year, r.URL.Query().Get("event"))
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (m *Manager) handlePace(w http.ResponseWriter, r *http.Request) {
	ref, err := m.sessionRef(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	mode, lap, err := paceParams(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	deltas, err := m.svc.Pace(r.Context(), ref, mode, lap)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deltas)
}

func (m *Manager) handleOrder(w http.ResponseWriter, r *http.Request) {
	ref, err := m.sessionRef(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	stat := stats.StatMedian
	if s := r.URL.Query().Get("stat"); s != "" {
		if stat, err = stats.ParseStatistic(s); err != nil {
			m.apiFailure(w, r, err)
			return
		}
	}
	order, err := m.svc.Order(r.Context(), ref, r.URL.Query().Get("by"), stat)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (m *Manager) handleSpeeds(w http.ResponseWriter, r *http.Request) {
	ref, err := m.sessionRef(r)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	speeds, err := m.svc.Speeds(r.Context(), ref)
	if err != nil {
		m.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, speeds)
}

func (m *Manager) handleVisuals(w http.ResponseWriter, r *http.Request) {
	year, err := m.year(r)
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	years, err := m.svc.Years()
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	events, err := m.svc.Events(year)
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	v := visuals{Years: years, Year: year, Events: events, Query: r.URL.Query()}
	v.Event = r.URL.Query().Get("event")
	if v.Event == "" && len(events) > 0 {
		v.Event = events[len(events)-1].EventName
	}
	if v.Event != "" {
		if v.Sessions, err = m.svc.Sessions(year, v.Event); err != nil {
			m.pageFailure(w, r, err)
			return
		}
	}
	v.Session = r.URL.Query().Get("session")
	if v.Session == "" && len(v.Sessions) > 0 {
		v.Session = v.Sessions[0]
	}
	if driver := strings.ToUpper(v.Query.Get("driver")); driver != "" && v.Session != "" {
		ref := dashboard.SessionRef{Year: year, Event: v.Event, Session: v.Session}
		if v.Laps, err = m.svc.TimedLaps(ref, driver); err != nil {
			m.logger.Warn("no lap list for the track maps", "driver", driver, "error", err)
		}
	}
	renderHTML(w, http.StatusOK, visualsPage(v))
}

func (m *Manager) handleSchedule(w http.ResponseWriter, r *http.Request) {
	year, err := m.year(r)
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	rows, err := m.svc.Schedule(year)
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = row.Cells()
	}
	renderHTML(w, http.StatusOK, tablePage(fmt.Sprintf("%d Schedule", year), "schedule", store.ScheduleHeader, cells))
}

func (m *Manager) handleDrivers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := roster.CategoryF1
	if c := q.Get("category"); c != "" {
		var ok bool
		if category, ok = roster.ParseCategory(c); !ok {
			m.pageFailure(w, r, &dashboard.ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of f1, f2, f3", c)})
			return
		}
	}
	current, err := boolParam(r, "current")
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	year := 0
	if current != nil && *current {
		if year, err = m.year(r); err != nil {
			m.pageFailure(w, r, err)
			return
		}
	}
	drivers, err := m.svc.Drivers(r.Context(), category, current != nil && *current, year)
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	title := strings.ToUpper(string(category)) + " Drivers"
	renderHTML(w, http.StatusOK, tablePage(title, "drivers", drivers.Header, drivers.Rows))
}

func (m *Manager) handleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := m.svc.Records(r.Context())
	if err != nil {
		m.pageFailure(w, r, err)
		return
	}
	renderHTML(w, http.StatusOK, recordsPage(records))
}

func (m *Manager) pageFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	m.logFailure(r, status, err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Something went wrong. Request " + RequestID(r.Context())
	}
	renderHTML(w, status, errorPage(status, msg))
}
