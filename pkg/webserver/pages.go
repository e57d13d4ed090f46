package webserver

import (
	"net/http"
	"net/url"
	"strconv"

	"formulastats/pkg/charts"
	"formulastats/pkg/model"
	"formulastats/pkg/roster"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type navItem struct {
	Label string
	Href  string
	Key   string
}

var navItems = []navItem{
	{Label: "Visuals", Href: "/", Key: "visuals"},
	{Label: "Schedule", Href: "/schedule", Key: "schedule"},
	{Label: "Drivers", Href: "/drivers", Key: "drivers"},
	{Label: "Current Drivers", Href: "/drivers?current=true", Key: "current"},
	{Label: "Records", Href: "/records", Key: "records"},
}

func renderHTML(w http.ResponseWriter, status int, node Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func page(title, active string, body ...Node) Node {
	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Formula Stats")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/resources/app.css")),
		),
		Body(
			Nav(Class("app-nav"),
				Strong(Text("Formula Stats")),
				Map(navItems, func(item navItem) Node {
					className := "app-nav-link"
					if item.Key == active {
						className += " active"
					}
					return A(Href(item.Href), Class(className), Text(item.Label))
				}),
			),
			Main(Class("app-main"),
				H1(Text(title)),
				Group(body),
			),
		),
	))
}

type visuals struct {
	Years    []int
	Year     int
	Events   model.Schedule
	Event    string
	Sessions []string
	Session  string
	Laps     []int // timed laps of the selected driver
	Query    url.Values
}

func (v visuals) chartURL(kind charts.Kind) string {
	q := url.Values{}
	for _, k := range []string{"compounds", "mode", "pace_lap", "channels", "outliers", "scheme", "driver", "lap"} {
		if val := v.Query.Get(k); val != "" {
			q.Set(k, val)
		}
	}
	q.Set("year", strconv.Itoa(v.Year))
	q.Set("event", v.Event)
	q.Set("session", v.Session)
	if kind.IsTrackMap() && q.Get("lap") == "" {
		lap := 1
		if len(v.Laps) > 0 {
			lap = v.Laps[0]
		}
		q.Set("lap", strconv.Itoa(lap))
	}
	return "/charts/" + string(kind) + ".png?" + q.Encode()
}

func selector(name, label string, options []string, selected string) Node {
	return Label(Text(label+" "),
		Select(Name(name), Attr("onchange", "this.form.submit()"),
			Map(options, func(o string) Node {
				return Option(Value(o), Text(o), If(o == selected, Selected()))
			}),
		),
	)
}

func lapOptions(laps []int) []string {
	out := make([]string, len(laps))
	for i, l := range laps {
		out[i] = strconv.Itoa(l)
	}
	return out
}

func visualsPage(v visuals) Node {
	years := make([]string, len(v.Years))
	for i, y := range v.Years {
		years[i] = strconv.Itoa(y)
	}
	events := make([]string, len(v.Events))
	for i, e := range v.Events {
		events[i] = e.EventName
	}

	body := []Node{
		Form(Method("get"), Action("/"), Class("selectors"),
			selector("year", "Year", years, strconv.Itoa(v.Year)),
			selector("event", "Event", events, v.Event),
			selector("session", "Session", v.Sessions, v.Session),
			Label(Text("Driver "), Input(Type("text"), Name("driver"), Value(v.Query.Get("driver")), Placeholder("VER"))),
			If(len(v.Laps) > 0, selector("lap", "Lap", lapOptions(v.Laps), v.Query.Get("lap"))),
			Button(Type("submit"), Text("Show")),
		),
	}
	if v.Event == "" || v.Session == "" {
		body = append(body, P(Text("No sessions available yet.")))
		return page("Visuals", "visuals", body...)
	}
	for _, kind := range charts.Kinds {
		if kind.IsTrackMap() && v.Query.Get("driver") == "" {
			continue
		}
		src := v.chartURL(kind)
		body = append(body, Figure(Class("chart"),
			A(Href(src), Img(Src(src), Alt(string(kind)), Loading("lazy"))),
		))
	}
	return page("Visuals", "visuals", body...)
}

func tablePage(title, active string, header []string, rows [][]string) Node {
	return page(title, active,
		Table(Class("data"),
			THead(Tr(Map(header, func(h string) Node { return Th(Text(h)) }))),
			TBody(Map(rows, func(row []string) Node {
				return Tr(Map(row, func(c string) Node { return Td(Text(c)) }))
			})),
		),
	)
}

func recordsPage(records []roster.Record) Node {
	if len(records) == 0 {
		return page("Records", "records", P(Text("No records available.")))
	}
	return page("Records", "records",
		Ul(Class("records"), Map(records, func(r roster.Record) Node {
			return Li(Text(r.String()))
		})),
	)
}

func errorPage(status int, msg string) Node {
	return page(http.StatusText(status), "", P(Class("error"), Text(msg)))
}
