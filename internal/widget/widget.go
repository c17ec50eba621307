// Package widget models the embeddable calculator: a host page supplies
// options and callbacks, and the widget recomputes the diameter table each
// time an input changes.
package widget

import (
	"strconv"
	"strings"

	duct "Ductcalc/internal/calc/duct"
	table "Ductcalc/internal/calc/table"
)

const (
	DefaultVelocity  = 2500.0
	DefaultFriction  = 0.15
	DefaultTableRows = 15
)

const (
	EventLoaded      = "widget_loaded"
	EventCalculated  = "calculation_performed"
	EventVelocitySet = "velocity_changed"
	EventFrictionSet = "friction_changed"

	// Export runs server-side; report.Handler records these.
	EventPDFStarted   = "pdf_export_started"
	EventPDFCompleted = "pdf_export_completed"
	EventPDFFailed    = "pdf_export_failed"
)

type Options struct {
	InitialVelocity float64 `json:"initial_velocity"`
	InitialFriction float64 `json:"initial_friction"`
	ShowTable       bool    `json:"show_table"`
	ShowBranding    bool    `json:"show_branding"`
	ShowLeadCapture bool    `json:"show_lead_capture"`
	TrackAnalytics  bool    `json:"track_analytics"`
	TableRows       int     `json:"table_rows"`
}

func DefaultOptions() Options {
	return Options{
		InitialVelocity: DefaultVelocity,
		InitialFriction: DefaultFriction,
		ShowTable:       true,
		ShowBranding:    true,
		ShowLeadCapture: true,
		TrackAnalytics:  true,
		TableRows:       DefaultTableRows,
	}
}

// ParseOptions reads host data attributes over base. Keys may use
// dashes or underscores and an optional "calc" prefix:
// "calc-velocity", "show_table", "initial-friction". Values that do not
// parse are ignored.
func ParseOptions(base Options, attrs map[string]string) Options {
	opts := base
	for k, v := range attrs {
		key := strings.ToLower(strings.ReplaceAll(k, "-", "_"))
		key = strings.TrimPrefix(key, "data_")
		key = strings.TrimPrefix(key, "calc_")
		v = strings.TrimSpace(v)
		switch key {
		case "velocity", "initial_velocity":
			setFloat(&opts.InitialVelocity, v)
		case "friction", "initial_friction":
			setFloat(&opts.InitialFriction, v)
		case "show_table":
			setBool(&opts.ShowTable, v)
		case "show_branding", "show_header":
			setBool(&opts.ShowBranding, v)
		case "show_lead_capture":
			setBool(&opts.ShowLeadCapture, v)
		case "track_analytics":
			setBool(&opts.TrackAnalytics, v)
		case "table_rows":
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				opts.TableRows = n
			}
		}
	}
	return opts
}

func setFloat(dst *float64, v string) {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}

func setBool(dst *bool, v string) {
	switch v {
	case "true":
		*dst = true
	case "false":
		*dst = false
	}
}

type Event struct {
	Name     string             `json:"name"`
	WidgetID string             `json:"widget_id"`
	Data     map[string]float64 `json:"data,omitempty"`
}

type State struct {
	WidgetID     string      `json:"widget_id"`
	Velocity     float64     `json:"velocity"`
	Friction     float64     `json:"friction"`
	Table        table.Table `json:"table"`
	DisplayRows  []table.Row `json:"display_rows,omitempty"`
	Errors       []string    `json:"errors,omitempty"`
	Calculations int         `json:"calculations"`
	Options      Options     `json:"options"`
}

// Callbacks replace the page-global instance lookup: the host hands the
// widget what to call instead of the widget registering itself.
type Callbacks struct {
	OnChange func(State)
	OnEvent  func(Event)
}

type Widget struct {
	id           string
	opts         Options
	cb           Callbacks
	velocity     float64
	friction     float64
	calculations int
	state        State
}

// New builds the widget and runs the first calculation.
func New(id string, opts Options, cb Callbacks) *Widget {
	w := &Widget{
		id:       id,
		opts:     opts,
		cb:       cb,
		velocity: opts.InitialVelocity,
		friction: opts.InitialFriction,
	}
	w.recalculate()
	w.emit(EventLoaded, nil)
	return w
}

func (w *Widget) ID() string { return w.id }

func (w *Widget) State() State { return w.state }

func (w *Widget) SetVelocity(v float64) {
	w.velocity = v
	w.recalculate()
	w.emit(EventVelocitySet, map[string]float64{"value": v})
}

func (w *Widget) SetFriction(f float64) {
	w.friction = f
	w.recalculate()
	w.emit(EventFrictionSet, map[string]float64{"value": f})
}

// Invalid limits clear the table instead of keeping stale rows.
func (w *Widget) recalculate() {
	st := State{
		WidgetID: w.id,
		Velocity: w.velocity,
		Friction: w.friction,
		Options:  w.opts,
	}
	if errs := duct.Validate(duct.Input{Velocity: &w.velocity, Friction: &w.friction}); len(errs) > 0 {
		st.Errors = errs
	} else if tbl, err := table.Build(table.Input{Velocity: w.velocity, Friction: w.friction}); err != nil {
		st.Errors = []string{err.Error()}
	} else {
		w.calculations++
		st.Table = tbl
		if w.opts.ShowTable {
			st.DisplayRows = tbl.Limit(w.opts.TableRows)
		}
	}
	st.Calculations = w.calculations
	w.state = st
	w.notify()

	if len(st.Errors) == 0 {
		w.emit(EventCalculated, map[string]float64{
			"velocity":           w.velocity,
			"friction":           w.friction,
			"calculation_number": float64(w.calculations),
		})
	}
}

func (w *Widget) notify() {
	if w.cb.OnChange != nil {
		w.cb.OnChange(w.state)
	}
}

func (w *Widget) emit(name string, data map[string]float64) {
	if !w.opts.TrackAnalytics || w.cb.OnEvent == nil {
		return
	}
	w.cb.OnEvent(Event{Name: name, WidgetID: w.id, Data: data})
}
