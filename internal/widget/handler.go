package widget

import (
	"encoding/json"
	"net/http"

	"Ductcalc/internal/observability"
)

type Handler struct {
	Defaults Options
	Metrics  *observability.Metrics
}

// Get serves the initial widget state. Query parameters are the host's
// data attributes (?velocity=2000&show_table=false&id=hvac-calc-1).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	attrs := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			attrs[k] = v[0]
		}
	}
	id := attrs["id"]
	if id == "" {
		id = "ductcalc"
	}

	var state State
	New(id, ParseOptions(h.Defaults, attrs), Callbacks{
		OnChange: func(s State) { state = s },
		OnEvent: func(e Event) {
			h.Metrics.WidgetEvents.WithLabelValues(e.Name).Inc()
		},
	})

	w.Header().Set("Content-Type", "application/json")
	if len(state.Errors) > 0 {
		h.Metrics.ValidationFailures.WithLabelValues("widget").Inc()
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		h.Metrics.Calculations.WithLabelValues("widget").Inc()
	}
	json.NewEncoder(w).Encode(state)
}
