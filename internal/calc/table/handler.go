package table

import (
	"encoding/json"
	"net/http"

	"Ductcalc/internal/observability"
)

type Handler struct {
	Metrics *observability.Metrics
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Build(input)
	if err != nil {
		h.Metrics.ValidationFailures.WithLabelValues("table").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.Metrics.Calculations.WithLabelValues("table").Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
