package batch

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
	res, err := Calculate(input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.Metrics.Calculations.WithLabelValues("batch").Add(float64(res.Count - res.Invalid))
	if res.Invalid > 0 {
		h.Metrics.ValidationFailures.WithLabelValues("batch").Add(float64(res.Invalid))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
