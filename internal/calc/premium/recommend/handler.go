package recommend

import (
	"encoding/json"
	"net/http"

	"Ductcalc/internal/observability"
)

type Handler struct {
	Metrics *observability.Metrics
}

func (h *Handler) Diameter(w http.ResponseWriter, r *http.Request) {
	var input DiameterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Diameter(input)
	if err != nil {
		h.Metrics.ValidationFailures.WithLabelValues("recommend").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.Metrics.Calculations.WithLabelValues("recommend").Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
