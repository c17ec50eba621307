package duct

import (
	"encoding/json"
	"net/http"

	"Ductcalc/internal/observability"

	"github.com/jonboulle/clockwork"
)

type Handler struct {
	Metrics *observability.Metrics
	Clock   clockwork.Clock
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res := Calculator{Clock: h.Clock}.ComputeAll(input)
	w.Header().Set("Content-Type", "application/json")
	if !res.Valid() {
		h.Metrics.ValidationFailures.WithLabelValues("calc").Inc()
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		h.Metrics.Calculations.WithLabelValues("calc").Inc()
	}
	json.NewEncoder(w).Encode(res)
}

// Validate only checks the fields; the form calls it as inputs arrive.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	errs := Validate(input)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(validateResponse{Valid: len(errs) == 0, Errors: errs})
}
