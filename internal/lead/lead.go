package lead

import (
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	duct "Ductcalc/internal/calc/duct"
	"Ductcalc/internal/observability"
	"Ductcalc/internal/repo"
)

const (
	maxMessageLen = 2000
	maxListLimit  = 500
)

type Handler struct {
	Repo    repo.LeadRepository
	Metrics *observability.Metrics
}

type CaptureRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Company  string   `json:"company"`
	Phone    string   `json:"phone"`
	Message  string   `json:"message"`
	Velocity *float64 `json:"velocity,omitempty"`
	Friction *float64 `json:"friction,omitempty"`
	CFM      *float64 `json:"cfm,omitempty"`
}

type captureResponse struct {
	ID int `json:"id"`
}

// Check returns the problems with a request, empty when it can be stored.
func (req *CaptureRequest) Check() []string {
	var errs []string
	if req.Name == "" {
		errs = append(errs, "Name is required")
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		errs = append(errs, "A valid email is required")
	}
	if len(req.Message) > maxMessageLen {
		errs = append(errs, "Message is too long")
	}
	return append(errs, duct.Validate(duct.Input{Velocity: req.Velocity, Friction: req.Friction, CFM: req.CFM})...)
}

func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Company = strings.TrimSpace(req.Company)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)

	if errs := req.Check(); len(errs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string][]string{"errors": errs})
		return
	}

	id, err := h.Repo.CreateLead(r.Context(), repo.Lead{
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Phone:    req.Phone,
		Message:  req.Message,
		Velocity: req.Velocity,
		Friction: req.Friction,
		CFM:      req.CFM,
	})
	if err != nil {
		log.Printf("CreateLead Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	h.Metrics.LeadsCaptured.Inc()
	log.Printf("lead %d captured", id)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(captureResponse{ID: id})
}

// List serves ?status=new&limit=50. Mount it behind auth.RequireAdmin.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !repo.ValidLeadStatus(status) {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}
	limit := 100
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxListLimit {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	leads, err := h.Repo.ListLeads(r.Context(), status, limit)
	if err != nil {
		log.Printf("ListLeads Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if leads == nil {
		leads = []repo.Lead{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(leads)
}
