package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"Ductcalc/internal/auth"
	"Ductcalc/internal/repo"

	"github.com/gorilla/mux"
)

const maxFieldLen = 120

type ProfileHandler struct {
	Repo repo.Repository
}

// UpdateProfileRequest sets the name and company printed on reports.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Company     string `json:"company"`
}

type publicProfile struct {
	ID          int    `json:"id"`
	DisplayName string `json:"display_name"`
	Company     string `json:"company"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if idStr, ok := mux.Vars(r)["id"]; ok && idStr != "" {
		targetID, err := strconv.Atoi(idStr)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}
		prof, ok := h.load(w, r, targetID)
		if !ok {
			return
		}
		writeJSON(w, publicProfile{ID: prof.ID, DisplayName: prof.DisplayName, Company: prof.Company})
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	prof, ok := h.load(w, r, userID)
	if !ok {
		return
	}
	writeJSON(w, prof)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Company = strings.TrimSpace(req.Company)
	if len(req.DisplayName) > maxFieldLen || len(req.Company) > maxFieldLen {
		http.Error(w, "Field too long", http.StatusBadRequest)
		return
	}

	prof, err := h.Repo.UpdateProfile(r.Context(), userID, req.DisplayName, req.Company)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("UpdateProfile Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, prof)
}

func (h *ProfileHandler) load(w http.ResponseWriter, r *http.Request, id int) (repo.Profile, bool) {
	prof, err := h.Repo.GetProfileByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return repo.Profile{}, false
	}
	if err != nil {
		log.Printf("GetProfileByID Error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return repo.Profile{}, false
	}
	return prof, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
