package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"Ductcalc/internal/auth"
	"Ductcalc/internal/observability"
	"Ductcalc/internal/repo"
	"Ductcalc/internal/widget"

	"github.com/jonboulle/clockwork"
)

// ProfileSource fills in the author block for signed-in users.
type ProfileSource interface {
	GetProfileByID(ctx context.Context, id int) (repo.Profile, error)
}

type Handler struct {
	Metrics  *observability.Metrics
	Profiles ProfileSource
	Clock    clockwork.Clock
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, "pdf", "application/pdf", WritePDF)
}

func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", WriteXLSX)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, format, contentType string, render func(io.Writer, Document) error) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	h.fillAuthor(r, &input)
	h.exportEvent(format, widget.EventPDFStarted)

	doc, err := Prepare(input, h.clock().Now())
	if err != nil {
		h.exportEvent(format, widget.EventPDFFailed)
		h.Metrics.ValidationFailures.WithLabelValues("report").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	// render into memory so a failure can still become a 500
	var buf bytes.Buffer
	if err := render(&buf, doc); err != nil {
		log.Printf("report %s: %v", format, err)
		h.exportEvent(format, widget.EventPDFFailed)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	h.Metrics.ReportsGenerated.WithLabelValues(format).Inc()
	h.exportEvent(format, widget.EventPDFCompleted)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName(doc, format)))
	w.Write(buf.Bytes())
}

func (h *Handler) fillAuthor(r *http.Request, in *Input) {
	if h.Profiles == nil || (in.Author != "" && in.Company != "") {
		return
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return
	}
	prof, err := h.Profiles.GetProfileByID(r.Context(), userID)
	if err != nil {
		log.Printf("report profile %d: %v", userID, err)
		return
	}
	if in.Author == "" {
		in.Author = prof.DisplayName
		if in.Author == "" {
			in.Author = prof.Login
		}
	}
	if in.Company == "" {
		in.Company = prof.Company
	}
}

// exportEvent mirrors the widget's PDF export analytics.
func (h *Handler) exportEvent(format, event string) {
	if format == "pdf" {
		h.Metrics.WidgetEvents.WithLabelValues(event).Inc()
	}
}

func (h *Handler) clock() clockwork.Clock {
	if h.Clock == nil {
		return clockwork.NewRealClock()
	}
	return h.Clock
}

func fileName(doc Document, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, strings.TrimSpace(doc.Project))
	if name == "" {
		name = "duct-sizing"
	}
	return fmt.Sprintf("%s-%s.%s", name, doc.Generated.Format("20060102"), ext)
}
