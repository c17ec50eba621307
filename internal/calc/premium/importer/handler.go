package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	duct "Ductcalc/internal/calc/duct"
	"Ductcalc/internal/calc/premium/batch"
	"Ductcalc/internal/observability"

	"github.com/xuri/excelize/v2"
)

const MaxUploadSize = 5 << 20 // 5MB

var ErrEmptySheet = errors.New("empty sheet")

type Handler struct {
	Metrics *observability.Metrics
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Count   int            `json:"count"`
	Invalid int            `json:"invalid"`
	Results []duct.Results `json:"results"`
	Skipped []SkippedRow   `json:"skipped,omitempty"`
}

func (h *Handler) Duct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file)
	if err != nil {
		http.Error(w, "Invalid file: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.Metrics.Calculations.WithLabelValues("import").Add(float64(res.Count - res.Invalid))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Import reads the first sheet of an XLSX workbook. The header row is
// skipped; columns are velocity, friction, cfm, diameter and blank cells
// mean the field is absent.
func Import(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return ImportResult{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return ImportResult{}, ErrEmptySheet
	}

	var (
		items   []duct.Input
		skipped []SkippedRow
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		input, err := parseRow(row)
		if err != nil {
			skipped = append(skipped, SkippedRow{Row: i + 1, Reason: err.Error()})
			continue
		}
		items = append(items, input)
	}

	out := ImportResult{Skipped: skipped}
	if len(items) == 0 {
		return out, nil
	}
	res, err := batch.Calculate(batch.Input{Items: items})
	if err != nil {
		return ImportResult{}, err
	}
	out.Count, out.Invalid, out.Results = res.Count, res.Invalid, res.Results
	return out, nil
}

var columns = []string{"velocity", "friction", "cfm", "diameter"}

func parseRow(row []string) (duct.Input, error) {
	values := make([]*float64, len(columns))
	for i, name := range columns {
		if i >= len(row) || strings.TrimSpace(row[i]) == "" {
			continue
		}
		v, err := toFloat(row[i])
		if err != nil {
			return duct.Input{}, fmt.Errorf("bad %s %q", name, row[i])
		}
		values[i] = &v
	}
	return duct.Input{
		Velocity: values[0],
		Friction: values[1],
		CFM:      values[2],
		Diameter: values[3],
	}, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
