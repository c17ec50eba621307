package report

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Ductcalc/internal/auth"
	duct "Ductcalc/internal/calc/duct"
	"Ductcalc/internal/observability"
	"Ductcalc/internal/repo"
	"Ductcalc/internal/widget"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var generated = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

type profiles map[int]repo.Profile

func (p profiles) GetProfileByID(_ context.Context, id int) (repo.Profile, error) {
	prof, ok := p[id]
	if !ok {
		return repo.Profile{}, repo.ErrNotFound
	}
	return prof, nil
}

func TestPrepare(t *testing.T) {
	doc, err := Prepare(Input{Project: "Clinic AHU-2", Velocity: 1500, Friction: 0.1, CFM: duct.Float(1000)}, generated)
	require.NoError(t, err)

	assert.Equal(t, defaultTitle, doc.Title)
	assert.Len(t, doc.Table.Rows, 29)
	require.NotNil(t, doc.Results)
	require.NotNil(t, doc.Recommendation)
	assert.Equal(t, 14.0, doc.Recommendation.RecommendedIn)
	assert.Equal(t, 28, doc.Table.OptimalDiameterIn)
}

func TestPrepare_TableOnly(t *testing.T) {
	doc, err := Prepare(Input{Velocity: 2500, Friction: 0.15}, generated)
	require.NoError(t, err)
	assert.Nil(t, doc.Results)
	assert.Nil(t, doc.Recommendation)
}

func TestPrepare_Invalid(t *testing.T) {
	_, err := Prepare(Input{Velocity: 2500, Friction: 0.15, CFM: duct.Float(10)}, generated)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CFM")

	_, err = Prepare(Input{Velocity: 0, Friction: 0.15}, generated)
	require.Error(t, err)
}

func TestThousands(t *testing.T) {
	assert.Equal(t, "218", thousands(218))
	assert.Equal(t, "49,087", thousands(49087))
	assert.Equal(t, "1,234,567", thousands(1234567))
}

func TestWritePDF(t *testing.T) {
	doc, err := Prepare(Input{Project: "Clinic", Author: "Dana", Notes: "Supply trunk only.", Velocity: 1500, Friction: 0.1, CFM: duct.Float(1000)}, generated)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWriteXLSX(t *testing.T) {
	doc, err := Prepare(Input{Project: "Clinic", Velocity: 1500, Friction: 0.1, CFM: duct.Float(1000)}, generated)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, defaultTitle, rows[0][0])
	assert.Equal(t, []string{"Project", "Clinic"}, rows[1])

	header := -1
	for i, r := range rows {
		if len(r) > 0 && r[0] == "Diameter (in.)" {
			header = i
		}
	}
	require.NotEqual(t, -1, header)
	assert.Len(t, rows[header+1:], 29)
	assert.Equal(t, "4", rows[header+1][0])
	assert.Equal(t, "60", rows[len(rows)-1][0])
}

func TestHandler_PDF(t *testing.T) {
	h := &Handler{
		Metrics:  observability.NewMetricsForTesting(),
		Profiles: profiles{5: {ID: 5, Login: "dana", DisplayName: "Dana K.", Company: "Acme Mechanical"}},
		Clock:    clockwork.NewFakeClockAt(generated),
	}
	req := httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", strings.NewReader(`{"project":"Clinic AHU-2","velocity":1500,"friction":0.1,"cfm":1000}`))
	req = req.WithContext(auth.WithUser(req.Context(), 5, "dana"))
	rec := httptest.NewRecorder()
	h.PDF(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Clinic-AHU-2-20250602.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
	assert.InDelta(t, 1, testutil.ToFloat64(h.Metrics.ReportsGenerated.WithLabelValues("pdf")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(h.Metrics.WidgetEvents.WithLabelValues(widget.EventPDFStarted)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(h.Metrics.WidgetEvents.WithLabelValues(widget.EventPDFCompleted)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(h.Metrics.WidgetEvents.WithLabelValues(widget.EventPDFFailed)), 0)
}

func TestHandler_XLSX(t *testing.T) {
	h := &Handler{Metrics: observability.NewMetricsForTesting(), Clock: clockwork.NewFakeClockAt(generated)}
	rec := httptest.NewRecorder()
	h.XLSX(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/xlsx", strings.NewReader(`{"velocity":2500,"friction":0.15}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="duct-sizing-20250602.xlsx"`, rec.Header().Get("Content-Disposition"))
	_, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	assert.InDelta(t, 0, testutil.ToFloat64(h.Metrics.WidgetEvents.WithLabelValues(widget.EventPDFStarted)), 0)
}

func TestHandler_Invalid(t *testing.T) {
	h := &Handler{Metrics: observability.NewMetricsForTesting()}

	rec := httptest.NewRecorder()
	h.PDF(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", strings.NewReader(`{"velocity":9000,"friction":0.1}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.InDelta(t, 1, testutil.ToFloat64(h.Metrics.WidgetEvents.WithLabelValues(widget.EventPDFFailed)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(h.Metrics.WidgetEvents.WithLabelValues(widget.EventPDFCompleted)), 0)

	rec = httptest.NewRecorder()
	h.PDF(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", strings.NewReader(`[`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFillAuthor(t *testing.T) {
	h := &Handler{Profiles: profiles{5: {ID: 5, Login: "dana", Company: "Acme"}}}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(auth.WithUser(req.Context(), 5, "dana"))

	in := Input{}
	h.fillAuthor(req, &in)
	assert.Equal(t, "dana", in.Author)
	assert.Equal(t, "Acme", in.Company)

	in = Input{Author: "Given"}
	h.fillAuthor(req, &in)
	assert.Equal(t, "Given", in.Author)
}
