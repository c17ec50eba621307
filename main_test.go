package main

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	auth "Ductcalc/internal/auth"
	config "Ductcalc/internal/config"
	observability "Ductcalc/internal/observability"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	// sql.Open does not connect; routes under test never touch the db
	db, err := sql.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		TokenKey:       "test-key",
		RateLimit:      100,
		RateBurst:      100,
		WidgetVelocity: 2500,
		WidgetFriction: 0.15,
		AdminLogins:    []string{"ops"},
	}
	r := mux.NewRouter()
	HandleList(r, cfg, db, observability.NewMetricsForTesting())
	return CORS(r)
}

func TestRoutes_PublicCalc(t *testing.T) {
	h := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/duct/calc", strings.NewReader(`{"velocity":1500,"friction":0.1,"cfm":1000}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"diameter_friction":14`)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/widget?velocity=1500&friction=0.1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_SecureRequiresSession(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/api/user/profile", "/api/user/leads"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/tools/report/pdf", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/duct/calc", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func sessionFor(t *testing.T, id int, login string) *http.Cookie {
	t.Helper()
	token, err := (&auth.Authenv{JWTkey: []byte("test-key")}).IssueToken(id, login, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func TestRoutes_LeadsAdminOnly(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user/leads", nil)
	req.AddCookie(sessionFor(t, 4242, "random-signup"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// an admin gets past the gate to the (unreachable) database
	req = httptest.NewRequest(http.MethodGet, "/api/user/leads", nil)
	req.AddCookie(sessionFor(t, 1, "ops"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
