package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Ductcalc/internal/auth"
	duct "Ductcalc/internal/calc/duct"
	batch "Ductcalc/internal/calc/premium/batch"
	importer "Ductcalc/internal/calc/premium/importer"
	recommend "Ductcalc/internal/calc/premium/recommend"
	report "Ductcalc/internal/calc/report"
	table "Ductcalc/internal/calc/table"
	config "Ductcalc/internal/config"
	lead "Ductcalc/internal/lead"
	observability "Ductcalc/internal/observability"
	profile "Ductcalc/internal/profile"
	repo "Ductcalc/internal/repo"
	widget "Ductcalc/internal/widget"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// widgets are embedded on third-party sites
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg *config.Config, db *sql.DB, metrics *observability.Metrics) {
	store := repo.NewPostgresDB(db)

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: store, SecureCookie: cfg.TLS()}
	profileH := &profile.ProfileHandler{Repo: store}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	widgetDefaults := widget.DefaultOptions()
	widgetDefaults.InitialVelocity = cfg.WidgetVelocity
	widgetDefaults.InitialFriction = cfg.WidgetFriction

	clock := clockwork.NewRealClock()
	ductH := &duct.Handler{Metrics: metrics, Clock: clock}
	tableH := &table.Handler{Metrics: metrics}
	recommendH := &recommend.Handler{Metrics: metrics}
	widgetH := &widget.Handler{Defaults: widgetDefaults, Metrics: metrics}
	leadH := &lead.Handler{Repo: store, Metrics: metrics}
	batchH := &batch.Handler{Metrics: metrics}
	importH := &importer.Handler{Metrics: metrics}
	reportH := &report.Handler{Metrics: metrics, Profiles: store, Clock: clock}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}).Methods("GET")
	mux.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	api.HandleFunc("/duct/calc", ductH.Calc).Methods("POST")
	api.HandleFunc("/duct/validate", ductH.Validate).Methods("POST")
	api.HandleFunc("/duct/table", tableH.Calc).Methods("POST")
	api.HandleFunc("/duct/recommend", recommendH.Diameter).Methods("POST")
	api.HandleFunc("/widget", widgetH.Get).Methods("GET")
	api.HandleFunc("/leads", leadH.Capture).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile", profileH.UpdateProfile).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/profile/{id:[0-9]+}", profileH.GetProfile).Methods("GET")

	secureApi.HandleFunc("/tools/duct/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/duct/import", importH.Duct).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.PDF).Methods("POST")
	secureApi.HandleFunc("/tools/report/xlsx", reportH.XLSX).Methods("POST")
	secureApi.Handle("/leads", auth.RequireAdmin(cfg.AdminLogins)(http.HandlerFunc(leadH.List))).Methods("GET")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := repo.Open(startCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database: ", err)
	}
	defer db.Close()
	if err := repo.Migrate(startCtx, db); err != nil {
		log.Fatal("database: ", err)
	}
	startCancel()

	metrics := observability.NewMetrics()
	mux := mux.NewRouter()
	HandleList(mux, cfg, db, metrics)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           CORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on %s (tls=%t)", cfg.HTTPAddr, cfg.TLS())
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, closing active connections")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	wg.Wait()
	log.Println("Server stopped")
}
