package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/config"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the API routes. The rate limiter applies to /api only.
func NewRouter(h *Handler, limiter *IPRateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/evaluate", h.Evaluate).Methods("POST")
	api.HandleFunc("/evaluate/csv", h.CSV).Methods("POST")
	api.HandleFunc("/evaluate/pdf", h.PDF).Methods("POST")
	api.HandleFunc("/evaluate/chart", h.Chart).Methods("POST")
	api.HandleFunc("/batch", h.Batch).Methods("POST")
	api.HandleFunc("/criteria", h.GetCriteria).Methods("GET")

	router.HandleFunc("/healthz", h.Health).Methods("GET")
	return router
}

// NewHandler builds the complete HTTP handler for cfg
func NewHandler(cfg *config.Config) http.Handler {
	h := &Handler{Criteria: cfg.Criteria}
	limiter := NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)
	return CORS(NewRouter(h, limiter))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, cfg *config.Config) error {
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
