// Package http is the JSON API surface of the ledger.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cartera/internal/cache"
	"cartera/internal/log"
	"cartera/internal/services"
	"cartera/internal/storage"
)

// ImportPublisher enqueues spreadsheet import jobs for the worker.
type ImportPublisher interface {
	PublishImportJob(ctx context.Context, userID int64, spreadsheetID, tab string) error
}

type Server struct {
	http.Server

	storage    *storage.SQLiteRepository
	categories *services.CategoryService
	budgets    *services.BudgetService
	dashboard  *services.DashboardService
	valuations *services.ValuationService
	templates  *services.TemplateService
	contexts   *services.ContextBuilder
	chat       *services.ChatService

	// nil when AMQP is not configured; the import endpoint then returns 503.
	importJobs ImportPublisher

	// Dashboard metrics are cheap to recompute but hit on every page load;
	// writes purge the whole cache.
	dashboardCache *cache.LRUCache[dashboardResponse]

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

type Deps struct {
	Storage    *storage.SQLiteRepository
	Categories *services.CategoryService
	Budgets    *services.BudgetService
	Dashboard  *services.DashboardService
	Valuations *services.ValuationService
	Templates  *services.TemplateService
	Contexts   *services.ContextBuilder
	Chat       *services.ChatService
	ImportJobs ImportPublisher
}

func NewServer(addr string, logger *log.Logger, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		storage:     deps.Storage,
		categories:  deps.Categories,
		budgets:     deps.Budgets,
		dashboard:   deps.Dashboard,
		valuations:  deps.Valuations,
		templates:   deps.Templates,
		contexts:    deps.Contexts,
		chat:        deps.Chat,
		importJobs:  deps.ImportJobs,
		rateLimiter: newRateLimiter(),

		dashboardCache: cache.NewLRUCache[dashboardResponse](100, time.Minute),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: log.Middleware(logger)(mux),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /users", s.secured(s.handleCreateUser))

	mux.HandleFunc("POST /categories", s.secured(s.handleCreateCategory))
	mux.HandleFunc("GET /categories/{id}", s.secured(s.handleCategoryDetail))
	mux.HandleFunc("POST /categories/{id}/reassign", s.secured(s.handleReassignCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.secured(s.handleDeleteCategory))

	mux.HandleFunc("POST /assets", s.secured(s.handleCreateAsset))
	mux.HandleFunc("GET /assets", s.secured(s.handleListAssets))
	mux.HandleFunc("GET /assets/{id}", s.secured(s.handleGetAsset))
	mux.HandleFunc("POST /assets/{id}/values", s.secured(s.handleUpsertAssetValue))
	mux.HandleFunc("GET /assets/{id}/values", s.secured(s.handleListAssetValues))
	mux.HandleFunc("DELETE /assets/{id}/values/{date}", s.secured(s.handleDeleteAssetValue))

	mux.HandleFunc("POST /liabilities", s.secured(s.handleCreateLiability))
	mux.HandleFunc("GET /liabilities", s.secured(s.handleListLiabilities))
	mux.HandleFunc("GET /liabilities/{id}", s.secured(s.handleGetLiability))
	mux.HandleFunc("POST /liabilities/{id}/values", s.secured(s.handleUpsertLiabilityValue))
	mux.HandleFunc("GET /liabilities/{id}/values", s.secured(s.handleListLiabilityValues))
	mux.HandleFunc("DELETE /liabilities/{id}/values/{date}", s.secured(s.handleDeleteLiabilityValue))
	mux.HandleFunc("POST /liabilities/{id}/interests", s.secured(s.handleCreateInterest))

	mux.HandleFunc("POST /transactions", s.secured(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.secured(s.handleListTransactions))
	mux.HandleFunc("DELETE /transactions/{id}", s.secured(s.handleDeleteTransaction))

	mux.HandleFunc("POST /budgets", s.secured(s.handleCreateBudget))
	mux.HandleFunc("GET /budgets", s.secured(s.handleListBudgets))
	mux.HandleFunc("PUT /budgets/{id}", s.secured(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /budgets/{id}", s.secured(s.handleDeleteBudget))
	mux.HandleFunc("GET /budgets/status", s.secured(s.handleBudgetStatus))

	mux.HandleFunc("GET /dashboard", s.secured(s.handleDashboard))

	mux.HandleFunc("POST /templates", s.secured(s.handleCreateTemplate))
	mux.HandleFunc("GET /templates", s.secured(s.handleListTemplates))
	mux.HandleFunc("POST /templates/{id}/apply", s.secured(s.handleApplyTemplate))
	mux.HandleFunc("DELETE /templates/{id}", s.secured(s.handleDeleteTemplate))

	mux.HandleFunc("POST /chat", s.secured(s.handleChat))
	mux.HandleFunc("GET /context", s.secured(s.handleContextDocument))

	mux.HandleFunc("POST /imports", s.secured(s.handleEnqueueImport))

	return s
}

// secured adds security headers, rate limiting on mutating methods, and a
// request ID to every API handler.
func (s *Server) secured(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		ctx := context.WithValue(r.Context(), requestIDKey, generateRequestID())
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			w.Header().Set("Retry-After", "60")
			respondError(w, r, fmt.Errorf("rate limit exceeded"), http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports ready only when the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
