// Package http serves the plan dashboard and the JSON mutation API.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgetme/internal/cache"
	"budgetme/internal/middleware/ratelimit"
	"budgetme/internal/middleware/security"
	"budgetme/internal/middleware/trace"
	"budgetme/internal/report"
	"budgetme/internal/services"
	"budgetme/internal/sheets"
	"budgetme/internal/storage"
	appweb "budgetme/web"
)

// AuditLister reads back the mutation audit trail.
type AuditLister interface {
	ListAudit(ctx context.Context, plan string, limit int) ([]storage.AuditEntry, error)
}

type Server struct {
	http.Server

	service  *services.BudgetService
	exporter sheets.PlanExporter
	auditor  AuditLister

	templates *template.Template

	rateLimiter *ratelimit.Limiter
	// Rendered report models are cached until the next mutation.
	reportCache  *cache.LRUCache[*report.PlanReport]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithExporter enables the POST /api/export endpoint.
func WithExporter(e sheets.PlanExporter) Option {
	return func(s *Server) { s.exporter = e }
}

// WithAuditor enables the GET /api/audit endpoint.
func WithAuditor(a AuditLister) Option {
	return func(s *Server) { s.auditor = a }
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, service *services.BudgetService, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		service:      service,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		reportCache:  cache.NewLRUCache[*report.PlanReport](8, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/plan", s.handlePlanSummary)
	mux.HandleFunc("GET /api/plan/snapshot", s.handlePlanSnapshot)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/negative", s.handleNegative)
	mux.HandleFunc("GET /api/savings", s.handleSavings)
	mux.HandleFunc("GET /api/accounts/{name}/variance", s.handleVariance)
	mux.HandleFunc("GET /api/audit", s.handleAudit)

	mux.HandleFunc("POST /api/transactions/correct", s.handleCorrect)
	mux.HandleFunc("POST /api/transactions/confirm", s.handleConfirm)
	mux.HandleFunc("POST /api/transactions/unconfirm", s.handleUnconfirm)
	mux.HandleFunc("POST /api/transfer", s.handleTransfer)
	mux.HandleFunc("POST /api/protect", s.handleProtect)
	mux.HandleFunc("POST /api/export", s.handleExport)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)
	limited := s.rateLimiter.Middleware(clientIP, nil)

	handler := tracer.Middleware(headers.Middleware(limitPosts(limited, mux)))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// limitPosts applies the rate limiter to mutating requests only.
func limitPosts(limited func(http.Handler) http.Handler, next http.Handler) http.Handler {
	guarded := limited(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			guarded.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
