// Package http exposes the JSON API: transactions, wallets, categories,
// budgets, the month dashboard, and the reconciliation endpoints.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"moneta/internal/cache"
	"moneta/internal/core"
	"moneta/internal/log"
	"moneta/internal/ports"
	"moneta/internal/services"
)

type Server struct {
	http.Server

	ledgerSvc    *services.LedgerService
	walletSvc    *services.WalletService
	reconcileSvc *services.ReconcileService
	store        ports.Store

	logger      *log.Logger
	rateLimiter *rateLimiter

	// LRU caches for the dashboard aggregates
	overviewCache *cache.LRU[core.MonthOverview]
	budgetCache   *cache.LRU[[]core.BudgetStatus]
	cacheManager  *cache.Manager

	metrics metrics

	shutdownOnce sync.Once
}

type metrics struct {
	requestsTotal   atomic.Int64
	responses2xx    atomic.Int64
	responses4xx    atomic.Int64
	responses5xx    atomic.Int64
	rateLimited     atomic.Int64
	reconcileRuns   atomic.Int64
	walletsRepaired atomic.Int64
}

// rateLimiter caps mutating requests per client IP. The window resets a
// minute after a client's previous request, so it is a sliding reset
// rather than a fixed clock window.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	done     chan struct{}
	once     sync.Once
}

type visitor struct {
	seen  time.Time
	count int
}

const (
	rateLimitPerMinute = 60
	visitorStaleAfter  = 10 * time.Minute
)

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		done:     make(chan struct{}),
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.evictStale()
			case <-rl.done:
				return
			}
		}
	}()
	return rl
}

func (rl *rateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-visitorStaleAfter)
	for ip, v := range rl.visitors {
		if v.seen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v := rl.visitors[clientIP]
	if v == nil || now.Sub(v.seen) > time.Minute {
		rl.visitors[clientIP] = &visitor{seen: now, count: 1}
		return true
	}

	v.count++
	v.seen = now
	return v.count <= rateLimitPerMinute
}

// NewServer configures all routes and returns a ready-to-run server.
func NewServer(addr string, ledgerSvc *services.LedgerService, walletSvc *services.WalletService, reconcileSvc *services.ReconcileService, store ports.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		ledgerSvc:     ledgerSvc,
		walletSvc:     walletSvc,
		reconcileSvc:  reconcileSvc,
		store:         store,
		logger:        log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		rateLimiter:   newRateLimiter(),
		overviewCache: cache.NewLRU[core.MonthOverview](100, 5*time.Minute),
		budgetCache:   cache.NewLRU[[]core.BudgetStatus](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.Register(s.budgetCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/transactions", s.withAPIHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withAPIHeaders(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.withAPIHeaders(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withAPIHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withAPIHeaders(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/wallets", s.withAPIHeaders(s.handleListWallets))
	mux.HandleFunc("POST /api/wallets", s.withAPIHeaders(s.handleCreateWallet))
	mux.HandleFunc("GET /api/wallets/{id}", s.withAPIHeaders(s.handleGetWallet))
	mux.HandleFunc("PUT /api/wallets/{id}", s.withAPIHeaders(s.handleUpdateWallet))
	mux.HandleFunc("DELETE /api/wallets/{id}", s.withAPIHeaders(s.handleDeleteWallet))

	mux.HandleFunc("GET /api/categories", s.withAPIHeaders(s.handleListCategories))
	mux.HandleFunc("GET /api/budgets", s.withAPIHeaders(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets", s.withAPIHeaders(s.handleUpsertBudget))

	mux.HandleFunc("GET /api/dashboard/month-overview", s.withAPIHeaders(s.handleMonthOverview))

	mux.HandleFunc("GET /api/reconcile/drift", s.withAPIHeaders(s.handleDriftReport))
	mux.HandleFunc("POST /api/reconcile", s.withAPIHeaders(s.handleReconcile))

	return s
}

// Shutdown stops the server and its background routines exactly once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withAPIHeaders adds request logging, rate limiting on mutations, and
// security headers.
func (s *Server) withAPIHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.requestsTotal.Add(1)

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.metrics.rateLimited.Add(1)
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.countResponse(rw.statusCode)
		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (s *Server) countResponse(status int) {
	switch {
	case status >= 500:
		s.metrics.responses5xx.Add(1)
	case status >= 400:
		s.metrics.responses4xx.Add(1)
	default:
		s.metrics.responses2xx.Add(1)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready when the store answers.
	if _, err := s.store.ListCategories(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{
		"requests_total":   s.metrics.requestsTotal.Load(),
		"responses_2xx":    s.metrics.responses2xx.Load(),
		"responses_4xx":    s.metrics.responses4xx.Load(),
		"responses_5xx":    s.metrics.responses5xx.Load(),
		"rate_limited":     s.metrics.rateLimited.Load(),
		"reconcile_runs":   s.metrics.reconcileRuns.Load(),
		"wallets_repaired": s.metrics.walletsRepaired.Load(),
	})
}

func (s *Server) cacheKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func (s *Server) invalidateMonth(year, month int) {
	key := s.cacheKey(year, month)
	s.overviewCache.Delete(key)
	s.budgetCache.Delete(key)
}
