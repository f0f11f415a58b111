package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"contas/internal/cache"
	"contas/internal/log"
	"contas/internal/middleware/ratelimit"
	"contas/internal/middleware/security"
	"contas/internal/middleware/trace"
	"contas/internal/services"
)

// Server wires the HTTP surface: routing, identity, rate limiting,
// security headers, tracing and short-lived response caches.
type Server struct {
	http.Server

	bills     *services.BillService
	payments  *services.PaymentService
	dashboard *services.DashboardService
	logger    *log.Logger

	limiter      *ratelimit.Limiter
	cacheManager *cache.Manager
	dashCache    *cache.LRUCache[dashboardResponse]
	billsCache   *cache.LRUCache[[]billResponse]

	shutdownOnce sync.Once
}

func NewServer(addr string, bills *services.BillService, payments *services.PaymentService, dashboard *services.DashboardService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		bills:        bills,
		payments:     payments,
		dashboard:    dashboard,
		logger:       logger.WithComponent(log.ComponentHTTP),
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		cacheManager: cache.NewManager(),
		dashCache:    cache.NewLRUCache[dashboardResponse](100, 5*time.Minute),
		billsCache:   cache.NewLRUCache[[]billResponse](200, 5*time.Minute),
	}

	s.cacheManager.Register(s.dashCache)
	s.cacheManager.Register(s.billsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/bills", s.handleListBills)
	api.HandleFunc("POST /api/bills", s.handleCreateBill)
	api.HandleFunc("PUT /api/bills/{id}", s.handleUpdateBill)
	api.HandleFunc("DELETE /api/bills/{id}", s.handleDeleteBill)
	api.HandleFunc("GET /api/bills/dash", s.handleDashboard)
	api.HandleFunc("GET /api/payments/{billID}", s.handleListPayments)
	api.HandleFunc("POST /api/payments", s.handleCreatePayment)
	api.HandleFunc("DELETE /api/payments/{id}", s.handleDeletePayment)
	api.HandleFunc("GET /api/payment-methods", s.handlePaymentMethods)
	mux.Handle("/api/", withAuth(api))

	traceMW := trace.NewMiddleware(security.ExtractClientIP, logger)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.limiter.Middleware(security.ExtractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           traceMW.Middleware(headersMW.Middleware(limitMW(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown stops the listener and the background cache and limiter
// goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// invalidateUser drops every cached response for a user. Called after
// any write so reads never serve stale aggregates.
func (s *Server) invalidateUser(userID int64) {
	prefix := userCachePrefix(userID)
	s.dashCache.DeletePrefix(prefix)
	s.billsCache.DeletePrefix(prefix)
}

func userCachePrefix(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":"
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
