// Package http exposes the wallet API over JSON. Every /api route except
// registration and login requires a bearer session token.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"walletd/internal/auth"
	"walletd/internal/core"
	"walletd/internal/ledger"
)

type Server struct {
	http.Server
	auth        *auth.Service
	ledger      *ledger.Service
	rateLimiter *rateLimiter
}

// NewServer configures the routes and returns a ready-to-run server.
func NewServer(addr string, authSvc *auth.Service, ledgerSvc *ledger.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		auth:        authSvc,
		ledger:      ledgerSvc,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /api/register", s.withCommon(s.handleRegister))
	mux.HandleFunc("POST /api/login", s.withCommon(s.handleLogin))
	mux.HandleFunc("POST /api/logout", s.withCommon(s.withAuth(s.handleLogout)))

	mux.HandleFunc("GET /api/payment-types", s.withCommon(s.withAuth(s.handleListPaymentTypes)))
	mux.HandleFunc("POST /api/payment-types", s.withCommon(s.withAuth(s.handleCreatePaymentType)))
	mux.HandleFunc("PATCH /api/payment-types/{id}", s.withCommon(s.withAuth(s.handleRenamePaymentType)))
	mux.HandleFunc("DELETE /api/payment-types/{id}", s.withCommon(s.withAuth(s.handleDeletePaymentType)))

	mux.HandleFunc("GET /api/categories", s.withCommon(s.withAuth(s.handleListCategories)))
	mux.HandleFunc("POST /api/categories", s.withCommon(s.withAuth(s.handleCreateCategory)))
	mux.HandleFunc("PATCH /api/categories/{id}", s.withCommon(s.withAuth(s.handleRenameCategory)))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withCommon(s.withAuth(s.handleDeleteCategory)))

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withCommon(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.withCommon(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("POST /api/transfer", s.withCommon(s.withAuth(s.handleTransfer)))

	return s
}

// Shutdown stops the server and its rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.Server.Shutdown(ctx)
}

type contextKey string

const walletContextKey contextKey = "wallet"

// withAuth resolves the bearer token to the acting wallet and stores it in
// the request context.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, err := s.auth.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), walletContextKey, wallet)))
	}
}

func actingWallet(r *http.Request) core.Wallet {
	wallet, _ := r.Context().Value(walletContextKey).(core.Wallet)
	return wallet
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// withCommon adds request logging, a request id, rate limiting on writes
// and the security headers.
func (s *Server) withCommon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), contextKey("request_id"), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter captures the status code for the completion log.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// rateLimiter caps write requests per client IP.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Up to 60 write requests per minute per client.
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
