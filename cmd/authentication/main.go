// This is a **mock authentication service** for local use. It issues JWT
// tokens for the control service; the requested subject becomes the audit
// actor of every change made with the token.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gartstein/jingjai/internal/jingjai/auth"
	"github.com/gartstein/jingjai/internal/jingjai/config"
	"github.com/gartstein/jingjai/internal/pkg/zaplogger"
	"go.uber.org/zap"
)

// TokenResponse represents the response structure
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type tokenIssuer struct {
	secret string
	ttl    time.Duration
	logger *zap.Logger
}

// ServeHTTP answers GET /token?sub=<user>.
func (t *tokenIssuer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sub := strings.TrimSpace(r.URL.Query().Get("sub"))
	if sub == "" {
		http.Error(w, "sub is required", http.StatusBadRequest)
		return
	}

	token, err := auth.GenerateToken(sub, t.secret, t.ttl)
	if err != nil {
		t.logger.Error("Failed to generate token", zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := TokenResponse{Token: token, ExpiresAt: time.Now().Add(t.ttl).UTC()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.logger.Warn("Failed to encode token", zap.Error(err))
	}
	t.logger.Info("Issued token", zap.String("sub", sub))
}

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	configPath := flag.String("config", "", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := zaplogger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	mux := http.NewServeMux()
	mux.Handle("/token", &tokenIssuer{secret: cfg.Auth.JWTSecret, ttl: cfg.Auth.TokenTTL, logger: logger})

	srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	logger.Info("Authentication service running", zap.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Authentication service failed", zap.Error(err))
	}
}
