package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/membership"
	"github.com/mmynk/splitledger/internal/server"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/memory"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load(os.Getenv)
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "backend", cfg.DataBackend)

	groups := membership.NewService(store)
	ldgr := ledger.New(store, groups)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	srv := server.New(authenticator, store, jwtManager, groups, ldgr)

	// h2c allows HTTP/2 without TLS for clients behind the reverse
	// proxy that terminates it.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.DataBackend {
	case "memory":
		return memory.New(), nil
	default:
		return sqlite.New(cfg.SQLiteDBPath)
	}
}
