// Package server exposes the ledger engine and its surrounding
// services over an HTTP JSON API.
package server

import (
	"net/http"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/membership"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
)

// Server wires the HTTP handlers to the underlying services.
type Server struct {
	auth   auth.Authenticator
	users  auth.UserStorage
	jwt    *auth.JWTManager
	groups *membership.Service
	ledger *ledger.Ledger
}

// New creates a Server over the given services.
func New(authenticator auth.Authenticator, users auth.UserStorage, jwtManager *auth.JWTManager, groups *membership.Service, ldgr *ledger.Ledger) *Server {
	return &Server{
		auth:   authenticator,
		users:  users,
		jwt:    jwtManager,
		groups: groups,
		ledger: ldgr,
	}
}

// Handler builds the full route table with logging and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	protected := middleware.RequireAuth(s.jwt)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protected(h))
	}

	handle("GET /api/me", s.handleGetProfile)
	handle("PATCH /api/me", s.handleUpdateProfile)
	handle("POST /api/me/password", s.handleChangePassword)

	handle("POST /api/groups", s.handleCreateGroup)
	handle("GET /api/groups", s.handleListGroups)
	handle("GET /api/groups/{id}", s.handleGetGroup)
	handle("DELETE /api/groups/{id}", s.handleDeleteGroup)
	handle("GET /api/groups/{id}/members", s.handleListMembers)
	handle("POST /api/groups/{id}/members", s.handleAddMember)

	handle("POST /api/groups/{id}/expenses", s.handleRecordExpense)
	handle("GET /api/groups/{id}/expenses", s.handleListExpenses)
	handle("GET /api/groups/{id}/expenses/balance", s.handleBalances)
	handle("GET /api/groups/{id}/expenses/settlement", s.handleSettlementPlan)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return middleware.Logging(middleware.CORS(mux))
}
