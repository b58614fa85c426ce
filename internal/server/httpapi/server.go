// Package httpapi exposes the msgdesk HTTP API: JSON endpoints for mutations
// and Server-Sent Events streams for live subscriptions.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/msgdesk/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	idents   service.IdentityService
	dir      service.DirectoryService
	conv     service.ConversationService
	tickets  service.TicketService
	sessions *service.SessionManager
	log      *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(idents service.IdentityService, dir service.DirectoryService, conv service.ConversationService, tickets service.TicketService, sessions *service.SessionManager, log *zap.Logger) *Server {
	return &Server{idents: idents, dir: dir, conv: conv, tickets: tickets, sessions: sessions, log: log}
}

// Router builds the route table. Public routes first, then session-gated,
// then administrator-gated.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RecoverMiddleware(s.log), LoggingMiddleware(s.log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	v1.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	authed := v1.PathPrefix("/").Subrouter()
	authed.Use(s.requireSession)
	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/directory/stream", s.handleDirectoryStream).Methods(http.MethodGet)
	authed.HandleFunc("/conversations/{peerID}/messages", s.handleSendMessage).Methods(http.MethodPost)
	authed.HandleFunc("/conversations/{peerID}/stream", s.handleConversationStream).Methods(http.MethodGet)
	authed.HandleFunc("/tickets", s.handleSubmitTicket).Methods(http.MethodPost)

	admin := authed.PathPrefix("/").Subrouter()
	admin.Use(s.requireAdmin)
	admin.HandleFunc("/tickets/stream", s.handleTicketStream).Methods(http.MethodGet)
	admin.HandleFunc("/tickets/{id}", s.handleDeleteTicket).Methods(http.MethodDelete)
	admin.HandleFunc("/messages/{id}", s.handleDeleteMessage).Methods(http.MethodDelete)
	admin.HandleFunc("/identities/{id}/ban", s.handleSetBan).Methods(http.MethodPut)

	return r
}
