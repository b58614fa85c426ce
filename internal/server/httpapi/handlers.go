package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/model"
	"github.com/and161185/msgdesk/internal/service"
)

type credentialsRequest struct {
	DisplayName string `json:"display_name"`
	Secret      string `json:"secret"`
}

type bodyRequest struct {
	Body string `json:"body"`
}

type banRequest struct {
	Banned bool `json:"banned"`
}

// handleRegister creates a new identity.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.ErrEmptyBody)
		return
	}
	ident, err := s.idents.Register(r.Context(), req.DisplayName, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"identity": toIdentityPayload(ident)})
}

// handleLogin authenticates and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.ErrEmptyBody)
		return
	}
	ident, err := s.idents.Authenticate(r.Context(), req.DisplayName, req.Secret, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	_, token, err := s.sessions.Begin(ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"identity": toIdentityPayload(ident),
	})
}

// handleLogout ends the calling session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	s.sessions.Logout(sess.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleDirectoryStream streams full directory snapshots.
func (s *Server) handleDirectoryStream(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	ctx, cancel := streamContext(r, sess)
	defer cancel()

	snaps, err := s.dir.Subscribe(ctx, sess.IdentityID)
	if err != nil {
		writeError(w, err)
		return
	}
	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}
	for snap := range snaps {
		if err := sse.send(toDirectoryPayload(snap)); err != nil {
			return
		}
	}
}

// handleSendMessage accepts a message for the {caller, peer} pair.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	peerID, err := uuid.FromString(mux.Vars(r)["peerID"])
	if err != nil {
		writeError(w, errs.ErrNotFound)
		return
	}
	var req bodyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.ErrEmptyBody)
		return
	}
	msg, err := s.conv.Send(r.Context(), sess.IdentityID, peerID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": toMessagePayload(*msg)})
}

// handleConversationStream streams the ordered {caller, peer} conversation.
func (s *Server) handleConversationStream(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	peerID, err := uuid.FromString(mux.Vars(r)["peerID"])
	if err != nil {
		writeError(w, errs.ErrNotFound)
		return
	}
	ctx, cancel := streamContext(r, sess)
	defer cancel()

	lists, err := s.conv.Subscribe(ctx, sess.IdentityID, peerID)
	if err != nil {
		writeError(w, err)
		return
	}
	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}
	for msgs := range lists {
		if err := sse.send(toMessagePayloads(msgs)); err != nil {
			return
		}
	}
}

// handleDeleteMessage removes a message store-wide (administrator only).
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	msgID, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errs.ErrNotFound)
		return
	}
	if err := s.conv.Delete(r.Context(), actorFromSession(sess), msgID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSetBan toggles the ban flag of an identity (administrator only).
func (s *Server) handleSetBan(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	targetID, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errs.ErrNotFound)
		return
	}
	var req banRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.ErrEmptyBody)
		return
	}
	ident, err := s.idents.SetBanned(r.Context(), actorFromSession(sess), targetID, req.Banned)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"identity": toIdentityPayload(ident)})
}

// handleSubmitTicket appends a support ticket.
func (s *Server) handleSubmitTicket(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	var req bodyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.ErrEmptyBody)
		return
	}
	tk, err := s.tickets.Submit(r.Context(), sess.IdentityID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ticket": toTicketPayload(*tk)})
}

// handleTicketStream streams the full ticket queue, newest first
// (administrator only).
func (s *Server) handleTicketStream(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	ctx, cancel := streamContext(r, sess)
	defer cancel()

	lists, err := s.tickets.SubscribeAll(ctx, sess.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, err)
		return
	}
	for tks := range lists {
		if err := sse.send(toTicketPayloads(tks)); err != nil {
			return
		}
	}
}

// handleDeleteTicket removes a ticket (administrator only).
func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromCtx(r.Context())
	tkID, err := uuid.FromString(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errs.ErrNotFound)
		return
	}
	if err := s.tickets.Delete(r.Context(), actorFromSession(sess), tkID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// actorFromSession rebuilds the minimal identity the services need for
// authorization checks.
func actorFromSession(sess *service.Session) *model.Identity {
	return &model.Identity{ID: sess.IdentityID, DisplayName: sess.DisplayName, Role: sess.Role}
}
