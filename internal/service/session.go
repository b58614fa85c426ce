package service

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/msgdesk/internal/errs"
	"github.com/and161185/msgdesk/internal/model"
)

// SessionState tracks where a connection is in its auth lifecycle.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAuthenticating
	StateAuthenticated
	StateRejected
	StateBanned
	StateLoggedOut
)

// String implements fmt.Stringer for log fields.
func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	case StateBanned:
		return "banned"
	case StateLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

// Session is the transient per-connection record. Nothing here survives a
// process restart; clients re-authenticate on every new connection.
type Session struct {
	ID          uuid.UUID
	IdentityID  uuid.UUID
	DisplayName string
	Role        model.Role

	mu    sync.Mutex
	state SessionState
	done  chan struct{}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session ends (logout or ban). Streaming handlers
// select on it to tear down immediately.
func (s *Session) Done() <-chan struct{} { return s.done }

// end moves the session to a terminal state exactly once.
func (s *Session) end(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return
	}
	s.state = state
	close(s.done)
}

// SessionManager is the in-memory session registry and token authority.
// A ban forces logout through RevokeIdentity; future authenticate calls fail
// at the identity service with ErrBanned until unbanned.
type SessionManager struct {
	signKey []byte
	ttl     time.Duration

	mu         sync.Mutex
	byID       map[uuid.UUID]*Session
	byIdentity map[uuid.UUID]map[uuid.UUID]*Session
}

// NewSessionManager constructs a session manager with an HS256 signing key
// and access token TTL.
func NewSessionManager(signKey []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{
		signKey:    signKey,
		ttl:        ttl,
		byID:       make(map[uuid.UUID]*Session),
		byIdentity: make(map[uuid.UUID]map[uuid.UUID]*Session),
	}
}

// Begin registers an authenticated session for the identity and returns the
// signed bearer token (Authenticating -> Authenticated).
func (m *SessionManager) Begin(ident *model.Identity) (*Session, string, error) {
	sid, err := uuid.NewV4()
	if err != nil {
		return nil, "", err
	}
	sess := &Session{
		ID:          sid,
		IdentityID:  ident.ID,
		DisplayName: ident.DisplayName,
		Role:        ident.Role,
		state:       StateAuthenticated,
		done:        make(chan struct{}),
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sid.String(),
		Subject:   ident.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.signKey)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	m.byID[sid] = sess
	set := m.byIdentity[ident.ID]
	if set == nil {
		set = make(map[uuid.UUID]*Session)
		m.byIdentity[ident.ID] = set
	}
	set[sid] = sess
	m.mu.Unlock()
	return sess, signed, nil
}

// Resolve verifies a bearer token and returns its live session. A token for
// a logged-out, banned or expired session resolves to ErrUnauthenticated.
func (m *SessionManager) Resolve(token string) (*Session, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errs.ErrUnauthenticated
	}
	v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
	if err := v.Validate(&claims); err != nil {
		return nil, errs.ErrUnauthenticated
	}
	sid, err := uuid.FromString(claims.ID)
	if err != nil {
		return nil, errs.ErrUnauthenticated
	}

	m.mu.Lock()
	sess, ok := m.byID[sid]
	m.mu.Unlock()
	if !ok || sess.State() != StateAuthenticated {
		return nil, errs.ErrUnauthenticated
	}
	return sess, nil
}

// Logout ends one session (Authenticated -> LoggedOut -> Unauthenticated).
func (m *SessionManager) Logout(sessionID uuid.UUID) {
	m.mu.Lock()
	sess, ok := m.byID[sessionID]
	if ok {
		m.remove(sess)
	}
	m.mu.Unlock()
	if ok {
		sess.end(StateLoggedOut)
	}
}

// RevokeIdentity ends every session of the identity (ban path,
// Authenticated -> Banned -> Unauthenticated) and reports how many were live.
func (m *SessionManager) RevokeIdentity(identityID uuid.UUID) int {
	m.mu.Lock()
	var ended []*Session
	for _, sess := range m.byIdentity[identityID] {
		m.remove(sess)
		ended = append(ended, sess)
	}
	m.mu.Unlock()

	for _, sess := range ended {
		sess.end(StateBanned)
	}
	return len(ended)
}

// remove drops the session from both indexes. Callers hold m.mu.
func (m *SessionManager) remove(sess *Session) {
	delete(m.byID, sess.ID)
	if set, ok := m.byIdentity[sess.IdentityID]; ok {
		delete(set, sess.ID)
		if len(set) == 0 {
			delete(m.byIdentity, sess.IdentityID)
		}
	}
}
