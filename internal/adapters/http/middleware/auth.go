package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	clientContextKey contextKey = "client"
	adminContextKey  contextKey = "admin"
)

// Principal kinds held by the session store.
const (
	KindClient = "client"
	KindAdmin  = "admin"
)

// Session represents one authenticated principal. A browser can hold a
// client session and an admin session at the same time, on separate cookies.
type Session struct {
	Kind      string
	CreatedAt time.Time

	// Client principal
	TCode       string
	CompanyName string

	// Admin principal
	AccountID string
	Email     string
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
	}
}

// CreateClient stores a new client session and returns the token.
// PRE: tCode is normalized and was validated at login
// POST: Session is stored, token is returned
func (ss *SessionStore) CreateClient(tCode, companyName string) (string, error) {
	return ss.create(Session{
		Kind:        KindClient,
		TCode:       tCode,
		CompanyName: companyName,
		CreatedAt:   time.Now(),
	})
}

// CreateAdmin stores a new admin session and returns the token.
// PRE: accountID passed the membership check at login
// POST: Session is stored, token is returned
func (ss *SessionStore) CreateAdmin(accountID, email string) (string, error) {
	return ss.create(Session{
		Kind:      KindAdmin,
		AccountID: accountID,
		Email:     email,
		CreatedAt: time.Now(),
	})
}

func (ss *SessionStore) create(s Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = s
	return token, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	// Expired entries are deleted inline, so Get needs the write lock.
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	// Sessions expire after 24 hours
	if time.Since(session.CreatedAt) > 24*time.Hour {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Cookie names for the two principals.
const (
	ClientCookieName = "portal_client_session"
	AdminCookieName  = "portal_admin_session"
)

// SecureCookies controls the Secure flag on session cookies. Set true in
// production.
var SecureCookies = false

// Auth returns middleware that extracts both session cookies and sets the
// principals in context. It does NOT block unauthenticated requests; use
// RequireClient or RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cookie, err := r.Cookie(ClientCookieName); err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok && session.Kind == KindClient {
					ctx = context.WithValue(ctx, clientContextKey, session)
				}
			}
			if cookie, err := r.Cookie(AdminCookieName); err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok && session.Kind == KindAdmin {
					ctx = context.WithValue(ctx, adminContextKey, session)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireClient returns middleware that blocks requests without a client session.
func RequireClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClientSession(r.Context()); !ok {
			http.Error(w, `{"error":"client session required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns middleware that blocks requests without an admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetAdminSession(r.Context()); !ok {
			http.Error(w, `{"error":"admin session required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientSession extracts the client principal from the request context.
func GetClientSession(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(clientContextKey).(Session)
	return session, ok
}

// GetAdminSession extracts the admin principal from the request context.
func GetAdminSession(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(adminContextKey).(Session)
	return session, ok
}

// SetSessionCookie sets a session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   86400, // 24 hours
	})
}

// ClearSessionCookie removes a session cookie.
func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// ContextWithClientSession returns a context with the given client session set.
// Intended for use in tests.
func ContextWithClientSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, clientContextKey, sess)
}

// ContextWithAdminSession returns a context with the given admin session set.
// Intended for use in tests.
func ContextWithAdminSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, adminContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
