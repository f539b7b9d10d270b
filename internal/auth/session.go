package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sessionDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/session"
	"github.com/frahmantamala/ticketing/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid session token")
)

// SessionStore persists server-side session rows.
type SessionStore interface {
	Create(ctx context.Context, s *sessionDatamodel.Session) error
	// Lookup returns the username and current role of a live session.
	Lookup(ctx context.Context, id string, now time.Time) (username, role string, err error)
	Delete(ctx context.Context, id string) error
	DeleteByUsername(ctx context.Context, username string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// SessionClaims is the signed cookie payload. It carries only the opaque
// session id; the role is always read from storage.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type SessionManager struct {
	store  SessionStore
	cfg    SessionConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewSessionManager(store SessionStore, cfg SessionConfig, lg *slog.Logger) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "session_cookie_name"
	}
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &SessionManager{
		store:  store,
		cfg:    cfg,
		logger: lg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (m *SessionManager) CookieName() string {
	return m.cfg.CookieName
}

// Create opens a session for username and sets its cookie on w.
func (m *SessionManager) Create(ctx context.Context, w http.ResponseWriter, username string) error {
	id, err := GenerateRandomToken()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}

	now := m.now()
	expiresAt := now.Add(m.cfg.TTL)
	if err := m.store.Create(ctx, &sessionDatamodel.Session{
		ID:        id,
		Username:  username,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	token, err := m.sign(id, username, now, expiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve never fails: any problem with the cookie or session yields Anonymous.
func (m *SessionManager) Resolve(r *http.Request) Identity {
	sid, ok := m.sessionID(r)
	if !ok {
		return Anonymous
	}

	username, roleName, err := m.store.Lookup(r.Context(), sid, m.now())
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
		}
		return Anonymous
	}

	role, err := ParseRole(roleName)
	if err != nil {
		m.logger.WarnContext(r.Context(), "session user has unknown role", "username", username, "role", roleName)
		return Anonymous
	}
	return Identity{Username: username, Role: role}
}

// Destroy removes the server-side session, if any, and clears the cookie.
func (m *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if sid, ok := m.sessionID(r); ok {
		err = m.store.Delete(ctx, sid)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// RevokeUser ends every session of username.
func (m *SessionManager) RevokeUser(ctx context.Context, username string) error {
	return m.store.DeleteByUsername(ctx, username)
}

func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// Middleware resolves the caller and stores the Identity in the request context.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.Resolve(r)
		ctx := WithIdentity(r.Context(), id)
		if id.Authenticated() {
			ctx = logger.With(ctx, "username", id.Username, "role", id.Role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionManager) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	claims, err := m.parse(cookie.Value)
	if err != nil {
		m.logger.DebugContext(r.Context(), "rejected session cookie", "error", err)
		return "", false
	}
	return claims.SessionID, true
}

func (m *SessionManager) sign(id, username string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &SessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *SessionManager) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRandomToken returns 32 random bytes, hex encoded.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
