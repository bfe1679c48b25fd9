// internal/app/system/auth/session.go
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultSessionName is the cookie name used when none is configured.
const DefaultSessionName = "elaspodem-session"

// minKeyLen is the shortest session key accepted with secure cookies.
const minKeyLen = 32

// Session key problems reported by NewSessionManager.
var (
	ErrNoSessionKey   = errors.New("session key is empty; provide 32 or more random characters")
	ErrWeakSessionKey = errors.New("session key is too weak for secure cookies; provide 32 or more random characters that are not a placeholder")
)

// Cookie values. A session is signed in when it holds a user id.
const (
	keyUserID = "uid"
	keyEmail  = "email"
	keyRole   = "role"
)

// SessionManager owns the admin session cookie.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	logger  *zap.Logger
}

// NewSessionManager builds the cookie store. With secure set, cookies are
// Secure and a short or placeholder key is an error; otherwise such a key is
// only logged.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		return nil, ErrNoSessionKey
	}
	if weakKey(key) {
		if secure {
			return nil, ErrWeakSessionKey
		}
		logger.Warn("weak session key; use 32+ random characters in production", zap.Int("length", len(key)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(maxAge / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	logger.Info("session cookie configured",
		zap.String("name", name),
		zap.String("domain", domain),
		zap.Bool("secure", secure),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, logger: logger}, nil
}

// Name returns the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// SetUserFetcher makes LoadSessionUser re-read the user on each request.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// CreateSession signs the user in on w.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, email, role string) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		// A stale or foreign cookie; replace it.
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values[keyUserID] = userID.Hex()
	sess.Values[keyEmail] = email
	sess.Values[keyRole] = role
	return sess.Save(r, w)
}

// DestroySession expires the session cookie.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	clearSession(sess)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

// LoadSessionUser is middleware that puts the signed-in user into the
// request context. With a UserFetcher set the user is re-read each time, so
// role changes and deactivation apply on the next request; a user the
// fetcher rejects is signed out.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			level, reason := sessionErrorLevel(err)
			sm.logger.Check(level, "session cookie rejected, starting fresh").Write(
				zap.String("reason", reason),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr))
		}

		uid := stringValue(sess, keyUserID)
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.fetcher == nil {
			next.ServeHTTP(w, withUser(r, &SessionUser{
				ID:    uid,
				Email: stringValue(sess, keyEmail),
				Role:  stringValue(sess, keyRole),
			}))
			return
		}

		u := sm.fetcher.FetchUser(r.Context(), uid)
		if u == nil {
			sm.logger.Info("session ended: user missing, disabled or without a known role",
				zap.String("user_id", uid), zap.String("path", r.URL.Path))
			clearSession(sess)
			_ = sess.Save(r, w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

func stringValue(sess *sessions.Session, key string) string {
	if sess == nil {
		return ""
	}
	s, _ := sess.Values[key].(string)
	return s
}

func clearSession(sess *sessions.Session) {
	for _, k := range []string{keyUserID, keyEmail, keyRole} {
		delete(sess.Values, k)
	}
}

var placeholderKeyWords = []string{
	"dev-only", "change-me", "changeme", "placeholder", "default",
	"example", "insecure", "test-key", "secret123", "password",
}

// weakKey reports a key that is short or looks like a placeholder.
func weakKey(key string) bool {
	if len(key) < minKeyLen {
		return true
	}
	lower := strings.ToLower(key)
	for _, w := range placeholderKeyWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// sessionErrorLevel picks the log level for a cookie that failed to load.
// Expiry is routine; a bad MAC may be tampering.
func sessionErrorLevel(err error) (zapcore.Level, string) {
	var sc securecookie.Error
	if !errors.As(err, &sc) {
		return zapcore.ErrorLevel, "store"
	}
	if !sc.IsDecode() {
		return zapcore.ErrorLevel, "internal"
	}
	msg := strings.ToLower(sc.Error())
	switch {
	case strings.Contains(msg, "expired"):
		return zapcore.DebugLevel, "expired"
	case strings.Contains(msg, "not valid"), strings.Contains(msg, "mac"):
		return zapcore.WarnLevel, "mac_invalid"
	default:
		return zapcore.InfoLevel, "undecodable"
	}
}
