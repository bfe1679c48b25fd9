package login

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/store/audit"
	"github.com/dalemusser/elaspodem/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/elaspodem/internal/app/store/users"
	"github.com/dalemusser/elaspodem/internal/app/system/auditlog"
	"github.com/dalemusser/elaspodem/internal/app/system/auth"
	"github.com/dalemusser/elaspodem/internal/app/system/authutil"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/dalemusser/elaspodem/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testPassword = "correct horse battery"

type fixture struct {
	db       *mongo.Database
	users    *userstore.Store
	sessions *auth.SessionManager
	handler  http.Handler
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, limiter func(*mongo.Database) *ratelimit.Store) fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef0123", "", "", time.Hour, false, zap.NewNop())
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	al := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.ModeLog})

	var rl *ratelimit.Store
	if limiter != nil {
		rl = limiter(db)
	}
	users := userstore.New(db)
	h := NewHandler(users, sm, rl, al, nil, zap.NewNop())
	return fixture{db: db, users: users, sessions: sm, handler: Routes(h), logs: logs}
}

func (f fixture) createUser(t *testing.T, email, role string, active bool) models.User {
	t.Helper()
	hash, err := authutil.HashPassword(testPassword)
	require.NoError(t, err)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := f.users.Create(ctx, models.User{
		Email:        email,
		DisplayName:  "Ana Souza",
		Role:         role,
		Active:       active,
		PasswordHash: &hash,
	})
	require.NoError(t, err)
	return u
}

func (f fixture) login(email, password string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/login",
		map[string]string{"email": email, "password": password}))
	return rec
}

func (f fixture) events(eventType string) int {
	return f.logs.FilterField(zap.String("event_type", eventType)).Len()
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, nil)
	u := f.createUser(t, "ana@elaspodem.org", models.RoleWriter, true)

	rec := f.login(" ANA@elaspodem.org", testPassword)
	rec.AssertStatus(t, http.StatusOK)

	var got UserView
	rec.DecodeJSON(t, &got)
	assert.Equal(t, u.ID.Hex(), got.User.ID)
	assert.Equal(t, "Ana Souza", got.User.Name)
	assert.Equal(t, models.RoleWriter, got.User.Role)
	assert.True(t, got.Permissions.CanEdit)
	assert.False(t, got.Permissions.CanPublish)
	assert.NotEmpty(t, rec.Result().Cookies(), "session cookie")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
	assert.Equal(t, 1, f.events(audit.EventLoginSuccess))
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "ana@elaspodem.org", models.RoleWriter, true)
	f.createUser(t, "bia@elaspodem.org", models.RoleAdmin, false)

	hash, err := authutil.HashPassword(testPassword)
	require.NoError(t, err)
	testutil.InsertDoc(t, f.db, userstore.Collection, bson.M{
		"_id":           primitive.NewObjectID(),
		"email":         "carla@elaspodem.org",
		"display_name":  "Carla",
		"role":          "editor",
		"active":        true,
		"password_hash": hash,
	})

	tests := []struct {
		name     string
		email    string
		password string
		status   int
		message  string
		event    string
	}{
		{"unknown email", "nobody@elaspodem.org", testPassword, http.StatusUnauthorized, authutil.MsgUserNotFound, audit.EventLoginFailedUserNotFound},
		{"wrong password", "ana@elaspodem.org", "not the password", http.StatusUnauthorized, authutil.MsgWrongPassword, audit.EventLoginFailedWrongPassword},
		{"disabled", "bia@elaspodem.org", testPassword, http.StatusForbidden, authutil.MsgUserDisabled, audit.EventLoginFailedUserDisabled},
		{"unknown role", "carla@elaspodem.org", testPassword, http.StatusForbidden, "invalid role: editor", audit.EventLoginFailedInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.login(tt.email, tt.password)
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.message)
			assert.Empty(t, rec.Result().Cookies())
			assert.Equal(t, 1, f.events(tt.event))
		})
	}
}

func TestLogin_Validation(t *testing.T) {
	f := newFixture(t, nil)

	f.login("not-an-email", "").AssertStatus(t, http.StatusUnprocessableEntity)

	rec := testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewJSONRequest(http.MethodPost, "/login", "{broken"))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestLogin_LocksOutAfterFailures(t *testing.T) {
	f := newFixture(t, func(db *mongo.Database) *ratelimit.Store {
		return ratelimit.New(db, ratelimit.Config{MaxAttempts: 2})
	})
	f.createUser(t, "ana@elaspodem.org", models.RoleWriter, true)

	f.login("ana@elaspodem.org", "wrong").AssertStatus(t, http.StatusUnauthorized)
	f.login("ana@elaspodem.org", "wrong").AssertStatus(t, http.StatusUnauthorized)

	rec := f.login("ana@elaspodem.org", testPassword)
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "Too many failed sign-in attempts")
	assert.Equal(t, 1, f.events(audit.EventLoginRateLimited))
}

func TestLogin_SuccessClearsAttempts(t *testing.T) {
	var rl *ratelimit.Store
	f := newFixture(t, func(db *mongo.Database) *ratelimit.Store {
		rl = ratelimit.New(db, ratelimit.Config{MaxAttempts: 3})
		return rl
	})
	f.createUser(t, "ana@elaspodem.org", models.RoleWriter, true)

	f.login("ana@elaspodem.org", "wrong").AssertStatus(t, http.StatusUnauthorized)
	f.login("ana@elaspodem.org", testPassword).AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	a, err := rl.GetAttempt(ctx, "ana@elaspodem.org")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestMeAndLogout(t *testing.T) {
	f := newFixture(t, nil)

	rec := testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)

	user := testutil.ModeratorUser()
	rec = testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/me", user))
	rec.AssertStatus(t, http.StatusOK)
	var got UserView
	rec.DecodeJSON(t, &got)
	assert.Equal(t, user.Email, got.User.Email)
	assert.Equal(t, "Moderator", got.RoleName)
	assert.True(t, got.Permissions.CanPublish)
	assert.True(t, got.Permissions.CanViewLogs)
	assert.False(t, got.Permissions.CanEdit)

	rec = testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", user))
	rec.AssertStatus(t, http.StatusNoContent)
	assert.Equal(t, 1, f.events(audit.EventLogout))

	rec = testutil.NewRecorder()
	f.handler.ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/logout"))
	rec.AssertStatus(t, http.StatusNoContent)
}

func TestSessionCookie_SignsInLaterRequests(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "ana@elaspodem.org", models.RoleAdmin, true)

	rec := f.login("ana@elaspodem.org", testPassword)
	rec.AssertStatus(t, http.StatusOK)

	app := f.sessions.LoadSessionUser(f.handler)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	me := testutil.NewRecorder()
	app.ServeHTTP(me, req)
	me.AssertStatus(t, http.StatusOK)
	me.AssertContains(t, "ana@elaspodem.org")
}

func TestCSRFToken(t *testing.T) {
	f := newFixture(t, nil)
	protected := testutil.CSRFProtect(f.handler)

	rec := testutil.NewRecorder()
	protected.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/csrf"))
	rec.AssertStatus(t, http.StatusOK)

	var got map[string]string
	rec.DecodeJSON(t, &got)
	require.NotEmpty(t, got["token"])
	assert.Equal(t, got["token"], rec.Header().Get("X-CSRF-Token"))
	assert.False(t, strings.ContainsAny(got["token"], " \n"))
}

func TestCSRF_UnsafeRequestsNeedToken(t *testing.T) {
	f := newFixture(t, nil)
	protected := testutil.CSRFProtect(f.handler)
	user := testutil.AdminUser()

	rec := testutil.NewRecorder()
	protected.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", user))
	rec.AssertStatus(t, http.StatusForbidden)

	token, cookies := testutil.FetchCSRF(t, protected, "/csrf")
	rec = testutil.NewRecorder()
	req := testutil.WithCSRF(testutil.NewAuthenticatedRequest(http.MethodPost, "/logout", user), token, cookies)
	protected.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)
}
