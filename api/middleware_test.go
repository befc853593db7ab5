package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/api/scheduler"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/gateway/mocks"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/session"
)

var identity = &models.Identity{ID: "op-1", Name: "Asha Rao", Email: "asha@city.gov"}

func newGuard(backend gateway.Authenticator) *api.Guard {
	conf := &config.Config{CredentialCacheTTL: time.Minute, SessionTTL: time.Hour}
	return api.NewGuard(conf, session.NewRegistry(10), backend)
}

// whoami echoes the session bound to the request
func whoami(w http.ResponseWriter, r *http.Request) {
	op, ok := api.OperatorFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"session": op.ID})
}

func loggedInAccount(t *testing.T) *mocks.Account {
	account := mocks.NewAccount(t)
	account.On("CurrentIdentity").Return(identity)
	account.On("ExpiresAt").Return(time.Time{}).Maybe()
	return account
}

func TestGuard_MiddlewareRejectsAnonymous(t *testing.T) {
	g := newGuard(mocks.NewAuthenticator(t))
	h := g.Middleware(http.HandlerFunc(whoami))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/complaints", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var body models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "unauthorized", body.Response.Message)
}

func TestGuard_BasicThenBearer(t *testing.T) {
	account := loggedInAccount(t)
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "asha@city.gov", "secret").Return(account, nil).Once()
	g := newGuard(backend)

	req := httptest.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("asha@city.gov", "secret")
	rr := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(g.CreateToken)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var token api.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
	assert.Equal(t, "op-1", token.ID)
	assert.Equal(t, identity, token.Identity)

	req = httptest.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rr = httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(whoami)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"session":"`+token.Session+`"}`, rr.Body.String())
}

func TestGuard_BadCredentials(t *testing.T) {
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "asha@city.gov", "nope").
		Return(nil, gateway.ErrInvalidCredentials)
	g := newGuard(backend)

	req := httptest.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("asha@city.gov", "nope")
	rr := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(g.CreateToken)).ServeHTTP(rr, req)

	// the cached entry rejects the password without reaching the backend
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, g.Registry.Len())
}

func TestGuard_SweptSession(t *testing.T) {
	account := loggedInAccount(t)
	g := newGuard(mocks.NewAuthenticator(t))
	op := g.Registry.Create(account)
	token := g.IssueToken(httptest.NewRequest("POST", "/", nil), op)

	// the sweeper drops the operator but the token is still cached
	g.Registry.Remove(op.ID)

	call := func() int {
		req := httptest.NewRequest("GET", "/api/v1/complaints", nil)
		req.Header.Set("Authorization", "Bearer "+token.Token)
		rr := httptest.NewRecorder()
		g.Middleware(http.HandlerFunc(whoami)).ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusUnauthorized, call())
	assert.Equal(t, http.StatusUnauthorized, call())
}

func TestGuard_End(t *testing.T) {
	account := loggedInAccount(t)
	account.On("Logout", mock.Anything).Return(nil).Once()
	g := newGuard(mocks.NewAuthenticator(t))
	op := g.Registry.Create(account)
	first := g.IssueToken(httptest.NewRequest("POST", "/", nil), op)
	second := g.IssueToken(httptest.NewRequest("POST", "/", nil), op)
	assert.NotEqual(t, first.Token, second.Token)

	g.Registry.Remove(op.ID)
	g.End(context.Background(), op, nil)

	// revoked tokens fail authentication instead of reaching the session lookup
	for _, tok := range []string{first.Token, second.Token} {
		req := httptest.NewRequest("GET", "/api/v1/complaints", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		g.Middleware(http.HandlerFunc(whoami)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		var body models.ErrorMessageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body.Response.Message)
	}
}

func TestGuard_RevokeToken(t *testing.T) {
	account := loggedInAccount(t)
	account.On("Logout", mock.Anything).Return(gateway.ErrUnauthenticated).Once()
	g := newGuard(mocks.NewAuthenticator(t))
	op := g.Registry.Create(account)
	token := g.IssueToken(httptest.NewRequest("POST", "/", nil), op)

	req := httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rr := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(g.RevokeToken)).ServeHTTP(rr, req)

	// a failed backend logout still ends the local session
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"revoked token":"`+token.Token+`"}`, rr.Body.String())
	assert.Equal(t, 0, g.Registry.Len())
}

func basicLogin(t *testing.T, g *api.Guard, email, password string) api.TokenResponse {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth(email, password)
	rr := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(g.CreateToken)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var token api.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
	return token
}

func TestGuard_ReloginAfterLogout(t *testing.T) {
	account := loggedInAccount(t)
	account.On("Logout", mock.Anything).Return(nil).Once()
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "asha@city.gov", "secret").Return(account, nil).Twice()
	g := newGuard(backend)

	first := basicLogin(t, g, "asha@city.gov", "secret")

	req := httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+first.Token)
	rr := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(g.RevokeToken)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 0, g.Registry.Len())

	second := basicLogin(t, g, "asha@city.gov", "secret")
	assert.NotEqual(t, first.Session, second.Session)
	assert.Equal(t, 1, g.Registry.Len())
}

func TestGuard_ReloginAfterSweep(t *testing.T) {
	account := loggedInAccount(t)
	account.On("Logout", mock.Anything).Return(nil).Once()
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "asha@city.gov", "secret").Return(account, nil).Twice()
	g := newGuard(backend)

	first := basicLogin(t, g, "asha@city.gov", "secret")

	s := scheduler.NewScheduler(g.Registry, time.Millisecond, time.Minute,
		func(ctx context.Context, op *session.Operator) { g.End(ctx, op, nil) })
	time.Sleep(5 * time.Millisecond)
	s.Sweep()
	require.Equal(t, 0, g.Registry.Len())

	second := basicLogin(t, g, "asha@city.gov", "secret")
	assert.NotEqual(t, first.Session, second.Session)
}

func TestGuard_StaleCachedLoginIsRevalidated(t *testing.T) {
	account := loggedInAccount(t)
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "asha@city.gov", "secret").Return(account, nil).Twice()
	g := newGuard(backend)

	first := basicLogin(t, g, "asha@city.gov", "secret")
	// dropped without going through End, the cached login still names it
	g.Registry.Remove(first.Session)

	second := basicLogin(t, g, "asha@city.gov", "secret")
	assert.NotEqual(t, first.Session, second.Session)
	_, ok := g.Registry.Get(second.Session)
	assert.True(t, ok)
}

func TestGuard_StaleCachedLoginWrongPassword(t *testing.T) {
	account := loggedInAccount(t)
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "asha@city.gov", "secret").Return(account, nil).Once()
	g := newGuard(backend)

	first := basicLogin(t, g, "asha@city.gov", "secret")
	g.Registry.Remove(first.Session)

	req := httptest.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("asha@city.gov", "guess")
	rr := httptest.NewRecorder()
	g.Middleware(http.HandlerFunc(g.CreateToken)).ServeHTTP(rr, req)

	// the cached entry rejects the password without reaching the backend
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, g.Registry.Len())
}
