package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/gateway/mocks"
	"github.com/civicdesk/complaint-dashboard/models"
)

func testConfig() config.Config {
	return config.Config{
		PageSize:             10,
		SessionTTL:           time.Hour,
		SessionSweepInterval: time.Minute,
		CredentialCacheTTL:   time.Minute,
		RequestTimeout:       5 * time.Second,
		AllowedOrigins:       []string{"*"},
		LoginRatePerMinute:   100,
		DisplayTimezone:      "UTC",
	}
}

func newApp(backend gateway.Authenticator) *App {
	a := &App{Config: testConfig(), Backend: backend}
	a.initializeRoutes()
	return a
}

func executeRequest(a *App, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Handler.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestUnknownRoute(t *testing.T) {
	a := newApp(mocks.NewAuthenticator(t))
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(a, req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a := newApp(mocks.NewAuthenticator(t))
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(a, req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	a := newApp(mocks.NewAuthenticator(t))
	req, _ := http.NewRequest("GET", "/metrics", nil)
	response := executeRequest(a, req)

	checkResponseCode(t, http.StatusOK, response.Code)
}

func TestApp_ComplaintsUnauthorized(t *testing.T) {
	a := newApp(mocks.NewAuthenticator(t))
	req, _ := http.NewRequest("GET", "/api/v1/complaints", nil)
	response := executeRequest(a, req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_ComplaintsUnknownToken(t *testing.T) {
	a := newApp(mocks.NewAuthenticator(t))
	req, _ := http.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer not-issued")
	response := executeRequest(a, req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_TokenRejectedCredentials(t *testing.T) {
	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "officer@city.gov", "wrong").
		Return(nil, gateway.ErrInvalidCredentials)
	a := newApp(backend)

	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("officer@city.gov", "wrong")
	response := executeRequest(a, req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
	assert.Equal(t, 0, a.Registry.Len())
}

func TestApp_LoginBrowseLogout(t *testing.T) {
	account := mocks.NewAccount(t)
	account.On("CurrentIdentity").Return(&models.Identity{ID: "op-1", Name: "Asha Rao", Email: "officer@city.gov"})
	account.On("ExpiresAt").Return(time.Time{})
	account.On("Invoke", mock.Anything, gateway.FunctionComplaints, mock.Anything, mock.Anything).
		Return(nil).Run(func(args mock.Arguments) {
		*args.Get(3).(*models.ComplaintPage) = models.ComplaintPage{
			Data:        []models.Complaint{{ID: "c1", Desc: "Broken pipe", City: "Pune"}},
			Total:       1,
			TotalPages:  1,
			CurrentPage: 1,
		}
	})
	account.On("Logout", mock.Anything).Return(nil).Once()

	backend := mocks.NewAuthenticator(t)
	backend.On("LoginWithPassword", mock.Anything, "officer@city.gov", "hunter2").Return(account, nil).Twice()
	a := newApp(backend)

	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("officer@city.gov", "hunter2")
	response := executeRequest(a, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var token api.TokenResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &token))
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "op-1", token.ID)
	assert.Nil(t, token.ExpiresAt)
	assert.Equal(t, 1, a.Registry.Len())

	req, _ = http.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	response = executeRequest(a, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	assert.NotEmpty(t, response.Header().Get(api.RequestIDHeader))

	var view ComplaintListView
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &view))
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Broken pipe...", view.Rows[0].Excerpt)

	req, _ = http.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	response = executeRequest(a, req)
	checkResponseCode(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"id":"op-1"`)

	req, _ = http.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	response = executeRequest(a, req)
	checkResponseCode(t, http.StatusOK, response.Code)
	assert.Equal(t, 0, a.Registry.Len())

	req, _ = http.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	response = executeRequest(a, req)
	checkResponseCode(t, http.StatusUnauthorized, response.Code)

	// the same credentials open a fresh session after logout
	req, _ = http.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("officer@city.gov", "hunter2")
	response = executeRequest(a, req)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var again api.TokenResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &again))
	assert.NotEqual(t, token.Session, again.Session)
	assert.Equal(t, 1, a.Registry.Len())
}
