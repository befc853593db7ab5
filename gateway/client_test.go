package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
)

const appID = "dashboard-abcde"

type functionCall struct {
	Name      string   `bson:"name"`
	Arguments []bson.M `bson:"arguments"`
}

type fakeBackend struct {
	server   *httptest.Server
	expiry   time.Time
	calls    []functionCall
	loggedIn bool
	otpPhone string
}

func accessToken(t *testing.T, exp time.Time) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	fb := &fakeBackend{expiry: time.Now().Add(30 * time.Minute).Truncate(time.Second)}
	token := accessToken(t, fb.expiry)
	prefix := "/api/client/v2.0/app/" + appID

	r := mux.NewRouter()
	r.HandleFunc(prefix+"/auth/providers/local-userpass/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] != "officer@city.gov" || creds["password"] != "hunter2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username/password", "error_code": "InvalidPassword"})
			return
		}
		fb.loggedIn = true
		writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "refresh_token": "refresh-1", "user_id": "operator-1"})
	}).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/auth/providers/whatsapp/send-otp", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fb.otpPhone = body["phone"]
		writeJSON(w, http.StatusOK, map[string]string{})
	}).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/auth/providers/whatsapp/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["otp"] != "123456" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "otp mismatch"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "refresh_token": "refresh-2", "user_id": "operator-1"})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/client/v2.0/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user_id":     "operator-1",
			"data":        map[string]string{"name": "Asha Rao", "email": "officer@city.gov"},
			"custom_data": map[string]string{"userType": models.RoleMCEmployee},
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/client/v2.0/auth/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer refresh-1" {
			fb.loggedIn = false
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	r.HandleFunc(prefix+"/functions/call", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var call functionCall
		require.NoError(t, bson.UnmarshalExtJSON(raw, false, &call))
		fb.calls = append(fb.calls, call)

		switch call.Name {
		case gateway.FunctionComplaints:
			body, err := bson.MarshalExtJSON(bson.M{
				"data": bson.A{bson.M{
					"_id":     "c1",
					"desc":    "Garbage pile near the market",
					"strCode": "0001",
					"status":  "",
					"plan":    "free",
					"date":    time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC),
					"updates": bson.A{bson.M{"message": "Noted", "date": "03/10/2024"}},
				}},
				"total":       41,
				"totalPages":  5,
				"currentPage": 2,
			}, false, false)
			require.NoError(t, err)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(body)
		case gateway.FunctionAppendUpdate:
			writeJSON(w, http.StatusOK, map[string]bool{"acknowledged": true})
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "function not found: '" + call.Name + "'", "error_code": "FunctionNotFound"})
		}
	}).Methods(http.MethodPost)

	fb.server = httptest.NewServer(r)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) client() *gateway.Client {
	return gateway.NewClient(&config.Config{
		BackendURL:     fb.server.URL,
		BackendAppID:   appID,
		BackendTimeout: 5 * time.Second,
	})
}

func TestClient_LoginWithPassword(t *testing.T) {
	fb := newFakeBackend(t)

	account, err := fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "hunter2")
	require.NoError(t, err)

	identity := account.CurrentIdentity()
	require.NotNil(t, identity)
	assert.Equal(t, "operator-1", identity.ID)
	assert.Equal(t, "Asha Rao", identity.Name)
	assert.Equal(t, "officer@city.gov", identity.Email)
	assert.Equal(t, models.RoleMCEmployee, identity.Role())
	assert.True(t, fb.expiry.Equal(account.ExpiresAt()))
}

func TestClient_LoginWithPasswordRejected(t *testing.T) {
	fb := newFakeBackend(t)

	account, err := fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "wrong")
	assert.Nil(t, account)
	assert.ErrorIs(t, err, gateway.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "invalid username/password")
}

func TestClient_LoginWithPasswordMissingFields(t *testing.T) {
	fb := newFakeBackend(t)

	_, err := fb.client().LoginWithPassword(context.Background(), "", "hunter2")
	assert.ErrorIs(t, err, gateway.ErrMissingCredentials)
	_, err = fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "")
	assert.ErrorIs(t, err, gateway.ErrMissingCredentials)
}

func TestClient_OTPFlow(t *testing.T) {
	fb := newFakeBackend(t)
	c := fb.client()

	require.NoError(t, c.SendOTP(context.Background(), "+919800000000"))
	assert.Equal(t, "+919800000000", fb.otpPhone)

	_, err := c.LoginWithOTP(context.Background(), "+919800000000", "000000")
	assert.ErrorIs(t, err, gateway.ErrInvalidCredentials)

	account, err := c.LoginWithOTP(context.Background(), "+919800000000", "123456")
	require.NoError(t, err)
	assert.Equal(t, "operator-1", account.CurrentIdentity().ID)

	assert.ErrorIs(t, c.SendOTP(context.Background(), ""), gateway.ErrMissingCredentials)
	_, err = c.LoginWithOTP(context.Background(), "+919800000000", "")
	assert.ErrorIs(t, err, gateway.ErrMissingCredentials)
}

func TestSession_InvokeDecodesExtendedJSON(t *testing.T) {
	fb := newFakeBackend(t)
	account, err := fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "hunter2")
	require.NoError(t, err)

	page, err := gateway.NewComplaintFunctions(account).Find(context.Background(), map[string]interface{}{
		"city":  "Pune",
		"page":  2,
		"limit": 10,
	})
	require.NoError(t, err)

	require.Len(t, fb.calls, 1)
	assert.Equal(t, gateway.FunctionComplaints, fb.calls[0].Name)
	require.Len(t, fb.calls[0].Arguments, 1)
	assert.Equal(t, "Pune", fb.calls[0].Arguments[0]["city"])
	assert.EqualValues(t, 2, fb.calls[0].Arguments[0]["page"])

	assert.Equal(t, 41, page.Total)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "c1", page.Data[0].ID)
	assert.True(t, time.Date(2024, 3, 9, 10, 30, 0, 0, time.UTC).Equal(page.Data[0].Date))
	require.Len(t, page.Data[0].Updates, 1)
	assert.Equal(t, "03/10/2024", page.Data[0].Updates[0].Date)
}

func TestSession_InvokeAcknowledgement(t *testing.T) {
	fb := newFakeBackend(t)
	account, err := fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "hunter2")
	require.NoError(t, err)

	err = gateway.NewComplaintFunctions(account).AppendUpdate(context.Background(), gateway.UpdateRequest{
		ID: "c1", Date: "03/11/2024", Message: "Please delete", Request: models.RequestDelete,
	})
	require.NoError(t, err)
	require.Len(t, fb.calls, 1)
	assert.Equal(t, "delete", fb.calls[0].Arguments[0]["request"])
}

func TestSession_InvokeRemoteFailure(t *testing.T) {
	fb := newFakeBackend(t)
	account, err := fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "hunter2")
	require.NoError(t, err)

	err = account.Invoke(context.Background(), "nope", map[string]interface{}{}, nil)
	require.Error(t, err)
	assert.True(t, gateway.IsRemoteError(err))

	var re *gateway.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "nope", re.Function)
	assert.Equal(t, http.StatusBadRequest, re.StatusCode)
	assert.Equal(t, "function not found: 'nope'", re.Message)
}

func TestSession_InvokeWithoutIdentity(t *testing.T) {
	var s gateway.Session
	assert.Nil(t, s.CurrentIdentity())
	assert.ErrorIs(t, s.Invoke(context.Background(), gateway.FunctionUsers, nil, nil), gateway.ErrUnauthenticated)
}

func TestSession_Logout(t *testing.T) {
	fb := newFakeBackend(t)
	account, err := fb.client().LoginWithPassword(context.Background(), "officer@city.gov", "hunter2")
	require.NoError(t, err)
	require.True(t, fb.loggedIn)

	require.NoError(t, account.Logout(context.Background()))
	assert.False(t, fb.loggedIn)
}
