package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutMiddleware_Completes(t *testing.T) {
	h := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "yes", rr.Header().Get("X-Test"))
	assert.Equal(t, `{"ok":true}`, rr.Body.String())
}

func TestTimeoutMiddleware_Expires(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	h := TimeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Contains(t, rr.Body.String(), "Request timeout")
}

func TestTimeoutWriter_DropsLateWrites(t *testing.T) {
	tw := &timeoutWriter{header: make(http.Header), timedOut: true}

	_, err := tw.Write([]byte("late"))

	assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	assert.Zero(t, tw.buf.Len())
}
