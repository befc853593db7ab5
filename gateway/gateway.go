// Package gateway is the only way the dashboard reaches the backend-as-a-service:
// it logs operators in and invokes named remote functions on their behalf.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/civicdesk/complaint-dashboard/models"
)

// go generate: mockery --name Gateway
// go generate: mockery --name Account
// go generate: mockery --name Authenticator

// Gateway exposes the authenticated identity and remote function invocation.
// Calls are never retried, a failure is returned once to the caller.
type Gateway interface {
	CurrentIdentity() *models.Identity
	Invoke(ctx context.Context, name string, payload interface{}, out interface{}) error
}

// Account is a logged in operator's gateway plus the session housekeeping the
// dashboard needs
type Account interface {
	Gateway
	ExpiresAt() time.Time
	Logout(ctx context.Context) error
}

// Authenticator runs the credential flows of the backend's identity provider
type Authenticator interface {
	LoginWithPassword(ctx context.Context, email, password string) (Account, error)
	SendOTP(ctx context.Context, phone string) error
	LoginWithOTP(ctx context.Context, phone, otp string) (Account, error)
}

var (
	// ErrUnauthenticated is returned when an action needs an identity and there is none
	ErrUnauthenticated = errors.New("user not authenticated")
	// ErrInvalidCredentials is returned when the identity provider rejects a login
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingCredentials is returned when a login is attempted with empty fields
	ErrMissingCredentials = errors.New("missing credentials")
)

// RemoteError describes a failed remote call
type RemoteError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote function %q failed with status %d", e.Function, e.StatusCode)
	}
	return fmt.Sprintf("remote function %q failed: %s", e.Function, e.Message)
}

// IsRemoteError reports whether err came back from the backend
func IsRemoteError(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
