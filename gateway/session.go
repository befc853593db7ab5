package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/models"
)

// Session is one operator's authenticated connection to the backend
type Session struct {
	client       *Client
	accessToken  string
	refreshToken string
	identity     models.Identity
	expiresAt    time.Time
}

// CurrentIdentity returns a copy of the logged in identity, nil when the
// session has none
func (s *Session) CurrentIdentity() *models.Identity {
	if s == nil || s.identity.ID == "" {
		return nil
	}
	id := s.identity
	return &id
}

// ExpiresAt returns when the access token stops being accepted, the zero time
// when the token carries no expiry
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Invoke calls the named remote function with payload as its single argument
// and decodes the result into out. out may be nil when only success matters.
// Arguments and results travel as relaxed extended JSON, which keeps dates and
// ids typed across the wire.
func (s *Session) Invoke(ctx context.Context, name string, payload interface{}, out interface{}) error {
	if s.CurrentIdentity() == nil {
		return ErrUnauthenticated
	}

	call := bson.M{"name": name, "arguments": bson.A{payload}}
	body, err := bson.MarshalExtJSON(call, false, false)
	if err != nil {
		return fmt.Errorf("failed to encode arguments for %q: %w", name, err)
	}

	zap.S().Debugw("invoking remote function", "function", name, "userId", s.identity.ID)
	raw, err := s.client.send(ctx, name, http.MethodPost, s.client.functionsPath(), s.accessToken, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := bson.UnmarshalExtJSON(raw, false, out); err != nil {
		return fmt.Errorf("failed to decode result of %q: %w", name, err)
	}
	return nil
}

// Logout ends the session on the backend
func (s *Session) Logout(ctx context.Context) error {
	if s.refreshToken == "" {
		return nil
	}
	_, err := s.client.send(ctx, "auth/logout", http.MethodDelete, apiPrefix+"/auth/session", s.refreshToken, nil)
	return err
}

// tokenExpiry reads the exp claim of an access token. The backend signed the
// token, only it verifies signatures.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
