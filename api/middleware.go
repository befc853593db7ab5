package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/session"
)

// Guard authenticates requests and binds them to an operator session.
// Credentials are checked by the backend, a successful basic login opens a
// session and bearer tokens issued afterwards point at it.
type Guard struct {
	Registry *session.Registry
	Backend  gateway.Authenticator

	authenticator auth.Authenticator
	// credentials caches basic logins by user name, entries point at an operator
	credentials store.Cache
}

// TokenResponse is returned when a bearer token is issued
type TokenResponse struct {
	Token     string           `json:"token"`
	ID        string           `json:"_id"`
	Session   string           `json:"session"`
	ExpiresAt *time.Time       `json:"expiresAt,omitempty"`
	Identity  *models.Identity `json:"identity"`
}

// NewGuard sets up go-guardian with a basic strategy backed by the backend
// login and a cached bearer strategy for issued tokens
func NewGuard(conf *config.Config, registry *session.Registry, backend gateway.Authenticator) *Guard {
	g := &Guard{Registry: registry, Backend: backend}

	g.credentials = store.NewFIFO(context.Background(), conf.CredentialCacheTTL)
	tokens := store.NewFIFO(context.Background(), conf.SessionTTL)

	g.authenticator = auth.New()
	g.authenticator.EnableStrategy(basic.StrategyKey, basic.New(g.ValidateUser, g.credentials))
	g.authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(bearer.NoOpAuthenticate, tokens))
	return g
}

// Middleware rejects requests without a live operator session
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, err := g.operator(r)
		if err != nil {
			zap.S().Warnw("unauthorized",
				"url", r.URL.String())
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		if op == nil {
			config.ErrorStatus("session expired, please log in again", http.StatusUnauthorized, w, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), op)))
	})
}

// operator authenticates r and returns its live operator, nil when the
// credentials are valid but the session is gone. A basic login whose cached
// entry outlived its session is validated against the backend again.
func (g *Guard) operator(r *http.Request) (*session.Operator, error) {
	info, err := g.authenticator.Authenticate(r)
	if err != nil {
		return nil, err
	}
	if op, ok := g.Registry.Get(info.ID()); ok {
		zap.S().Debugw("operator authenticated", "user", info.UserName(), "session", op.ID)
		return op, nil
	}

	if token, isBearer := bearerToken(r); isBearer {
		g.revoke(token, r)
		return nil, nil
	}
	name, _, isBasic := r.BasicAuth()
	if !isBasic {
		return nil, nil
	}
	g.forget(name, r)
	if info, err = g.authenticator.Authenticate(r); err != nil {
		return nil, err
	}
	op, _ := g.Registry.Get(info.ID())
	return op, nil
}

// ValidateUser logs the operator in against the backend and opens a session
func (g *Guard) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	account, err := g.Backend.LoginWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	op := g.Registry.Create(account)
	op.SetLogin(email)
	return auth.NewDefaultUser(email, op.ID, nil, nil), nil
}

// IssueToken creates a bearer token for the operator's session
func (g *Guard) IssueToken(r *http.Request, op *session.Operator) TokenResponse {
	identity := op.Identity()
	name := ""
	if identity != nil {
		name = identity.DisplayName()
	}

	token := uuid.New().String()
	tokenStrategy := g.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Append(tokenStrategy, token, auth.NewDefaultUser(name, op.ID, nil, nil), r); err != nil {
		zap.S().Errorw("failed to cache token", "session", op.ID, "error", err)
	}
	op.AddToken(token)

	resp := TokenResponse{Token: token, Session: op.ID, Identity: identity}
	if identity != nil {
		resp.ID = identity.ID
	}
	if exp := op.Account.ExpiresAt(); !exp.IsZero() {
		resp.ExpiresAt = &exp
	}
	return resp
}

// CreateToken returns a bearer token for the basic-authenticated operator
func (g *Guard) CreateToken(w http.ResponseWriter, r *http.Request) {
	op, ok := OperatorFrom(r.Context())
	if !ok {
		config.ErrorStatus("basic auth failed", http.StatusUnauthorized, w, gateway.ErrUnauthenticated)
		return
	}
	WriteJSON(w, http.StatusOK, g.IssueToken(r, op))
}

// RevokeToken logs the operator out, dropping the session and every token
// issued to it
func (g *Guard) RevokeToken(w http.ResponseWriter, r *http.Request) {
	reqToken, _ := bearerToken(r)
	if op, ok := OperatorFrom(r.Context()); ok {
		g.Registry.Remove(op.ID)
		g.End(r.Context(), op, r)
	} else if reqToken != "" {
		g.revoke(reqToken, r)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"revoked token": reqToken})
}

// End revokes the operator's tokens and cached basic login and logs its
// account out of the backend. The operator must already be removed from the
// registry.
func (g *Guard) End(ctx context.Context, op *session.Operator, r *http.Request) {
	for _, token := range op.Tokens() {
		g.revoke(token, r)
	}
	if login := op.Login(); login != "" {
		g.forget(login, r)
	}
	if err := op.Account.Logout(ctx); err != nil {
		zap.S().Warnw("failed to log out of backend", "session", op.ID, "error", err)
	}
}

func (g *Guard) revoke(token string, r *http.Request) {
	tokenStrategy := g.authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(tokenStrategy, token, r); err != nil {
		zap.S().Debugw("failed to revoke token", "error", err)
	}
}

// forget drops the cached basic login of name so the next basic request is
// checked by the backend
func (g *Guard) forget(name string, r *http.Request) {
	if err := g.credentials.Delete(name, r); err != nil {
		zap.S().Debugw("failed to drop cached login", "error", err)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), true
}
