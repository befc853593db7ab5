package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/models"
)

const apiPrefix = "/api/client/v2.0"

// Client talks to one backend app. It is shared by every operator, each login
// produces an Account that carries that operator's tokens.
type Client struct {
	appID string
	rest  *resty.Client
}

// NewClient uses the values from the config and returns a backend client
func NewClient(conf *config.Config) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(conf.BackendURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(conf.BackendTimeout)

	return &Client{appID: conf.BackendAppID, rest: rest}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

type profileResponse struct {
	UserID string `json:"user_id"`
	Data   struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
	CustomData models.IdentityCustomData `json:"custom_data"`
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

// LoginWithPassword runs the email/password credential flow
func (c *Client) LoginWithPassword(ctx context.Context, email, password string) (Account, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	return c.login(ctx, "local-userpass", map[string]string{
		"username": email,
		"password": password,
	})
}

// SendOTP asks the identity provider to deliver a one time password to phone
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	if phone == "" {
		return ErrMissingCredentials
	}
	_, err := c.send(ctx, "auth/send-otp", http.MethodPost, c.providerPath("whatsapp", "send-otp"), "",
		map[string]string{"phone": phone})
	return err
}

// LoginWithOTP runs the phone + one time password credential flow
func (c *Client) LoginWithOTP(ctx context.Context, phone, otp string) (Account, error) {
	if phone == "" || otp == "" {
		return nil, ErrMissingCredentials
	}
	return c.login(ctx, "whatsapp", map[string]string{
		"phone": phone,
		"otp":   otp,
	})
}

func (c *Client) login(ctx context.Context, provider string, credentials map[string]string) (Account, error) {
	body, err := c.send(ctx, "auth/login", http.MethodPost, c.providerPath(provider, "login"), "", credentials)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && (re.StatusCode == http.StatusUnauthorized || re.StatusCode == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, re.Message)
		}
		return nil, err
	}

	var tokens tokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token issued", ErrInvalidCredentials)
	}

	body, err = c.send(ctx, "auth/profile", http.MethodGet, apiPrefix+"/auth/profile", tokens.AccessToken, nil)
	if err != nil {
		return nil, err
	}
	var profile profileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	identity := models.Identity{
		ID:         profile.UserID,
		Name:       profile.Data.Name,
		Email:      profile.Data.Email,
		CustomData: profile.CustomData,
	}
	if identity.ID == "" {
		identity.ID = tokens.UserID
	}

	zap.S().Infow("operator logged in",
		"provider", provider,
		"userId", identity.ID,
		"userType", identity.CustomData.UserType)

	return &Session{
		client:       c,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
		identity:     identity,
		expiresAt:    tokenExpiry(tokens.AccessToken),
	}, nil
}

func (c *Client) providerPath(provider, action string) string {
	return fmt.Sprintf("%s/app/%s/auth/providers/%s/%s", apiPrefix, c.appID, provider, action)
}

func (c *Client) functionsPath() string {
	return fmt.Sprintf("%s/app/%s/functions/call", apiPrefix, c.appID)
}

// send performs one request and returns the raw body of a successful response.
// name labels the call in metrics and errors.
func (c *Client) send(ctx context.Context, name, method, path, token string, body interface{}) ([]byte, error) {
	start := time.Now()
	req := c.rest.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		err = &RemoteError{Function: name, Message: err.Error()}
	} else if resp.IsError() {
		err = remoteError(name, resp)
	}
	observeCall(name, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func remoteError(name string, resp *resty.Response) *RemoteError {
	re := &RemoteError{Function: name, StatusCode: resp.StatusCode()}
	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		re.Message = body.Error
	}
	return re
}
