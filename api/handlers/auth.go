package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/session"
)

// Auth exported for testing purposes
type Auth struct {
	Guard    *api.Guard
	Backend  gateway.Authenticator
	Registry *session.Registry
}

// OTPRequest is the body of the one time password endpoints
type OTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp,omitempty"`
}

// SendOTPHandler asks the backend to send a one time password to a phone
func (h Auth) SendOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		writeFormError(w, "phone", "Please enter a contact number")
		return
	}

	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()

	if err := h.Backend.SendOTP(ctx, req.Phone); err != nil {
		config.ErrorStatus("failed to send otp", authStatus(err), w, err)
		return
	}
	api.WriteJSON(w, http.StatusAccepted, map[string]bool{"sent": true})
}

// VerifyOTPHandler logs in with a phone and one time password and returns a
// bearer token
func (h Auth) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req OTPRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)
	if req.Phone == "" {
		writeFormError(w, "phone", "Please enter a contact number")
		return
	}
	if req.OTP == "" {
		writeFormError(w, "otp", "Please enter the OTP")
		return
	}

	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()

	account, err := h.Backend.LoginWithOTP(ctx, req.Phone, req.OTP)
	if err != nil {
		config.ErrorStatus("failed to verify otp", authStatus(err), w, err)
		return
	}
	op := h.Registry.Create(account)
	api.WriteJSON(w, http.StatusOK, h.Guard.IssueToken(r, op))
}

// MeHandler returns the logged in identity
func (h Auth) MeHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := api.OperatorFrom(r.Context())
	if !ok || op.Identity() == nil {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, gateway.ErrUnauthenticated)
		return
	}
	zap.S().Debugw("identity requested", "session", op.ID)
	api.WriteJSON(w, http.StatusOK, op.Identity())
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, gateway.ErrInvalidCredentials), errors.Is(err, gateway.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, gateway.ErrMissingCredentials):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeFormError(w http.ResponseWriter, field, message string) {
	api.WriteJSON(w, http.StatusBadRequest, models.FormErrorResponse{Field: field, Message: message})
}
