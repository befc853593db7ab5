// Package docs Complaint Dashboard API.
//
// Documentation of the Complaint Dashboard API. Every /api/v1 route except the
// OTP endpoints needs a bearer token issued by /api/v1/auth/token.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//     - bearer
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/api/handlers"
	"github.com/civicdesk/complaint-dashboard/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/v1/auth/token auth createToken
// Logs in with email and password and issues a bearer token.
// responses:
//   200: tokenResponse
//   401: errorResponse

// swagger:route POST /api/v1/auth/otp/verify auth verifyOTP
// Logs in with a phone number and one time password.
// responses:
//   200: tokenResponse
//   400: formErrorResponse

// A bearer token bound to an operator session
// swagger:response tokenResponse
type tokenResponseWrapper struct {
	// in:body
	Body api.TokenResponse
}

// swagger:route GET /api/v1/complaints complaints complaintList
// Fetches the current page of complaints with the applied filters.
// responses:
//   200: complaintListResponse

// swagger:route GET /api/v1/complaints/assigned complaints assignedComplaintList
// Fetches the current page of complaints assigned to the caller.
// responses:
//   200: complaintListResponse

// The complaint list with its filters, chips and pagination
// swagger:response complaintListResponse
type complaintListResponseWrapper struct {
	// in:body
	Body handlers.ComplaintListView
}

// swagger:route GET /api/v1/complaints/{complaint_id} complaints complaintByID
// Opens the detail modal of a complaint in the current list.
// responses:
//   200: complaintDetailResponse
//   404: errorResponse

// swagger:route POST /api/v1/complaints/{complaint_id}/updates complaints addUpdate
// Appends an update to a complaint.
// responses:
//   201: complaintDetailResponse
//   400: formErrorResponse
//   502: errorResponse

// The detail modal of one complaint
// swagger:response complaintDetailResponse
type complaintDetailResponseWrapper struct {
	// in:body
	Body handlers.ComplaintDetailView
}

// swagger:route GET /api/v1/users users userList
// Lists the user directory.
// responses:
//   200: userListResponse

// The user directory
// swagger:response userListResponse
type userListResponseWrapper struct {
	// in:body
	Body handlers.UserDirectoryView
}

// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}

// A validation message for one form field
// swagger:response formErrorResponse
type formErrorResponseWrapper struct {
	// in:body
	Body models.FormErrorResponse
}
