package models

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError `json:"response"`
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// FormErrorResponse is returned when a form is rejected before any remote call,
// the form stays editable so the operator can retry
type FormErrorResponse struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}
