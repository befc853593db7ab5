package models

// HealthCheckResponse is written by the health endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
