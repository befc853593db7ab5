// Package store holds the per-operator complaint and user state. Every remote
// action runs in three phases: pending sets the loading flag and clears the
// error, rejected records the error and keeps the data, fulfilled merges the
// result. The lock is only held inside a phase, never across a remote call.
package store

// Status is the loading/error pair shared by all actions of a store
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func (s *Status) pending() {
	s.Loading = true
	s.Error = ""
}

func (s *Status) rejected(err error) {
	s.Loading = false
	s.Error = err.Error()
}

func (s *Status) fulfilled() {
	s.Loading = false
	s.Error = ""
}
