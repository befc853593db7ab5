package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
)

// UserState is a point in time copy of the user store
type UserState struct {
	Users []models.User `json:"users"`
	// Loaded is set once a fetch has succeeded
	Loaded bool `json:"loaded"`
	Status
}

// UserStore holds one operator's copy of the user directory
type UserStore struct {
	mu        sync.Mutex
	functions gateway.UserFunctions
	state     UserState
	fetchSeq  uint64
}

// NewUserStore returns an empty user store reading through gw
func NewUserStore(gw gateway.Gateway) *UserStore {
	return &UserStore{
		functions: gateway.NewUserFunctions(gw),
		state:     UserState{Users: []models.User{}},
	}
}

// FetchUsers replaces the whole directory, a failure keeps the previous one
func (s *UserStore) FetchUsers(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.state.pending()
	s.mu.Unlock()

	users, err := s.functions.Find(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		return err
	}
	if err != nil {
		zap.S().Warnw("failed to fetch users", "error", err)
		s.state.rejected(err)
		return err
	}
	s.state.fulfilled()
	s.state.Loaded = true
	s.state.Users = users
	if s.state.Users == nil {
		s.state.Users = []models.User{}
	}
	return nil
}

// Find returns a copy of the user whose id or object id matches
func (s *UserStore) Find(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.state.Users {
		if u.ID == id || u.ObjectID == id {
			return copyUser(u), true
		}
	}
	return models.User{}, false
}

// ClearError drops the current error
func (s *UserStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Snapshot returns a deep copy of the state
func (s *UserStore) Snapshot() UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Users = make([]models.User, len(s.state.Users))
	for i, u := range s.state.Users {
		out.Users[i] = copyUser(u)
	}
	return out
}

func copyUser(u models.User) models.User {
	if u.Providers != nil {
		u.Providers = append([]string(nil), u.Providers...)
	}
	return u
}
