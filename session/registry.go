package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/gateway"
)

// Registry maps session ids to operators
type Registry struct {
	// Location is the zone operators work in, handed to their detail views
	Location *time.Location

	mu        sync.RWMutex
	operators map[string]*Operator
	pageSize  int
	now       func() time.Time
}

// NewRegistry returns an empty registry whose stores page by pageSize
func NewRegistry(pageSize int) *Registry {
	return &Registry{
		operators: make(map[string]*Operator),
		pageSize:  pageSize,
		now:       time.Now,
	}
}

// Create registers a new operator for a logged in account
func (r *Registry) Create(account gateway.Account) *Operator {
	op := NewOperator(account, r.pageSize, r.now())
	op.location = r.Location

	r.mu.Lock()
	r.operators[op.ID] = op
	r.mu.Unlock()

	if id := account.CurrentIdentity(); id != nil {
		zap.S().Infow("operator session created", "session", op.ID, "userId", id.ID)
	}
	return op
}

// Get returns the operator and marks it active
func (r *Registry) Get(id string) (*Operator, bool) {
	r.mu.RLock()
	op, ok := r.operators[id]
	r.mu.RUnlock()
	if ok {
		op.Touch(r.now())
	}
	return op, ok
}

// Remove drops the operator and returns it
func (r *Registry) Remove(id string) (*Operator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.operators[id]
	delete(r.operators, id)
	return op, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operators)
}

// Sweep removes operators idle longer than ttl or whose backend token has
// expired, and returns them so the caller can revoke their tokens
func (r *Registry) Sweep(ttl time.Duration) []*Operator {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []*Operator
	for id, op := range r.operators {
		if op.Expired(now, ttl) {
			delete(r.operators, id)
			evicted = append(evicted, op)
		}
	}
	return evicted
}
