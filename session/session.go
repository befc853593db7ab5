// Package session keeps logged in operators in memory. Each operator owns its
// gateway account and the stores and views built on it, nothing is shared
// between operators.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicdesk/complaint-dashboard/detail"
	"github.com/civicdesk/complaint-dashboard/filters"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/store"
)

// Mode selects which list the complaint view shows
type Mode string

// List modes
const (
	ModeAll      Mode = "all"
	ModeAssigned Mode = "assigned"
)

// Operator is one logged in dashboard user
type Operator struct {
	ID         string
	Account    gateway.Account
	Complaints *store.ComplaintStore
	Users      *store.UserStore
	Filters    *filters.Controller

	mu       sync.Mutex
	location *time.Location
	login    string
	tokens   []string
	mode     Mode
	views    map[string]*detail.View
	lastSeen time.Time
}

// NewOperator wires the stores and the filter controller to account
func NewOperator(account gateway.Account, pageSize int, now time.Time) *Operator {
	complaints := store.NewComplaintStore(account, pageSize)
	return &Operator{
		ID:         uuid.NewString(),
		Account:    account,
		Complaints: complaints,
		Users:      store.NewUserStore(account),
		Filters:    filters.NewController(complaints),
		mode:       ModeAll,
		views:      make(map[string]*detail.View),
		lastSeen:   now,
	}
}

// Identity returns the operator's backend identity
func (o *Operator) Identity() *models.Identity {
	return o.Account.CurrentIdentity()
}

// Login returns the user name the operator logged in with over basic auth,
// empty for other login flows
func (o *Operator) Login() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.login
}

// SetLogin records the basic auth user name
func (o *Operator) SetLogin(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.login = name
}

// Tokens returns the bearer tokens issued to the operator
func (o *Operator) Tokens() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.tokens...)
}

// AddToken records a bearer token issued to the operator
func (o *Operator) AddToken(token string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tokens = append(o.tokens, token)
}

// Mode returns the list currently shown
func (o *Operator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// SetMode switches lists. The page goes back to 1 when the mode changes.
func (o *Operator) SetMode(mode Mode) {
	o.mu.Lock()
	changed := o.mode != mode
	o.mode = mode
	o.mu.Unlock()
	if changed {
		o.Complaints.SetCurrentPage(1)
	}
}

// Refresh refetches the list of the current mode
func (o *Operator) Refresh(ctx context.Context) error {
	if o.Mode() == ModeAssigned {
		return o.Complaints.FetchAssignedComplaints(ctx)
	}
	return o.Complaints.FetchComplaints(ctx, o.Complaints.AppliedFilters())
}

// OpenView returns the detail view of a complaint, opening it if needed
func (o *Operator) OpenView(complaintID string) *detail.View {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.views[complaintID]
	if !ok {
		v = detail.NewView(complaintID, o.location)
		o.views[complaintID] = v
	}
	return v
}

// View returns an already open detail view
func (o *Operator) View(complaintID string) (*detail.View, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.views[complaintID]
	return v, ok
}

// CloseView discards the detail view of a complaint
func (o *Operator) CloseView(complaintID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.views, complaintID)
}

// Touch marks the operator as active at now
func (o *Operator) Touch(now time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if now.After(o.lastSeen) {
		o.lastSeen = now
	}
}

// LastSeen returns when the operator last made a request
func (o *Operator) LastSeen() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastSeen
}

// Expired reports whether the operator has been idle longer than ttl or the
// backend token has run out
func (o *Operator) Expired(now time.Time, ttl time.Duration) bool {
	if ttl > 0 && now.Sub(o.LastSeen()) > ttl {
		return true
	}
	exp := o.Account.ExpiresAt()
	return !exp.IsZero() && !now.Before(exp)
}
