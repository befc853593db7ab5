package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/filters"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/pagination"
)

// Pagination is the cursor of the complaint list
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

// ComplaintState is a point in time copy of the complaint store
type ComplaintState struct {
	Complaints []models.Complaint `json:"complaints"`
	// Filters is the filter set sent with the last list request
	Filters        filters.Set `json:"filters"`
	AppliedFilters filters.Set `json:"appliedFilters"`
	Pagination     Pagination  `json:"pagination"`
	Status
}

// ComplaintStore holds one operator's complaint list. Loading and error are
// shared by every complaint action, so a failing update also marks the list
// as failed.
type ComplaintStore struct {
	mu        sync.Mutex
	gw        gateway.Gateway
	functions gateway.ComplaintFunctions
	state     ComplaintState
	// fetchSeq numbers list requests, only the latest one may land
	fetchSeq uint64
}

// NewComplaintStore returns an empty store reading complaints through gw
func NewComplaintStore(gw gateway.Gateway, pageSize int) *ComplaintStore {
	if pageSize < 1 {
		pageSize = 10
	}
	return &ComplaintStore{
		gw:        gw,
		functions: gateway.NewComplaintFunctions(gw),
		state: ComplaintState{
			Complaints:     []models.Complaint{},
			Filters:        filters.Set{},
			AppliedFilters: filters.Set{},
			Pagination:     Pagination{CurrentPage: 1, ItemsPerPage: pageSize},
		},
	}
}

// FetchComplaints loads the current page of complaints matching set. Only the
// recognized non-empty keys of set are sent.
func (s *ComplaintStore) FetchComplaints(ctx context.Context, set filters.Set) error {
	payload := set.Payload()

	s.mu.Lock()
	seq := s.beginFetch()
	payload["page"] = s.state.Pagination.CurrentPage
	payload["limit"] = s.state.Pagination.ItemsPerPage
	s.mu.Unlock()

	page, err := s.functions.Find(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.superseded(seq) {
		return err
	}
	if err != nil {
		zap.S().Warnw("failed to fetch complaints", "error", err)
		s.state.rejected(err)
		return err
	}
	s.receivePage(page)
	s.state.Filters = set.Compact()
	return nil
}

// FetchAssignedComplaints loads the current page of complaints assigned to the
// caller. Filters are not sent.
func (s *ComplaintStore) FetchAssignedComplaints(ctx context.Context) error {
	s.mu.Lock()
	seq := s.beginFetch()
	p := s.state.Pagination
	s.mu.Unlock()

	page, err := s.functions.FindAssigned(ctx, p.CurrentPage, p.ItemsPerPage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.superseded(seq) {
		return err
	}
	if err != nil {
		zap.S().Warnw("failed to fetch assigned complaints", "error", err)
		s.state.rejected(err)
		return err
	}
	s.receivePage(page)
	return nil
}

// AddComplaintUpdate appends update to the complaint on the backend and then
// to the local copy. Side effects the backend applies on its own, such as the
// status change a delete request triggers, show up only after the next fetch.
func (s *ComplaintStore) AddComplaintUpdate(ctx context.Context, id string, update models.Update) error {
	s.mu.Lock()
	s.state.pending()
	s.mu.Unlock()

	err := s.functions.AppendUpdate(ctx, gateway.UpdateRequest{
		ID:      id,
		Date:    update.Date,
		Message: update.Message,
		Request: update.Request,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		zap.S().Warnw("failed to add complaint update", "complaintId", id, "error", err)
		s.state.rejected(err)
		return err
	}
	s.state.fulfilled()
	if i := s.indexOf(id); i >= 0 {
		s.state.Complaints[i].Updates = append(s.state.Complaints[i].Updates, update)
	}
	return nil
}

// AssignComplaintToMe assigns the complaint to the authenticated caller
func (s *ComplaintStore) AssignComplaintToMe(ctx context.Context, id string) error {
	s.mu.Lock()
	s.state.pending()
	s.mu.Unlock()

	identity := s.gw.CurrentIdentity()
	if identity == nil {
		s.mu.Lock()
		s.state.rejected(gateway.ErrUnauthenticated)
		s.mu.Unlock()
		return gateway.ErrUnauthenticated
	}

	req := gateway.AssignRequest{
		ID:             id,
		AssignedTo:     identity.ID,
		AssignedToName: identity.DisplayName(),
	}
	err := s.functions.SelfAssign(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		zap.S().Warnw("failed to assign complaint", "complaintId", id, "error", err)
		s.state.rejected(err)
		return err
	}
	s.state.fulfilled()
	if i := s.indexOf(id); i >= 0 {
		s.state.Complaints[i].AssignedTo = req.AssignedTo
		s.state.Complaints[i].AssignedToName = req.AssignedToName
	}
	zap.S().Infow("complaint assigned", "complaintId", id, "assignedTo", req.AssignedTo)
	return nil
}

// SetFilters records the filter set of a request about to be made
func (s *ComplaintStore) SetFilters(set filters.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters = set.Compact()
}

// SetAppliedFilters replaces the applied filters and goes back to page 1. It
// does not fetch.
func (s *ComplaintStore) SetAppliedFilters(set filters.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AppliedFilters = set.Compact()
	s.state.Pagination.CurrentPage = 1
}

// SetCurrentPage moves the cursor, clamped to the known page range. It does
// not fetch.
func (s *ComplaintStore) SetCurrentPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pagination.CurrentPage = pagination.Clamp(page, s.state.Pagination.TotalPages)
	return s.state.Pagination.CurrentPage
}

// ClearFilters empties both filter sets and goes back to page 1
func (s *ComplaintStore) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters = filters.Set{}
	s.state.AppliedFilters = filters.Set{}
	s.state.Pagination.CurrentPage = 1
}

// ClearError drops the current error
func (s *ComplaintStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// AppliedFilters returns a copy of the applied filters
func (s *ComplaintStore) AppliedFilters() filters.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AppliedFilters.Clone()
}

// Complaint returns a copy of the complaint with the given id from the
// current list
func (s *ComplaintStore) Complaint(id string) (models.Complaint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Complaint{}, false
	}
	return copyComplaint(s.state.Complaints[i]), true
}

// Snapshot returns a deep copy of the state
func (s *ComplaintStore) Snapshot() ComplaintState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.state
	out.Complaints = make([]models.Complaint, len(s.state.Complaints))
	for i, c := range s.state.Complaints {
		out.Complaints[i] = copyComplaint(c)
	}
	out.Filters = s.state.Filters.Clone()
	out.AppliedFilters = s.state.AppliedFilters.Clone()
	return out
}

func (s *ComplaintStore) beginFetch() uint64 {
	s.fetchSeq++
	s.state.pending()
	return s.fetchSeq
}

func (s *ComplaintStore) superseded(seq uint64) bool {
	if seq == s.fetchSeq {
		return false
	}
	zap.S().Debugw("discarding superseded complaint response", "seq", seq, "latest", s.fetchSeq)
	return true
}

func (s *ComplaintStore) receivePage(page *models.ComplaintPage) {
	s.state.fulfilled()
	s.state.Complaints = page.Data
	if s.state.Complaints == nil {
		s.state.Complaints = []models.Complaint{}
	}
	p := &s.state.Pagination
	p.TotalItems = page.Total
	p.TotalPages = pagination.TotalPages(page.TotalPages, page.Total, p.ItemsPerPage)
	if page.CurrentPage > 0 {
		p.CurrentPage = page.CurrentPage
	}
}

func (s *ComplaintStore) indexOf(id string) int {
	for i := range s.state.Complaints {
		if s.state.Complaints[i].ID == id {
			return i
		}
	}
	return -1
}

func copyComplaint(c models.Complaint) models.Complaint {
	if c.Updates != nil {
		c.Updates = append([]models.Update(nil), c.Updates...)
	}
	if c.Location.Coordinates != nil {
		c.Location.Coordinates = append([]float64(nil), c.Location.Coordinates...)
	}
	return c
}
