package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/filters"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/options"
	"github.com/civicdesk/complaint-dashboard/pagination"
	"github.com/civicdesk/complaint-dashboard/session"
	"github.com/civicdesk/complaint-dashboard/store"
)

// Panes of the complaint list
const (
	PaneTable   = "table"
	PaneEmpty   = "empty"
	PaneLoading = "loading"
	PaneError   = "error"
)

// ExcerptLength is how much of a description the table shows
const ExcerptLength = 50

// Complaint exported for testing purposes
type Complaint struct {
	Options  *options.Lookup
	Location *time.Location
}

// SelectOption is one entry of a filter dropdown
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var statusOptions = []SelectOption{
	{Value: "pending", Label: "Pending"},
	{Value: models.StatusAssigned, Label: "Assigned"},
	{Value: models.StatusInProcess, Label: "In Process"},
	{Value: models.StatusResolved, Label: "Resolved"},
}

var planOptions = []SelectOption{
	{Value: models.PlanFree, Label: "Free"},
	{Value: models.PlanPro, Label: "Pro"},
	{Value: models.PlanProPlus, Label: "Pro+"},
}

var assignmentOptions = []SelectOption{
	{Value: "true", Label: "Assigned"},
	{Value: "false", Label: "Unassigned"},
}

// ComplaintRow is one line of the complaint table
type ComplaintRow struct {
	ID                   string `json:"_id"`
	Excerpt              string `json:"excerpt"`
	City                 string `json:"city"`
	MunicipalCorporation string `json:"municipalCorporation"`
	Status               string `json:"status"`
	StatusTone           string `json:"statusTone"`
	Plan                 string `json:"plan"`
	PlanTone             string `json:"planTone"`
	ProblemType          string `json:"problemType"`
	Assigned             string `json:"assigned"`
	AssignedToName       string `json:"assignedToName,omitempty"`
	Date                 string `json:"date"`
}

// FilterOptions feeds the dropdowns of the filter form
type FilterOptions struct {
	Statuses     []SelectOption       `json:"statuses"`
	Plans        []SelectOption       `json:"plans"`
	Assignment   []SelectOption       `json:"assignment"`
	Cities       []string             `json:"cities"`
	Corporations []string             `json:"corporations"`
	ProblemTypes []models.ProblemType `json:"problemTypes"`
}

// ComplaintListView is everything the complaint list renders
type ComplaintListView struct {
	Mode       session.Mode       `json:"mode"`
	Pane       string             `json:"pane"`
	Rows       []ComplaintRow     `json:"rows"`
	Pages      []string           `json:"pages"`
	Summary    pagination.Summary `json:"summary"`
	Staged     filters.Set        `json:"staged,omitempty"`
	Applied    filters.Set        `json:"applied,omitempty"`
	Chips      []filters.Chip     `json:"chips,omitempty"`
	Options    *FilterOptions     `json:"options,omitempty"`
	Pagination store.Pagination   `json:"pagination"`
	Loading    bool               `json:"loading"`
	Error      string             `json:"error,omitempty"`
}

// ComplaintsHandler opens the complaint list, fetching the current page with
// the applied filters
func (c Complaint) ComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, showAll)
}

// AssignedComplaintsHandler opens the list of complaints assigned to the caller
func (c Complaint) AssignedComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, showAssigned)
}

// RefreshHandler refetches the list currently shown
func (c Complaint) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, nil)
}

// StageFiltersHandler updates filter form fields without applying them
func (c Complaint) StageFiltersHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	var fields map[string]string
	if err := decodeBody(r, &fields); err != nil {
		config.ErrorStatus("failed to decode filters", http.StatusBadRequest, w, err)
		return
	}
	for k := range fields {
		if !filters.IsKnown(k) {
			writeFormError(w, k, "unknown filter")
			return
		}
	}
	op.Filters.StageAll(fields)
	api.WriteJSON(w, http.StatusOK, c.view(op))
}

// ApplyFiltersHandler applies the staged filters, optionally staging the
// fields in the body first, and fetches page 1
func (c Complaint) ApplyFiltersHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	var fields map[string]string
	if err := decodeBody(r, &fields); err != nil {
		config.ErrorStatus("failed to decode filters", http.StatusBadRequest, w, err)
		return
	}
	op.Filters.StageAll(fields)
	applied := op.Filters.Apply()
	zap.S().Debugw("filters applied", "session", op.ID, "filters", applied)
	c.render(w, r, showAll)
}

// RemoveFilterHandler drops one applied filter and refetches straight away
func (c Complaint) RemoveFilterHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	if !filters.IsKnown(key) {
		writeFormError(w, key, "unknown filter")
		return
	}
	op.Filters.Remove(key)
	c.render(w, r, showAll)
}

// ResetFiltersHandler clears both filter sets and refetches page 1
func (c Complaint) ResetFiltersHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	op.Filters.Reset()
	c.render(w, r, showAll)
}

// ClearErrorHandler dismisses the list error without refetching
func (c Complaint) ClearErrorHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	op.Complaints.ClearError()
	api.WriteJSON(w, http.StatusOK, c.view(op))
}

// PageRequest is the body of the page endpoint
type PageRequest struct {
	Page int `json:"page"`
}

// PageHandler moves to another page and fetches it
func (c Complaint) PageHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	var req PageRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode page", http.StatusBadRequest, w, err)
		return
	}
	if req.Page < 1 {
		writeFormError(w, "page", "page must be at least 1")
		return
	}
	op.Complaints.SetCurrentPage(req.Page)
	c.render(w, r, nil)
}

// render applies change, refetches the current list and writes the view. A
// failed fetch is part of the view, not an HTTP error.
func (c Complaint) render(w http.ResponseWriter, r *http.Request, change func(op *session.Operator)) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	if change != nil {
		change(op)
	}

	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()
	if err := op.Refresh(ctx); err != nil {
		zap.S().Debugw("complaint list rendered with error", "session", op.ID, "error", err)
	}
	api.WriteJSON(w, http.StatusOK, c.view(op))
}

func (c Complaint) view(op *session.Operator) ComplaintListView {
	state := op.Complaints.Snapshot()
	p := state.Pagination

	v := ComplaintListView{
		Mode:       op.Mode(),
		Rows:       make([]ComplaintRow, 0, len(state.Complaints)),
		Pages:      pagination.Labels(pagination.Window(p.CurrentPage, p.TotalPages)),
		Summary:    pagination.Summarize(len(state.Complaints), p.TotalItems, p.CurrentPage, p.TotalPages),
		Pagination: p,
		Loading:    state.Loading,
		Error:      state.Error,
	}
	for _, complaint := range state.Complaints {
		v.Rows = append(v.Rows, c.row(complaint))
	}

	switch {
	case state.Error != "":
		v.Pane = PaneError
	case state.Loading && len(v.Rows) == 0:
		v.Pane = PaneLoading
	case len(v.Rows) == 0:
		v.Pane = PaneEmpty
	default:
		v.Pane = PaneTable
	}

	if v.Mode == session.ModeAll {
		v.Staged = op.Filters.Staged()
		v.Applied = state.AppliedFilters
		v.Chips = filters.Chips(state.AppliedFilters, c.Options)
		v.Options = &FilterOptions{
			Statuses:     statusOptions,
			Plans:        planOptions,
			Assignment:   assignmentOptions,
			Cities:       unique(state.Complaints, func(c models.Complaint) string { return c.City }),
			Corporations: unique(state.Complaints, func(c models.Complaint) string { return c.MunicipalCorporation }),
			ProblemTypes: c.Options.ProblemTypes(),
		}
	}
	return v
}

func (c Complaint) row(complaint models.Complaint) ComplaintRow {
	assigned := "No"
	if complaint.IsAssigned() {
		assigned = "Yes"
	}
	return ComplaintRow{
		ID:                   complaint.ID,
		Excerpt:              complaint.Excerpt(ExcerptLength),
		City:                 complaint.City,
		MunicipalCorporation: complaint.MunicipalCorporation,
		Status:               models.StatusText(complaint.Status),
		StatusTone:           models.StatusTone(complaint.Status),
		Plan:                 complaint.Plan,
		PlanTone:             models.PlanTone(complaint.Plan),
		ProblemType:          c.Options.Label(complaint.StrCode),
		Assigned:             assigned,
		AssignedToName:       complaint.AssignedToName,
		Date:                 formatDate(complaint.Date, c.Location),
	}
}

// unique returns the distinct non-empty values of field in first-seen order
func unique(complaints []models.Complaint, field func(models.Complaint) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range complaints {
		v := field(c)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func showAll(op *session.Operator)      { op.SetMode(session.ModeAll) }
func showAssigned(op *session.Operator) { op.SetMode(session.ModeAssigned) }

func operator(w http.ResponseWriter, r *http.Request) (*session.Operator, bool) {
	op, ok := api.OperatorFrom(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, nil)
	}
	return op, ok
}
