package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/detail"
	"github.com/civicdesk/complaint-dashboard/gateway"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/options"
	"github.com/civicdesk/complaint-dashboard/session"
)

// DisplayDateLayout is how timestamps are shown to operators
const DisplayDateLayout = "January 2, 2006 at 03:04 PM"

// Detail exported for testing purposes
type Detail struct {
	Options  *options.Lookup
	Location *time.Location
}

// Media is the attachment of a complaint
type Media struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// ComplaintDetail is the complaint as the modal shows it
type ComplaintDetail struct {
	ID                   string          `json:"_id"`
	Description          string          `json:"description"`
	Status               string          `json:"status"`
	StatusTone           string          `json:"statusTone"`
	Plan                 string          `json:"plan"`
	PlanTone             string          `json:"planTone"`
	ProblemType          string          `json:"problemType"`
	ProblemCategory      string          `json:"problemCategory,omitempty"`
	Address              string          `json:"address"`
	City                 string          `json:"city"`
	State                string          `json:"state"`
	MunicipalCorporation string          `json:"municipalCorporation"`
	Latitude             float64         `json:"latitude"`
	Longitude            float64         `json:"longitude"`
	Created              string          `json:"created"`
	AssignedTo           string          `json:"assignedTo,omitempty"`
	AssignedToName       string          `json:"assignedToName,omitempty"`
	Media                *Media          `json:"media,omitempty"`
	Updates              []models.Update `json:"updates"`
	UpdateCount          int             `json:"updateCount"`
}

// ComplaintDetailView is everything the detail modal renders
type ComplaintDetailView struct {
	detail.State
	Gates     detail.Gates    `json:"gates"`
	Complaint ComplaintDetail `json:"complaint"`
	Loading   bool            `json:"loading"`
	Error     string          `json:"error,omitempty"`
}

// TabRequest is the body of the tab endpoint
type TabRequest struct {
	Tab string `json:"tab"`
}

// DraftRequest is the body of the draft endpoint. Cancel closes the panel and
// discards the draft.
type DraftRequest struct {
	Text   string `json:"text"`
	Cancel bool   `json:"cancel,omitempty"`
}

// UpdateRequest is the optional body of the add update endpoint
type UpdateRequest struct {
	Message *string `json:"message,omitempty"`
}

// DeleteRequest is the optional body of the delete request endpoint
type DeleteRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ComplaintByIDHandler opens the detail modal of a complaint in the current list
func (d Detail) ComplaintByIDHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	op.OpenView(id)
	d.write(w, http.StatusOK, op, id)
}

// CloseComplaintHandler closes the detail modal
func (d Detail) CloseComplaintHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["complaint_id"]
	op.CloseView(id)
	api.WriteJSON(w, http.StatusOK, map[string]string{"closed": id})
}

// SelectTabHandler switches the modal tab
func (d Detail) SelectTabHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	var req TabRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode tab", http.StatusBadRequest, w, err)
		return
	}
	tab, err := detail.ParseTab(req.Tab)
	if err != nil {
		writeFormError(w, "tab", err.Error())
		return
	}
	op.OpenView(id).SelectTab(tab)
	d.write(w, http.StatusOK, op, id)
}

// DraftUpdateHandler opens the add update panel and stores the draft
func (d Detail) DraftUpdateHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	var req DraftRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode draft", http.StatusBadRequest, w, err)
		return
	}
	v := op.OpenView(id)
	if req.Cancel {
		v.CancelAddUpdate()
	} else {
		v.OpenAddUpdate()
		v.SetDraft(req.Text)
	}
	d.write(w, http.StatusOK, op, id)
}

// AddUpdateHandler submits the draft, or the message in the body, as a new
// update
func (d Detail) AddUpdateHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode update", http.StatusBadRequest, w, err)
		return
	}
	v := op.OpenView(id)
	if req.Message != nil {
		v.OpenAddUpdate()
		v.SetDraft(*req.Message)
	}

	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()
	if err := v.SubmitUpdate(ctx, op.Complaints); err != nil {
		d.actionError(w, "failed to add update", "message", err)
		return
	}
	d.write(w, http.StatusCreated, op, id)
}

// AssignToMeHandler assigns the complaint to the caller
func (d Detail) AssignToMeHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()
	if err := op.OpenView(id).AssignToMe(ctx, op.Complaints); err != nil {
		d.actionError(w, "failed to assign complaint", "", err)
		return
	}
	d.write(w, http.StatusOK, op, id)
}

// OpenDeleteRequestHandler shows the delete confirmation
func (d Detail) OpenDeleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	op.OpenView(id).OpenDeleteModal()
	d.write(w, http.StatusOK, op, id)
}

// CancelDeleteRequestHandler hides the delete confirmation
func (d Detail) CancelDeleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	op.OpenView(id).CancelDelete()
	d.write(w, http.StatusOK, op, id)
}

// DeleteRequestHandler asks the backend to delete the complaint
func (d Detail) DeleteRequestHandler(w http.ResponseWriter, r *http.Request) {
	op, id, ok := d.complaint(w, r)
	if !ok {
		return
	}
	var req DeleteRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode delete request", http.StatusBadRequest, w, err)
		return
	}
	v := op.OpenView(id)
	if req.Reason != nil {
		v.OpenDeleteModal()
		v.SetDeleteReason(*req.Reason)
	}

	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()
	if err := v.ConfirmDelete(ctx, op.Complaints); err != nil {
		d.actionError(w, "failed to request deletion", "reason", err)
		return
	}
	zap.S().Infow("complaint deletion requested", "complaintId", id, "session", op.ID)
	d.write(w, http.StatusOK, op, id)
}

// complaint resolves the operator and checks the complaint is in its list
func (d Detail) complaint(w http.ResponseWriter, r *http.Request) (*session.Operator, string, bool) {
	op, ok := operator(w, r)
	if !ok {
		return nil, "", false
	}
	id := mux.Vars(r)["complaint_id"]
	if _, found := op.Complaints.Complaint(id); !found {
		config.ErrorStatus("complaint not found in the current list", http.StatusNotFound, w, nil)
		return nil, "", false
	}
	return op, id, true
}

func (d Detail) actionError(w http.ResponseWriter, message, field string, err error) {
	switch {
	case errors.Is(err, detail.ErrEmptyMessage), errors.Is(err, detail.ErrEmptyReason):
		writeFormError(w, field, err.Error())
	case errors.Is(err, gateway.ErrUnauthenticated):
		config.ErrorStatus(message, http.StatusUnauthorized, w, err)
	case gateway.IsRemoteError(err):
		config.ErrorStatus(message, http.StatusBadGateway, w, err)
	default:
		config.ErrorStatus(message, http.StatusInternalServerError, w, err)
	}
}

func (d Detail) write(w http.ResponseWriter, status int, op *session.Operator, id string) {
	complaint, _ := op.Complaints.Complaint(id)
	state := op.Complaints.Snapshot()
	api.WriteJSON(w, status, ComplaintDetailView{
		State:     op.OpenView(id).State(),
		Gates:     detail.GatesFor(op.Identity(), complaint),
		Complaint: d.render(complaint),
		Loading:   state.Loading,
		Error:     state.Error,
	})
}

func (d Detail) render(c models.Complaint) ComplaintDetail {
	out := ComplaintDetail{
		ID:                   c.ID,
		Description:          c.Text(),
		Status:               models.StatusText(c.Status),
		StatusTone:           models.StatusTone(c.Status),
		Plan:                 c.Plan,
		PlanTone:             models.PlanTone(c.Plan),
		ProblemType:          d.Options.Label(c.StrCode),
		Address:              c.Address,
		City:                 c.City,
		State:                c.State,
		MunicipalCorporation: c.MunicipalCorporation,
		Latitude:             c.Location.Latitude(),
		Longitude:            c.Location.Longitude(),
		Created:              formatDate(c.Date, d.Location),
		AssignedTo:           c.AssignedTo,
		AssignedToName:       c.AssignedToName,
		Updates:              c.Updates,
		UpdateCount:          len(c.Updates),
	}
	if pt, ok := d.Options.Find(c.StrCode); ok {
		out.ProblemCategory = pt.Category
	}
	if out.Updates == nil {
		out.Updates = []models.Update{}
	}
	if c.HasMedia() {
		out.Media = &Media{URL: c.ImageURL, Kind: c.MediaKind()}
	}
	return out
}

func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayDateLayout)
}
