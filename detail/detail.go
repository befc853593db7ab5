// Package detail holds the state of an open complaint detail modal: the
// selected tab, the add-update panel and the delete confirmation.
package detail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/civicdesk/complaint-dashboard/models"
)

// Tab is one of the mutually exclusive panes of the modal
type Tab string

// Tabs of the detail modal
const (
	TabDetails Tab = "details"
	TabUpdates Tab = "updates"
	TabMedia   Tab = "media"
)

// PayloadDateLayout is how update dates are sent to the backend
const PayloadDateLayout = "01/02/2006"

var (
	// ErrEmptyMessage is returned when an update is submitted without text
	ErrEmptyMessage = errors.New("please enter an update message")
	// ErrEmptyReason is returned when a deletion is confirmed without a reason
	ErrEmptyReason = errors.New("please provide a reason for deletion")
	// ErrUnknownTab is returned when selecting a tab that does not exist
	ErrUnknownTab = errors.New("unknown tab")
)

// ParseTab validates a tab name
func ParseTab(name string) (Tab, error) {
	switch t := Tab(name); t {
	case TabDetails, TabUpdates, TabMedia:
		return t, nil
	}
	return "", ErrUnknownTab
}

// Actions is what the modal asks of the complaint store
type Actions interface {
	AddComplaintUpdate(ctx context.Context, id string, update models.Update) error
	AssignComplaintToMe(ctx context.Context, id string) error
}

// State is a copy of the modal state
type State struct {
	ComplaintID     string `json:"complaintId"`
	Tab             Tab    `json:"tab"`
	AddUpdateOpen   bool   `json:"addUpdateOpen"`
	Draft           string `json:"draft"`
	DeleteModalOpen bool   `json:"deleteModalOpen"`
	DeleteReason    string `json:"deleteReason"`
}

// View is the modal for one complaint
type View struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
	// loc is the operators' zone, update dates are the calendar day there
	loc *time.Location
}

// NewView opens the modal on the details tab. Dates sent with updates are
// taken in loc, UTC when nil.
func NewView(complaintID string, loc *time.Location) *View {
	if loc == nil {
		loc = time.UTC
	}
	return &View{
		state: State{ComplaintID: complaintID, Tab: TabDetails},
		now:   time.Now,
		loc:   loc,
	}
}

// State returns a copy of the modal state
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SelectTab switches panes. The delete confirmation is left as it is.
func (v *View) SelectTab(tab Tab) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Tab = tab
}

// OpenAddUpdate shows the add-update panel
func (v *View) OpenAddUpdate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.AddUpdateOpen = true
}

// CancelAddUpdate hides the panel and discards the draft
func (v *View) CancelAddUpdate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.AddUpdateOpen = false
	v.state.Draft = ""
}

// SetDraft replaces the draft text
func (v *View) SetDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Draft = text
}

// OpenDeleteModal shows the delete confirmation
func (v *View) OpenDeleteModal() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.DeleteModalOpen = true
}

// CancelDelete hides the delete confirmation and drops its reason
func (v *View) CancelDelete() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.DeleteModalOpen = false
	v.state.DeleteReason = ""
}

// SetDeleteReason replaces the reason typed in the delete confirmation
func (v *View) SetDeleteReason(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.DeleteReason = text
}

// SubmitUpdate sends the draft as a dated update. An empty draft never
// reaches the backend. The panel closes and the draft clears only on success.
func (v *View) SubmitUpdate(ctx context.Context, actions Actions) error {
	v.mu.Lock()
	id := v.state.ComplaintID
	message := strings.TrimSpace(v.state.Draft)
	v.mu.Unlock()

	if message == "" {
		return ErrEmptyMessage
	}
	update := models.Update{Message: message, Date: v.today()}
	if err := actions.AddComplaintUpdate(ctx, id, update); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Draft = ""
	v.state.AddUpdateOpen = false
	return nil
}

// AssignToMe assigns the complaint to the caller
func (v *View) AssignToMe(ctx context.Context, actions Actions) error {
	return actions.AssignComplaintToMe(ctx, v.State().ComplaintID)
}

// ConfirmDelete asks the backend to delete the complaint. The request travels
// as an ordinary update tagged with the delete request.
func (v *View) ConfirmDelete(ctx context.Context, actions Actions) error {
	v.mu.Lock()
	id := v.state.ComplaintID
	reason := strings.TrimSpace(v.state.DeleteReason)
	v.mu.Unlock()

	if reason == "" {
		return ErrEmptyReason
	}
	update := models.Update{
		Message: reason,
		Date:    v.today(),
		Request: models.RequestDelete,
	}
	if err := actions.AddComplaintUpdate(ctx, id, update); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.DeleteModalOpen = false
	v.state.DeleteReason = ""
	return nil
}

func (v *View) today() string {
	return v.now().In(v.loc).Format(PayloadDateLayout)
}
