package detail

import "github.com/civicdesk/complaint-dashboard/models"

// Gates decide which controls the modal shows. The backend enforces the real
// permissions.
type Gates struct {
	CanAddUpdates  bool `json:"canAddUpdates"`
	CanViewUpdates bool `json:"canViewUpdates"`
	IsAssignedToMe bool `json:"isAssignedToMe"`
}

// GatesFor computes the gates of identity on complaint
func GatesFor(identity *models.Identity, complaint models.Complaint) Gates {
	g := Gates{CanViewUpdates: true}
	if identity == nil {
		return g
	}
	g.IsAssignedToMe = identity.ID != "" && identity.ID == complaint.AssignedTo
	g.CanAddUpdates = identity.Role() == models.RoleMCEmployee || g.IsAssignedToMe
	return g
}
