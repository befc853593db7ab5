package models

import (
	"time"
	"unicode/utf8"
)

// Complaint statuses as stored by the backend. An empty status means the
// complaint has not been picked up yet and is displayed as pending.
const (
	StatusPending   = ""
	StatusAssigned  = "assigned"
	StatusInProcess = "in process"
	StatusResolved  = "resolved"
)

// Subscription plans a citizen can file a complaint under
const (
	PlanFree    = "free"
	PlanPro     = "pro"
	PlanProPlus = "pro+"
)

// Media kinds attached to a complaint
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// RequestDelete tags an update that asks the backend to delete the complaint
const RequestDelete = "delete"

// Complaint holds the structure of a citizen complaint as returned by the backend
type Complaint struct {
	ID                   string    `json:"_id" bson:"_id"`
	Desc                 string    `json:"desc,omitempty" bson:"desc,omitempty"`
	Description          string    `json:"description,omitempty" bson:"description,omitempty"`
	StrCode              string    `json:"strCode" bson:"strCode"`
	Status               string    `json:"status" bson:"status"`
	Plan                 string    `json:"plan" bson:"plan"`
	AssignedTo           string    `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	AssignedToName       string    `json:"assignedToName,omitempty" bson:"assignedToName,omitempty"`
	Address              string    `json:"address" bson:"address"`
	City                 string    `json:"city" bson:"city"`
	State                string    `json:"state" bson:"state"`
	MunicipalCorporation string    `json:"municipalCorporation" bson:"municipalCorporation"`
	Location             GeoPoint  `json:"location" bson:"location"`
	Date                 time.Time `json:"date" bson:"date"`
	ImageURL             string    `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	MediaType            string    `json:"mediaType,omitempty" bson:"mediaType,omitempty"`
	Updates              []Update  `json:"updates,omitempty" bson:"updates,omitempty"`
	Version              int32     `json:"__v" bson:"__v"`
}

// GeoPoint holds a GeoJSON point, coordinates are ordered [longitude, latitude]
type GeoPoint struct {
	Type        string    `json:"type,omitempty" bson:"type,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// Latitude returns the latitude of the point, or 0 when unset
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Longitude returns the longitude of the point, or 0 when unset
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Update is a single entry in a complaint's update history
type Update struct {
	Message string `json:"message" bson:"message"`
	// Date is an en-US MM/DD/YYYY string, the backend does not accept ISO dates here
	Date    string `json:"date" bson:"date"`
	Request string `json:"request,omitempty" bson:"request,omitempty"`
}

// ComplaintPage is the paginated response of the complaint listing functions
type ComplaintPage struct {
	Data        []Complaint `json:"data" bson:"data"`
	Total       int         `json:"total" bson:"total"`
	TotalPages  int         `json:"totalPages" bson:"totalPages"`
	CurrentPage int         `json:"currentPage" bson:"currentPage"`
}

// Text returns the complaint description, older complaints use "description"
func (c Complaint) Text() string {
	if c.Desc != "" {
		return c.Desc
	}
	return c.Description
}

// Excerpt returns at most n runes of the description followed by an ellipsis
func (c Complaint) Excerpt(n int) string {
	text := c.Text()
	if utf8.RuneCountInString(text) <= n {
		return text + "..."
	}
	return string([]rune(text)[:n]) + "..."
}

// IsAssigned reports whether anyone has picked up the complaint
func (c Complaint) IsAssigned() bool {
	return c.AssignedTo != ""
}

// HasMedia reports whether the complaint carries an image or video
func (c Complaint) HasMedia() bool {
	return c.ImageURL != ""
}

// MediaKind returns the media type, defaulting to image for legacy records
func (c Complaint) MediaKind() string {
	if c.MediaType == "" {
		return MediaImage
	}
	return c.MediaType
}

// StatusText returns the display text for a status
func StatusText(status string) string {
	if status == StatusPending {
		return "Pending"
	}
	return status
}

// StatusTone groups statuses into the badge colours used by the views
func StatusTone(status string) string {
	switch status {
	case StatusResolved:
		return "success"
	case StatusInProcess:
		return "warning"
	default:
		return "neutral"
	}
}

// PlanTone groups plans into the badge colours used by the views
func PlanTone(plan string) string {
	switch plan {
	case PlanProPlus:
		return "premium"
	case PlanPro:
		return "info"
	default:
		return "neutral"
	}
}
