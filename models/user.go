package models

import "time"

// Roles carried in a user's custom data
const (
	RoleAdvocate   = "Advocate"
	RoleMCEmployee = "mcEmployee"
)

// User holds the structure of a dashboard user as returned by the backend
type User struct {
	ObjectID      string     `json:"_id" bson:"_id"`
	ID            string     `json:"id" bson:"id"`
	Email         string     `json:"email" bson:"email"`
	Name          string     `json:"name" bson:"name"`
	GivenName     string     `json:"given_name,omitempty" bson:"given_name,omitempty"`
	FamilyName    string     `json:"family_name,omitempty" bson:"family_name,omitempty"`
	IsVerified    bool       `json:"isVerified" bson:"isVerified"`
	Status        bool       `json:"status" bson:"status"`
	Picture       string     `json:"picture,omitempty" bson:"picture,omitempty"`
	Providers     []string   `json:"providers" bson:"providers"`
	FirstLogin    *time.Time `json:"firstLogin,omitempty" bson:"firstLogin,omitempty"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CustomData    CustomData `json:"customData" bson:"customData"`
	VerifiedEmail bool       `json:"verified_email" bson:"verified_email"`
}

// CustomData holds the application specific profile block of a user
type CustomData struct {
	UserType     string     `json:"userType" bson:"userType"`
	UserEmployer string     `json:"userEmployer" bson:"userEmployer"`
	Score        *float64   `json:"score,omitempty" bson:"score,omitempty"`
	Name         string     `json:"name,omitempty" bson:"name,omitempty"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Country      string     `json:"country,omitempty" bson:"country,omitempty"`
	PhotoURL     string     `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// DisplayName prefers the account name over the one stored in custom data
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.CustomData.Name
}

// Photo prefers the provider picture over the uploaded one
func (u User) Photo() string {
	if u.Picture != "" {
		return u.Picture
	}
	return u.CustomData.PhotoURL
}

// Role returns the user type, "Unknown" when absent
func (u User) Role() string {
	if u.CustomData.UserType == "" {
		return "Unknown"
	}
	return u.CustomData.UserType
}

// Identity is the authenticated caller as exposed by the backend's auth provider
type Identity struct {
	ID         string             `json:"id" bson:"id"`
	Name       string             `json:"name,omitempty" bson:"name,omitempty"`
	Email      string             `json:"email,omitempty" bson:"email,omitempty"`
	CustomData IdentityCustomData `json:"customData" bson:"customData"`
}

// IdentityCustomData is the part of the caller's custom data the dashboard reads
type IdentityCustomData struct {
	UserType string `json:"userType" bson:"userType"`
}

// DisplayName returns the name to record on assignments, falling back to email
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Role returns the caller's user type
func (i Identity) Role() string {
	return i.CustomData.UserType
}
