package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/config"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/session"
)

// User exported for testing purposes
type User struct {
	Location *time.Location
}

// UserRow is one line of the user directory
type UserRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Employer  string `json:"employer"`
	Active    string `json:"active"`
	Score     string `json:"score"`
	LastLogin string `json:"lastLogin"`
	Photo     string `json:"photo,omitempty"`
}

// UserDetail is the user modal
type UserDetail struct {
	UserRow
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Verified   bool   `json:"verified"`
	Providers  string `json:"providers"`
	FirstLogin string `json:"firstLogin"`
}

// UserDirectoryView is everything the user directory renders
type UserDirectoryView struct {
	Pane    string    `json:"pane"`
	Rows    []UserRow `json:"rows"`
	Loading bool      `json:"loading"`
	Error   string    `json:"error,omitempty"`
}

// UsersHandler returns the user directory. The directory is fetched the first
// time it is opened and again when refresh=true.
func (u User) UsersHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	u.load(r, op, refresh)
	api.WriteJSON(w, http.StatusOK, u.directory(op))
}

// ClearErrorHandler dismisses the directory error without refetching
func (u User) ClearErrorHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	op.Users.ClearError()
	api.WriteJSON(w, http.StatusOK, u.directory(op))
}

func (u User) directory(op *session.Operator) UserDirectoryView {
	state := op.Users.Snapshot()
	v := UserDirectoryView{
		Rows:    make([]UserRow, 0, len(state.Users)),
		Loading: state.Loading,
		Error:   state.Error,
	}
	for _, user := range state.Users {
		v.Rows = append(v.Rows, u.row(user))
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
	return v
}

// UserByIDHandler returns the detail of one user in the directory
func (u User) UserByIDHandler(w http.ResponseWriter, r *http.Request) {
	op, ok := operator(w, r)
	if !ok {
		return
	}
	u.load(r, op, false)

	userID := mux.Vars(r)["user_id"]
	user, found := op.Users.Find(userID)
	if !found {
		if msg := op.Users.Snapshot().Error; msg != "" {
			config.ErrorStatus("failed to get users", http.StatusBadGateway, w, nil)
			return
		}
		config.ErrorStatus("user not found", http.StatusNotFound, w, nil)
		return
	}

	providers := "N/A"
	if len(user.Providers) > 0 {
		providers = strings.Join(user.Providers, ", ")
	}
	api.WriteJSON(w, http.StatusOK, UserDetail{
		UserRow:    u.row(user),
		GivenName:  user.GivenName,
		FamilyName: user.FamilyName,
		Phone:      orNA(user.CustomData.Phone),
		Country:    orNA(user.CustomData.Country),
		Verified:   user.IsVerified,
		Providers:  providers,
		FirstLogin: orNA(formatTime(user.FirstLogin, u.Location)),
	})
}

func (u User) load(r *http.Request, op *session.Operator, refresh bool) {
	if !refresh && op.Users.Snapshot().Loaded {
		return
	}
	ctx, cancel := api.WithCallTimeout(r.Context())
	defer cancel()
	_ = op.Users.FetchUsers(ctx)
}

func (u User) row(user models.User) UserRow {
	active := "Inactive"
	if user.Status {
		active = "Active"
	}
	score := "N/A"
	if s := user.CustomData.Score; s != nil && *s != 0 {
		score = strconv.FormatFloat(*s, 'f', -1, 64)
	}
	lastLogin := formatTime(user.CustomData.LastLogin, u.Location)
	if lastLogin == "" {
		lastLogin = "Never"
	}
	id := user.ID
	if id == "" {
		id = user.ObjectID
	}
	return UserRow{
		ID:        id,
		Name:      user.DisplayName(),
		Email:     user.Email,
		Role:      user.Role(),
		Employer:  orNA(user.CustomData.UserEmployer),
		Active:    active,
		Score:     score,
		LastLogin: lastLogin,
		Photo:     user.Photo(),
	}
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return formatDate(*t, loc)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
