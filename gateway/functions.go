package gateway

import (
	"context"

	"github.com/civicdesk/complaint-dashboard/models"
)

// Remote function names exposed by the backend
const (
	FunctionComplaints         = "complaints"
	FunctionAssignedComplaints = "issue/assigned"
	FunctionAppendUpdate       = "issue_update/create"
	FunctionSelfAssign         = "issue/selfAssign"
	FunctionUsers              = "users"
)

// UpdateRequest is the payload of the append update function
type UpdateRequest struct {
	ID      string `json:"id" bson:"id"`
	Date    string `json:"date" bson:"date"`
	Message string `json:"message" bson:"message"`
	Request string `json:"request,omitempty" bson:"request,omitempty"`
}

// AssignRequest is the payload of the self assign function
type AssignRequest struct {
	ID             string `json:"id" bson:"id"`
	AssignedTo     string `json:"assignedTo" bson:"assignedTo"`
	AssignedToName string `json:"assignedToName" bson:"assignedToName"`
}

type pageRequest struct {
	Page  int `json:"page" bson:"page"`
	Limit int `json:"limit" bson:"limit"`
}

// UserList is the response of the users function
type UserList struct {
	Data []models.User `json:"data" bson:"data"`
}

// ComplaintFunctions contains the complaint functions of the backend
type ComplaintFunctions interface {
	Find(ctx context.Context, payload map[string]interface{}) (*models.ComplaintPage, error)
	FindAssigned(ctx context.Context, page, limit int) (*models.ComplaintPage, error)
	AppendUpdate(ctx context.Context, req UpdateRequest) error
	SelfAssign(ctx context.Context, req AssignRequest) error
}

type complaintFunctions struct {
	gw Gateway
}

// NewComplaintFunctions initializes a new instance of the complaint functions
func NewComplaintFunctions(gw Gateway) ComplaintFunctions {
	return &complaintFunctions{gw: gw}
}

func (c *complaintFunctions) Find(ctx context.Context, payload map[string]interface{}) (*models.ComplaintPage, error) {
	var page models.ComplaintPage
	if err := c.gw.Invoke(ctx, FunctionComplaints, payload, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *complaintFunctions) FindAssigned(ctx context.Context, page, limit int) (*models.ComplaintPage, error) {
	var result models.ComplaintPage
	if err := c.gw.Invoke(ctx, FunctionAssignedComplaints, pageRequest{Page: page, Limit: limit}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *complaintFunctions) AppendUpdate(ctx context.Context, req UpdateRequest) error {
	return c.gw.Invoke(ctx, FunctionAppendUpdate, req, nil)
}

func (c *complaintFunctions) SelfAssign(ctx context.Context, req AssignRequest) error {
	return c.gw.Invoke(ctx, FunctionSelfAssign, req, nil)
}

// UserFunctions contains the user directory functions of the backend
type UserFunctions interface {
	Find(ctx context.Context) ([]models.User, error)
}

type userFunctions struct {
	gw Gateway
}

// NewUserFunctions initializes a new instance of the user functions
func NewUserFunctions(gw Gateway) UserFunctions {
	return &userFunctions{gw: gw}
}

func (u *userFunctions) Find(ctx context.Context) ([]models.User, error) {
	var list UserList
	if err := u.gw.Invoke(ctx, FunctionUsers, struct{}{}, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}
