package handlers

import (
	"net/http"

	"github.com/civicdesk/complaint-dashboard/api"
	"github.com/civicdesk/complaint-dashboard/options"
)

// Option exported for testing purposes
type Option struct {
	Options *options.Lookup
}

// ProblemTypesHandler returns the flattened problem type list
func (o Option) ProblemTypesHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, o.Options.ProblemTypes())
}
