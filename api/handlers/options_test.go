package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/complaint-dashboard/api/handlers"
	"github.com/civicdesk/complaint-dashboard/models"
	"github.com/civicdesk/complaint-dashboard/options"
)

func TestOption_ProblemTypesHandler(t *testing.T) {
	o := handlers.Option{Options: options.New()}

	rr := serve(o.ProblemTypesHandler, nil, "GET", "/api/v1/options/problem-types", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var types []models.ProblemType
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &types))
	require.NotEmpty(t, types)
	assert.Equal(t, models.ProblemType{Code: "0001", Name: "Garbage Problem", Category: "Municipal Complaints"}, types[0])
}
