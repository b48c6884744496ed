//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/runtracker/internal/positions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestPositions() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	athleteID := s.seedUser(false, false)
	run := s.createRun(ctx, athleteID, "")

	payload := func(lat, lon string) map[string]any {
		return map[string]any{
			"run":       run.ID,
			"latitude":  json.Number(lat),
			"longitude": json.Number(lon),
		}
	}

	// run still in init
	status, body := s.do(ctx, http.MethodPost, "/positions", payload("45.1", "19.8"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "run")

	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/start", run.ID), nil, http.StatusOK, nil)

	var created positions.Position
	s.doInto(ctx, http.MethodPost, "/positions", payload("45.1234", "-19.8"), http.StatusCreated, &created)
	assert.Equal(t, run.ID, created.RunID)
	assert.Equal(t, "45.1234", created.Latitude.StringFixed(4))
	assert.Equal(t, "-19.8000", created.Longitude.StringFixed(4))

	status, _ = s.do(ctx, http.MethodPost, "/positions", payload("45.12345", "19.8"))
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.do(ctx, http.MethodPost, "/positions", payload("90.0001", "19.8"))
	assert.Equal(t, http.StatusBadRequest, status)

	var fetched positions.Position
	s.doInto(ctx, http.MethodGet, fmt.Sprintf("/positions/%d", created.ID), nil, http.StatusOK, &fetched)
	assert.Equal(t, created.ID, fetched.ID)

	status, _ = s.do(ctx, http.MethodDelete, fmt.Sprintf("/positions/%d", created.ID), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	var forRun []positions.Position
	s.doInto(ctx, http.MethodGet, fmt.Sprintf("/positions?run=%d", run.ID), nil, http.StatusOK, &forRun)
	require.Len(t, forRun, 1)
	assert.Equal(t, created.ID, forRun[0].ID)

	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/stop", run.ID), nil, http.StatusOK, nil)
	status, _ = s.do(ctx, http.MethodPost, "/positions", payload("45.1", "19.8"))
	assert.Equal(t, http.StatusBadRequest, status)
}
