//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestUsers() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	coachID := s.seedUserNamed("Zoltan", "Coachovic", true)
	athleteID := s.seedUserNamed("Ana", "Zoltanova", false)
	superuserID := s.seedUser(true, true)

	for i := 0; i < 3; i++ {
		s.finishRun(ctx, athleteID)
	}
	s.createRun(ctx, athleteID, "not finished")

	var all []users.UserResponse
	s.doInto(ctx, http.MethodGet, "/users", nil, http.StatusOK, &all)
	byID := map[int]users.UserResponse{}
	for _, u := range all {
		byID[u.ID] = u
	}
	assert.NotContains(t, byID, superuserID)
	require.Contains(t, byID, coachID)
	require.Contains(t, byID, athleteID)
	assert.Equal(t, users.TypeCoach, byID[coachID].Type)
	assert.Equal(t, users.TypeAthlete, byID[athleteID].Type)
	assert.Equal(t, 3, byID[athleteID].RunsFinished)

	// single fetch agrees with the listing
	var single users.UserResponse
	s.doInto(ctx, http.MethodGet, fmt.Sprintf("/users/%d", athleteID), nil, http.StatusOK, &single)
	assert.Equal(t, byID[athleteID].RunsFinished, single.RunsFinished)

	status, _ := s.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", superuserID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	var coaches []users.UserResponse
	s.doInto(ctx, http.MethodGet, "/users?type=%20COACH%20", nil, http.StatusOK, &coaches)
	for _, u := range coaches {
		assert.Equal(t, users.TypeCoach, u.Type)
	}

	var other []users.UserResponse
	s.doInto(ctx, http.MethodGet, "/users?type=other", nil, http.StatusOK, &other)
	assert.Len(t, other, len(all))

	var found []users.UserResponse
	s.doInto(ctx, http.MethodGet, "/users?search=zoltan", nil, http.StatusOK, &found)
	foundIDs := []int{}
	for _, u := range found {
		foundIDs = append(foundIDs, u.ID)
	}
	assert.Contains(t, foundIDs, coachID)
	assert.Contains(t, foundIDs, athleteID)

	var page listing.Page[users.UserResponse]
	s.doInto(ctx, http.MethodGet, "/users?size=1", nil, http.StatusOK, &page)
	assert.Equal(t, len(all), page.Count)
	assert.Len(t, page.Results, 1)
	assert.Nil(t, page.Previous)
	require.NotNil(t, page.Next)

	status, body := s.do(ctx, http.MethodGet, "/users?size=1&page=999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"detail":"Invalid page."}`, string(body))
}

func (s *IntegrationTestSuite) TestAthleteInfo() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	athleteID := s.seedUser(false, false)
	path := fmt.Sprintf("/users/%d/athlete_info", athleteID)

	var info users.AthleteInfo
	s.doInto(ctx, http.MethodGet, path, nil, http.StatusOK, &info)
	assert.Equal(t, athleteID, info.UserID)
	assert.Empty(t, info.Goals)
	assert.Nil(t, info.Weight)

	s.doInto(ctx, http.MethodPut, path, map[string]any{
		"goals":  "sub 4h marathon",
		"weight": 72,
	}, http.StatusCreated, &info)
	assert.Equal(t, "sub 4h marathon", info.Goals)
	require.NotNil(t, info.Weight)
	assert.Equal(t, 72, *info.Weight)

	for _, weight := range []int{0, 900, -5} {
		status, _ := s.do(ctx, http.MethodPut, path, map[string]any{"weight": weight})
		assert.Equal(t, http.StatusBadRequest, status, weight)
	}

	s.doInto(ctx, http.MethodGet, path, nil, http.StatusOK, &info)
	require.NotNil(t, info.Weight)
	assert.Equal(t, 72, *info.Weight)

	status, _ := s.do(ctx, http.MethodGet, "/users/999999/athlete_info", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestAthleteInfoConcurrentFirstAccess() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	athleteID := s.seedUser(false, false)
	path := fmt.Sprintf("/users/%d/athlete_info", athleteID)

	const requests = 8
	statuses := make([]int, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i], _ = s.do(ctx, http.MethodGet, path, nil)
		}(i)
	}
	wg.Wait()

	for _, status := range statuses {
		assert.Equal(s.T(), http.StatusOK, status)
	}
}
