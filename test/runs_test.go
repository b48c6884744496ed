//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/2beens/runtracker/internal/challenges"
	"github.com/2beens/runtracker/internal/runs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) createRun(ctx context.Context, athleteID int, comment string) runs.Run {
	var run runs.Run
	s.doInto(ctx, http.MethodPost, "/runs", map[string]any{
		"athlete": athleteID,
		"comment": comment,
	}, http.StatusCreated, &run)
	return run
}

func (s *IntegrationTestSuite) finishRun(ctx context.Context, athleteID int) int {
	run := s.createRun(ctx, athleteID, "")
	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/start", run.ID), nil, http.StatusOK, nil)
	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/stop", run.ID), nil, http.StatusOK, nil)
	return run.ID
}

func (s *IntegrationTestSuite) TestRunsLifecycle() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	athleteID := s.seedUser(false, false)

	run := s.createRun(ctx, athleteID, "morning run")
	assert.Equal(t, runs.StatusInit, run.Status)
	assert.Equal(t, athleteID, run.AthleteID)
	assert.Equal(t, athleteID, run.AthleteData.ID)
	assert.Equal(t, "morning run", run.Comment)

	// status is read-only on create
	var ignored runs.Run
	s.doInto(ctx, http.MethodPost, "/runs", map[string]any{
		"athlete": athleteID,
		"status":  "finished",
	}, http.StatusCreated, &ignored)
	assert.Equal(t, runs.StatusInit, ignored.Status)

	// stop before start
	var transitionErr runs.TransitionErrorResponse
	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/stop", run.ID), nil, http.StatusBadRequest, &transitionErr)
	assert.Equal(t, run.ID, transitionErr.RunID)
	assert.Equal(t, runs.StatusInit, transitionErr.CurrentStatus)

	var transition runs.TransitionResponse
	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/start", run.ID), nil, http.StatusOK, &transition)
	assert.Equal(t, runs.StatusInProgress, transition.CurrentStatus)

	// start twice
	s.doInto(ctx, http.MethodPatch, fmt.Sprintf("/runs/%d/start", run.ID), nil, http.StatusBadRequest, &transitionErr)
	assert.Equal(t, runs.StatusInProgress, transitionErr.CurrentStatus)

	s.doInto(ctx, http.MethodPatch, fmt.Sprintf("/runs/%d/stop", run.ID), nil, http.StatusOK, &transition)
	assert.Equal(t, runs.StatusFinished, transition.CurrentStatus)

	var fetched runs.Run
	s.doInto(ctx, http.MethodGet, fmt.Sprintf("/runs/%d", run.ID), nil, http.StatusOK, &fetched)
	assert.Equal(t, runs.StatusFinished, fetched.Status)

	// filters
	var finished []runs.Run
	s.doInto(ctx, http.MethodGet, fmt.Sprintf("/runs?athlete=%d&status=finished", athleteID), nil, http.StatusOK, &finished)
	require.Len(t, finished, 1)
	assert.Equal(t, run.ID, finished[0].ID)

	status, _ := s.do(ctx, http.MethodGet, "/runs?status=paused", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	superuserID := s.seedUser(true, true)
	status, _ = s.do(ctx, http.MethodGet, fmt.Sprintf("/runs?athlete=%d", superuserID), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(ctx, http.MethodPost, "/runs", map[string]any{"athlete": superuserID})
	assert.Equal(t, http.StatusBadRequest, status)

	// update and delete
	var updated runs.Run
	s.doInto(ctx, http.MethodPatch, fmt.Sprintf("/runs/%d", run.ID), map[string]any{
		"comment": "evening run",
	}, http.StatusOK, &updated)
	assert.Equal(t, "evening run", updated.Comment)
	assert.Equal(t, runs.StatusFinished, updated.Status)

	s.doInto(ctx, http.MethodDelete, fmt.Sprintf("/runs/%d", ignored.ID), nil, http.StatusNoContent, nil)
	status, _ = s.do(ctx, http.MethodGet, fmt.Sprintf("/runs/%d", ignored.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestRunsTenthFinishedRunAwardsChallenge() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	athleteID := s.seedUser(false, false)
	path := fmt.Sprintf("/challenges?athlete=%d", athleteID)

	for i := 0; i < runs.MilestoneRunsFinished-1; i++ {
		s.finishRun(ctx, athleteID)
	}

	var awarded []challenges.Challenge
	s.doInto(ctx, http.MethodGet, path, nil, http.StatusOK, &awarded)
	assert.Empty(t, awarded)

	s.finishRun(ctx, athleteID)
	s.doInto(ctx, http.MethodGet, path, nil, http.StatusOK, &awarded)
	require.Len(t, awarded, 1)
	assert.Equal(t, challenges.NameTenRuns, awarded[0].FullName)
	assert.Equal(t, athleteID, awarded[0].AthleteID)

	// 11th finished run does not award again
	s.finishRun(ctx, athleteID)
	s.doInto(ctx, http.MethodGet, path, nil, http.StatusOK, &awarded)
	assert.Len(t, awarded, 1)

	status, _ := s.do(ctx, http.MethodGet, "/challenges?athlete=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestRunsConcurrentStop() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	athleteID := s.seedUser(false, false)
	run := s.createRun(ctx, athleteID, "")
	s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/start", run.ID), nil, http.StatusOK, nil)

	const attempts = 8
	statuses := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _ := s.do(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/stop", run.ID), nil)
			statuses <- status
		}()
	}
	wg.Wait()
	close(statuses)

	succeeded := 0
	for status := range statuses {
		if status == http.StatusOK {
			succeeded++
		} else {
			assert.Equal(t, http.StatusBadRequest, status)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func (s *IntegrationTestSuite) TestRunsConcurrentStopsReachingMilestone() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	athleteID := s.seedUser(false, false)
	for i := 0; i < runs.MilestoneRunsFinished-2; i++ {
		s.finishRun(ctx, athleteID)
	}

	runIDs := make([]int, 2)
	for i := range runIDs {
		run := s.createRun(ctx, athleteID, "")
		s.doInto(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/start", run.ID), nil, http.StatusOK, nil)
		runIDs[i] = run.ID
	}

	var wg sync.WaitGroup
	statuses := make([]int, len(runIDs))
	for i, runID := range runIDs {
		wg.Add(1)
		go func(i, runID int) {
			defer wg.Done()
			statuses[i], _ = s.do(ctx, http.MethodPost, fmt.Sprintf("/runs/%d/stop", runID), nil)
		}(i, runID)
	}
	wg.Wait()
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, statuses)

	var awarded []challenges.Challenge
	s.doInto(ctx, http.MethodGet, fmt.Sprintf("/challenges?athlete=%d", athleteID), nil, http.StatusOK, &awarded)
	require.Len(t, awarded, 1)
	assert.Equal(t, challenges.NameTenRuns, awarded[0].FullName)
}
