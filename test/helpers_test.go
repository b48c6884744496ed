//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

// seedUser inserts a user directly, the API does not manage identities
func (s *IntegrationTestSuite) seedUser(isStaff, isSuperuser bool) int {
	var id int
	err := s.DB.QueryRow(
		`INSERT INTO auth_user (username, first_name, last_name, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		gofakeit.Username()+gofakeit.DigitN(6),
		gofakeit.FirstName(),
		gofakeit.LastName(),
		isStaff,
		isSuperuser,
	).Scan(&id)
	require.NoError(s.T(), err)
	return id
}

func (s *IntegrationTestSuite) seedUserNamed(firstName, lastName string, isStaff bool) int {
	var id int
	err := s.DB.QueryRow(
		`INSERT INTO auth_user (username, first_name, last_name, is_staff)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		gofakeit.Username()+gofakeit.DigitN(6),
		firstName,
		lastName,
		isStaff,
	).Scan(&id)
	require.NoError(s.T(), err)
	return id
}

// do sends a request to the running server and returns status and body
func (s *IntegrationTestSuite) do(ctx context.Context, method, path string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) doInto(ctx context.Context, method, path string, body any, expectedStatus int, into any) {
	status, respBytes := s.do(ctx, method, path, body)
	require.Equal(s.T(), expectedStatus, status, string(respBytes))
	if into != nil {
		require.NoError(s.T(), json.Unmarshal(respBytes, into))
	}
}
