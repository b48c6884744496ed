package users

import (
	"context"
	"strings"
	"time"
)

// Type is derived from the staff flag, it is not stored
type Type string

const (
	TypeCoach   Type = "coach"
	TypeAthlete Type = "athlete"
)

func (t Type) String() string {
	return string(t)
}

// User is the identity entity. It is owned by the identity subsystem and
// only read here. Superusers never show up in listings.
type User struct {
	ID          int
	Username    string
	FirstName   string
	LastName    string
	DateJoined  time.Time
	IsStaff     bool
	IsSuperuser bool

	// RunsFinishedAnnotated is set when the query that loaded the user
	// already counted its finished runs.
	RunsFinishedAnnotated *int
}

func (u *User) Type() Type {
	if u.IsStaff {
		return TypeCoach
	}
	return TypeAthlete
}

// TypeFilter maps the `type` query value to a staff flag filter.
// Anything other than coach/athlete means no filter.
func TypeFilter(raw string) *bool {
	isStaff := false
	switch Type(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeCoach:
		isStaff = true
	case TypeAthlete:
		isStaff = false
	default:
		return nil
	}
	return &isStaff
}

type FinishedRunsCounter interface {
	CountFinishedRuns(ctx context.Context, userID int) (int, error)
}

// RunsFinished returns the precomputed finished runs count when the user was
// loaded with it, and counts on demand otherwise.
func RunsFinished(ctx context.Context, u *User, counter FinishedRunsCounter) (int, error) {
	if u.RunsFinishedAnnotated != nil {
		return *u.RunsFinishedAnnotated, nil
	}
	return counter.CountFinishedRuns(ctx, u.ID)
}

type UserResponse struct {
	ID           int       `json:"id"`
	DateJoined   time.Time `json:"date_joined"`
	Username     string    `json:"username"`
	LastName     string    `json:"last_name"`
	FirstName    string    `json:"first_name"`
	Type         Type      `json:"type"`
	RunsFinished int       `json:"runs_finished"`
}

func NewUserResponse(ctx context.Context, u *User, counter FinishedRunsCounter) (UserResponse, error) {
	runsFinished, err := RunsFinished(ctx, u, counter)
	if err != nil {
		return UserResponse{}, err
	}

	return UserResponse{
		ID:           u.ID,
		DateJoined:   u.DateJoined,
		Username:     u.Username,
		LastName:     u.LastName,
		FirstName:    u.FirstName,
		Type:         u.Type(),
		RunsFinished: runsFinished,
	}, nil
}
