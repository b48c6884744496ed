package runs

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/runtracker/internal/validation"
	"github.com/2beens/runtracker/pkg"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrAthleteNotFound = errors.New("athlete not found")
)

// Status can be one of:
//   - init (set on creation)
//   - in_progress
//   - finished
type Status string

const (
	StatusInit       Status = "init"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInit, StatusInProgress, StatusFinished:
		return true
	default:
		return false
	}
}

// Transition moves a run from one status to the next one. These are the
// only ways a run status changes.
type Transition struct {
	Name string
	From Status
	To   Status
	// Done is the message reported to the client on success
	Done string
}

var (
	TransitionStart = Transition{
		Name: "start",
		From: StatusInit,
		To:   StatusInProgress,
		Done: "run started",
	}
	TransitionStop = Transition{
		Name: "stop",
		From: StatusInProgress,
		To:   StatusFinished,
		Done: "run finished",
	}
)

func (t Transition) Allowed(current Status) bool {
	return current == t.From
}

// TransitionError is returned when a transition is requested from a status
// it is not defined for. The run is left untouched.
type TransitionError struct {
	Transition Transition
	RunID      int
	Current    Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf(
		"cannot %s run %d: status is %s, expected %s",
		e.Transition.Name, e.RunID, e.Current, e.Transition.From,
	)
}

// AthleteData is the read-only athlete summary embedded in a run
type AthleteData struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
}

type Run struct {
	ID          int         `json:"id"`
	AthleteID   int         `json:"athlete"`
	AthleteData AthleteData `json:"athlete_data"`
	CreatedAt   time.Time   `json:"created_at"`
	Comment     string      `json:"comment"`
	Status      Status      `json:"status"`
}

// RunRequest is the write payload for POST, PUT and PATCH. Read-only fields
// (id, status, created_at, athlete_data) are ignored when sent.
type RunRequest struct {
	Athlete *int    `json:"athlete"`
	Comment *string `json:"comment"`
}

// Validate checks the payload shape; partial is set for PATCH, where
// athlete may be omitted.
func (req *RunRequest) Validate(partial bool) error {
	verr := validation.Errors{}
	if req.Athlete == nil {
		if !partial {
			verr.Add("athlete", "this field is required")
		}
	} else if !pkg.IsValidID(*req.Athlete) {
		verr.Add("athlete", fmt.Sprintf("invalid athlete id %d", *req.Athlete))
	}
	return verr.Err()
}

// Apply merges the request into run, used for updates
func (req *RunRequest) Apply(run Run) Run {
	if req.Athlete != nil {
		run.AthleteID = *req.Athlete
	}
	if req.Comment != nil {
		run.Comment = *req.Comment
	}
	return run
}

type TransitionResponse struct {
	Status        string `json:"status"`
	RunID         int    `json:"run_id"`
	CurrentStatus Status `json:"current_status"`
}

type TransitionErrorResponse struct {
	Detail        string `json:"detail"`
	RunID         int    `json:"run_id"`
	CurrentStatus Status `json:"current_status"`
}
