package positions

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/validation"
	"github.com/2beens/runtracker/pkg"
)

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrRunNotFound      = errors.New("run not found")
	ErrRunNotInProgress = errors.New("run is not in progress")
)

// Position is a GPS sample of a run. Positions are never changed after
// they are recorded.
type Position struct {
	ID        int        `json:"id"`
	RunID     int        `json:"run"`
	Latitude  Coordinate `json:"latitude"`
	Longitude Coordinate `json:"longitude"`
	CreatedAt time.Time  `json:"created_at"`
}

type PositionRequest struct {
	Run       *int        `json:"run"`
	Latitude  *Coordinate `json:"latitude"`
	Longitude *Coordinate `json:"longitude"`
}

func (req *PositionRequest) Validate() error {
	verr := validation.Errors{}
	if req.Run == nil {
		verr.Add("run", "this field is required")
	} else if !pkg.IsValidID(*req.Run) {
		verr.Add("run", fmt.Sprintf("run with id %d does not exist", *req.Run))
	}
	validateCoordinateField(verr, "latitude", req.Latitude)
	validateCoordinateField(verr, "longitude", req.Longitude)
	return verr.Err()
}

func validateCoordinateField(verr validation.Errors, field string, c *Coordinate) {
	if c == nil {
		verr.Add(field, "this field is required")
		return
	}
	if _, err := ValidateCoordinate(c.Decimal); err != nil {
		verr.Add(field, err.Error())
	}
}

type ListParams struct {
	RunID      *int
	Pagination *listing.Pagination
}
