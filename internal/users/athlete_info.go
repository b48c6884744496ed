package users

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/runtracker/internal/validation"
)

const (
	minWeightExclusive = 0
	maxWeightExclusive = 900
)

type AthleteInfo struct {
	UserID int    `json:"user_id"`
	Goals  string `json:"goals"`
	Weight *int   `json:"weight"`
}

// AthleteInfoUpdate is the PUT payload. Fields missing from the payload keep
// their stored values; an explicit null weight clears it.
type AthleteInfoUpdate struct {
	Goals     *string
	Weight    *int
	WeightSet bool
}

func (u *AthleteInfoUpdate) UnmarshalJSON(data []byte) error {
	var raw struct {
		Goals  *string         `json:"goals"`
		Weight json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.Goals = raw.Goals
	if raw.Weight == nil {
		return nil
	}

	u.WeightSet = true
	if string(raw.Weight) == "null" {
		return nil
	}

	var weight int
	if err := json.Unmarshal(raw.Weight, &weight); err != nil {
		return validation.Single("weight", "weight must be an integer")
	}
	u.Weight = &weight
	return nil
}

func (u *AthleteInfoUpdate) Validate() error {
	verr := validation.Errors{}
	if err := ValidateWeight(u.Weight); err != nil {
		verr.Add("weight", err.Error())
	}
	return verr.Err()
}

// Apply merges the update into the stored info
func (u *AthleteInfoUpdate) Apply(info AthleteInfo) AthleteInfo {
	if u.Goals != nil {
		info.Goals = *u.Goals
	}
	if u.WeightSet {
		info.Weight = u.Weight
	}
	return info
}

// ValidateWeight accepts a missing weight, otherwise it must lie in the
// open interval (0, 900).
func ValidateWeight(weight *int) error {
	if weight == nil {
		return nil
	}
	if *weight <= minWeightExclusive || *weight >= maxWeightExclusive {
		return fmt.Errorf("weight must be greater than %d and less than %d", minWeightExclusive, maxWeightExclusive)
	}
	return nil
}
