package challenges

import "github.com/2beens/runtracker/internal/listing"

// NameTenRuns is awarded to an athlete on finishing the 10th run
const NameTenRuns = "Make 10 runs!"

// Challenge is a milestone reached by an athlete. It is read-only over the
// API, only the run lifecycle creates them.
type Challenge struct {
	ID        int    `json:"id"`
	FullName  string `json:"full_name"`
	AthleteID int    `json:"athlete"`
}

type ListParams struct {
	AthleteID  *int
	Pagination *listing.Pagination
}
