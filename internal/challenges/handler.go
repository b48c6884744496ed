package challenges

import (
	"context"
	"net/http"

	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/internal/validation"
	"github.com/2beens/runtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=challenges_test

type challengesRepo interface {
	List(ctx context.Context, params ListParams) (_ []Challenge, total int, err error)
}

type Handler struct {
	repo challengesRepo
}

func NewHandler(repo challengesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/challenges", h.HandleList).Methods("GET").Name("list-challenges")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.challenges.list")
	defer span.End()

	pagination, err := listing.PaginationFromRequest(r)
	if err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	params := ListParams{
		Pagination: pagination,
	}
	if athleteStr := r.URL.Query().Get("athlete"); athleteStr != "" {
		athleteID, err := pkg.ParseID(athleteStr)
		if err != nil {
			pkg.WriteJSON(w, validation.Single("athlete", "enter a whole number"), http.StatusBadRequest)
			return
		}
		params.AthleteID = &athleteID
	}

	challenges, total, err := h.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list challenges: %s", err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := pagination.CheckPage(total); err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	if pagination == nil {
		pkg.WriteJSON(w, listing.Results(challenges), http.StatusOK)
		return
	}
	pkg.WriteJSON(w, listing.NewPage(r, pagination, total, challenges), http.StatusOK)
}
