package positions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/telemetry/metrics"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/internal/validation"
	"github.com/2beens/runtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=positions_test

type positionsRepo interface {
	Add(ctx context.Context, runID int, latitude, longitude Coordinate) (*Position, error)
	Get(ctx context.Context, id int) (*Position, error)
	List(ctx context.Context, params ListParams) (_ []Position, total int, err error)
}

type Handler struct {
	repo    positionsRepo
	metrics *metrics.Manager
}

func NewHandler(repo positionsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/positions", h.HandleList).Methods("GET").Name("list-positions")
	r.HandleFunc("/positions", h.HandleCreate).Methods("POST").Name("create-position")
	r.HandleFunc("/positions/{id:[0-9]+}", h.HandleGet).Methods("GET").Name("get-position")
	r.HandleFunc("/positions/{id:[0-9]+}", h.HandleImmutable).Methods("PUT", "PATCH", "DELETE").Name("immutable-position")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.positions.list")
	defer span.End()

	pagination, err := listing.PaginationFromRequest(r)
	if err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	params := ListParams{
		Pagination: pagination,
	}
	if runStr := r.URL.Query().Get("run"); runStr != "" {
		runID, err := pkg.ParseID(runStr)
		if err != nil {
			pkg.WriteJSON(w, validation.Single("run", "enter a whole number"), http.StatusBadRequest)
			return
		}
		params.RunID = &runID
	}

	positions, total, err := h.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list positions: %s", err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := pagination.CheckPage(total); err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	if pagination == nil {
		pkg.WriteJSON(w, listing.Results(positions), http.StatusOK)
		return
	}
	pkg.WriteJSON(w, listing.NewPage(r, pagination, total, positions), http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.positions.create")
	defer span.End()

	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create position, unmarshal json: %s", err)
		pkg.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		pkg.WriteJSON(w, err, http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("run", *req.Run))

	position, err := h.repo.Add(ctx, *req.Run, *req.Latitude, *req.Longitude)
	if err != nil {
		switch {
		case errors.Is(err, ErrRunNotFound):
			pkg.WriteJSON(w, validation.Single("run", fmt.Sprintf("run with id %d does not exist", *req.Run)), http.StatusBadRequest)
		case errors.Is(err, ErrRunNotInProgress):
			pkg.WriteJSON(w, validation.Single("run", "run must be in progress to record positions"), http.StatusBadRequest)
		default:
			log.Errorf("add position for run %d: %s", *req.Run, err)
			pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.CounterPositions.Inc()
	pkg.WriteJSON(w, position, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.positions.get")
	defer span.End()

	id, err := pkg.ParseID(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "position not found", http.StatusNotFound)
		return
	}

	position, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPositionNotFound) {
			pkg.WriteError(w, "position not found", http.StatusNotFound)
			return
		}
		log.Errorf("get position %d: %s", id, err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, position, http.StatusOK)
}

// HandleImmutable rejects changes, positions are removed only together
// with their run
func (h *Handler) HandleImmutable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET")
	pkg.WriteError(w, fmt.Sprintf("Method %q not allowed.", r.Method), http.StatusMethodNotAllowed)
}
