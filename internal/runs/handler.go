package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/internal/validation"
	"github.com/2beens/runtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=runs_test

type runsService interface {
	Create(ctx context.Context, req RunRequest) (*Run, error)
	Get(ctx context.Context, id int) (*Run, error)
	List(ctx context.Context, params ListParams) (_ []Run, total int, err error)
	Update(ctx context.Context, id int, req RunRequest, partial bool) (*Run, error)
	Delete(ctx context.Context, id int) error
	Start(ctx context.Context, id int) (*Run, error)
	Stop(ctx context.Context, id int) (*Run, error)
}

var orderingColumns = map[string]string{
	"created_at": "r.created_at",
}

type Handler struct {
	service runsService
}

func NewHandler(service runsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/runs", h.HandleList).Methods("GET").Name("list-runs")
	r.HandleFunc("/runs", h.HandleCreate).Methods("POST").Name("create-run")
	r.HandleFunc("/runs/{id:[0-9]+}", h.HandleGet).Methods("GET").Name("get-run")
	r.HandleFunc("/runs/{id:[0-9]+}", h.HandleUpdate).Methods("PUT", "PATCH").Name("update-run")
	r.HandleFunc("/runs/{id:[0-9]+}", h.HandleDelete).Methods("DELETE").Name("delete-run")
	r.HandleFunc("/runs/{id:[0-9]+}/start", h.HandleStart).Methods("POST", "PATCH").Name("start-run")
	r.HandleFunc("/runs/{id:[0-9]+}/stop", h.HandleStop).Methods("POST", "PATCH").Name("stop-run")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.runs.list")
	defer span.End()

	pagination, err := listing.PaginationFromRequest(r)
	if err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	params, err := listParamsFromRequest(r)
	if err != nil {
		writeError(w, "list runs", err)
		return
	}
	params.Pagination = pagination
	params.OrderBy = listing.OrderBy(r, orderingColumns, "r.id")

	runs, total, err := h.service.List(ctx, params)
	if err != nil {
		writeError(w, "list runs", err)
		return
	}

	if err := pagination.CheckPage(total); err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	if pagination == nil {
		pkg.WriteJSON(w, listing.Results(runs), http.StatusOK)
		return
	}
	pkg.WriteJSON(w, listing.NewPage(r, pagination, total, runs), http.StatusOK)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.runs.create")
	defer span.End()

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("create run, unmarshal json: %s", err)
		pkg.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	run, err := h.service.Create(ctx, req)
	if err != nil {
		writeError(w, "create run", err)
		return
	}

	log.Debugf("run %d created for athlete %d", run.ID, run.AthleteID)
	pkg.WriteJSON(w, run, http.StatusCreated)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.runs.get")
	defer span.End()

	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	run, err := h.service.Get(ctx, id)
	if err != nil {
		writeError(w, fmt.Sprintf("get run %d", id), err)
		return
	}

	pkg.WriteJSON(w, run, http.StatusOK)
}

// HandleUpdate serves both PUT and PATCH, PATCH being a partial update
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.runs.update")
	defer span.End()

	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	partial := r.Method == http.MethodPatch
	span.SetAttributes(attribute.Int("id", id), attribute.Bool("partial", partial))

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update run, unmarshal json: %s", err)
		pkg.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	run, err := h.service.Update(ctx, id, req, partial)
	if err != nil {
		writeError(w, fmt.Sprintf("update run %d", id), err)
		return
	}

	pkg.WriteJSON(w, run, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.runs.delete")
	defer span.End()

	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		writeError(w, fmt.Sprintf("delete run %d", id), err)
		return
	}

	log.Debugf("run %d deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, TransitionStart, h.service.Start)
}

func (h *Handler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, TransitionStop, h.service.Stop)
}

func (h *Handler) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	t Transition,
	apply func(ctx context.Context, id int) (*Run, error),
) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.runs."+t.Name)
	defer span.End()

	id, ok := runIDFromPath(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	run, err := apply(ctx, id)
	if err != nil {
		writeError(w, fmt.Sprintf("%s run %d", t.Name, id), err)
		return
	}

	pkg.WriteJSON(w, TransitionResponse{
		Status:        t.Done,
		RunID:         run.ID,
		CurrentStatus: run.Status,
	}, http.StatusOK)
}

func listParamsFromRequest(r *http.Request) (ListParams, error) {
	query := r.URL.Query()
	verr := validation.Errors{}
	params := ListParams{}

	if athleteStr := query.Get("athlete"); athleteStr != "" {
		athleteID, err := pkg.ParseID(athleteStr)
		if err != nil {
			verr.Add("athlete", "enter a whole number")
		} else {
			params.AthleteID = &athleteID
		}
	}

	if statusStr := query.Get("status"); statusStr != "" {
		status := Status(statusStr)
		if !status.IsValid() {
			verr.Add("status", fmt.Sprintf("select a valid choice, %s is not one of the available choices", statusStr))
		} else {
			params.Status = &status
		}
	}

	return params, verr.Err()
}

func runIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := pkg.ParseID(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "run not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, op string, err error) {
	var verr validation.Errors
	if errors.As(err, &verr) {
		pkg.WriteJSON(w, verr, http.StatusBadRequest)
		return
	}

	var terr *TransitionError
	if errors.As(err, &terr) {
		pkg.WriteJSON(w, TransitionErrorResponse{
			Detail:        terr.Error(),
			RunID:         terr.RunID,
			CurrentStatus: terr.Current,
		}, http.StatusBadRequest)
		return
	}

	if errors.Is(err, ErrRunNotFound) {
		pkg.WriteError(w, "run not found", http.StatusNotFound)
		return
	}

	log.WithField("pg_code", pkg.PgErrorCode(err)).Errorf("%s: %s", op, err)
	pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
}
