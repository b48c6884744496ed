package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/internal/validation"
	"github.com/2beens/runtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type usersRepo interface {
	FinishedRunsCounter
	List(ctx context.Context, params ListParams) (_ []User, total int, err error)
	Get(ctx context.Context, id int) (*User, error)
	GetOrCreateAthleteInfo(ctx context.Context, userID int) (*AthleteInfo, error)
	UpsertAthleteInfo(ctx context.Context, info AthleteInfo) (*AthleteInfo, error)
}

var orderingColumns = map[string]string{
	"date_joined": "u.date_joined",
}

type Handler struct {
	repo usersRepo
}

func NewHandler(repo usersRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/users", h.HandleList).Methods("GET").Name("list-users")
	r.HandleFunc("/users/{id:[0-9]+}", h.HandleGet).Methods("GET").Name("get-user")
	r.HandleFunc("/users/{id:[0-9]+}/athlete_info", h.HandleGetAthleteInfo).Methods("GET").Name("get-athlete-info")
	r.HandleFunc("/users/{id:[0-9]+}/athlete_info", h.HandlePutAthleteInfo).Methods("PUT").Name("put-athlete-info")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list")
	defer span.End()

	pagination, err := listing.PaginationFromRequest(r)
	if err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	users, total, err := h.repo.List(ctx, ListParams{
		IsStaff:    TypeFilter(query.Get("type")),
		Search:     strings.TrimSpace(query.Get("search")),
		OrderBy:    listing.OrderBy(r, orderingColumns, "u.id"),
		Pagination: pagination,
	})
	if err != nil {
		log.Errorf("list users: %s", err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := pagination.CheckPage(total); err != nil {
		pkg.WriteError(w, "Invalid page.", http.StatusNotFound)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		userResp, err := NewUserResponse(ctx, &users[i], h.repo)
		if err != nil {
			log.Errorf("user %d response: %s", users[i].ID, err)
			pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		resp = append(resp, userResp)
	}

	if pagination == nil {
		pkg.WriteJSON(w, resp, http.StatusOK)
		return
	}
	pkg.WriteJSON(w, listing.NewPage(r, pagination, total, resp), http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get")
	defer span.End()

	user, ok := h.userFromPath(w, r.WithContext(ctx))
	if !ok {
		return
	}

	// single user fetch, runs_finished is counted on demand
	resp, err := NewUserResponse(ctx, user, h.repo)
	if err != nil {
		log.Errorf("user %d response: %s", user.ID, err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleGetAthleteInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.athleteinfo.get")
	defer span.End()

	user, ok := h.userFromPath(w, r.WithContext(ctx))
	if !ok {
		return
	}

	info, err := h.repo.GetOrCreateAthleteInfo(ctx, user.ID)
	if err != nil {
		h.writeAthleteInfoError(w, user.ID, err)
		return
	}

	pkg.WriteJSON(w, info, http.StatusOK)
}

func (h *Handler) HandlePutAthleteInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.athleteinfo.put")
	defer span.End()

	user, ok := h.userFromPath(w, r.WithContext(ctx))
	if !ok {
		return
	}

	var update AthleteInfoUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		var verr validation.Errors
		if errors.As(err, &verr) {
			pkg.WriteJSON(w, verr, http.StatusBadRequest)
			return
		}
		log.Tracef("put athlete info, unmarshal json: %s", err)
		pkg.WriteError(w, "invalid json body", http.StatusBadRequest)
		return
	}

	if err := update.Validate(); err != nil {
		pkg.WriteJSON(w, err, http.StatusBadRequest)
		return
	}

	current, err := h.repo.GetOrCreateAthleteInfo(ctx, user.ID)
	if err != nil {
		h.writeAthleteInfoError(w, user.ID, err)
		return
	}

	saved, err := h.repo.UpsertAthleteInfo(ctx, update.Apply(*current))
	if err != nil {
		h.writeAthleteInfoError(w, user.ID, err)
		return
	}

	log.Debugf("athlete info for user %d updated", user.ID)
	pkg.WriteJSON(w, saved, http.StatusCreated)
}

func (h *Handler) userFromPath(w http.ResponseWriter, r *http.Request) (*User, bool) {
	id, err := pkg.ParseID(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "user not found", http.StatusNotFound)
		return nil, false
	}

	user, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteError(w, "user not found", http.StatusNotFound)
			return nil, false
		}
		log.Errorf("get user %d: %s", id, err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}

	return user, true
}

func (h *Handler) writeAthleteInfoError(w http.ResponseWriter, userID int, err error) {
	if errors.Is(err, ErrUserNotFound) {
		pkg.WriteError(w, "user not found", http.StatusNotFound)
		return
	}
	log.Errorf("athlete info for user %d: %s", userID, err)
	pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
}
