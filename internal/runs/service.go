package runs

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runtracker/internal/challenges"
	"github.com/2beens/runtracker/internal/db"
	"github.com/2beens/runtracker/internal/telemetry/metrics"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/internal/validation"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// MilestoneRunsFinished is the finished runs count that earns the ten runs
// challenge. It is checked only when a run gets finished, so the challenge
// is attempted exactly at the 10th finish.
const MilestoneRunsFinished = 10

type runsRepo interface {
	Add(ctx context.Context, athleteID int, comment string) (*Run, error)
	Get(ctx context.Context, id int) (*Run, error)
	List(ctx context.Context, params ListParams) (_ []Run, total int, err error)
	Update(ctx context.Context, run Run) (*Run, error)
	Delete(ctx context.Context, id int) error
	Transition(ctx context.Context, id int, t Transition, hook TransitionHook) (*Run, error)
	LockAthlete(ctx context.Context, q db.Querier, athleteID int) error
	CountFinished(ctx context.Context, q db.Querier, athleteID int) (int, error)
	AthleteExists(ctx context.Context, athleteID int) (bool, error)
}

type challengeAwarder interface {
	Award(ctx context.Context, q db.Querier, athleteID int, name string) (bool, error)
}

type Service struct {
	repo    runsRepo
	awarder challengeAwarder
	metrics *metrics.Manager
}

func NewService(repo runsRepo, awarder challengeAwarder, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		awarder: awarder,
		metrics: metricsManager,
	}
}

func (s *Service) Create(ctx context.Context, req RunRequest) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.runs.create")
	defer func() { tracing.EndSpan(span, err) }()

	if err := req.Validate(false); err != nil {
		return nil, err
	}
	if err := s.checkAthlete(ctx, *req.Athlete); err != nil {
		return nil, err
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}

	run, err := s.repo.Add(ctx, *req.Athlete, comment)
	if err != nil {
		if errors.Is(err, ErrAthleteNotFound) {
			return nil, athleteValidationError(*req.Athlete)
		}
		return nil, fmt.Errorf("add run: %w", err)
	}

	s.metrics.CounterRunsCreated.Inc()
	return run, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Run, error) {
	return s.repo.Get(ctx, id)
}

// List validates the athlete filter against existing athletes and returns
// the matching runs with their total count.
func (s *Service) List(ctx context.Context, params ListParams) (_ []Run, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.runs.list")
	defer func() { tracing.EndSpan(span, err) }()

	if params.AthleteID != nil {
		if err := s.checkAthlete(ctx, *params.AthleteID); err != nil {
			return nil, 0, err
		}
	}

	runs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	return runs, total, nil
}

// Update applies a full (PUT) or partial (PATCH) update. Only athlete and
// comment are writable.
func (s *Service) Update(ctx context.Context, id int, req RunRequest, partial bool) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.runs.update")
	defer func() { tracing.EndSpan(span, err) }()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(partial); err != nil {
		return nil, err
	}
	if req.Athlete != nil {
		if err := s.checkAthlete(ctx, *req.Athlete); err != nil {
			return nil, err
		}
	}

	if !partial && req.Comment == nil {
		empty := ""
		req.Comment = &empty
	}

	updated, err := s.repo.Update(ctx, req.Apply(*current))
	if err != nil {
		if errors.Is(err, ErrAthleteNotFound) {
			return nil, athleteValidationError(*req.Athlete)
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Start(ctx context.Context, id int) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.runs.start")
	defer func() { tracing.EndSpan(span, err) }()

	run, err := s.repo.Transition(ctx, id, TransitionStart, nil)
	if err != nil {
		return nil, err
	}

	s.metrics.CounterRunsStarted.Inc()
	log.Debugf("run %d of athlete %d started", run.ID, run.AthleteID)
	return run, nil
}

// Stop finishes the run, and awards the ten runs challenge when this was the
// athlete's 10th finished run. Both happen in one transaction. The award is
// an insert guarded by the (athlete, name) unique constraint, so concurrent
// finishes can not create a duplicate. Stops of the same athlete are
// serialized before counting, so of two runs finished at the same time the
// later one sees the earlier finish.
func (s *Service) Stop(ctx context.Context, id int) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.runs.stop")
	defer func() { tracing.EndSpan(span, err) }()

	awarded := false
	run, err := s.repo.Transition(ctx, id, TransitionStop, func(ctx context.Context, q db.Querier, run *Run) error {
		if err := s.repo.LockAthlete(ctx, q, run.AthleteID); err != nil {
			return err
		}

		finished, err := s.repo.CountFinished(ctx, q, run.AthleteID)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("runs-finished", finished))

		if finished != MilestoneRunsFinished {
			return nil
		}

		awarded, err = s.awarder.Award(ctx, q, run.AthleteID, challenges.NameTenRuns)
		if err != nil {
			return fmt.Errorf("award challenge: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CounterRunsFinished.Inc()
	if awarded {
		s.metrics.CounterChallengesAwarded.Inc()
		log.Infof("athlete %d awarded challenge [%s]", run.AthleteID, challenges.NameTenRuns)
	}
	log.Debugf("run %d of athlete %d finished", run.ID, run.AthleteID)

	return run, nil
}

func (s *Service) checkAthlete(ctx context.Context, athleteID int) error {
	exists, err := s.repo.AthleteExists(ctx, athleteID)
	if err != nil {
		return fmt.Errorf("check athlete %d: %w", athleteID, err)
	}
	if !exists {
		return athleteValidationError(athleteID)
	}
	return nil
}

func athleteValidationError(athleteID int) error {
	return validation.Single("athlete", fmt.Sprintf("athlete with id %d does not exist", athleteID))
}
