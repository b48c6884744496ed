package runs

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runtracker/internal/db"
	"github.com/2beens/runtracker/internal/listing"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type ListParams struct {
	AthleteID  *int
	Status     *Status
	OrderBy    string
	Pagination *listing.Pagination
}

func (p ListParams) statusArg() *string {
	if p.Status == nil {
		return nil
	}
	s := string(*p.Status)
	return &s
}

// TransitionHook runs inside the transition's transaction, after the status
// was changed. An error from the hook rolls the transition back.
type TransitionHook func(ctx context.Context, q db.Querier, run *Run) error

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// runColumns is selected from a run (aliased r) joined with its athlete (u)
const runColumns = `r.id, r.athlete_id, r.created_at, r.comment, r.status, u.id, u.username, u.last_name, u.first_name`

func scanRun(row pgx.Row) (*Run, error) {
	run := &Run{}
	if err := row.Scan(
		&run.ID, &run.AthleteID, &run.CreatedAt, &run.Comment, &run.Status,
		&run.AthleteData.ID, &run.AthleteData.Username, &run.AthleteData.LastName, &run.AthleteData.FirstName,
	); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *Repo) Add(ctx context.Context, athleteID int, comment string) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.add")
	defer func() { tracing.EndSpan(span, err) }()

	run, err := scanRun(r.db.QueryRow(ctx, `
		WITH r AS (
			INSERT INTO run (athlete_id, comment, status, created_at)
			VALUES ($1, $2, $3, now())
			RETURNING id, athlete_id, created_at, comment, status
		)
		SELECT `+runColumns+`
		FROM r JOIN auth_user u ON u.id = r.athlete_id;`,
		athleteID, comment, string(StatusInit),
	))
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return run, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	run, err := scanRun(r.db.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM run r JOIN auth_user u ON u.id = r.athlete_id
		WHERE r.id = $1;`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	return run, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Run, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.list")
	defer func() { tracing.EndSpan(span, err) }()
	if params.AthleteID != nil {
		span.SetAttributes(attribute.Int("athlete", *params.AthleteID))
	}
	if params.Status != nil {
		span.SetAttributes(attribute.String("status", params.Status.String()))
	}

	const filter = `
		WHERE ($1::integer IS NULL OR r.athlete_id = $1)
		  AND ($2::text IS NULL OR r.status = $2)`

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM run r`+filter,
		params.AthleteID, params.statusArg(),
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = "ORDER BY r.id"
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+runColumns+`
		FROM run r JOIN auth_user u ON u.id = r.athlete_id
		`+filter+`
		`+orderBy+`
		LIMIT $3 OFFSET $4;`,
		params.AthleteID, params.statusArg(),
		params.Pagination.Limit(), params.Pagination.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

// Update stores athlete and comment. Status and created_at are never
// written here.
func (r *Repo) Update(ctx context.Context, run Run) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.update")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("id", run.ID))

	updated, err := scanRun(r.db.QueryRow(ctx, `
		WITH r AS (
			UPDATE run SET athlete_id = $2, comment = $3
			WHERE id = $1
			RETURNING id, athlete_id, created_at, comment, status
		)
		SELECT `+runColumns+`
		FROM r JOIN auth_user u ON u.id = r.athlete_id;`,
		run.ID, run.AthleteID, run.Comment,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("update run: %w", err)
	}

	return updated, nil
}

// Delete removes the run, its positions are removed by the FK cascade
func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.delete")
	defer func() { tracing.EndSpan(span, err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM run WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// Transition changes the run status with a conditional update, so of two
// concurrent calls for the same run only one can succeed. The hook, if any,
// runs in the same transaction.
func (r *Repo) Transition(ctx context.Context, id int, t Transition, hook TransitionHook) (_ *Run, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.transition")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.Int("id", id),
		attribute.String("transition", t.Name),
	)

	var run *Run
	err = db.InTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		run, err = scanRun(tx.QueryRow(ctx, `
			WITH r AS (
				UPDATE run SET status = $3
				WHERE id = $1 AND status = $2
				RETURNING id, athlete_id, created_at, comment, status
			)
			SELECT `+runColumns+`
			FROM r JOIN auth_user u ON u.id = r.athlete_id;`,
			id, string(t.From), string(t.To),
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return r.transitionFailure(ctx, tx, id, t)
		}
		if err != nil {
			return fmt.Errorf("update run status: %w", err)
		}

		if hook == nil {
			return nil
		}
		return hook(ctx, tx, run)
	})
	if err != nil {
		return nil, err
	}

	return run, nil
}

func (r *Repo) transitionFailure(ctx context.Context, q db.Querier, id int, t Transition) error {
	var current Status
	err := q.QueryRow(ctx, `SELECT status FROM run WHERE id = $1;`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRunNotFound
		}
		return fmt.Errorf("get run status: %w", err)
	}
	return &TransitionError{
		Transition: t,
		RunID:      id,
		Current:    current,
	}
}

// LockAthlete takes a transaction scoped advisory lock on the athlete. It is
// held until q's transaction ends, and must be taken inside one.
func (r *Repo) LockAthlete(ctx context.Context, q db.Querier, athleteID int) error {
	if q == nil {
		return errors.New("lock athlete: not in a transaction")
	}
	_, err := q.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('run-stop'), $1);`,
		athleteID,
	)
	if err != nil {
		return fmt.Errorf("lock athlete %d: %w", athleteID, err)
	}
	return nil
}

func (r *Repo) CountFinished(ctx context.Context, q db.Querier, athleteID int) (count int, err error) {
	if q == nil {
		q = r.db
	}
	err = q.QueryRow(ctx,
		`SELECT COUNT(*) FROM run WHERE athlete_id = $1 AND status = $2;`,
		athleteID, string(StatusFinished),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count finished runs: %w", err)
	}
	return count, nil
}

// AthleteExists reports whether a non-superuser user with the id exists.
// Superusers can not own runs.
func (r *Repo) AthleteExists(ctx context.Context, athleteID int) (exists bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.runs.athleteexists")
	defer func() { tracing.EndSpan(span, err) }()

	err = r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM auth_user WHERE id = $1 AND is_superuser = FALSE);`,
		athleteID,
	).Scan(&exists)
	return exists, err
}
