package positions

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/runtracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// numeric columns are read as text, to keep their scale
const positionColumns = `id, run_id, latitude::text, longitude::text, created_at`

func scanPosition(row pgx.Row) (*Position, error) {
	var (
		p        Position
		lat, lon string
	)
	if err := row.Scan(&p.ID, &p.RunID, &lat, &lon, &p.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.Latitude, err = NewCoordinate(lat); err != nil {
		return nil, fmt.Errorf("parse latitude [%s]: %w", lat, err)
	}
	if p.Longitude, err = NewCoordinate(lon); err != nil {
		return nil, fmt.Errorf("parse longitude [%s]: %w", lon, err)
	}

	return &p, nil
}

// Add records a position only if the run is in progress at the moment of
// the insert. The run row is locked, so a concurrent stop waits for it.
func (r *Repo) Add(ctx context.Context, runID int, latitude, longitude Coordinate) (_ *Position, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.positions.add")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("run", runID))

	position, err := scanPosition(r.db.QueryRow(ctx, `
		WITH run_in_progress AS (
			SELECT id FROM run
			WHERE id = $1 AND status = 'in_progress'
			FOR UPDATE
		)
		INSERT INTO position (run_id, latitude, longitude, created_at)
		SELECT id, $2::numeric, $3::numeric, now()
		FROM run_in_progress
		RETURNING `+positionColumns+`;`,
		runID, latitude.String(), longitude.String(),
	))
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("insert position: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM run WHERE id = $1);`, runID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check run %d: %w", runID, err)
	}
	if !exists {
		return nil, ErrRunNotFound
	}
	return nil, ErrRunNotInProgress
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Position, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.positions.get")
	defer func() { tracing.EndSpan(span, err) }()

	position, err := scanPosition(r.db.QueryRow(ctx,
		`SELECT `+positionColumns+` FROM position WHERE id = $1;`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Position, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.positions.list")
	defer func() { tracing.EndSpan(span, err) }()
	if params.RunID != nil {
		span.SetAttributes(attribute.Int("run", *params.RunID))
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM position
		WHERE ($1::integer IS NULL OR run_id = $1);`,
		params.RunID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count positions: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+positionColumns+`
		FROM position
		WHERE ($1::integer IS NULL OR run_id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3;`,
		params.RunID, params.Pagination.Limit(), params.Pagination.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	positions := make([]Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return positions, total, nil
}
