package challenges

import (
	"context"
	"fmt"

	"github.com/2beens/runtracker/internal/db"
	"github.com/2beens/runtracker/internal/telemetry/tracing"

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

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Challenge, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.list")
	defer func() { tracing.EndSpan(span, err) }()
	if params.AthleteID != nil {
		span.SetAttributes(attribute.Int("athlete", *params.AthleteID))
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM challenge
		WHERE ($1::integer IS NULL OR athlete_id = $1);`,
		params.AthleteID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count challenges: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, full_name, athlete_id
		FROM challenge
		WHERE ($1::integer IS NULL OR athlete_id = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3;`,
		params.AthleteID, params.Pagination.Limit(), params.Pagination.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]Challenge, 0)
	for rows.Next() {
		var c Challenge
		if err := rows.Scan(&c.ID, &c.FullName, &c.AthleteID); err != nil {
			return nil, 0, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return challenges, total, nil
}

// Award creates the named challenge for the athlete, unless it already
// exists. It reports whether a new challenge was created. The q querier lets
// the caller award inside its own transaction.
func (r *Repo) Award(ctx context.Context, q db.Querier, athleteID int, name string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.challenges.award")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(
		attribute.Int("athlete", athleteID),
		attribute.String("name", name),
	)

	if q == nil {
		q = r.db
	}

	tag, err := q.Exec(ctx, `
		INSERT INTO challenge (full_name, athlete_id)
		VALUES ($1, $2)
		ON CONFLICT (full_name, athlete_id) DO NOTHING;`,
		name, athleteID,
	)
	if err != nil {
		return false, fmt.Errorf("insert challenge: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
