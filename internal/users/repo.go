package users

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

var ErrUserNotFound = errors.New("user not found")

type ListParams struct {
	// IsStaff nil means both coaches and athletes
	IsStaff *bool
	// Search is matched case-insensitively against first and last name
	Search     string
	OrderBy    string
	Pagination *listing.Pagination
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const listFilter = `
	WHERE u.is_superuser = FALSE
	  AND ($1::boolean IS NULL OR u.is_staff = $1)
	  AND ($2::text = '' OR u.first_name ILIKE '%' || $2 || '%' OR u.last_name ILIKE '%' || $2 || '%')
`

// List returns the users matching params, each annotated with its finished
// runs count, and the total count of matching users.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []User, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("search", params.Search))
	if params.IsStaff != nil {
		span.SetAttributes(attribute.Bool("is-staff", *params.IsStaff))
	}

	search := pkg.EscapeLike(params.Search)

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM auth_user u`+listFilter,
		params.IsStaff, search,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = "ORDER BY u.id"
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			u.id, u.username, u.first_name, u.last_name, u.date_joined, u.is_staff, u.is_superuser,
			COUNT(r.id) FILTER (WHERE r.status = 'finished') AS runs_finished
		FROM auth_user u
		LEFT JOIN run r ON r.athlete_id = u.id
		`+listFilter+`
		GROUP BY u.id
		`+orderBy+`
		LIMIT $3 OFFSET $4;`,
		params.IsStaff, search,
		params.Pagination.Limit(), params.Pagination.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		var runsFinished int
		if err := rows.Scan(
			&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.DateJoined, &u.IsStaff, &u.IsSuperuser,
			&runsFinished,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		u.RunsFinishedAnnotated = &runsFinished
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Get returns a non-superuser user, without the finished runs annotation
func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int("id", id))

	u := &User{}
	err = r.db.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, date_joined, is_staff, is_superuser
		FROM auth_user
		WHERE id = $1 AND is_superuser = FALSE;`,
		id,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.DateJoined, &u.IsStaff, &u.IsSuperuser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *Repo) CountFinishedRuns(ctx context.Context, userID int) (count int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.countfinishedruns")
	defer func() { tracing.EndSpan(span, err) }()

	err = r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM run WHERE athlete_id = $1 AND status = 'finished';`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count finished runs: %w", err)
	}
	return count, nil
}

// GetOrCreateAthleteInfo returns the user's athlete info, creating an empty
// one on first access.
func (r *Repo) GetOrCreateAthleteInfo(ctx context.Context, userID int) (_ *AthleteInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.athleteinfo.getorcreate")
	defer func() { tracing.EndSpan(span, err) }()

	return getOrCreateAthleteInfo(ctx, r.db, userID)
}

func getOrCreateAthleteInfo(ctx context.Context, q db.Querier, userID int) (*AthleteInfo, error) {
	// when the insert happens, the outer select does not see the new row
	// (same snapshot), so exactly one of the two branches yields it
	info := &AthleteInfo{}
	err := q.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO athlete_info (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING user_id, goals, weight
		)
		SELECT user_id, goals, weight FROM inserted
		UNION ALL
		SELECT user_id, goals, weight FROM athlete_info WHERE user_id = $1
		LIMIT 1;`,
		userID,
	).Scan(&info.UserID, &info.Goals, &info.Weight)
	if errors.Is(err, pgx.ErrNoRows) {
		// a concurrent first access inserted the row after our snapshot was
		// taken; it is committed now, a new statement sees it
		err = q.QueryRow(ctx,
			`SELECT user_id, goals, weight FROM athlete_info WHERE user_id = $1;`,
			userID,
		).Scan(&info.UserID, &info.Goals, &info.Weight)
	}
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get or create athlete info: %w", err)
	}

	return info, nil
}

func (r *Repo) UpsertAthleteInfo(ctx context.Context, info AthleteInfo) (_ *AthleteInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.athleteinfo.upsert")
	defer func() { tracing.EndSpan(span, err) }()

	saved := &AthleteInfo{}
	err = r.db.QueryRow(ctx, `
		INSERT INTO athlete_info (user_id, goals, weight)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
			SET goals = EXCLUDED.goals, weight = EXCLUDED.weight
		RETURNING user_id, goals, weight;`,
		info.UserID, info.Goals, info.Weight,
	).Scan(&saved.UserID, &saved.Goals, &saved.Weight)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("upsert athlete info: %w", err)
	}

	return saved, nil
}
