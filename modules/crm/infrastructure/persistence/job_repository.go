package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/job"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence/models"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/repo"
)

var ErrJobNotFound = gerrors.New("job not found")

const jobColumns = `id, status, assigned_to, deal_type, priority, internal_notes,
	customer_status_message, project_completed_at, lien_rights_status,
	lien_rights_expires_at, amount_paid, created_at, updated_at`

type PgJobRepository struct{}

func NewJobRepository() job.Repository {
	return &PgJobRepository{}
}

func (r *PgJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return job.Job{}, err
	}

	row, err := scanJob(tx.QueryRow(ctx, `
		SELECT `+jobColumns+`
		FROM jobs
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return toDomainJob(row)
}

func (r *PgJobRepository) GetPaginated(ctx context.Context, params *job.FindParams) ([]job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = &job.FindParams{}
	}

	where, args, empty := buildJobFilters(params)
	if empty {
		return []job.Job{}, nil
	}

	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_at DESC
	` + " " + repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []job.Job
	for rows.Next() {
		var row models.Job
		if err := rows.Scan(
			&row.ID,
			&row.Status,
			&row.AssignedTo,
			&row.DealType,
			&row.Priority,
			&row.InternalNotes,
			&row.CustomerStatusMessage,
			&row.ProjectCompletedAt,
			&row.LienRightsStatus,
			&row.LienRightsExpiresAt,
			&row.AmountPaid,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		j, err := toDomainJob(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, j)
	}
	return results, rows.Err()
}

func (r *PgJobRepository) Count(ctx context.Context, params *job.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	if params == nil {
		params = &job.FindParams{}
	}

	where, args, empty := buildJobFilters(params)
	if empty {
		return 0, nil
	}

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM jobs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return job.Job{}, err
	}

	row := toDBJob(j)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	row.UpdatedAt = row.CreatedAt

	_, err = tx.Exec(ctx, `
		INSERT INTO jobs (
			id, status, assigned_to, deal_type, priority, internal_notes,
			customer_status_message, project_completed_at, lien_rights_status,
			lien_rights_expires_at, amount_paid, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		row.ID,
		row.Status,
		row.AssignedTo,
		row.DealType,
		row.Priority,
		row.InternalNotes,
		row.CustomerStatusMessage,
		row.ProjectCompletedAt,
		row.LienRightsStatus,
		row.LienRightsExpiresAt,
		row.AmountPaid,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, gerrors.Wrap(err, "failed to create job")
	}
	return r.GetByID(ctx, j.ID())
}

func (r *PgJobRepository) Update(ctx context.Context, j job.Job) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row := toDBJob(j)
	tag, err := tx.Exec(ctx, `
		UPDATE jobs
		SET status = $2,
			assigned_to = $3,
			deal_type = $4,
			priority = $5,
			internal_notes = $6,
			customer_status_message = $7,
			project_completed_at = $8,
			lien_rights_status = $9,
			lien_rights_expires_at = $10,
			amount_paid = $11,
			updated_at = $12
		WHERE id = $1
	`,
		row.ID,
		row.Status,
		row.AssignedTo,
		row.DealType,
		row.Priority,
		row.InternalNotes,
		row.CustomerStatusMessage,
		row.ProjectCompletedAt,
		row.LienRightsStatus,
		row.LienRightsExpiresAt,
		row.AmountPaid,
		time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PgJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var m models.Job
	err := row.Scan(
		&m.ID,
		&m.Status,
		&m.AssignedTo,
		&m.DealType,
		&m.Priority,
		&m.InternalNotes,
		&m.CustomerStatusMessage,
		&m.ProjectCompletedAt,
		&m.LienRightsStatus,
		&m.LienRightsExpiresAt,
		&m.AmountPaid,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// buildJobFilters translates FindParams into SQL. The returned empty flag is
// set when the visibility scope can never match; callers short-circuit
// instead of issuing a query that matches nothing.
func buildJobFilters(params *job.FindParams) ([]string, []any, bool) {
	where := []string{"1=1"}
	args := []any{}

	if !params.Unrestricted {
		if len(params.AssignedToAny) == 0 {
			return nil, nil, true
		}
		ids := make([]string, 0, len(params.AssignedToAny))
		for _, id := range params.AssignedToAny {
			ids = append(ids, id.String())
		}
		args = append(args, ids)
		where = append(where, fmt.Sprintf("assigned_to = ANY($%d)", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(params.LienStatuses) > 0 {
		statuses := make([]string, 0, len(params.LienStatuses))
		for _, s := range params.LienStatuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("lien_rights_status = ANY($%d)", len(args)))
	}
	if params.CompletedOnly {
		where = append(where, "project_completed_at IS NOT NULL")
	}

	return where, args, false
}
