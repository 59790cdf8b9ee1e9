package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/commission"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence/models"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/repo"
)

var ErrCommissionRequestNotFound = gerrors.New("commission request not found")

const pgUniqueViolation = "23505"

type PgCommissionRepository struct{}

func NewCommissionRepository() commission.Repository {
	return &PgCommissionRepository{}
}

// Create relies on the partial unique index on commission_requests(job_id)
// WHERE status <> 'denied'. Two concurrent submissions for the same job race
// at the index, never in application code.
func (r *PgCommissionRepository) Create(ctx context.Context, req *commission.CommissionRequest) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if req.Status == "" {
		req.Status = commission.StatusPending
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO commission_requests (job_id, check_amount, status, denial_reason, submitted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`,
		req.JobID.String(),
		req.CheckAmount,
		string(req.Status),
		req.DenialReason,
		req.SubmittedBy.String(),
		createdAt,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return commission.ErrDuplicateSubmission
		}
		return gerrors.Wrap(err, "failed to create commission request")
	}
	return nil
}

func (r *PgCommissionRepository) List(ctx context.Context, params *commission.FindParams) ([]*commission.CommissionRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildCommissionFilters(params)
	query := `
		SELECT id, job_id, check_amount, status, denial_reason, submitted_by, created_at
		FROM commission_requests
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*commission.CommissionRequest
	for rows.Next() {
		var row models.CommissionRequest
		if err := rows.Scan(
			&row.ID,
			&row.JobID,
			&row.CheckAmount,
			&row.Status,
			&row.DenialReason,
			&row.SubmittedBy,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		req, err := toDomainCommissionRequest(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, req)
	}
	return results, rows.Err()
}

func (r *PgCommissionRepository) CountApproved(ctx context.Context, submittedBy uuid.UUID, from, to time.Time) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM commission_requests
		WHERE submitted_by = $1
		  AND status = $2
		  AND created_at >= $3
		  AND created_at <= $4
	`,
		submittedBy.String(),
		string(commission.StatusApproved),
		from,
		to,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgCommissionRepository) Review(ctx context.Context, id uint, status commission.RequestStatus, denialReason *string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE commission_requests
		SET status = $2, denial_reason = $3
		WHERE id = $1
	`, id, string(status), denialReason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommissionRequestNotFound
	}
	return nil
}

func (r *PgCommissionRepository) ListTiers(ctx context.Context) ([]commission.BonusTier, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT required_deals, bonus_amount
		FROM bonus_tiers
		ORDER BY required_deals
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []commission.BonusTier
	for rows.Next() {
		var row models.BonusTier
		if err := rows.Scan(&row.RequiredDeals, &row.BonusAmount); err != nil {
			return nil, err
		}
		tiers = append(tiers, commission.BonusTier{
			RequiredDeals: row.RequiredDeals,
			BonusAmount:   row.BonusAmount,
		})
	}
	return tiers, rows.Err()
}

func buildCommissionFilters(params *commission.FindParams) ([]string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if params == nil {
		return where, args
	}

	if params.JobID != nil {
		args = append(args, params.JobID.String())
		where = append(where, fmt.Sprintf("job_id = $%d", len(args)))
	}
	if params.SubmittedBy != nil {
		args = append(args, params.SubmittedBy.String())
		where = append(where, fmt.Sprintf("submitted_by = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.From != nil && !params.From.IsZero() {
		args = append(args, *params.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if params.To != nil && !params.To.IsZero() {
		args = append(args, *params.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	return where, args
}
