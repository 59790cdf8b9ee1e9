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

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/entities/edithistory"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence/models"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/repo"
)

var ErrHistoryEntryNotFound = gerrors.New("edit history entry not found")

type PgEditHistoryRepository struct{}

func NewEditHistoryRepository() edithistory.Repository {
	return &PgEditHistoryRepository{}
}

func (r *PgEditHistoryRepository) CreateBatch(ctx context.Context, entries []*edithistory.EditHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		createdAt := entry.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO edit_history (job_id, field_name, old_value, new_value, edit_type, actor_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`,
			entry.JobID.String(),
			entry.FieldName,
			entry.OldValue,
			entry.NewValue,
			string(entry.EditType),
			entry.ActorID.String(),
			createdAt,
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return gerrors.Wrap(err, "failed to create edit history entry")
		}
	}
	return nil
}

func (r *PgEditHistoryRepository) List(ctx context.Context, params *edithistory.FindParams) ([]*edithistory.EditHistoryEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildHistoryFilters(params)
	query := `
		SELECT id, job_id, field_name, old_value, new_value, edit_type, actor_id, created_at
		FROM edit_history
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*edithistory.EditHistoryEntry
	for rows.Next() {
		var row models.EditHistoryEntry
		if err := rows.Scan(
			&row.ID,
			&row.JobID,
			&row.FieldName,
			&row.OldValue,
			&row.NewValue,
			&row.EditType,
			&row.ActorID,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry, err := toDomainEditHistoryEntry(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

func (r *PgEditHistoryRepository) Count(ctx context.Context, params *edithistory.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	where, args := buildHistoryFilters(params)
	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM edit_history
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PgEditHistoryRepository) GetByID(ctx context.Context, id uint) (*edithistory.EditHistoryEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var row models.EditHistoryEntry
	err = tx.QueryRow(ctx, `
		SELECT id, job_id, field_name, old_value, new_value, edit_type, actor_id, created_at
		FROM edit_history
		WHERE id = $1
	`, id).Scan(
		&row.ID,
		&row.JobID,
		&row.FieldName,
		&row.OldValue,
		&row.NewValue,
		&row.EditType,
		&row.ActorID,
		&row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHistoryEntryNotFound
		}
		return nil, err
	}
	return toDomainEditHistoryEntry(&row)
}

func (r *PgEditHistoryRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM edit_history WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHistoryEntryNotFound
	}
	return nil
}

func buildHistoryFilters(params *edithistory.FindParams) ([]string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if params == nil {
		return where, args
	}

	if params.JobID != uuid.Nil {
		args = append(args, params.JobID.String())
		where = append(where, fmt.Sprintf("job_id = $%d", len(args)))
	}
	if params.ActorID != nil {
		args = append(args, params.ActorID.String())
		where = append(where, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if params.EditType != "" {
		args = append(args, string(params.EditType))
		where = append(where, fmt.Sprintf("edit_type = $%d", len(args)))
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
