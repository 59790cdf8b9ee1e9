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

	"github.com/nextdoorextsolutions/roofline/modules/crm/domain/aggregates/user"
	"github.com/nextdoorextsolutions/roofline/modules/crm/infrastructure/persistence/models"
	"github.com/nextdoorextsolutions/roofline/pkg/composables"
	"github.com/nextdoorextsolutions/roofline/pkg/repo"
)

var ErrUserNotFound = gerrors.New("user not found")

const userColumns = "id, role, team_lead_id, rep_code, is_active, created_at, updated_at"

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	var row models.User
	err = tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id).Scan(
		&row.ID,
		&row.Role,
		&row.TeamLeadID,
		&row.RepCode,
		&row.IsActive,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return toDomainUser(&row)
}

func (r *PgUserRepository) GetPaginated(ctx context.Context, params *user.FindParams) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = &user.FindParams{}
	}

	where := []string{"1=1"}
	args := []any{}
	if params.Role != "" {
		args = append(args, string(params.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at
	` + " " + repo.FormatLimitOffset(params.Limit, params.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []user.User
	for rows.Next() {
		var row models.User
		if err := rows.Scan(
			&row.ID,
			&row.Role,
			&row.TeamLeadID,
			&row.RepCode,
			&row.IsActive,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		u, err := toDomainUser(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

func (r *PgUserRepository) TeamMemberIDs(ctx context.Context, teamLeadID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id
		FROM users
		WHERE team_lead_id = $1 AND is_active AND id <> $1
	`, teamLeadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}

	row := toDBUser(u)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	row.UpdatedAt = row.CreatedAt

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, role, team_lead_id, rep_code, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		row.ID,
		row.Role,
		row.TeamLeadID,
		row.RepCode,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return user.User{}, gerrors.Wrap(err, "failed to create user")
	}
	return r.GetByID(ctx, u.ID())
}

func (r *PgUserRepository) Update(ctx context.Context, u user.User) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	row := toDBUser(u)
	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET role = $2, team_lead_id = $3, rep_code = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`,
		row.ID,
		row.Role,
		row.TeamLeadID,
		row.RepCode,
		row.IsActive,
		time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
