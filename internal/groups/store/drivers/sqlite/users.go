package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, phone, display_name, active_group_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Phone,
		u.DisplayName,
		mapStringNull(u.ActiveGroupID),
		u.CreatedAt,
		u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, phone, display_name, active_group_id, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, phone, display_name, active_group_id, created_at, updated_at
		FROM users WHERE phone = ?`, phone)
	return scanUser(row)
}

func (r *usersRepo) SetActiveGroup(ctx context.Context, userID, groupID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET active_group_id = ?, updated_at = ? WHERE id = ?`,
		mapStringNull(groupID), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u             domain.User
		activeGroupID sql.NullString
	)
	err := row.Scan(&u.ID, &u.Phone, &u.DisplayName, &activeGroupID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.ActiveGroupID = mapNullString(activeGroupID)
	return u, nil
}
