package sqlite

import (
	"context"
	"database/sql"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/store"
)

type groupsRepo struct {
	db dbtx
}

func (r *groupsRepo) CreateGroup(ctx context.Context, g domain.Group) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO groups (
			id, name, description, owner_id, created_by, is_personal,
			allow_invitations, require_approval, max_members, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID,
		g.Name,
		g.Description,
		g.OwnerID,
		g.CreatedBy,
		g.IsPersonal,
		g.Settings.AllowInvitations,
		g.Settings.RequireApproval,
		g.Settings.MaxMembers,
		g.CreatedAt,
		g.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *groupsRepo) GetGroupByID(ctx context.Context, id string) (domain.Group, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner_id, created_by, is_personal,
		       allow_invitations, require_approval, max_members, created_at, updated_at
		FROM groups WHERE id = ?`, id)
	return scanGroup(row)
}

func (r *groupsRepo) UpdateGroup(ctx context.Context, g domain.Group) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE groups
		SET name = ?, description = ?, allow_invitations = ?, require_approval = ?,
		    max_members = ?, updated_at = ?
		WHERE id = ?`,
		g.Name,
		g.Description,
		g.Settings.AllowInvitations,
		g.Settings.RequireApproval,
		g.Settings.MaxMembers,
		g.UpdatedAt,
		g.ID,
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

func scanGroup(row *sql.Row) (domain.Group, error) {
	var g domain.Group
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.OwnerID,
		&g.CreatedBy,
		&g.IsPersonal,
		&g.Settings.AllowInvitations,
		&g.Settings.RequireApproval,
		&g.Settings.MaxMembers,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return domain.Group{}, mapNotFound(err)
	}
	return g, nil
}
