package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/store"
)

type membershipsRepo struct {
	db dbtx
}

const membershipColumns = `
	id, user_id, group_id, invitee_phone, invited_by, status, role,
	token_hash, phone_secret, phone_counter, expires_at, accepted_at,
	created_at, updated_at, version`

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (
			id, user_id, group_id, invitee_phone, invited_by, status, role,
			token_hash, phone_secret, phone_counter, expires_at, accepted_at,
			created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		mapStringNull(m.UserID),
		m.GroupID,
		mapStringNull(m.InviteePhone),
		m.InvitedBy,
		string(m.Status),
		string(m.Role),
		mapStringNull(m.TokenHash),
		mapStringNull(m.PhoneSecret),
		m.PhoneCounter,
		mapTimeNull(m.ExpiresAt),
		mapOptionalTime(m.AcceptedAt),
		m.CreatedAt,
		m.UpdatedAt,
		m.Version,
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, id string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = ?`, id)
	return scanMembership(row)
}

func (r *membershipsRepo) GetPendingByTokenHash(ctx context.Context, hash string, now time.Time) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+`
		 FROM memberships
		 WHERE token_hash = ? AND status = 'pending' AND expires_at > ?`,
		hash, now)
	return scanMembership(row)
}

func (r *membershipsRepo) GetActiveByUserAndGroup(ctx context.Context, userID, groupID string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+`
		 FROM memberships
		 WHERE user_id = ? AND group_id = ? AND status = 'active'`,
		userID, groupID)
	return scanMembership(row)
}

func (r *membershipsRepo) UpdateMembership(ctx context.Context, m domain.Membership) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET user_id = ?, invitee_phone = ?, status = ?, role = ?,
		    token_hash = ?, phone_secret = ?, phone_counter = ?,
		    expires_at = ?, accepted_at = ?, updated_at = ?,
		    version = version + 1
		WHERE id = ? AND version = ?`,
		mapStringNull(m.UserID),
		mapStringNull(m.InviteePhone),
		string(m.Status),
		string(m.Role),
		mapStringNull(m.TokenHash),
		mapStringNull(m.PhoneSecret),
		m.PhoneCounter,
		mapTimeNull(m.ExpiresAt),
		mapOptionalTime(m.AcceptedAt),
		m.UpdatedAt,
		m.ID,
		m.Version,
	)
	if err != nil {
		return mapConstraint(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Distinguish a lost race from a missing row.
		var exists int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM memberships WHERE id = ?`, m.ID).Scan(&exists)
		if err != nil {
			return mapNotFound(err)
		}
		return store.ErrVersionMismatch
	}
	return nil
}

func (r *membershipsRepo) CountActiveByGroup(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE group_id = ? AND status = 'active'`,
		groupID).Scan(&count)
	return count, err
}

func (r *membershipsRepo) CountActiveAdmins(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE group_id = ? AND status = 'active' AND role = 'admin'`,
		groupID).Scan(&count)
	return count, err
}

func (r *membershipsRepo) ListByGroup(ctx context.Context, groupID string, status domain.MembershipStatus, page, limit int) ([]domain.Membership, int, error) {
	return r.list(ctx, "group_id", groupID, status, page, limit)
}

func (r *membershipsRepo) ListByUser(ctx context.Context, userID string, status domain.MembershipStatus, page, limit int) ([]domain.Membership, int, error) {
	return r.list(ctx, "user_id", userID, status, page, limit)
}

func (r *membershipsRepo) list(ctx context.Context, column, value string, status domain.MembershipStatus, page, limit int) ([]domain.Membership, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := fmt.Sprintf("%s = ?", column)
	args := []any{value}
	if status != "" {
		where += " AND status = ?"
		args = append(args, string(status))
	}

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+membershipColumns+`
		 FROM memberships WHERE `+where+`
		 ORDER BY id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		m, err := scanMembershipRows(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *membershipsRepo) ClearExpiredTokenHashes(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET token_hash = NULL, updated_at = ?
		WHERE status = 'pending' AND token_hash IS NOT NULL AND expires_at <= ?`,
		now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row *sql.Row) (domain.Membership, error) {
	m, err := scanMembershipFrom(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func scanMembershipRows(rows *sql.Rows) (domain.Membership, error) {
	return scanMembershipFrom(rows)
}

func scanMembershipFrom(s rowScanner) (domain.Membership, error) {
	var (
		m            domain.Membership
		userID       sql.NullString
		inviteePhone sql.NullString
		tokenHash    sql.NullString
		phoneSecret  sql.NullString
		expiresAt    sql.NullTime
		acceptedAt   sql.NullTime
	)
	err := s.Scan(
		&m.ID,
		&userID,
		&m.GroupID,
		&inviteePhone,
		&m.InvitedBy,
		&m.Status,
		&m.Role,
		&tokenHash,
		&phoneSecret,
		&m.PhoneCounter,
		&expiresAt,
		&acceptedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.Version,
	)
	if err != nil {
		return domain.Membership{}, err
	}
	m.UserID = mapNullString(userID)
	m.InviteePhone = mapNullString(inviteePhone)
	m.TokenHash = mapNullString(tokenHash)
	m.PhoneSecret = mapNullString(phoneSecret)
	m.ExpiresAt = mapNullTime(expiresAt)
	m.AcceptedAt = mapNullTimePtr(acceptedAt)
	return m, nil
}
