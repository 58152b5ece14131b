package pg

import (
	"context"
	"database/sql"
	"errors"

	"agentdesk.io/internal/auth"
)

var (
	_ auth.ProfileStore = (*Store)(nil)
	_ auth.StaffStore   = (*Store)(nil)
)

func (s *Store) FindProfile(ctx context.Context, userID string) (auth.Profile, error) {
	if s.db == nil {
		return auth.Profile{}, errors.New("database connection unavailable")
	}
	var (
		p        auth.Profile
		agencyID sql.NullString
		fullName sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select user_id, agency_id, role, full_name, created_at, updated_at
		from profiles
		where user_id = $1
	`, userID).Scan(&p.UserID, &agencyID, &p.Role, &fullName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Profile{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Profile{}, err
	}
	p.AgencyID = agencyID.String
	p.FullName = fullName.String
	return p, nil
}

func (s *Store) FindStaffByEmail(ctx context.Context, agencyID, email string) (auth.StaffUser, error) {
	if s.db == nil {
		return auth.StaffUser{}, errors.New("database connection unavailable")
	}
	var u auth.StaffUser
	err := s.db.QueryRowContext(ctx, `
		select id, agency_id, email, full_name, password_hash, is_active, created_at, updated_at
		from staff_users
		where agency_id = $1 and email = $2
	`, agencyID, email).Scan(&u.ID, &u.AgencyID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.StaffUser{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.StaffUser{}, err
	}
	return u, nil
}

// FindSession joins through staff_users so one read yields everything the
// session adapter needs: owning agency and the staff is_active flag.
func (s *Store) FindSession(ctx context.Context, sessionID string) (auth.SessionRow, error) {
	if s.db == nil {
		return auth.SessionRow{}, errors.New("database connection unavailable")
	}
	var row auth.SessionRow
	err := s.db.QueryRowContext(ctx, `
		select ss.id, ss.staff_user_id, su.agency_id, ss.token_hash, ss.expires_at, ss.is_valid, su.is_active, ss.created_at
		from staff_sessions ss
		join staff_users su on su.id = ss.staff_user_id
		where ss.id = $1
	`, sessionID).Scan(&row.ID, &row.StaffUserID, &row.AgencyID, &row.TokenHash, &row.ExpiresAt, &row.IsValid, &row.StaffActive, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.SessionRow{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.SessionRow{}, err
	}
	return row, nil
}

func (s *Store) CreateSession(ctx context.Context, row auth.SessionRow) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	_, err := s.db.ExecContext(ctx, `
		insert into staff_sessions (id, staff_user_id, token_hash, expires_at, is_valid, created_at)
		values ($1, $2, $3, $4, $5, $6)
	`, row.ID, row.StaffUserID, row.TokenHash, row.ExpiresAt, row.IsValid, row.CreatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return auth.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) RevokeSession(ctx context.Context, sessionID string) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	_, err := s.db.ExecContext(ctx, `
		update staff_sessions set is_valid = false where id = $1
	`, sessionID)
	return err
}
