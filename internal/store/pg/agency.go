package pg

import (
	"context"
	"database/sql"
	"errors"

	"agentdesk.io/internal/agency"
	"agentdesk.io/internal/ids"
)

var _ agency.Store = (*Store)(nil)

func (s *Store) GetAgencyBySlug(ctx context.Context, slug string) (agency.Agency, error) {
	return s.scanAgency(s.db.QueryRowContext(ctx, `
		select id, slug, name, created_at, updated_at
		from agencies
		where slug = $1
	`, slug))
}

func (s *Store) GetAgency(ctx context.Context, id string) (agency.Agency, error) {
	return s.scanAgency(s.db.QueryRowContext(ctx, `
		select id, slug, name, created_at, updated_at
		from agencies
		where id = $1
	`, id))
}

func (s *Store) scanAgency(row *sql.Row) (agency.Agency, error) {
	var a agency.Agency
	err := row.Scan(&a.ID, &a.Slug, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return agency.Agency{}, agency.ErrNotFound
	}
	if err != nil {
		return agency.Agency{}, err
	}
	return a, nil
}

func (s *Store) ListTeamMembers(ctx context.Context, agencyID string) ([]agency.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, agency_id, full_name, email, position, hired_at, created_at, updated_at
		from team_members
		where agency_id = $1
		order by full_name
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []agency.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) CreateTeamMember(ctx context.Context, member agency.TeamMember) (agency.TeamMember, error) {
	id := ids.New()
	row := s.db.QueryRowContext(ctx, `
		insert into team_members (id, agency_id, full_name, email, position, hired_at)
		values ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6)
		returning id, agency_id, full_name, email, position, hired_at, created_at, updated_at
	`, id, member.AgencyID, member.FullName, member.Email, member.Position, member.HiredAt)

	m, err := scanTeamMember(row.Scan)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return agency.TeamMember{}, agency.ErrConflict
			case pgErrForeignKeyViolation:
				return agency.TeamMember{}, agency.ErrNotFound
			}
		}
		return agency.TeamMember{}, err
	}
	return m, nil
}

func (s *Store) GetTeamMember(ctx context.Context, id string) (agency.TeamMember, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, agency_id, full_name, email, position, hired_at, created_at, updated_at
		from team_members
		where id = $1
	`, id)
	m, err := scanTeamMember(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return agency.TeamMember{}, agency.ErrNotFound
	}
	if err != nil {
		return agency.TeamMember{}, err
	}
	return m, nil
}

func scanTeamMember(scan func(...any) error) (agency.TeamMember, error) {
	var (
		m        agency.TeamMember
		email    sql.NullString
		position sql.NullString
		hiredAt  sql.NullTime
	)
	if err := scan(&m.ID, &m.AgencyID, &m.FullName, &email, &position, &hiredAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return agency.TeamMember{}, err
	}
	m.Email = email.String
	m.Position = position.String
	if hiredAt.Valid {
		t := hiredAt.Time
		m.HiredAt = &t
	}
	return m, nil
}

func (s *Store) CreateReport(ctx context.Context, report agency.Report) (agency.Report, error) {
	id := ids.New()
	metrics := []byte("{}")
	if len(report.Metrics) > 0 {
		metrics = report.Metrics
	}
	row := s.db.QueryRowContext(ctx, `
		insert into reports (id, agency_id, author_user_id, period, summary, metrics)
		values ($1, $2, $3, $4, $5, $6)
		returning id, agency_id, author_user_id, period, summary, metrics, created_at
	`, id, report.AgencyID, report.AuthorUserID, report.Period, report.Summary, metrics)

	r, err := scanReport(row.Scan)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return agency.Report{}, agency.ErrConflict
			case pgErrForeignKeyViolation:
				return agency.Report{}, agency.ErrNotFound
			}
		}
		return agency.Report{}, err
	}
	return r, nil
}

func (s *Store) ListReports(ctx context.Context, agencyID string) ([]agency.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, agency_id, author_user_id, period, summary, metrics, created_at
		from reports
		where agency_id = $1
		order by created_at desc
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []agency.Report
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func scanReport(scan func(...any) error) (agency.Report, error) {
	var (
		r       agency.Report
		summary sql.NullString
		metrics []byte
	)
	if err := scan(&r.ID, &r.AgencyID, &r.AuthorUserID, &r.Period, &summary, &metrics, &r.CreatedAt); err != nil {
		return agency.Report{}, err
	}
	r.Summary = summary.String
	r.Metrics = metrics
	return r, nil
}

func (s *Store) ListRenewals(ctx context.Context, agencyID string) ([]agency.Renewal, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, agency_id, team_member_id, policy_number, customer, renews_at, status, created_at, updated_at
		from renewals
		where agency_id = $1
		order by renews_at
	`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []agency.Renewal
	for rows.Next() {
		r, err := scanRenewal(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *Store) GetRenewal(ctx context.Context, id string) (agency.Renewal, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, agency_id, team_member_id, policy_number, customer, renews_at, status, created_at, updated_at
		from renewals
		where id = $1
	`, id)
	r, err := scanRenewal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return agency.Renewal{}, agency.ErrNotFound
	}
	if err != nil {
		return agency.Renewal{}, err
	}
	return r, nil
}

func (s *Store) UpdateRenewalStatus(ctx context.Context, id, status string) (agency.Renewal, error) {
	row := s.db.QueryRowContext(ctx, `
		update renewals
		set status = $2, updated_at = now()
		where id = $1
		returning id, agency_id, team_member_id, policy_number, customer, renews_at, status, created_at, updated_at
	`, id, status)
	r, err := scanRenewal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return agency.Renewal{}, agency.ErrNotFound
	}
	if err != nil {
		return agency.Renewal{}, err
	}
	return r, nil
}

func scanRenewal(scan func(...any) error) (agency.Renewal, error) {
	var (
		r            agency.Renewal
		teamMemberID sql.NullString
	)
	if err := scan(&r.ID, &r.AgencyID, &teamMemberID, &r.PolicyNumber, &r.Customer, &r.RenewsAt, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return agency.Renewal{}, err
	}
	r.TeamMemberID = teamMemberID.String
	return r, nil
}
