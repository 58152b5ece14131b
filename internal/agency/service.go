package agency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Service validates inputs once at the boundary and delegates persistence to
// the store. Tenant authorization happens before any of these are called; the
// agency ids passed in are already trusted.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("agency store is required")
	}
	return &Service{store: store}, nil
}

// ResolveSlug turns a human-readable agency slug into its agency row. This is
// the trusted lookup the authorization gate's target ids come from.
func (s *Service) ResolveSlug(ctx context.Context, slug string) (Agency, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return Agency{}, fmt.Errorf("%w: agency slug is required", ErrInvalidInput)
	}
	return s.store.GetAgencyBySlug(ctx, slug)
}

func (s *Service) GetAgency(ctx context.Context, id string) (Agency, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Agency{}, fmt.Errorf("%w: agency_id is required", ErrInvalidInput)
	}
	return s.store.GetAgency(ctx, id)
}

func (s *Service) ListTeamMembers(ctx context.Context, agencyID string) ([]TeamMember, error) {
	agencyID = strings.TrimSpace(agencyID)
	if agencyID == "" {
		return nil, fmt.Errorf("%w: agency_id is required", ErrInvalidInput)
	}
	return s.store.ListTeamMembers(ctx, agencyID)
}

func (s *Service) CreateTeamMember(ctx context.Context, member TeamMember) (TeamMember, error) {
	member.AgencyID = strings.TrimSpace(member.AgencyID)
	if member.AgencyID == "" {
		return TeamMember{}, fmt.Errorf("%w: agency_id is required", ErrInvalidInput)
	}
	member.FullName = strings.TrimSpace(member.FullName)
	if member.FullName == "" {
		return TeamMember{}, fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	member.Email = strings.TrimSpace(strings.ToLower(member.Email))
	if member.Email != "" && !strings.Contains(member.Email, "@") {
		return TeamMember{}, fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	member.Position = strings.TrimSpace(member.Position)
	return s.store.CreateTeamMember(ctx, member)
}

func (s *Service) GetTeamMember(ctx context.Context, id string) (TeamMember, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return TeamMember{}, fmt.Errorf("%w: team_member_id is required", ErrInvalidInput)
	}
	return s.store.GetTeamMember(ctx, id)
}

func (s *Service) CreateReport(ctx context.Context, report Report) (Report, error) {
	report.AgencyID = strings.TrimSpace(report.AgencyID)
	report.AuthorUserID = strings.TrimSpace(report.AuthorUserID)
	if report.AgencyID == "" || report.AuthorUserID == "" {
		return Report{}, fmt.Errorf("%w: agency_id and author are required", ErrInvalidInput)
	}
	report.Period = strings.TrimSpace(report.Period)
	if report.Period == "" {
		return Report{}, fmt.Errorf("%w: period is required", ErrInvalidInput)
	}
	if len(report.Metrics) > 0 && !json.Valid(report.Metrics) {
		return Report{}, fmt.Errorf("%w: metrics must be a JSON object", ErrInvalidInput)
	}
	report.Summary = strings.TrimSpace(report.Summary)
	return s.store.CreateReport(ctx, report)
}

func (s *Service) ListReports(ctx context.Context, agencyID string) ([]Report, error) {
	agencyID = strings.TrimSpace(agencyID)
	if agencyID == "" {
		return nil, fmt.Errorf("%w: agency_id is required", ErrInvalidInput)
	}
	return s.store.ListReports(ctx, agencyID)
}

func (s *Service) ListRenewals(ctx context.Context, agencyID string) ([]Renewal, error) {
	agencyID = strings.TrimSpace(agencyID)
	if agencyID == "" {
		return nil, fmt.Errorf("%w: agency_id is required", ErrInvalidInput)
	}
	return s.store.ListRenewals(ctx, agencyID)
}

func (s *Service) GetRenewal(ctx context.Context, id string) (Renewal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Renewal{}, fmt.Errorf("%w: renewal_id is required", ErrInvalidInput)
	}
	return s.store.GetRenewal(ctx, id)
}

// renewalTransitions enumerates the legal status moves. Renewed and lapsed
// are terminal.
var renewalTransitions = map[string][]string{
	RenewalPending:   {RenewalContacted, RenewalRenewed, RenewalLapsed},
	RenewalContacted: {RenewalRenewed, RenewalLapsed},
}

// UpdateRenewalStatus moves a renewal along its lifecycle. Illegal
// transitions are conflicts, not validation errors: the request was well
// formed, the resource state disallows it.
func (s *Service) UpdateRenewalStatus(ctx context.Context, id, status string) (Renewal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Renewal{}, fmt.Errorf("%w: renewal_id is required", ErrInvalidInput)
	}
	status = strings.TrimSpace(strings.ToLower(status))
	switch status {
	case RenewalPending, RenewalContacted, RenewalRenewed, RenewalLapsed:
	default:
		return Renewal{}, fmt.Errorf("%w: unsupported status %q", ErrInvalidInput, status)
	}

	current, err := s.store.GetRenewal(ctx, id)
	if err != nil {
		return Renewal{}, err
	}
	if !transitionAllowed(current.Status, status) {
		return Renewal{}, fmt.Errorf("%w: cannot move renewal from %s to %s", ErrConflict, current.Status, status)
	}
	return s.store.UpdateRenewalStatus(ctx, id, status)
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range renewalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
