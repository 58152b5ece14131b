package agency

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("agency: invalid input")
	ErrNotFound     = errors.New("agency: not found")
	ErrConflict     = errors.New("agency: conflict")
)

// Store describes the persistence operations the back-office endpoints need.
// Every read and write is scoped by agency id; the id is always the resolved
// identity's, never client input.
type Store interface {
	GetAgencyBySlug(ctx context.Context, slug string) (Agency, error)
	GetAgency(ctx context.Context, id string) (Agency, error)

	ListTeamMembers(ctx context.Context, agencyID string) ([]TeamMember, error)
	CreateTeamMember(ctx context.Context, member TeamMember) (TeamMember, error)
	GetTeamMember(ctx context.Context, id string) (TeamMember, error)

	CreateReport(ctx context.Context, report Report) (Report, error)
	ListReports(ctx context.Context, agencyID string) ([]Report, error)

	ListRenewals(ctx context.Context, agencyID string) ([]Renewal, error)
	GetRenewal(ctx context.Context, id string) (Renewal, error)
	UpdateRenewalStatus(ctx context.Context, id, status string) (Renewal, error)
}
