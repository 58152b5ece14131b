package agency

import (
	"encoding/json"
	"time"
)

// Agency is a tenant: an isolated customer account all data is scoped to.
type Agency struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMember is a roster entry tracked for staff performance.
type TeamMember struct {
	ID        string     `json:"id"`
	AgencyID  string     `json:"agency_id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email,omitempty"`
	Position  string     `json:"position,omitempty"`
	HiredAt   *time.Time `json:"hired_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Report is a performance report submitted by a platform user.
type Report struct {
	ID           string          `json:"id"`
	AgencyID     string          `json:"agency_id"`
	AuthorUserID string          `json:"author_user_id"`
	Period       string          `json:"period"`
	Summary      string          `json:"summary,omitempty"`
	Metrics      json.RawMessage `json:"metrics,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Renewal statuses. Terminal states reject further transitions.
const (
	RenewalPending   = "pending"
	RenewalContacted = "contacted"
	RenewalRenewed   = "renewed"
	RenewalLapsed    = "lapsed"
)

// Renewal tracks one policy approaching its renewal date.
type Renewal struct {
	ID           string    `json:"id"`
	AgencyID     string    `json:"agency_id"`
	TeamMemberID string    `json:"team_member_id,omitempty"`
	PolicyNumber string    `json:"policy_number"`
	Customer     string    `json:"customer"`
	RenewsAt     time.Time `json:"renews_at"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
