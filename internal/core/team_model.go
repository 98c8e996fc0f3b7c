package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// WeeklyAvailability marks the weekdays a team member can be scheduled.
type WeeklyAvailability struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

// On reports availability for a weekday.
func (a WeeklyAvailability) On(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return a.Monday
	case time.Tuesday:
		return a.Tuesday
	case time.Wednesday:
		return a.Wednesday
	case time.Thursday:
		return a.Thursday
	case time.Friday:
		return a.Friday
	case time.Saturday:
		return a.Saturday
	case time.Sunday:
		return a.Sunday
	}
	return false
}

// TeamMember is a schedulable technician.
type TeamMember struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email,omitempty"`
	Role         string             `json:"role,omitempty"`
	Skills       []string           `json:"skills,omitempty"`
	HourlyRate   decimal.Decimal    `json:"hourly_rate"`
	Availability WeeklyAvailability `json:"availability"`
	IsActive     bool               `json:"is_active"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func (m *TeamMember) Meta() DocumentMeta {
	return DocumentMeta{Kind: KindTeamMember, ID: m.ID, Status: activeStatus(m.IsActive)}
}

// Supplier provides materials for purchase orders.
type Supplier struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Categories    []string  `json:"categories,omitempty"`
	LeadTimeDays  int       `json:"lead_time_days"`
	PaymentTerms  string    `json:"payment_terms"`
	IsActive      bool      `json:"is_active"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *Supplier) Meta() DocumentMeta {
	return DocumentMeta{Kind: KindSupplier, ID: s.ID, Status: activeStatus(s.IsActive)}
}

func activeStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

// MasterDataService stores the suppliers and team members that conversions
// and scheduling resolve by id.
type MasterDataService interface {
	// PutSupplier creates or replaces a supplier.
	PutSupplier(ctx context.Context, s Supplier) (*Supplier, error)

	// PutTeamMember creates or replaces a team member.
	PutTeamMember(ctx context.Context, m TeamMember) (*TeamMember, error)

	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	GetTeamMember(ctx context.Context, id string) (*TeamMember, error)
	GetTeamMembers(ctx context.Context) ([]TeamMember, error)
}

// ScheduleService answers availability and utilization questions. It never
// writes.
type ScheduleService interface {
	// Availability reports, for every active member, whether the weekday is
	// free and which jobs already occupy the date.
	Availability(ctx context.Context, date time.Time) ([]MemberAvailability, error)

	// Utilization returns the member's booked share of the week beginning on
	// the Monday of the given date.
	Utilization(ctx context.Context, memberID string, week time.Time) (*UtilizationReport, error)
}
