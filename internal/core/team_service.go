package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

type masterDataService struct {
	e *Engine
}

// NewMasterDataService constructs a MasterDataService over the engine's
// repository.
func NewMasterDataService(e *Engine) MasterDataService {
	return &masterDataService{e: e}
}

func (s *masterDataService) PutSupplier(ctx context.Context, sup Supplier) (*Supplier, error) {
	if strings.TrimSpace(sup.ID) == "" {
		return nil, invalid("id", "is required")
	}
	if strings.TrimSpace(sup.Name) == "" {
		return nil, invalid("name", "is required")
	}
	if sup.LeadTimeDays < 0 {
		return nil, invalid("lead_time_days", "must be >= 0, got %d", sup.LeadTimeDays)
	}
	defer s.e.Locks.lockDoc(KindSupplier, sup.ID)()

	sup.UpdatedAt = s.e.Now()
	if err := s.e.put(ctx, &sup); err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *masterDataService) PutTeamMember(ctx context.Context, m TeamMember) (*TeamMember, error) {
	if strings.TrimSpace(m.ID) == "" {
		return nil, invalid("id", "is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, invalid("name", "is required")
	}
	if m.HourlyRate.IsNegative() {
		return nil, invalid("hourly_rate", "must be >= 0, got %s", m.HourlyRate)
	}
	defer s.e.Locks.lockDoc(KindTeamMember, m.ID)()

	m.UpdatedAt = s.e.Now()
	if err := s.e.put(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *masterDataService) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	return load[*Supplier](ctx, s.e.Repo, KindSupplier, id)
}

func (s *masterDataService) GetTeamMember(ctx context.Context, id string) (*TeamMember, error) {
	return load[*TeamMember](ctx, s.e.Repo, KindTeamMember, id)
}

func (s *masterDataService) GetTeamMembers(ctx context.Context) ([]TeamMember, error) {
	docs, err := listAs[*TeamMember](ctx, s.e.Repo, KindTeamMember, Filter{})
	if err != nil {
		return nil, err
	}
	members := deref(docs)
	sort.Slice(members, func(a, b int) bool { return members[a].Name < members[b].Name })
	return members, nil
}

type scheduleService struct {
	e *Engine
}

// NewScheduleService constructs a read-only ScheduleService.
func NewScheduleService(e *Engine) ScheduleService {
	return &scheduleService{e: e}
}

func (s *scheduleService) Availability(ctx context.Context, date time.Time) ([]MemberAvailability, error) {
	members, err := listAs[*TeamMember](ctx, s.e.Repo, KindTeamMember, Filter{})
	if err != nil {
		return nil, err
	}
	jobs, err := listAs[*Job](ctx, s.e.Repo, KindJob, Filter{})
	if err != nil {
		return nil, err
	}
	return TeamAvailability(deref(members), deref(jobs), date), nil
}

func (s *scheduleService) Utilization(ctx context.Context, memberID string, week time.Time) (*UtilizationReport, error) {
	m, err := load[*TeamMember](ctx, s.e.Repo, KindTeamMember, memberID)
	if err != nil {
		return nil, err
	}
	jobs, err := listAs[*Job](ctx, s.e.Repo, KindJob, Filter{})
	if err != nil {
		return nil, err
	}
	all := deref(jobs)
	start, end := WeekBounds(week)
	capacity := s.e.WeeklyCapacityHours
	return &UtilizationReport{
		MemberID:      m.ID,
		WeekStart:     start,
		WeekEnd:       end,
		CapacityHours: capacity,
		BookedHours:   BookedHours(*m, all, start, end),
		Percent:       WeeklyUtilization(*m, all, start, end, capacity),
	}, nil
}
