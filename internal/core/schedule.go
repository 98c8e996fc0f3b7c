package core

import (
	"math"
	"sort"
	"time"
)

// DefaultWeeklyCapacityHours is the bookable time of one member per week.
const DefaultWeeklyCapacityHours = 40

// DateRange is an inclusive time interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HasOverlap reports whether a and b share at least one instant. Both ends are
// inclusive, so ranges that touch overlap.
func HasOverlap(a, b DateRange) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// MemberAvailability is one row of a day's team availability.
type MemberAvailability struct {
	Member    TeamMember `json:"member"`
	Available bool       `json:"available"`
	Conflicts []Job      `json:"conflicts"`
}

// AssignmentConflict is an advisory overlap found while assigning a team.
type AssignmentConflict struct {
	MemberID string    `json:"member_id"`
	JobID    string    `json:"job_id"`
	JobTitle string    `json:"job_title"`
	Range    DateRange `json:"range"`
}

// UtilizationReport is a member's load for one week.
type UtilizationReport struct {
	MemberID      string    `json:"member_id"`
	WeekStart     time.Time `json:"week_start"`
	WeekEnd       time.Time `json:"week_end"`
	CapacityHours float64   `json:"capacity_hours"`
	BookedHours   float64   `json:"booked_hours"`
	Percent       float64   `json:"percent"`
}

// occupies reports whether the job takes memberID's time: the member is on the
// team, both schedule dates are set, and the job is not finished.
func occupies(j Job, memberID string) bool {
	return j.HasMember(memberID) && j.Scheduled() && !j.Status.Terminal()
}

func scheduleRange(j Job) DateRange {
	return DateRange{Start: *j.ScheduledStart, End: *j.ScheduledEnd}
}

// days widens r to the whole calendar days it touches.
func days(r DateRange) DateRange {
	return DateRange{Start: startOfDay(r.Start), End: startOfDay(r.End)}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// wholeDays returns the half-open span [start's midnight, the midnight after
// end's day), matching the inclusive days ConflictsOnDate compares.
func wholeDays(start, end time.Time) (time.Time, time.Time) {
	return startOfDay(start), startOfDay(end).AddDate(0, 0, 1)
}

// WeekBounds returns Monday 00:00 through the last instant of Sunday for the
// week containing t. The end is for display; hour sums use the half-open week.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7).Add(-time.Second)
}

// ConflictsOnDate returns the jobs occupying member on date, comparing whole
// days. Unscheduled and finished jobs never conflict.
func ConflictsOnDate(member TeamMember, jobs []Job, date time.Time) []Job {
	day := startOfDay(date)
	var out []Job
	for _, j := range jobs {
		if !occupies(j, member.ID) {
			continue
		}
		if HasOverlap(days(scheduleRange(j)), DateRange{Start: day, End: day}) {
			out = append(out, j)
		}
	}
	return out
}

// laborCap is the most hours a job may contribute to one week: its declared
// labor hours, else the sum of task estimates, else unbounded.
func laborCap(j Job) float64 {
	if j.LaborHours != nil {
		return j.LaborHours.InexactFloat64()
	}
	if est := j.EstimatedHours(); est.IsPositive() {
		return est.InexactFloat64()
	}
	return math.Inf(1)
}

// BookedHours sums, per occupying job, the hours its scheduled days overlap
// the window's days, each capped at the job's labor hours. A job scheduled on
// a single date occupies that whole day.
func BookedHours(member TeamMember, jobs []Job, weekStart, weekEnd time.Time) float64 {
	winStart, winEnd := wholeDays(weekStart, weekEnd)
	total := 0.0
	for _, j := range jobs {
		if !occupies(j, member.ID) {
			continue
		}
		start, end := wholeDays(*j.ScheduledStart, *j.ScheduledEnd)
		if winStart.After(start) {
			start = winStart
		}
		if winEnd.Before(end) {
			end = winEnd
		}
		if !end.After(start) {
			continue
		}
		total += math.Min(end.Sub(start).Hours(), laborCap(j))
	}
	return total
}

// WeeklyUtilization returns BookedHours as a percentage of capacityHours,
// clamped to [0, 100]. A non-positive capacity yields 0.
func WeeklyUtilization(member TeamMember, jobs []Job, weekStart, weekEnd time.Time, capacityHours float64) float64 {
	if capacityHours <= 0 {
		return 0
	}
	pct := BookedHours(member, jobs, weekStart, weekEnd) / capacityHours * 100
	return math.Max(0, math.Min(100, pct))
}

// AvailableMembers returns the active members whose weekly availability
// includes date's weekday.
func AvailableMembers(members []TeamMember, date time.Time) []TeamMember {
	var out []TeamMember
	for _, m := range members {
		if m.IsActive && m.Availability.On(date.Weekday()) {
			out = append(out, m)
		}
	}
	return out
}

// TeamAvailability reports availability and conflicts for every active member.
func TeamAvailability(members []TeamMember, jobs []Job, date time.Time) []MemberAvailability {
	out := make([]MemberAvailability, 0, len(members))
	for _, m := range members {
		if !m.IsActive {
			continue
		}
		out = append(out, MemberAvailability{
			Member:    m,
			Available: m.Availability.On(date.Weekday()),
			Conflicts: ConflictsOnDate(m, jobs, date),
		})
	}
	return out
}

// AssignmentConflicts lists, for each member, the other jobs whose schedule
// shares a calendar day with r. The job being assigned is skipped by id.
func AssignmentConflicts(jobID string, r DateRange, memberIDs []string, jobs []Job) []AssignmentConflict {
	var out []AssignmentConflict
	for _, memberID := range memberIDs {
		for _, j := range jobs {
			if j.ID == jobID || !occupies(j, memberID) {
				continue
			}
			if HasOverlap(days(r), days(scheduleRange(j))) {
				out = append(out, AssignmentConflict{
					MemberID: memberID,
					JobID:    j.ID,
					JobTitle: j.Title,
					Range:    scheduleRange(j),
				})
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].MemberID != out[b].MemberID {
			return out[a].MemberID < out[b].MemberID
		}
		return out[a].Range.Start.Before(out[b].Range.Start)
	})
	return out
}
