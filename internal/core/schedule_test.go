package core_test

import (
	"math"
	"testing"
	"time"

	"fieldops/internal/core"
)

func day(y int, m time.Month, dd, h int) time.Time {
	return time.Date(y, m, dd, h, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func scheduledJob(id string, status core.JobStatus, start, end time.Time, team ...string) core.Job {
	return core.Job{
		ID:             id,
		Title:          "Job " + id,
		Status:         status,
		ScheduledStart: ptr(start),
		ScheduledEnd:   ptr(end),
		AssignedTeam:   team,
	}
}

var weekdays = core.WeeklyAvailability{Monday: true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true}

func TestHasOverlap(t *testing.T) {
	r := func(a, b int) core.DateRange {
		return core.DateRange{Start: day(2026, 3, a, 0), End: day(2026, 3, b, 0)}
	}
	tests := []struct {
		name string
		a, b core.DateRange
		want bool
	}{
		{"disjoint", r(2, 3), r(5, 6), false},
		{"touching ends", r(2, 4), r(4, 6), true},
		{"contained", r(1, 10), r(3, 4), true},
		{"partial", r(2, 5), r(4, 8), true},
		{"same day", r(3, 3), r(3, 3), true},
		{"adjacent days", r(2, 3), r(4, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.HasOverlap(tt.a, tt.b); got != tt.want {
				t.Errorf("HasOverlap = %v, want %v", got, tt.want)
			}
			if got := core.HasOverlap(tt.b, tt.a); got != tt.want {
				t.Errorf("HasOverlap not symmetric")
			}
		})
	}
}

func TestConflictsOnDate(t *testing.T) {
	m := core.TeamMember{ID: "anna", IsActive: true}
	jobs := []core.Job{
		scheduledJob("a", core.JobScheduled, day(2026, 3, 2, 8), day(2026, 3, 4, 17), "anna"),
		scheduledJob("b", core.JobInProgress, day(2026, 3, 4, 8), day(2026, 3, 4, 12), "anna", "ben"),
		scheduledJob("c", core.JobCompleted, day(2026, 3, 1, 8), day(2026, 3, 6, 17), "anna"),
		scheduledJob("d", core.JobScheduled, day(2026, 3, 4, 8), day(2026, 3, 4, 17), "ben"),
		{ID: "e", Status: core.JobPlanned, AssignedTeam: []string{"anna"}},
	}

	tests := []struct {
		name string
		date time.Time
		want []string
	}{
		{"first day", day(2026, 3, 2, 18), []string{"a"}},
		{"last day afternoon", day(2026, 3, 4, 23), []string{"a", "b"}},
		{"after range", day(2026, 3, 5, 9), nil},
		{"before range", day(2026, 3, 1, 9), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ConflictsOnDate(m, jobs, tt.date)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d conflicts, want %d", len(got), len(tt.want))
			}
			for i, j := range got {
				if j.ID != tt.want[i] {
					t.Errorf("conflict %d = %s, want %s", i, j.ID, tt.want[i])
				}
			}
		})
	}
}

func TestWeeklyUtilization_FullWeekIsExactly100(t *testing.T) {
	m := core.TeamMember{ID: "anna", IsActive: true}
	weekStart, weekEnd := core.WeekBounds(day(2026, 3, 4, 12))
	job := scheduledJob("a", core.JobScheduled, weekStart, weekEnd, "anna")
	job.LaborHours = ptr(d("40"))

	got := core.WeeklyUtilization(m, []core.Job{job}, weekStart, weekEnd, 40)
	if got != 100 {
		t.Errorf("WeeklyUtilization = %v, want exactly 100", got)
	}
}

func TestWeeklyUtilization(t *testing.T) {
	m := core.TeamMember{ID: "anna", IsActive: true}
	weekStart, weekEnd := core.WeekBounds(day(2026, 3, 2, 0))

	eightHours := scheduledJob("a", core.JobScheduled, day(2026, 3, 3, 8), day(2026, 3, 3, 16), "anna")
	eightHours.LaborHours = ptr(d("8"))

	cappedJob := scheduledJob("b", core.JobInProgress, day(2026, 3, 4, 0), day(2026, 3, 6, 0), "anna")
	cappedJob.LaborHours = ptr(d("12"))

	spill := scheduledJob("c", core.JobScheduled, day(2026, 3, 8, 20), day(2026, 3, 10, 0), "anna")
	spill.LaborHours = ptr(d("100"))

	done := scheduledJob("d", core.JobCompleted, weekStart, weekEnd, "anna")
	other := scheduledJob("e", core.JobScheduled, weekStart, weekEnd, "ben")
	unscheduled := core.Job{ID: "f", Status: core.JobPlanned, AssignedTeam: []string{"anna"}}

	tests := []struct {
		name string
		jobs []core.Job
		want float64
	}{
		{"no jobs", nil, 0},
		{"one 8h day", []core.Job{eightHours}, 20},
		{"capped at labor hours", []core.Job{cappedJob}, 30},
		{"overlap clipped to week", []core.Job{spill}, 60},
		{"finished, foreign and unscheduled ignored", []core.Job{done, other, unscheduled}, 0},
		{"sum of jobs", []core.Job{eightHours, cappedJob}, 50},
		{"clamped to 100", []core.Job{eightHours, cappedJob, scheduledJob("g", core.JobScheduled, weekStart, weekEnd, "anna")}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.WeeklyUtilization(m, tt.jobs, weekStart, weekEnd, 40)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WeeklyUtilization = %v, want %v", got, tt.want)
			}
		})
	}

	if got := core.WeeklyUtilization(m, []core.Job{eightHours}, weekStart, weekEnd, 0); got != 0 {
		t.Errorf("zero capacity should yield 0, got %v", got)
	}
}

func TestBookedHours_WholeDays(t *testing.T) {
	m := core.TeamMember{ID: "anna", IsActive: true}
	weekStart, weekEnd := core.WeekBounds(day(2026, 3, 2, 0))

	single := scheduledJob("a", core.JobScheduled, day(2026, 3, 3, 0), day(2026, 3, 3, 0), "anna")
	single.LaborHours = ptr(d("8"))
	monFri := scheduledJob("b", core.JobScheduled, day(2026, 3, 2, 0), day(2026, 3, 6, 0), "anna")
	monFri.LaborHours = ptr(d("200"))
	fullWeek := scheduledJob("c", core.JobScheduled, weekStart, weekEnd, "anna")
	fullWeek.LaborHours = ptr(d("500"))

	tests := []struct {
		name string
		job  core.Job
		want float64
	}{
		{"single date books its day up to the cap", single, 8},
		{"mon to fri dates are five days", monFri, 120},
		{"full week is seven days", fullWeek, 168},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.BookedHours(m, []core.Job{tt.job}, weekStart, weekEnd); got != tt.want {
				t.Errorf("BookedHours = %v, want %v", got, tt.want)
			}
		})
	}

	if n := len(core.ConflictsOnDate(m, []core.Job{single}, day(2026, 3, 3, 15))); n != 1 {
		t.Errorf("single-date job should conflict on its day, got %d", n)
	}
	if got := core.WeeklyUtilization(m, []core.Job{single}, weekStart, weekEnd, 40); got != 20 {
		t.Errorf("single-date job utilization = %v, want 20", got)
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		in        time.Time
		wantStart time.Time
	}{
		{day(2026, 3, 2, 10), day(2026, 3, 2, 0)},
		{day(2026, 3, 8, 23), day(2026, 3, 2, 0)},
		{day(2026, 3, 4, 0), day(2026, 3, 2, 0)},
		{day(2026, 1, 1, 12), day(2025, 12, 29, 0)},
	}
	for _, tt := range tests {
		start, end := core.WeekBounds(tt.in)
		if !start.Equal(tt.wantStart) {
			t.Errorf("WeekBounds(%v) start = %v, want %v", tt.in, start, tt.wantStart)
		}
		if want := tt.wantStart.AddDate(0, 0, 7).Add(-time.Second); !end.Equal(want) {
			t.Errorf("WeekBounds(%v) end = %v, want %v", tt.in, end, want)
		}
	}
}

func TestAvailableMembers(t *testing.T) {
	members := []core.TeamMember{
		{ID: "anna", IsActive: true, Availability: weekdays},
		{ID: "ben", IsActive: true, Availability: core.WeeklyAvailability{Saturday: true}},
		{ID: "cleo", IsActive: false, Availability: weekdays},
	}

	monday := core.AvailableMembers(members, day(2026, 3, 2, 9))
	if len(monday) != 1 || monday[0].ID != "anna" {
		t.Errorf("Monday: got %+v", monday)
	}
	saturday := core.AvailableMembers(members, day(2026, 3, 7, 9))
	if len(saturday) != 1 || saturday[0].ID != "ben" {
		t.Errorf("Saturday: got %+v", saturday)
	}
}

func TestTeamAvailability(t *testing.T) {
	members := []core.TeamMember{
		{ID: "anna", IsActive: true, Availability: weekdays},
		{ID: "ben", IsActive: true, Availability: core.WeeklyAvailability{Saturday: true}},
		{ID: "cleo", IsActive: false, Availability: weekdays},
	}
	jobs := []core.Job{scheduledJob("a", core.JobScheduled, day(2026, 3, 2, 8), day(2026, 3, 3, 17), "anna")}

	rows := core.TeamAvailability(members, jobs, day(2026, 3, 2, 9))
	if len(rows) != 2 {
		t.Fatalf("expected 2 active members, got %d", len(rows))
	}
	if !rows[0].Available || len(rows[0].Conflicts) != 1 {
		t.Errorf("anna: %+v", rows[0])
	}
	if rows[1].Available || len(rows[1].Conflicts) != 0 {
		t.Errorf("ben: %+v", rows[1])
	}
}

func TestAssignmentConflicts(t *testing.T) {
	jobs := []core.Job{
		scheduledJob("self", core.JobScheduled, day(2026, 3, 2, 8), day(2026, 3, 4, 17), "anna"),
		scheduledJob("x", core.JobScheduled, day(2026, 3, 4, 8), day(2026, 3, 5, 17), "anna"),
		scheduledJob("y", core.JobCompleted, day(2026, 3, 3, 8), day(2026, 3, 3, 17), "anna"),
		scheduledJob("z", core.JobInProgress, day(2026, 3, 1, 8), day(2026, 3, 2, 9), "ben"),
		scheduledJob("w", core.JobScheduled, day(2026, 3, 9, 8), day(2026, 3, 9, 17), "anna"),
		scheduledJob("v", core.JobScheduled, day(2026, 3, 2, 5), day(2026, 3, 2, 6), "anna"),
	}
	r := core.DateRange{Start: day(2026, 3, 2, 8), End: day(2026, 3, 4, 17)}

	got := core.AssignmentConflicts("self", r, []string{"ben", "anna"}, jobs)
	if len(got) != 3 {
		t.Fatalf("expected 3 conflicts, got %+v", got)
	}
	// v ends before r starts but on the same day, which still counts.
	want := []struct{ member, job string }{{"anna", "v"}, {"anna", "x"}, {"ben", "z"}}
	for i, w := range want {
		if got[i].MemberID != w.member || got[i].JobID != w.job {
			t.Errorf("conflict %d = %+v, want %s/%s", i, got[i], w.member, w.job)
		}
	}
}
