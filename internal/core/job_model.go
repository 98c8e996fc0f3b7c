package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Job is the execution record derived from an accepted quote.
//
//	Planned → Scheduled → InProgress ⇄ Blocked
//	InProgress → Completed → Archived
//
// Progress is derived from Tasks and is rewritten on every task change.
type Job struct {
	ID             string           `json:"id"`
	QuoteID        string           `json:"quote_id"`
	ClientID       string           `json:"client_id"`
	BuildingID     string           `json:"building_id,omitempty"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	Status         JobStatus        `json:"status"`
	Priority       Priority         `json:"priority"`
	Tasks          []Task           `json:"tasks"`
	ScheduledStart *time.Time       `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time       `json:"scheduled_end,omitempty"`
	ActualStart    *time.Time       `json:"actual_start,omitempty"`
	ActualEnd      *time.Time       `json:"actual_end,omitempty"`
	EstimatedCost  decimal.Decimal  `json:"estimated_cost"`
	ActualCost     *decimal.Decimal `json:"actual_cost,omitempty"`
	LaborHours     *decimal.Decimal `json:"labor_hours,omitempty"`
	Progress       int              `json:"progress"`
	AssignedTeam   []string         `json:"assigned_team"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Task is one unit of work inside a job.
type Task struct {
	ID             string           `json:"id"`
	JobID          string           `json:"job_id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	Status         TaskStatus       `json:"status"`
	AssignedTo     string           `json:"assigned_to,omitempty"`
	EstimatedHours decimal.Decimal  `json:"estimated_hours"`
	ActualHours    *decimal.Decimal `json:"actual_hours,omitempty"`
	BlockedReason  string           `json:"blocked_reason,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
}

func (j *Job) Meta() DocumentMeta {
	return DocumentMeta{Kind: KindJob, ID: j.ID, Status: string(j.Status), ParentID: j.QuoteID, PartyID: j.ClientID}
}

// Transition moves the job to status to. Entering InProgress stamps
// ActualStart and entering Completed stamps ActualEnd, each only once.
func (j Job) Transition(to JobStatus, now time.Time) (Job, error) {
	if !jobTransitions.allows(j.Status, to) {
		return j, &InvalidTransitionError{Document: KindJob, ID: j.ID, From: string(j.Status), To: string(to)}
	}
	j.Status = to
	switch to {
	case JobInProgress:
		stamp(&j.ActualStart, now)
	case JobCompleted:
		stamp(&j.ActualEnd, now)
	}
	j.UpdatedAt = now
	return j, nil
}

// Scheduled reports whether both schedule dates are set.
func (j Job) Scheduled() bool {
	return j.ScheduledStart != nil && j.ScheduledEnd != nil
}

// HasMember reports whether memberID is on the assigned team.
func (j Job) HasMember(memberID string) bool {
	for _, m := range j.AssignedTeam {
		if m == memberID {
			return true
		}
	}
	return false
}

// EstimatedHours sums the estimated hours of every task.
func (j Job) EstimatedHours() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range j.Tasks {
		sum = sum.Add(t.EstimatedHours)
	}
	return sum
}

// TaskUpdate is a change to one task. Nil fields are left as they are.
type TaskUpdate struct {
	Status        *TaskStatus
	ActualHours   *decimal.Decimal
	BlockedReason *string
	AssignedTo    *string
}

// UpdateTask applies u to the task with taskID and recomputes progress. The
// receiver is not modified.
func (j Job) UpdateTask(taskID string, u TaskUpdate, now time.Time) (Job, error) {
	idx := -1
	for i := range j.Tasks {
		if j.Tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return j, &NotFoundError{Document: "task", ID: taskID}
	}
	if u.Status != nil && !u.Status.valid() {
		return j, invalid("status", "unknown task status %q", *u.Status)
	}
	if u.ActualHours != nil && u.ActualHours.IsNegative() {
		return j, invalid("actual_hours", "must be >= 0, got %s", *u.ActualHours)
	}

	tasks := make([]Task, len(j.Tasks))
	copy(tasks, j.Tasks)
	t := tasks[idx]
	if u.Status != nil {
		t.Status = *u.Status
		if t.Status == TaskCompleted {
			stamp(&t.CompletedAt, now)
		}
		if t.Status != TaskBlocked {
			t.BlockedReason = ""
		}
	}
	if u.ActualHours != nil {
		h := *u.ActualHours
		t.ActualHours = &h
	}
	if u.BlockedReason != nil {
		t.BlockedReason = *u.BlockedReason
	}
	if u.AssignedTo != nil {
		t.AssignedTo = *u.AssignedTo
	}
	tasks[idx] = t

	j.Tasks = tasks
	j.Progress = ComputeProgress(tasks)
	j.UpdatedAt = now
	return j, nil
}

// JobOverrides replaces the defaults a job would otherwise take from its quote.
type JobOverrides struct {
	Title          string
	Description    string
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	Priority       Priority
	AssignedTeam   []string
	LaborHours     *decimal.Decimal
}

// JobService owns job execution: status, tasks and team assignment.
type JobService interface {
	// TransitionJob applies a table-checked status change.
	TransitionJob(ctx context.Context, jobID string, to JobStatus) (*Job, error)

	// UpdateTask changes one task and recomputes job progress in the same write.
	UpdateTask(ctx context.Context, jobID, taskID string, update TaskUpdate) (*Job, error)

	// AssignTeam replaces the job's team and optionally its schedule. The
	// returned conflicts are advisory; assignment is never refused for them.
	AssignTeam(ctx context.Context, jobID string, memberIDs []string, start, end *time.Time) (*Job, []AssignmentConflict, error)

	GetJob(ctx context.Context, jobID string) (*Job, error)

	// GetJobs lists jobs, optionally filtered by status, quote, or client.
	GetJobs(ctx context.Context, filter Filter) ([]Job, error)
}
