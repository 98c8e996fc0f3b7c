package core

import (
	"context"
	"log/slog"
	"time"
)

type jobService struct {
	e *Engine
}

// NewJobService constructs a JobService over the engine's repository.
func NewJobService(e *Engine) JobService {
	return &jobService{e: e}
}

func (s *jobService) TransitionJob(ctx context.Context, jobID string, to JobStatus) (*Job, error) {
	defer s.e.Locks.lockDoc(KindJob, jobID)()

	j, err := load[*Job](ctx, s.e.Repo, KindJob, jobID)
	if err != nil {
		return nil, err
	}
	next, err := j.Transition(to, s.e.Now())
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *jobService) UpdateTask(ctx context.Context, jobID, taskID string, update TaskUpdate) (*Job, error) {
	defer s.e.Locks.lockDoc(KindJob, jobID)()

	j, err := load[*Job](ctx, s.e.Repo, KindJob, jobID)
	if err != nil {
		return nil, err
	}
	if update.AssignedTo != nil && *update.AssignedTo != "" {
		if _, err := load[*TeamMember](ctx, s.e.Repo, KindTeamMember, *update.AssignedTo); err != nil {
			return nil, err
		}
	}
	next, err := j.UpdateTask(taskID, update, s.e.Now())
	if err != nil {
		return nil, err
	}
	if err := s.e.put(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *jobService) AssignTeam(ctx context.Context, jobID string, memberIDs []string, start, end *time.Time) (*Job, []AssignmentConflict, error) {
	defer s.e.Locks.lockDoc(KindJob, jobID)()

	j, err := load[*Job](ctx, s.e.Repo, KindJob, jobID)
	if err != nil {
		return nil, nil, err
	}
	if j.Status.Terminal() {
		return nil, nil, &PreconditionError{Document: KindJob, ID: j.ID, Reason: "job is " + string(j.Status)}
	}
	if start != nil || end != nil {
		if err := checkSchedule(start, end); err != nil {
			return nil, nil, err
		}
		j.ScheduledStart, j.ScheduledEnd = copyTime(start), copyTime(end)
	}

	team := make([]string, 0, len(memberIDs))
	seen := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := load[*TeamMember](ctx, s.e.Repo, KindTeamMember, id); err != nil {
			return nil, nil, err
		}
		team = append(team, id)
	}
	j.AssignedTeam = team
	j.UpdatedAt = s.e.Now()

	var conflicts []AssignmentConflict
	if j.Scheduled() {
		others, err := listAs[*Job](ctx, s.e.Repo, KindJob, Filter{})
		if err != nil {
			return nil, nil, err
		}
		conflicts = AssignmentConflicts(j.ID, scheduleRange(*j), team, deref(others))
	}

	if err := s.e.put(ctx, j); err != nil {
		return nil, nil, err
	}
	if len(conflicts) > 0 {
		slog.Debug("team assigned with conflicts", "job", j.ID, "conflicts", len(conflicts))
	}
	return j, conflicts, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return load[*Job](ctx, s.e.Repo, KindJob, jobID)
}

func (s *jobService) GetJobs(ctx context.Context, filter Filter) ([]Job, error) {
	docs, err := listAs[*Job](ctx, s.e.Repo, KindJob, filter)
	if err != nil {
		return nil, err
	}
	return deref(docs), nil
}
