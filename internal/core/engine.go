package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Engine is the state shared by every workflow service. One Engine must back
// all services that write the same store.
type Engine struct {
	Repo   Repository
	Locks  *KeyedMutex
	Now    func() time.Time
	NewID  func() string
	Policy ConversionPolicy
	// WeeklyCapacityHours is the denominator of utilization.
	WeeklyCapacityHours float64
}

// NewEngine returns an Engine over repo with the UTC wall clock, random UUIDs
// and the default policy.
func NewEngine(repo Repository) *Engine {
	return &Engine{
		Repo:                repo,
		Locks:               NewKeyedMutex(),
		Now:                 func() time.Time { return time.Now().UTC() },
		NewID:               uuid.NewString,
		Policy:              DefaultPolicy(),
		WeeklyCapacityHours: DefaultWeeklyCapacityHours,
	}
}

func (e *Engine) put(ctx context.Context, doc Document) error {
	m := doc.Meta()
	if err := e.Repo.Put(ctx, doc); err != nil {
		return fmt.Errorf("save %s %s: %w", m.Kind, m.ID, err)
	}
	slog.Debug("document saved", "kind", m.Kind, "id", m.ID, "status", m.Status)
	return nil
}

func (e *Engine) putNumbered(ctx context.Context, prefix string, build func(number string) (Document, error)) (Document, error) {
	doc, err := e.Repo.PutNumbered(ctx, prefix, build)
	if err != nil {
		return nil, err
	}
	m := doc.Meta()
	slog.Debug("numbered document saved", "kind", m.Kind, "id", m.ID, "prefix", prefix)
	return doc, nil
}
