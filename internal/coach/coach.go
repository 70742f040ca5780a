// Package coach wires the pure analysis/recovery engine to the persistence
// layer: it loads read-only snapshots, runs the computation, and returns the
// fresh result. Nothing here caches engine output — results are recomputed
// on every request (callers may memoize outside if they need to).
package coach

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotnitxe/yourprime/internal/analysis"
	"github.com/rotnitxe/yourprime/internal/catalog"
	"github.com/rotnitxe/yourprime/internal/models"
	"github.com/rotnitxe/yourprime/internal/recovery"
	"github.com/rotnitxe/yourprime/internal/taxonomy"
)

// Store is the slice of the persistence layer the coach needs. *storage.DB
// satisfies it.
type Store interface {
	LoadHistory(ctx context.Context) ([]models.WorkoutLog, error)
	LoadSleep(ctx context.Context) ([]models.SleepLog, error)
	LoadFeedback(ctx context.Context) ([]models.PostSessionFeedback, error)
	LoadCustomExercises(ctx context.Context) ([]models.ExerciseMuscleInfo, error)
}

// Coach orchestrates snapshot loading and engine invocation.
type Coach struct {
	store    Store
	taxonomy *taxonomy.Index
	defaults []models.ExerciseMuscleInfo
	cfg      recovery.Config
	settings models.Settings
	nowFn    func() time.Time

	mu  sync.RWMutex
	cat *catalog.Index
}

// New builds a Coach over the bundled defaults plus the store's custom
// exercises. Pass a nil store for a defaults-only coach (tests, tooling).
func New(ctx context.Context, store Store, cfg recovery.Config, settings models.Settings) (*Coach, error) {
	defaults, err := catalog.DefaultExercises()
	if err != nil {
		return nil, err
	}
	hierarchy, err := catalog.DefaultHierarchy()
	if err != nil {
		return nil, err
	}

	c := &Coach{
		store:    store,
		taxonomy: taxonomy.NewIndex(hierarchy),
		defaults: defaults,
		cfg:      cfg,
		settings: settings,
		nowFn:    time.Now,
	}
	if err := c.ReloadExercises(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// SetNow overrides the clock, for deterministic tests.
func (c *Coach) SetNow(fn func() time.Time) {
	c.nowFn = fn
}

// ReloadExercises rebuilds the catalog index from defaults plus the current
// custom exercises. Called at startup and after a custom exercise ingest.
func (c *Coach) ReloadExercises(ctx context.Context) error {
	var custom []models.ExerciseMuscleInfo
	if c.store != nil {
		var err error
		custom, err = c.store.LoadCustomExercises(ctx)
		if err != nil {
			return fmt.Errorf("loading custom exercises: %w", err)
		}
	}
	ix := catalog.NewIndex(catalog.Merge(c.defaults, custom))

	c.mu.Lock()
	c.cat = ix
	c.mu.Unlock()
	return nil
}

func (c *Coach) catalogIndex() *catalog.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cat
}

// MuscleBattery computes the recovery score for one muscle.
func (c *Coach) MuscleBattery(ctx context.Context, muscle string) (recovery.BatteryResult, error) {
	in, err := c.loadInputs(ctx)
	if err != nil {
		return recovery.BatteryResult{}, err
	}
	return recovery.MuscleBattery(c.cfg, muscle, in, c.nowFn()), nil
}

// SystemicFatigue computes the whole-body CNS readiness score.
func (c *Coach) SystemicFatigue(ctx context.Context) (recovery.SystemicResult, error) {
	in, err := c.loadInputs(ctx)
	if err != nil {
		return recovery.SystemicResult{}, err
	}
	return recovery.SystemicFatigue(c.cfg, in.History, in.Sleep, c.nowFn()), nil
}

// VolumeBreakdown computes the volume report for one muscle over the given
// window (days; <= 0 uses the default 28).
func (c *Coach) VolumeBreakdown(ctx context.Context, muscle string, windowDays int) (analysis.Breakdown, error) {
	history, err := c.loadHistory(ctx)
	if err != nil {
		return analysis.Breakdown{}, err
	}
	p := analysis.Params{
		Muscle:     muscle,
		WindowDays: windowDays,
		Now:        c.nowFn(),
		WeekStart:  c.settings.StartWeekOn,
	}
	return analysis.Aggregate(p, history, c.catalogIndex(), c.taxonomy), nil
}

// Muscles lists every name the taxonomy can resolve.
func (c *Coach) Muscles() []string {
	return c.taxonomy.Names()
}

func (c *Coach) loadHistory(ctx context.Context) ([]models.WorkoutLog, error) {
	if c.store == nil {
		return nil, nil
	}
	history, err := c.store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return history, nil
}

func (c *Coach) loadInputs(ctx context.Context) (recovery.Inputs, error) {
	in := recovery.Inputs{
		Catalog:  c.catalogIndex(),
		Taxonomy: c.taxonomy,
	}
	history, err := c.loadHistory(ctx)
	if err != nil {
		return in, err
	}
	in.History = history

	if c.store != nil {
		if in.Sleep, err = c.store.LoadSleep(ctx); err != nil {
			return in, fmt.Errorf("loading sleep logs: %w", err)
		}
		if in.Feedback, err = c.store.LoadFeedback(ctx); err != nil {
			return in, fmt.Errorf("loading feedback: %w", err)
		}
	}
	return in, nil
}
