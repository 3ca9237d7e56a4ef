// Package herd is the injectable state container over the stock engines. It
// exposes the read and write operations as methods, re-projects after every
// successful write and fans the fresh snapshot out to subscribers, so callers
// hold snapshots instead of ambient global state.
package herd

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
	"github.com/mherrera/rodeo/internal/service/assignment"
	"github.com/mherrera/rodeo/internal/service/query"
	"github.com/mherrera/rodeo/internal/service/stock"
	"github.com/mherrera/rodeo/internal/service/weighing"
)

// ErrValidation marks requests rejected before any store call was made.
var ErrValidation = errors.New("validation failed")

// ErrNotFound marks lookups of records that do not exist.
var ErrNotFound = errors.New("not found")

// Container wires the engines around one record store.
type Container struct {
	store       record.Store
	assignments *assignment.Service
	projection  *stock.Service
	weights     *weighing.Service
	logger      *zap.Logger
	now         func() time.Time

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan models.Snapshot
}

// New builds a container on top of the given store.
func New(store record.Store, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{
		store:       store,
		assignments: assignment.NewService(store, logger.Named("svc.assignment")),
		projection:  stock.NewService(store, logger.Named("svc.stock")),
		weights:     weighing.NewService(store, logger.Named("svc.weighing")),
		logger:      logger,
		now:         time.Now,
		subs:        map[int]chan models.Snapshot{},
	}
}

// Snapshot recomputes the point-in-time view of the herd.
func (c *Container) Snapshot(ctx context.Context) (models.Snapshot, error) {
	views, err := c.projection.Project(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}

	var lots []models.Lot
	if err := c.store.List(ctx, record.TableLots, nil, &lots); err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{TakenAt: c.now().UTC(), Stock: views, Lots: lots}, nil
}

// Refresh recomputes the snapshot and publishes it to every subscriber. The
// scheduler calls this periodically so long-lived subscribers reconcile with
// writes made outside this process.
func (c *Container) Refresh(ctx context.Context) (models.Snapshot, error) {
	snap, err := c.Snapshot(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	c.publish(snap)
	return snap, nil
}

// Subscribe registers a snapshot listener. The returned cancel function must
// be called to release it. Slow subscribers are skipped, never blocked on.
func (c *Container) Subscribe() (<-chan models.Snapshot, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan models.Snapshot, 1)
	c.subs[id] = ch

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if existing, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

func (c *Container) publish(snap models.Snapshot) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for id, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			c.logger.Debug("subscriber lagging, snapshot dropped", zap.Int("subscriber", id))
		}
	}
}

// refreshAfterWrite re-projects after a mutation. The write already
// succeeded, so a projection failure only costs freshness and is logged.
func (c *Container) refreshAfterWrite(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil {
		c.logger.Error("re-projection after write failed", zap.Error(err))
	}
}

// Stock projects the stock view and applies the given criteria.
func (c *Container) Stock(ctx context.Context, criteria query.StockCriteria) ([]models.StockView, error) {
	views, err := c.projection.Project(ctx)
	if err != nil {
		return nil, err
	}
	return query.FilterStock(views, criteria), nil
}

// Unassigned lists the in-field animals without an active assignment.
func (c *Container) Unassigned(ctx context.Context) ([]models.Animal, error) {
	return c.projection.ProjectUnassigned(ctx)
}

// Assign moves the animals into the lot and publishes the new snapshot. On
// failure the snapshot is refreshed anyway so callers observe whatever rows
// did persist.
func (c *Container) Assign(ctx context.Context, animalIDs []string, lotID string) (int, error) {
	moved, err := c.assignments.AssignAnimals(ctx, animalIDs, lotID)
	c.refreshAfterWrite(ctx)
	return moved, err
}

// Release drops the animals out of their current lots.
func (c *Container) Release(ctx context.Context, animalIDs []string) (int, error) {
	released, err := c.assignments.ReleaseAnimals(ctx, animalIDs)
	c.refreshAfterWrite(ctx)
	return released, err
}

// DeleteLot cascades a lot deletion and reports how many animals were
// released for UI feedback.
func (c *Container) DeleteLot(ctx context.Context, lotID string) (int, error) {
	released, err := c.assignments.DeleteLot(ctx, lotID)
	c.refreshAfterWrite(ctx)
	return released, err
}

// CurrentLot resolves the lot an animal currently sits in, nil when
// unassigned.
func (c *Container) CurrentLot(ctx context.Context, animalID string) (*models.Lot, error) {
	return c.assignments.CurrentLot(ctx, animalID)
}

// WeighingHistory returns an animal's weighings annotated with gains.
func (c *Container) WeighingHistory(ctx context.Context, animalID string) ([]models.WeighingEntry, error) {
	return c.weights.History(ctx, animalID)
}

// Summary aggregates weight evolution over the animals matching the criteria
// (the whole in-field herd when the criteria are empty).
func (c *Container) Summary(ctx context.Context, criteria query.StockCriteria) (models.PopulationSummary, error) {
	views, err := c.Stock(ctx, criteria)
	if err != nil {
		return models.PopulationSummary{}, err
	}

	ids := make([]string, 0, len(views))
	for _, view := range views {
		ids = append(ids, view.ID)
	}
	if len(ids) == 0 {
		return models.PopulationSummary{}, nil
	}
	return c.weights.PopulationSummary(ctx, ids)
}
