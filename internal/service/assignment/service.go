// Package assignment enforces the one-active-lot-per-animal invariant. It is
// the sole writer of assignment rows.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
)

// ErrNoAnimals indicates an empty animal id set was submitted.
var ErrNoAnimals = errors.New("no animal ids provided")

// ErrMissingLot indicates the target lot id was empty.
var ErrMissingLot = errors.New("lot id must be provided")

// ErrLotNotFound indicates the referenced lot does not exist in the store.
var ErrLotNotFound = errors.New("lot not found")

// Service executes bulk assignment mutations against the record store.
//
// Bulk operations are best effort: the store is only atomic per call, so a
// failure between the release and the insert can leave animals released. The
// caller is expected to re-fetch state after any error.
type Service struct {
	store  record.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the assignment engine.
func NewService(store record.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// AssignAnimals moves every animal in animalIDs into the lot: any active
// assignment is released first, then a fresh active row is inserted. An animal
// already sitting in the target lot still gets a new row, which timestamps
// the move. Returns the number of animals moved.
func (s *Service) AssignAnimals(ctx context.Context, animalIDs []string, lotID string) (int, error) {
	ids := dedupe(animalIDs)
	if len(ids) == 0 {
		return 0, ErrNoAnimals
	}
	if lotID == "" {
		return 0, ErrMissingLot
	}

	if _, err := s.lookupLot(ctx, lotID); err != nil {
		return 0, err
	}

	now := s.now().UTC()
	released, err := s.store.Update(ctx, record.TableAssignments, record.Filter{
		"animal_id":   record.In(ids),
		"released_at": record.IsNull(),
	}, record.Patch{"released_at": now})
	if err != nil {
		return 0, fmt.Errorf("release previous assignments: %w", err)
	}

	rows := make([]any, 0, len(ids))
	for _, animalID := range ids {
		rows = append(rows, models.Assignment{
			ID:         uuid.NewString(),
			AnimalID:   animalID,
			LotID:      lotID,
			AssignedAt: now,
		})
	}
	if err := s.store.Insert(ctx, record.TableAssignments, rows); err != nil {
		return 0, fmt.Errorf("insert assignments: %w", err)
	}

	s.logger.Info("animals assigned to lot",
		zap.String("lot_id", lotID),
		zap.Int("animals", len(ids)),
		zap.Int64("previous_released", released))
	return len(ids), nil
}

// ReleaseAnimals releases the active assignment of every animal in animalIDs.
// Animals without an active assignment are silent no-ops, which makes the
// operation idempotent. Returns the number of assignments released.
func (s *Service) ReleaseAnimals(ctx context.Context, animalIDs []string) (int, error) {
	ids := dedupe(animalIDs)
	if len(ids) == 0 {
		return 0, ErrNoAnimals
	}

	released, err := s.store.Update(ctx, record.TableAssignments, record.Filter{
		"animal_id":   record.In(ids),
		"released_at": record.IsNull(),
	}, record.Patch{"released_at": s.now().UTC()})
	if err != nil {
		return 0, fmt.Errorf("release assignments: %w", err)
	}

	s.logger.Info("animals released", zap.Int64("released", released))
	return int(released), nil
}

// DeleteLot dismantles a lot: active assignments pointing at it are released,
// every historical assignment row referencing it is removed, then the lot row
// itself. Releasing first keeps no animal pointing at a lot that no longer
// exists. Returns the number of animals that were released.
func (s *Service) DeleteLot(ctx context.Context, lotID string) (int, error) {
	if lotID == "" {
		return 0, ErrMissingLot
	}
	if _, err := s.lookupLot(ctx, lotID); err != nil {
		return 0, err
	}

	released, err := s.store.Update(ctx, record.TableAssignments, record.Filter{
		"lot_id":      record.Eq(lotID),
		"released_at": record.IsNull(),
	}, record.Patch{"released_at": s.now().UTC()})
	if err != nil {
		return 0, fmt.Errorf("release lot animals: %w", err)
	}

	if _, err := s.store.Delete(ctx, record.TableAssignments, record.Filter{
		"lot_id": record.Eq(lotID),
	}); err != nil {
		return 0, fmt.Errorf("delete lot history: %w", err)
	}

	if _, err := s.store.Delete(ctx, record.TableLots, record.Filter{
		"id": record.Eq(lotID),
	}); err != nil {
		return 0, fmt.Errorf("delete lot: %w", err)
	}

	s.logger.Info("lot deleted", zap.String("lot_id", lotID), zap.Int64("released", released))
	return int(released), nil
}

// CurrentLot resolves the lot an animal currently sits in, or nil when the
// animal is unassigned. If a write-path bug left several active rows, the most
// recently assigned one wins and the anomaly is logged, never surfaced.
func (s *Service) CurrentLot(ctx context.Context, animalID string) (*models.Lot, error) {
	var actives []models.Assignment
	err := s.store.List(ctx, record.TableAssignments, record.Filter{
		"animal_id":   record.Eq(animalID),
		"released_at": record.IsNull(),
	}, &actives)
	if err != nil {
		return nil, fmt.Errorf("load active assignment: %w", err)
	}

	current := PickActive(actives)
	if current == nil {
		return nil, nil
	}
	if len(actives) > 1 {
		s.logger.Warn("animal has multiple active assignments",
			zap.String("animal_id", animalID),
			zap.Int("active_rows", len(actives)))
	}

	lot, err := s.lookupLot(ctx, current.LotID)
	if errors.Is(err, ErrLotNotFound) {
		s.logger.Warn("active assignment points at missing lot",
			zap.String("animal_id", animalID),
			zap.String("lot_id", current.LotID))
		return nil, nil
	}
	return lot, err
}

// PickActive selects the authoritative assignment out of a set of active rows
// for one animal: the most recently assigned one.
func PickActive(actives []models.Assignment) *models.Assignment {
	if len(actives) == 0 {
		return nil
	}
	sorted := make([]models.Assignment, len(actives))
	copy(sorted, actives)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AssignedAt.After(sorted[j].AssignedAt)
	})
	return &sorted[0]
}

func (s *Service) lookupLot(ctx context.Context, lotID string) (*models.Lot, error) {
	var lots []models.Lot
	err := s.store.List(ctx, record.TableLots, record.Filter{"id": record.Eq(lotID)}, &lots)
	if err != nil {
		return nil, fmt.Errorf("load lot: %w", err)
	}
	if len(lots) == 0 {
		return nil, ErrLotNotFound
	}
	return &lots[0], nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
