// Package stock projects the denormalized current-state view of the herd.
package stock

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
	"github.com/mherrera/rodeo/internal/service/assignment"
)

// Service recomputes the stock view from a full scan on every call. There is
// no incremental materialized view; the source tables are herd-scale and the
// simplicity is worth more than the throughput.
type Service struct {
	store  record.Store
	logger *zap.Logger
}

// NewService constructs the projection service.
func NewService(store record.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Project returns one StockView per in-field animal, joined with its current
// lot, supplier, carrier and latest weight. Anomalous animals with several
// active assignments resolve to the most recently assigned lot and are
// logged; the read path never fails on them.
func (s *Service) Project(ctx context.Context) ([]models.StockView, error) {
	animals, err := s.inFieldAnimals(ctx)
	if err != nil {
		return nil, err
	}

	activeByAnimal, err := s.activeAssignments(ctx)
	if err != nil {
		return nil, err
	}

	var lots []models.Lot
	if err := s.store.List(ctx, record.TableLots, nil, &lots); err != nil {
		return nil, fmt.Errorf("load lots: %w", err)
	}
	lotByID := make(map[string]models.Lot, len(lots))
	for _, lot := range lots {
		lotByID[lot.ID] = lot
	}

	var suppliers []models.Supplier
	if err := s.store.List(ctx, record.TableSuppliers, nil, &suppliers); err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	supplierByID := make(map[string]models.Supplier, len(suppliers))
	for _, supplier := range suppliers {
		supplierByID[supplier.ID] = supplier
	}

	var carriers []models.Carrier
	if err := s.store.List(ctx, record.TableCarriers, nil, &carriers); err != nil {
		return nil, fmt.Errorf("load carriers: %w", err)
	}
	carrierByID := make(map[string]models.Carrier, len(carriers))
	for _, carrier := range carriers {
		carrierByID[carrier.ID] = carrier
	}

	var weighings []models.Weighing
	if err := s.store.List(ctx, record.TableWeighings, nil, &weighings); err != nil {
		return nil, fmt.Errorf("load weighings: %w", err)
	}
	latestByAnimal := latestWeighings(weighings)

	views := make([]models.StockView, 0, len(animals))
	for _, animal := range animals {
		view := models.StockView{Animal: animal, CurrentLotName: models.LotUnassigned}

		if current := assignment.PickActive(activeByAnimal[animal.ID]); current != nil {
			if lot, ok := lotByID[current.LotID]; ok {
				view.CurrentLotID = lot.ID
				view.CurrentLotName = lot.Name
			} else {
				s.logger.Warn("active assignment points at missing lot",
					zap.String("animal_id", animal.ID),
					zap.String("lot_id", current.LotID))
			}
		}
		if len(activeByAnimal[animal.ID]) > 1 {
			s.logger.Warn("animal has multiple active assignments",
				zap.String("animal_id", animal.ID),
				zap.Int("active_rows", len(activeByAnimal[animal.ID])))
		}

		if supplier, ok := supplierByID[animal.SupplierID]; ok {
			view.SupplierName = supplier.Name
		}
		if carrier, ok := carrierByID[animal.CarrierID]; ok {
			view.CarrierName = carrier.Name
		}
		if latest, ok := latestByAnimal[animal.ID]; ok {
			weight := latest.WeightKg
			date := latest.Date
			view.LatestWeightKg = &weight
			view.LastWeighedAt = &date
		}

		views = append(views, view)
	}
	return views, nil
}

// ProjectUnassigned returns the in-field animals with no active assignment,
// used to populate "available to assign" pickers.
func (s *Service) ProjectUnassigned(ctx context.Context) ([]models.Animal, error) {
	animals, err := s.inFieldAnimals(ctx)
	if err != nil {
		return nil, err
	}

	activeByAnimal, err := s.activeAssignments(ctx)
	if err != nil {
		return nil, err
	}

	unassigned := make([]models.Animal, 0, len(animals))
	for _, animal := range animals {
		if len(activeByAnimal[animal.ID]) == 0 {
			unassigned = append(unassigned, animal)
		}
	}
	return unassigned, nil
}

func (s *Service) inFieldAnimals(ctx context.Context) ([]models.Animal, error) {
	var animals []models.Animal
	err := s.store.List(ctx, record.TableAnimals, record.Filter{
		"status": record.Eq(string(models.StatusInField)),
	}, &animals)
	if err != nil {
		return nil, fmt.Errorf("load animals: %w", err)
	}
	return animals, nil
}

func (s *Service) activeAssignments(ctx context.Context) (map[string][]models.Assignment, error) {
	var actives []models.Assignment
	err := s.store.List(ctx, record.TableAssignments, record.Filter{
		"released_at": record.IsNull(),
	}, &actives)
	if err != nil {
		return nil, fmt.Errorf("load active assignments: %w", err)
	}

	byAnimal := make(map[string][]models.Assignment)
	for _, row := range actives {
		byAnimal[row.AnimalID] = append(byAnimal[row.AnimalID], row)
	}
	return byAnimal, nil
}

// latestWeighings picks the most recent weighing per animal, using CreatedAt
// and then ID as tiebreaks for same-date rows.
func latestWeighings(weighings []models.Weighing) map[string]models.Weighing {
	latest := make(map[string]models.Weighing)
	for _, w := range weighings {
		current, ok := latest[w.AnimalID]
		if !ok || newer(w, current) {
			latest[w.AnimalID] = w
		}
	}
	return latest
}

func newer(a, b models.Weighing) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
