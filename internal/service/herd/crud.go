package herd

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
	"github.com/mherrera/rodeo/internal/service/query"
)

// CreateAnimal registers a newly acquired animal. The ear tag (number +
// color) must not collide with another animal currently in field; sold
// animals may share it.
func (c *Container) CreateAnimal(ctx context.Context, animal models.Animal) (models.Animal, error) {
	if animal.TagNumber == "" {
		return models.Animal{}, fmt.Errorf("%w: tag_number is required", ErrValidation)
	}
	if animal.Category == "" {
		return models.Animal{}, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if animal.Condition == "" {
		animal.Condition = models.ConditionGood
	}
	if !animal.Condition.Valid() {
		return models.Animal{}, fmt.Errorf("%w: unknown condition %q", ErrValidation, animal.Condition)
	}

	var clashes []models.Animal
	err := c.store.List(ctx, record.TableAnimals, record.Filter{
		"tag_number": record.Eq(animal.TagNumber),
		"tag_color":  record.Eq(animal.TagColor),
		"status":     record.Eq(string(models.StatusInField)),
	}, &clashes)
	if err != nil {
		return models.Animal{}, err
	}
	if len(clashes) > 0 {
		return models.Animal{}, fmt.Errorf("%w: ear tag %s/%s is already in field", ErrValidation, animal.TagNumber, animal.TagColor)
	}

	now := c.now().UTC()
	animal.ID = uuid.NewString()
	animal.Status = models.StatusInField
	animal.CreatedAt = now
	if animal.EntryDate.IsZero() {
		animal.EntryDate = now
	}

	if err := c.store.Insert(ctx, record.TableAnimals, []any{animal}); err != nil {
		return models.Animal{}, err
	}
	c.refreshAfterWrite(ctx)
	return animal, nil
}

// GetAnimal fetches one animal by id.
func (c *Container) GetAnimal(ctx context.Context, id string) (models.Animal, error) {
	var animals []models.Animal
	if err := c.store.List(ctx, record.TableAnimals, record.Filter{"id": record.Eq(id)}, &animals); err != nil {
		return models.Animal{}, err
	}
	if len(animals) == 0 {
		return models.Animal{}, fmt.Errorf("%w: animal %s", ErrNotFound, id)
	}
	return animals[0], nil
}

// UpdateAnimal edits the identity fields of an animal. Lifecycle status moves
// only through SellAnimal.
func (c *Container) UpdateAnimal(ctx context.Context, id string, animal models.Animal) (models.Animal, error) {
	existing, err := c.GetAnimal(ctx, id)
	if err != nil {
		return models.Animal{}, err
	}
	if animal.TagNumber == "" {
		return models.Animal{}, fmt.Errorf("%w: tag_number is required", ErrValidation)
	}
	if animal.Condition != "" && !animal.Condition.Valid() {
		return models.Animal{}, fmt.Errorf("%w: unknown condition %q", ErrValidation, animal.Condition)
	}

	patch := record.Patch{
		"tag_number":      animal.TagNumber,
		"tag_color":       animal.TagColor,
		"category":        animal.Category,
		"entry_weight_kg": animal.EntryWeightKg,
		"supplier_id":     animal.SupplierID,
		"carrier_id":      animal.CarrierID,
	}
	if animal.Condition != "" {
		patch["condition"] = animal.Condition
	}
	if !animal.EntryDate.IsZero() {
		patch["entry_date"] = animal.EntryDate
	}

	if _, err := c.store.Update(ctx, record.TableAnimals, record.Filter{"id": record.Eq(id)}, patch); err != nil {
		return models.Animal{}, err
	}
	c.refreshAfterWrite(ctx)
	return c.GetAnimal(ctx, existing.ID)
}

// SellAnimal transitions an animal to sold and releases its active
// assignment so it drops out of the stock view. Animals are never
// hard-deleted.
func (c *Container) SellAnimal(ctx context.Context, id string) error {
	animal, err := c.GetAnimal(ctx, id)
	if err != nil {
		return err
	}
	if animal.Status == models.StatusSold {
		return fmt.Errorf("%w: animal %s is already sold", ErrValidation, animal.TagNumber)
	}

	if _, err := c.assignments.ReleaseAnimals(ctx, []string{id}); err != nil {
		return err
	}
	if _, err := c.store.Update(ctx, record.TableAnimals, record.Filter{"id": record.Eq(id)}, record.Patch{
		"status": string(models.StatusSold),
	}); err != nil {
		return err
	}
	c.refreshAfterWrite(ctx)
	return nil
}

// CreateLot adds a new empty lot.
func (c *Container) CreateLot(ctx context.Context, lot models.Lot) (models.Lot, error) {
	if lot.Name == "" {
		return models.Lot{}, fmt.Errorf("%w: lot name is required", ErrValidation)
	}

	lot.ID = uuid.NewString()
	lot.CreatedAt = c.now().UTC()
	if err := c.store.Insert(ctx, record.TableLots, []any{lot}); err != nil {
		return models.Lot{}, err
	}
	c.refreshAfterWrite(ctx)
	return lot, nil
}

// UpdateLot edits a lot's descriptive fields.
func (c *Container) UpdateLot(ctx context.Context, id string, lot models.Lot) (models.Lot, error) {
	if lot.Name == "" {
		return models.Lot{}, fmt.Errorf("%w: lot name is required", ErrValidation)
	}

	matched, err := c.store.Update(ctx, record.TableLots, record.Filter{"id": record.Eq(id)}, record.Patch{
		"name":   lot.Name,
		"number": lot.Number,
		"color":  lot.Color,
		"notes":  lot.Notes,
	})
	if err != nil {
		return models.Lot{}, err
	}
	if matched == 0 {
		return models.Lot{}, fmt.Errorf("%w: lot %s", ErrNotFound, id)
	}

	c.refreshAfterWrite(ctx)
	lot.ID = id
	return lot, nil
}

// Lots lists every lot.
func (c *Container) Lots(ctx context.Context) ([]models.Lot, error) {
	var lots []models.Lot
	if err := c.store.List(ctx, record.TableLots, nil, &lots); err != nil {
		return nil, err
	}
	return lots, nil
}

// AddWeighing appends a weight measurement for an animal.
func (c *Container) AddWeighing(ctx context.Context, w models.Weighing) (models.Weighing, error) {
	if w.WeightKg <= 0 {
		return models.Weighing{}, fmt.Errorf("%w: weight_kg must be positive", ErrValidation)
	}
	if _, err := c.GetAnimal(ctx, w.AnimalID); err != nil {
		return models.Weighing{}, err
	}

	now := c.now().UTC()
	w.ID = uuid.NewString()
	w.CreatedAt = now
	if w.Date.IsZero() {
		w.Date = now
	}

	if err := c.store.Insert(ctx, record.TableWeighings, []any{w}); err != nil {
		return models.Weighing{}, err
	}
	c.refreshAfterWrite(ctx)
	return w, nil
}

// Weighings lists weighings matching the criteria.
func (c *Container) Weighings(ctx context.Context, criteria query.WeighingCriteria) ([]models.Weighing, error) {
	var weighings []models.Weighing
	if err := c.store.List(ctx, record.TableWeighings, nil, &weighings); err != nil {
		return nil, err
	}
	return query.FilterWeighings(weighings, criteria), nil
}

// AddHealthEvent appends an entry to an animal's health log.
func (c *Container) AddHealthEvent(ctx context.Context, event models.HealthEvent) (models.HealthEvent, error) {
	if !event.Type.Valid() {
		return models.HealthEvent{}, fmt.Errorf("%w: unknown health event type %q", ErrValidation, event.Type)
	}
	if _, err := c.GetAnimal(ctx, event.AnimalID); err != nil {
		return models.HealthEvent{}, err
	}

	now := c.now().UTC()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	if event.Date.IsZero() {
		event.Date = now
	}

	if err := c.store.Insert(ctx, record.TableHealthEvents, []any{event}); err != nil {
		return models.HealthEvent{}, err
	}
	return event, nil
}

// HealthEvents lists health events matching the criteria.
func (c *Container) HealthEvents(ctx context.Context, criteria query.HealthCriteria) ([]models.HealthEvent, error) {
	var events []models.HealthEvent
	if err := c.store.List(ctx, record.TableHealthEvents, nil, &events); err != nil {
		return nil, err
	}
	return query.FilterHealthEvents(events, criteria), nil
}

// CreateSupplier registers a supplier.
func (c *Container) CreateSupplier(ctx context.Context, supplier models.Supplier) (models.Supplier, error) {
	if supplier.Name == "" {
		return models.Supplier{}, fmt.Errorf("%w: supplier name is required", ErrValidation)
	}
	supplier.ID = uuid.NewString()
	supplier.CreatedAt = c.now().UTC()
	if err := c.store.Insert(ctx, record.TableSuppliers, []any{supplier}); err != nil {
		return models.Supplier{}, err
	}
	return supplier, nil
}

// Suppliers lists every supplier.
func (c *Container) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := c.store.List(ctx, record.TableSuppliers, nil, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// DeleteSupplier removes a supplier record. Animals keep their historical
// supplier reference; the projection simply stops resolving the name.
func (c *Container) DeleteSupplier(ctx context.Context, id string) error {
	deleted, err := c.store.Delete(ctx, record.TableSuppliers, record.Filter{"id": record.Eq(id)})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: supplier %s", ErrNotFound, id)
	}
	c.refreshAfterWrite(ctx)
	return nil
}

// CreateCarrier registers a carrier.
func (c *Container) CreateCarrier(ctx context.Context, carrier models.Carrier) (models.Carrier, error) {
	if carrier.Name == "" {
		return models.Carrier{}, fmt.Errorf("%w: carrier name is required", ErrValidation)
	}
	carrier.ID = uuid.NewString()
	carrier.CreatedAt = c.now().UTC()
	if err := c.store.Insert(ctx, record.TableCarriers, []any{carrier}); err != nil {
		return models.Carrier{}, err
	}
	return carrier, nil
}

// Carriers lists every carrier.
func (c *Container) Carriers(ctx context.Context) ([]models.Carrier, error) {
	var carriers []models.Carrier
	if err := c.store.List(ctx, record.TableCarriers, nil, &carriers); err != nil {
		return nil, err
	}
	return carriers, nil
}

// DeleteCarrier removes a carrier record.
func (c *Container) DeleteCarrier(ctx context.Context, id string) error {
	deleted, err := c.store.Delete(ctx, record.TableCarriers, record.Filter{"id": record.Eq(id)})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: carrier %s", ErrNotFound, id)
	}
	c.refreshAfterWrite(ctx)
	return nil
}
