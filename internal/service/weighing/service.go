// Package weighing computes weight evolution: per-animal gains and
// population-level summaries over the weighing time series.
package weighing

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
)

const hoursPerDay = 24

// Service runs the aggregations over data fetched through the record store.
type Service struct {
	store  record.Store
	logger *zap.Logger
}

// NewService constructs the aggregator.
func NewService(store record.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Gain returns current.weight - previous.weight, or nil when there is no
// previous weighing (the first weighing has no gain).
func Gain(current models.Weighing, previous *models.Weighing) *float64 {
	if previous == nil {
		return nil
	}
	gain := current.WeightKg - previous.WeightKg
	return &gain
}

// GainPerDay divides the gain by the elapsed days between the two weighings.
// The denominator is floored at one day so two weighings on the same date do
// not divide by zero.
func GainPerDay(current models.Weighing, previous *models.Weighing) *float64 {
	gain := Gain(current, previous)
	if gain == nil {
		return nil
	}
	days := current.Date.Sub(previous.Date).Hours() / hoursPerDay
	if days < 1 {
		days = 1
	}
	perDay := *gain / days
	return &perDay
}

// Annotate orders an animal's weighings by date ascending and pairs each one
// with the gain against its predecessor.
func Annotate(weighings []models.Weighing) []models.WeighingEntry {
	ordered := make([]models.Weighing, len(weighings))
	copy(ordered, weighings)
	sortChronological(ordered)

	entries := make([]models.WeighingEntry, 0, len(ordered))
	for i, w := range ordered {
		var previous *models.Weighing
		if i > 0 {
			previous = &ordered[i-1]
		}
		entries = append(entries, models.WeighingEntry{
			Weighing:     w,
			GainKg:       Gain(w, previous),
			GainPerDayKg: GainPerDay(w, previous),
		})
	}
	return entries
}

// Summarize groups the weighings by animal and aggregates successive gains
// across the whole population. Animals with fewer than two weighings
// contribute no gain records but still count toward Count and MeanWeightKg
// through their latest weight.
func Summarize(weighings []models.Weighing) models.PopulationSummary {
	byAnimal := make(map[string][]models.Weighing)
	for _, w := range weighings {
		byAnimal[w.AnimalID] = append(byAnimal[w.AnimalID], w)
	}

	summary := models.PopulationSummary{Count: len(byAnimal)}
	if summary.Count == 0 {
		return summary
	}

	var latestTotal float64
	var gains int
	var perDayTotal float64
	for _, series := range byAnimal {
		entries := Annotate(series)
		latestTotal += entries[len(entries)-1].WeightKg
		for _, entry := range entries {
			if entry.GainKg == nil {
				continue
			}
			summary.TotalGainKg += *entry.GainKg
			perDayTotal += *entry.GainPerDayKg
			gains++
		}
	}

	summary.MeanWeightKg = latestTotal / float64(summary.Count)
	if gains > 0 {
		summary.MeanGainPerWeighing = summary.TotalGainKg / float64(gains)
		summary.MeanGainPerDayKg = perDayTotal / float64(gains)
	}
	return summary
}

// LatestWeight returns the animal's current weight: the max-by-date weighing,
// or nil when the animal was never weighed.
func (s *Service) LatestWeight(ctx context.Context, animalID string) (*float64, error) {
	series, err := s.animalWeighings(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, nil
	}
	sortChronological(series)
	weight := series[len(series)-1].WeightKg
	return &weight, nil
}

// History returns the animal's weighings, oldest first, annotated with gains.
func (s *Service) History(ctx context.Context, animalID string) ([]models.WeighingEntry, error) {
	series, err := s.animalWeighings(ctx, animalID)
	if err != nil {
		return nil, err
	}
	return Annotate(series), nil
}

// PopulationSummary aggregates over the weighings of the given animals, or
// over the whole herd when animalIDs is empty.
func (s *Service) PopulationSummary(ctx context.Context, animalIDs []string) (models.PopulationSummary, error) {
	filter := record.Filter{}
	if len(animalIDs) > 0 {
		filter["animal_id"] = record.In(animalIDs)
	}

	var weighings []models.Weighing
	if err := s.store.List(ctx, record.TableWeighings, filter, &weighings); err != nil {
		return models.PopulationSummary{}, fmt.Errorf("load weighings: %w", err)
	}
	return Summarize(weighings), nil
}

func (s *Service) animalWeighings(ctx context.Context, animalID string) ([]models.Weighing, error) {
	var series []models.Weighing
	err := s.store.List(ctx, record.TableWeighings, record.Filter{
		"animal_id": record.Eq(animalID),
	}, &series)
	if err != nil {
		return nil, fmt.Errorf("load weighings: %w", err)
	}
	return series, nil
}

// sortChronological orders by date ascending with insertion order (CreatedAt,
// then ID) breaking same-date ties.
func sortChronological(weighings []models.Weighing) {
	sort.SliceStable(weighings, func(i, j int) bool {
		a, b := weighings[i], weighings[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
