package weighing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
	"github.com/mherrera/rodeo/internal/record/memory"
)

func day(offset int) time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func weighingSeries() []models.Weighing {
	return []models.Weighing{
		{ID: "w1", AnimalID: "a1", Date: day(0), WeightKg: 300},
		{ID: "w2", AnimalID: "a1", Date: day(10), WeightKg: 320},
		{ID: "w3", AnimalID: "a1", Date: day(20), WeightKg: 310},
	}
}

func TestGainSequence(t *testing.T) {
	entries := Annotate(weighingSeries())
	require.Len(t, entries, 3)

	assert.Nil(t, entries[0].GainKg)
	assert.Nil(t, entries[0].GainPerDayKg)

	require.NotNil(t, entries[1].GainKg)
	assert.InDelta(t, 20.0, *entries[1].GainKg, 1e-9)
	require.NotNil(t, entries[1].GainPerDayKg)
	assert.InDelta(t, 2.0, *entries[1].GainPerDayKg, 1e-9)

	require.NotNil(t, entries[2].GainKg)
	assert.InDelta(t, -10.0, *entries[2].GainKg, 1e-9)
	require.NotNil(t, entries[2].GainPerDayKg)
	assert.InDelta(t, -1.0, *entries[2].GainPerDayKg, 1e-9)
}

func TestGainPerDayFloorsSameDateAtOneDay(t *testing.T) {
	previous := models.Weighing{AnimalID: "a1", Date: day(5), WeightKg: 300}
	current := models.Weighing{AnimalID: "a1", Date: day(5), WeightKg: 304}

	perDay := GainPerDay(current, &previous)
	require.NotNil(t, perDay)
	assert.InDelta(t, 4.0, *perDay, 1e-9)
}

func TestAnnotateOrdersSameDateByInsertion(t *testing.T) {
	d := day(3)
	series := []models.Weighing{
		{ID: "w2", AnimalID: "a1", Date: d, WeightKg: 305, CreatedAt: d.Add(2 * time.Hour)},
		{ID: "w1", AnimalID: "a1", Date: d, WeightKg: 300, CreatedAt: d.Add(1 * time.Hour)},
	}

	entries := Annotate(series)
	require.Len(t, entries, 2)
	assert.Equal(t, "w1", entries[0].ID)
	assert.Equal(t, "w2", entries[1].ID)
	require.NotNil(t, entries[1].GainKg)
	assert.InDelta(t, 5.0, *entries[1].GainKg, 1e-9)
}

func TestSummarize(t *testing.T) {
	weighings := append(weighingSeries(),
		// Second animal with a single weighing: counts toward the herd and
		// the mean weight, contributes no gain.
		models.Weighing{ID: "w4", AnimalID: "a2", Date: day(2), WeightKg: 250},
	)

	summary := Summarize(weighings)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, (310.0+250.0)/2, summary.MeanWeightKg, 1e-9)
	assert.InDelta(t, 10.0, summary.TotalGainKg, 1e-9)
	assert.InDelta(t, 5.0, summary.MeanGainPerWeighing, 1e-9)
	assert.InDelta(t, 0.5, summary.MeanGainPerDayKg, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Count)
	assert.Zero(t, summary.MeanWeightKg)
	assert.Zero(t, summary.TotalGainKg)
}

func TestLatestWeight(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	rows := make([]any, 0)
	for _, w := range weighingSeries() {
		rows = append(rows, w)
	}
	require.NoError(t, store.Insert(ctx, record.TableWeighings, rows))

	svc := NewService(store, nil)

	weight, err := svc.LatestWeight(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, weight)
	assert.InDelta(t, 310.0, *weight, 1e-9)

	weight, err = svc.LatestWeight(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, weight)
}

func TestPopulationSummaryScopesToAnimals(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	rows := make([]any, 0)
	for _, w := range weighingSeries() {
		rows = append(rows, w)
	}
	rows = append(rows, models.Weighing{ID: "w4", AnimalID: "a2", Date: day(2), WeightKg: 250})
	require.NoError(t, store.Insert(ctx, record.TableWeighings, rows))

	svc := NewService(store, nil)

	summary, err := svc.PopulationSummary(ctx, []string{"a1"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 310.0, summary.MeanWeightKg, 1e-9)

	summary, err = svc.PopulationSummary(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
}
