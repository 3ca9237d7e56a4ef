package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/record"
)

func TestInsertAndListWithEquality(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record.TableAnimals, []any{
		models.Animal{ID: "a1", TagNumber: "101", Status: models.StatusInField},
		models.Animal{ID: "a2", TagNumber: "102", Status: models.StatusSold},
	}))

	var inField []models.Animal
	err := store.List(ctx, record.TableAnimals, record.Filter{
		"status": record.Eq(string(models.StatusInField)),
	}, &inField)
	require.NoError(t, err)
	require.Len(t, inField, 1)
	assert.Equal(t, "a1", inField[0].ID)

	var all []models.Animal
	require.NoError(t, store.List(ctx, record.TableAnimals, nil, &all))
	assert.Len(t, all, 2)
}

func TestNullFilter(t *testing.T) {
	store := New()
	ctx := context.Background()
	released := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, record.TableAssignments, []any{
		models.Assignment{ID: "as1", AnimalID: "a1", LotID: "l1"},
		models.Assignment{ID: "as2", AnimalID: "a1", LotID: "l2", ReleasedAt: &released},
	}))

	var actives []models.Assignment
	err := store.List(ctx, record.TableAssignments, record.Filter{
		"released_at": record.IsNull(),
	}, &actives)
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.Equal(t, "as1", actives[0].ID)

	var closed []models.Assignment
	err = store.List(ctx, record.TableAssignments, record.Filter{
		"released_at": record.NotNull(),
	}, &closed)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "as2", closed[0].ID)
}

func TestRangeFilters(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record.TableWeighings, []any{
		models.Weighing{ID: "w1", AnimalID: "a1", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), WeightKg: 290},
		models.Weighing{ID: "w2", AnimalID: "a1", Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), WeightKg: 305},
		models.Weighing{ID: "w3", AnimalID: "a1", Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), WeightKg: 311},
	}))

	var january []models.Weighing
	err := store.List(ctx, record.TableWeighings, record.Filter{
		"date": record.Between(
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		),
	}, &january)
	require.NoError(t, err)
	assert.Len(t, january, 2)

	var heavy []models.Weighing
	err = store.List(ctx, record.TableWeighings, record.Filter{
		"weight_kg": record.Between(300, nil),
	}, &heavy)
	require.NoError(t, err)
	assert.Len(t, heavy, 2)
}

func TestInFilter(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record.TableAnimals, []any{
		models.Animal{ID: "a1"},
		models.Animal{ID: "a2"},
		models.Animal{ID: "a3"},
	}))

	var subset []models.Animal
	err := store.List(ctx, record.TableAnimals, record.Filter{
		"id": record.In([]string{"a1", "a3"}),
	}, &subset)
	require.NoError(t, err)
	assert.Len(t, subset, 2)
}

func TestUpdateReportsMatchedCount(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record.TableAssignments, []any{
		models.Assignment{ID: "as1", AnimalID: "a1", LotID: "l1"},
		models.Assignment{ID: "as2", AnimalID: "a2", LotID: "l1"},
	}))

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	count, err := store.Update(ctx, record.TableAssignments, record.Filter{
		"lot_id":      record.Eq("l1"),
		"released_at": record.IsNull(),
	}, record.Patch{"released_at": now})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = store.Update(ctx, record.TableAssignments, record.Filter{
		"released_at": record.IsNull(),
	}, record.Patch{"released_at": now})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var rows []models.Assignment
	require.NoError(t, store.List(ctx, record.TableAssignments, nil, &rows))
	for _, row := range rows {
		require.NotNil(t, row.ReleasedAt)
		assert.True(t, row.ReleasedAt.Equal(now))
	}
}

func TestDeleteReportsCount(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record.TableLots, []any{
		models.Lot{ID: "l1", Name: "Corral Norte"},
		models.Lot{ID: "l2", Name: "Corral Sur"},
	}))

	count, err := store.Delete(ctx, record.TableLots, record.Filter{"id": record.Eq("l1")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, store.Count(record.TableLots))

	count, err = store.Delete(ctx, record.TableLots, record.Filter{"id": record.Eq("l1")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, record.TableLots, []any{
		models.Lot{ID: "l1", Name: "first"},
		models.Lot{ID: "l2", Name: "second"},
		models.Lot{ID: "l3", Name: "third"},
	}))

	var lots []models.Lot
	require.NoError(t, store.List(ctx, record.TableLots, nil, &lots))
	require.Len(t, lots, 3)
	assert.Equal(t, []string{"l1", "l2", "l3"}, []string{lots[0].ID, lots[1].ID, lots[2].ID})
}
