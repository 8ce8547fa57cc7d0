package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogAdapter "github.com/andrescamacho/outpost-go/internal/adapters/catalog"
	"github.com/andrescamacho/outpost-go/internal/adapters/persistence"
	"github.com/andrescamacho/outpost-go/internal/domain/construction"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func newBuilding(t *testing.T, templateID, territoryID string, start time.Time) *construction.PlayerBuilding {
	t.Helper()
	cat, err := catalogAdapter.Parse([]byte(helpers.TestCatalogYAML))
	require.NoError(t, err)
	template, err := cat.Template(templateID)
	require.NoError(t, err)

	b, err := construction.NewPlayerBuilding(shared.MustNewPlayerID("alice"), template, territoryID,
		&construction.Location{Latitude: 52.52, Longitude: 13.405}, start)
	require.NoError(t, err)
	return b
}

func TestBuildingRepository_CreateFindUpdateDelete(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormBuildingRepository(db)
	ctx := context.Background()
	b := newBuilding(t, "hut", "territory-1", helpers.T0)

	// Act
	require.NoError(t, repo.Create(ctx, b))
	found, err := repo.FindByID(ctx, b.ID())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, construction.BuildingStatusConstructing, found.Status())
	assert.Equal(t, 1, found.Level())
	assert.Equal(t, 60*time.Second, found.BuildDuration())
	assert.True(t, found.StartedAt().Equal(helpers.T0))
	assert.Nil(t, found.CompletedAt())
	require.NotNil(t, found.Location())
	assert.InDelta(t, 52.52, found.Location().Latitude, 1e-9)

	require.True(t, found.Finalize(helpers.T0.Add(2*time.Minute)))
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.FindByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, construction.BuildingStatusActive, reloaded.Status())
	require.NotNil(t, reloaded.CompletedAt())
	assert.True(t, reloaded.CompletedAt().Equal(helpers.T0.Add(2*time.Minute)), "completion is stamped when observed")

	require.NoError(t, repo.Delete(ctx, b.ID()))
	_, err = repo.FindByID(ctx, b.ID())
	var notFound *construction.BuildingNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBuildingRepository_TerritoryQueries(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormBuildingRepository(db)
	transactor := persistence.NewGormTransactor(db)
	ctx := context.Background()

	early := newBuilding(t, "crate", "territory-1", helpers.T0)
	late := newBuilding(t, "crate", "territory-1", helpers.T0.Add(time.Minute))
	other := newBuilding(t, "hut", "territory-2", helpers.T0)
	for _, b := range []*construction.PlayerBuilding{early, late, other} {
		require.NoError(t, repo.Create(ctx, b))
	}

	n, err := repo.CountByTerritoryAndTemplate(ctx, "territory-1", "crate")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	listed, err := repo.FindByTerritory(ctx, "territory-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	due, err := repo.FindDueForCompletion(ctx, helpers.T0.Add(30*time.Second), 10)
	require.NoError(t, err)
	require.Len(t, due, 1, "a countdown ending exactly now is due")
	assert.Equal(t, early.ID(), due[0].ID())

	err = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.LockTerritory(ctx, "territory-1"); err != nil {
			return err
		}
		return repo.LockTerritory(ctx, "territory-1")
	})
	require.NoError(t, err)
}
