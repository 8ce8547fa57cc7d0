package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

func TestNewResourceQuantity_DropsZeroAndRejectsNegative(t *testing.T) {
	q, err := shared.NewResourceQuantity(map[string]int{"wood": 3, "stone": 0})
	require.NoError(t, err)
	assert.Equal(t, shared.ResourceQuantity{"wood": 3}, q)

	_, err = shared.NewResourceQuantity(map[string]int{"wood": -1})
	var vErr *shared.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestResourceQuantity_Missing(t *testing.T) {
	required := shared.ResourceQuantity{"wood": 30, "scrap_metal": 5}
	available := shared.ResourceQuantity{"wood": 20, "scrap_metal": 9}

	missing := required.Missing(available)

	assert.Equal(t, shared.ResourceQuantity{"wood": 10}, missing)
	assert.False(t, missing.IsEmpty())
	assert.True(t, required.Missing(shared.ResourceQuantity{"wood": 30, "scrap_metal": 5}).IsEmpty())
}

func TestResourceQuantity_RestrictAndPlus(t *testing.T) {
	required := shared.ResourceQuantity{"wood": 1, "cloth": 2}
	available := shared.ResourceQuantity{"wood": 7, "stone": 4}

	assert.Equal(t, shared.ResourceQuantity{"wood": 7, "cloth": 0}, required.Restrict(available))
	assert.Equal(t, shared.ResourceQuantity{"wood": 8, "cloth": 2, "stone": 4}, required.Plus(available))
	assert.Equal(t, 3, required.Total())
}

func TestResourceQuantity_StringIsSorted(t *testing.T) {
	q := shared.ResourceQuantity{"wood": 10, "cloth": 2}
	assert.Equal(t, "{cloth:2, wood:10}", q.String())
	assert.Equal(t, "{}", shared.ResourceQuantity{}.String())
}

func TestResourceQuantity_EqualsIgnoresZero(t *testing.T) {
	assert.True(t, shared.ResourceQuantity{"wood": 1, "stone": 0}.Equals(shared.ResourceQuantity{"wood": 1}))
	assert.False(t, shared.ResourceQuantity{"wood": 1}.Equals(shared.ResourceQuantity{"wood": 2}))
}

func TestNewPlayerID_EmptyIsNotAuthenticated(t *testing.T) {
	_, err := shared.NewPlayerID("  ")
	var authErr *shared.NotAuthenticatedError
	assert.ErrorAs(t, err, &authErr)

	id, err := shared.NewPlayerID("player-a")
	require.NoError(t, err)
	assert.True(t, id.Less(shared.MustNewPlayerID("player-b")))
}
