package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/catalog/queries"
	"github.com/andrescamacho/outpost-go/internal/application/mediator"
	"github.com/andrescamacho/outpost-go/internal/domain/catalog"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
	"github.com/andrescamacho/outpost-go/test/helpers"
)

func TestListTemplates_Filters(t *testing.T) {
	env := helpers.NewEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query *queries.ListTemplatesQuery
		want  []string
	}{
		{"all ordered by tier then id", &queries.ListTemplatesQuery{}, []string{"crate", "hut"}},
		{"by category", &queries.ListTemplatesQuery{Category: "storage"}, []string{"crate"}},
		{"by tier", &queries.ListTemplatesQuery{Tier: 1}, []string{"crate", "hut"}},
		{"no match", &queries.ListTemplatesQuery{Tier: 4}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := mediator.SendTyped[*queries.ListTemplatesResponse](ctx, env.Mediator, tt.query)
			require.NoError(t, err)
			var ids []string
			for _, tmpl := range resp.Templates {
				ids = append(ids, tmpl.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetTemplate(t *testing.T) {
	env := helpers.NewEnv(t)
	ctx := context.Background()

	hut, err := mediator.SendTyped[*queries.TemplateDTO](ctx, env.Mediator, &queries.GetTemplateQuery{TemplateID: "hut"})
	require.NoError(t, err)
	assert.Equal(t, shared.ResourceQuantity{"wood": 30}, hut.RequiredResources)
	assert.Equal(t, 60*time.Second, hut.BuildDuration)
	assert.Equal(t, 3, hut.MaxLevel)
	assert.Equal(t, shared.ResourceQuantity{"wood": 10, "stone": 5}, hut.UpgradeCosts[2])
	assert.Equal(t, shared.ResourceQuantity{"wood": 30}, hut.UpgradeCosts[3], "levels without an explicit cost fall back to the base cost")

	_, err = env.Mediator.Send(ctx, &queries.GetTemplateQuery{TemplateID: "castle"})
	var notFound *catalog.TemplateNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
