package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/outpost-go/internal/application/validation"
	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

type line struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type request struct {
	Lines []line `json:"lines" validate:"required,min=1,dive"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, validation.Struct(&request{Lines: []line{{ItemID: "wood", Quantity: 1}}}))

	tests := []struct {
		name  string
		req   *request
		field string
	}{
		{"empty lines", &request{}, "lines"},
		{"missing item", &request{Lines: []line{{Quantity: 1}}}, "lines[0].item_id"},
		{"zero quantity", &request{Lines: []line{{ItemID: "wood"}}}, "lines[0].quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.req)
			var verr *shared.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
