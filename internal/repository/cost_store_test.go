//go:build !integration

package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostRow_ToEntry(t *testing.T) {
	tests := []struct {
		name    string
		row     costRow
		wantErr bool
		check   func(t *testing.T, row costRow)
	}{
		{
			name: "complete row with bracket",
			row: costRow{
				BoxSKU:          "BOX-S",
				CountryCode:     " nl ",
				Carrier:         sql.NullString{String: "PostNL", Valid: true},
				WeightBracket:   sql.NullString{String: "0-5kg", Valid: true},
				BoxMaterialCost: sql.NullFloat64{Float64: 0.8, Valid: true},
				BoxPickCost:     sql.NullFloat64{Float64: 0.2, Valid: true},
				TransportCost:   sql.NullFloat64{Float64: 6, Valid: true},
				TotalCost:       sql.NullFloat64{Float64: 7, Valid: true},
			},
			check: func(t *testing.T, row costRow) {
				entry, err := row.toEntry()
				require.NoError(t, err)
				assert.Equal(t, "NL", entry.CountryCode)
				require.NotNil(t, entry.WeightBracket)
				assert.Equal(t, "0-5kg", *entry.WeightBracket)
				assert.InDelta(t, 1.0, entry.BoxCost(), 1e-9)
				assert.Equal(t, 7.0, entry.TotalCost)
			},
		},
		{
			name: "empty bracket means any weight",
			row: costRow{
				BoxSKU:        "BOX-S",
				CountryCode:   "BE",
				WeightBracket: sql.NullString{String: "", Valid: true},
				TotalCost:     sql.NullFloat64{Float64: 5, Valid: true},
			},
			check: func(t *testing.T, row costRow) {
				entry, err := row.toEntry()
				require.NoError(t, err)
				assert.Nil(t, entry.WeightBracket)
			},
		},
		{
			name:    "missing total cost is rejected",
			row:     costRow{BoxSKU: "BOX-S", CountryCode: "NL"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				_, err := tt.row.toEntry()
				assert.ErrorIs(t, err, errIncompleteCostRow)
				return
			}
			tt.check(t, tt.row)
		})
	}
}

func TestNewCostStore_DefaultPriceTier(t *testing.T) {
	store := NewCostStore(nil, "")
	assert.Equal(t, DefaultPriceTier, store.priceTier)
}
