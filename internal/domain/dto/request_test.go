package dto

import (
	"testing"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProducts() []model.OrderProduct {
	return []model.OrderProduct{{ProductID: 1001, ProductCode: "PLANT-12", Quantity: 2}}
}

func TestCalculateAdviceRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     CalculateAdviceRequest
		allowed     []string
		wantErr     error
		wantField   string
		wantCountry string
	}{
		{
			name:    "valid request without country",
			request: CalculateAdviceRequest{OrderID: 1, Products: validProducts()},
		},
		{
			name:        "country is normalized",
			request:     CalculateAdviceRequest{OrderID: 1, Products: validProducts(), CountryCode: " nl "},
			wantCountry: "NL",
		},
		{
			name:    "zero order id",
			request: CalculateAdviceRequest{Products: validProducts()},
			wantErr: ErrInvalidOrderID,
		},
		{
			name:    "no products",
			request: CalculateAdviceRequest{OrderID: 1},
			wantErr: ErrNoProducts,
		},
		{
			name: "zero quantity",
			request: CalculateAdviceRequest{OrderID: 1, Products: []model.OrderProduct{
				{ProductID: 1, ProductCode: "A", Quantity: 1},
				{ProductID: 2, ProductCode: "B", Quantity: 0},
			}},
			wantField: "products[1].quantity",
		},
		{
			name:      "missing product code",
			request:   CalculateAdviceRequest{OrderID: 1, Products: []model.OrderProduct{{ProductID: 1, Quantity: 1}}},
			wantField: "products[0].productCode",
		},
		{
			name:      "missing product id",
			request:   CalculateAdviceRequest{OrderID: 1, Products: []model.OrderProduct{{ProductCode: "A", Quantity: 1}}},
			wantField: "products[0].productId",
		},
		{
			name:    "country outside default list",
			request: CalculateAdviceRequest{OrderID: 1, Products: validProducts(), CountryCode: "US"},
			wantErr: ErrUnsupportedCountry,
		},
		{
			name:        "configured allow-list",
			request:     CalculateAdviceRequest{OrderID: 1, Products: validProducts(), CountryCode: "us"},
			allowed:     []string{"US"},
			wantCountry: "US",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.request
			err := req.Validate(tt.allowed)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantField != "":
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantCountry, req.CountryCode)
			}
		})
	}
}

func TestRecordOutcomeRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RecordOutcomeRequest{}).Validate())
	assert.NoError(t, (&RecordOutcomeRequest{ActualBoxes: []model.ActualBox{{ExternalContainerID: 4}}}).Validate())
	assert.Equal(t, ErrInvalidActualBoxes, (&RecordOutcomeRequest{ActualBoxes: []model.ActualBox{{Name: "Box"}}}).Validate())
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name          string
		validationErr *ValidationError
		expected      string
	}{
		{
			name:          "validation error message format",
			validationErr: &ValidationError{Field: "orderId", Message: "must be positive"},
			expected:      "orderId: must be positive",
		},
		{
			name:          "validation error with indexed field",
			validationErr: &ValidationError{Field: "products[0].quantity", Message: "must be at least 1"},
			expected:      "products[0].quantity: must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.validationErr.Error())
		})
	}
}
