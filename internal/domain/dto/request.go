// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strconv"
	"strings"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// DefaultAllowedCountries are the destination countries accepted when none are configured.
var DefaultAllowedCountries = []string{"NL", "BE", "DE", "FR", "AT", "LU", "SE", "IT", "ES"}

// CalculateAdviceRequest represents the JSON request body for the advice calculation endpoint.
//
// @Description Request to calculate packaging advice for an order
// @Example {"orderId": 12345, "countryCode": "NL", "products": [{"productId": 1001, "productCode": "PLANT-12", "quantity": 2}]}
type CalculateAdviceRequest struct {
	// OrderID is the order-system order id
	OrderID int64 `json:"orderId" binding:"required,gt=0" example:"12345"`
	// PickID is the optional pick list id
	PickID *int64 `json:"pickId,omitempty" example:"777"`
	// Products are the order lines to pack
	Products []model.OrderProduct `json:"products" binding:"required"`
	// ShippingProviderProfileID is the optional carrier profile of the shipment
	ShippingProviderProfileID *int64 `json:"shippingProviderProfileId,omitempty" example:"3"`
	// CountryCode is the optional ISO destination country; costs are skipped without it
	CountryCode string `json:"countryCode,omitempty" example:"NL"`
} // @name CalculateAdviceRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidOrderID is returned when orderId is not positive.
	ErrInvalidOrderID = &ValidationError{Field: "orderId", Message: "must be a positive integer"}
	// ErrNoProducts is returned when products is empty.
	ErrNoProducts = &ValidationError{Field: "products", Message: "at least one product is required"}
	// ErrUnsupportedCountry is returned when countryCode is not in the allow-list.
	ErrUnsupportedCountry = &ValidationError{Field: "countryCode", Message: "unsupported country"}
	// ErrInvalidActualBoxes is returned when an outcome lists a box without a container id.
	ErrInvalidActualBoxes = &ValidationError{Field: "actualBoxes", Message: "every box needs a positive externalContainerId"}
)

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the request and normalizes the country code in place.
// An empty allowed list accepts DefaultAllowedCountries.
func (r *CalculateAdviceRequest) Validate(allowedCountries []string) error {
	if r.OrderID <= 0 {
		return ErrInvalidOrderID
	}
	if len(r.Products) == 0 {
		return ErrNoProducts
	}
	for i, p := range r.Products {
		field := "products[" + strconv.Itoa(i) + "]"
		switch {
		case p.ProductID <= 0:
			return &ValidationError{Field: field + ".productId", Message: "must be a positive integer"}
		case strings.TrimSpace(p.ProductCode) == "":
			return &ValidationError{Field: field + ".productCode", Message: "is required"}
		case p.Quantity < 1:
			return &ValidationError{Field: field + ".quantity", Message: "must be at least 1"}
		}
	}

	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	if r.CountryCode == "" {
		return nil
	}
	if len(allowedCountries) == 0 {
		allowedCountries = DefaultAllowedCountries
	}
	for _, c := range allowedCountries {
		if strings.EqualFold(c, r.CountryCode) {
			return nil
		}
	}
	return ErrUnsupportedCountry
}

// RecordOutcomeRequest represents the boxes the warehouse actually shipped.
//
// @Description Boxes actually used for an advised order
type RecordOutcomeRequest struct {
	// ActualBoxes lists one entry per shipped box
	ActualBoxes []model.ActualBox `json:"actualBoxes"`
} // @name RecordOutcomeRequest

// Validate checks every box has a container id.
func (r *RecordOutcomeRequest) Validate() error {
	for _, b := range r.ActualBoxes {
		if b.ExternalContainerID <= 0 {
			return ErrInvalidActualBoxes
		}
	}
	return nil
}
