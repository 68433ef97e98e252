package model

import "time"

// AdviceStatus is the lifecycle state of a persisted advice.
type AdviceStatus string

const (
	StatusCalculated  AdviceStatus = "calculated"
	StatusApplied     AdviceStatus = "applied"
	StatusInvalidated AdviceStatus = "invalidated"
	StatusOverridden  AdviceStatus = "overridden"
)

// Confidence describes how completely an order could be packed.
type Confidence string

const (
	ConfidenceFullMatch    Confidence = "full_match"
	ConfidencePartialMatch Confidence = "partial_match"
	ConfidenceNoMatch      Confidence = "no_match"
)

// BoxProduct is the share of one product assigned to a box.
type BoxProduct struct {
	ProductCode      string `bson:"product_code" json:"productCode" example:"PLANT-12"`
	ShippingUnitName string `bson:"shipping_unit_name" json:"shippingUnitName" example:"Small pot"`
	Quantity         int    `bson:"quantity" json:"quantity" example:"2"`
	WeightGrams      int    `bson:"weight_grams" json:"weightGrams" example:"900"`
}

// AdviceBox is a finalized container assignment.
//
// @Description Container advised for part of the order
type AdviceBox struct {
	ContainerID         string       `bson:"container_id" json:"containerId"`
	ContainerName       string       `bson:"container_name" json:"containerName" example:"Box S"`
	TagName             string       `bson:"tag_name,omitempty" json:"tagName,omitempty"`
	ExternalContainerID int64        `bson:"external_container_id" json:"externalContainerId" example:"42"`
	Products            []BoxProduct `bson:"products" json:"products"`
	BoxCost             *float64     `bson:"box_cost,omitempty" json:"boxCost,omitempty"`
	TransportCost       *float64     `bson:"transport_cost,omitempty" json:"transportCost,omitempty"`
	TotalCost           *float64     `bson:"total_cost,omitempty" json:"totalCost,omitempty"`
	WeightGrams         *int         `bson:"weight_grams,omitempty" json:"weightGrams,omitempty"`
	WeightBracket       *string      `bson:"weight_bracket,omitempty" json:"weightBracket,omitempty"`
}

// Label is the container name used for order tags.
func (b AdviceBox) Label() string {
	if b.TagName != "" {
		return b.TagName
	}
	return b.ContainerName
}

// ProductWeight sums the weight of the products assigned to the box.
func (b AdviceBox) ProductWeight() int {
	total := 0
	for _, p := range b.Products {
		total += p.WeightGrams
	}
	return total
}

// PackagingAdviceResult is the persisted advice record for an order.
//
// @Description Packaging advice for an order
type PackagingAdviceResult struct {
	ID                        string              `bson:"_id" json:"id" example:"1f0e3c4e-4b8e-4a53-9f55-0a8a5d2b6c11"`
	OrderID                   int64               `bson:"order_id" json:"orderId" example:"12345"`
	PickID                    *int64              `bson:"pick_id,omitempty" json:"pickId,omitempty"`
	ShippingProviderProfileID *int64              `bson:"shipping_provider_profile_id,omitempty" json:"shippingProviderProfileId,omitempty"`
	CountryCode               string              `bson:"country_code,omitempty" json:"countryCode,omitempty" example:"NL"`
	Status                    AdviceStatus        `bson:"status" json:"status" example:"calculated"`
	Confidence                Confidence          `bson:"confidence" json:"confidence" example:"full_match"`
	AdviceBoxes               []AdviceBox         `bson:"advice_boxes" json:"adviceBoxes"`
	DetectedShippingUnits     []ShippingUnitEntry `bson:"detected_shipping_units" json:"detectedShippingUnits"`
	UnclassifiedProducts      []string            `bson:"unclassified_products" json:"unclassifiedProducts"`
	TagsWritten               []string            `bson:"tags_written" json:"tagsWritten"`
	Fingerprint               *string             `bson:"fingerprint" json:"fingerprint"`
	CostDataAvailable         bool                `bson:"cost_data_available" json:"costDataAvailable"`
	WeightExceeded            bool                `bson:"weight_exceeded" json:"weightExceeded"`
	// Active is true until the record is invalidated; at most one active record exists per order.
	Active        bool           `bson:"active" json:"-"`
	CalculatedAt  time.Time      `bson:"calculated_at" json:"calculatedAt"`
	AppliedAt     *time.Time     `bson:"applied_at,omitempty" json:"appliedAt,omitempty"`
	InvalidatedAt *time.Time     `bson:"invalidated_at,omitempty" json:"invalidatedAt,omitempty"`
	Outcome       *OutcomeRecord `bson:"outcome,omitempty" json:"outcome,omitempty"`
}

// SameFingerprint reports whether the record was computed from the given fingerprint.
func (r *PackagingAdviceResult) SameFingerprint(fp *string) bool {
	if r.Fingerprint == nil || fp == nil {
		return r.Fingerprint == nil && fp == nil
	}
	return *r.Fingerprint == *fp
}
