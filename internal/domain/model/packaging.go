package model

import "math"

// DefaultSpecificityScore is used for containers without a curated score.
const DefaultSpecificityScore = 50

// Container is a physical packaging type that can be advised.
type Container struct {
	ID               string   `bson:"_id" json:"id"`
	ExternalID       int64    `bson:"external_id" json:"externalId"`
	Name             string   `bson:"name" json:"name"`
	TagName          string   `bson:"tag_name,omitempty" json:"tagName,omitempty"`
	CostSKU          string   `bson:"cost_sku,omitempty" json:"costSku,omitempty"`
	SpecificityScore *int     `bson:"specificity_score,omitempty" json:"specificityScore,omitempty"`
	VolumeCm3        *float64 `bson:"volume_cm3,omitempty" json:"volumeCm3,omitempty"`
	HandlingCost     float64  `bson:"handling_cost" json:"handlingCost"`
	MaterialCost     float64  `bson:"material_cost" json:"materialCost"`
	MaxWeightGrams   *int     `bson:"max_weight_grams,omitempty" json:"maxWeightGrams,omitempty"`
	Active           bool     `bson:"active" json:"active"`
	UseInAdvice      bool     `bson:"use_in_advice" json:"useInAdvice"`
}

// Label is the name used for order tags.
func (c Container) Label() string {
	if c.TagName != "" {
		return c.TagName
	}
	return c.Name
}

// Specificity returns the curated score or the default.
func (c Container) Specificity() int {
	if c.SpecificityScore == nil {
		return DefaultSpecificityScore
	}
	return *c.SpecificityScore
}

// Volume returns the container volume; unknown volumes sort last.
func (c Container) Volume() float64 {
	if c.VolumeCm3 == nil {
		return math.MaxFloat64
	}
	return *c.VolumeCm3
}

// StaticCost is the handling plus material estimate used without route pricing.
func (c Container) StaticCost() float64 {
	return c.HandlingCost + c.MaterialCost
}

// RuleOperator defines how a compartment rule participates in its group.
type RuleOperator string

const (
	OperatorAnd         RuleOperator = "AND"
	OperatorOr          RuleOperator = "OR"
	OperatorAlternative RuleOperator = "ALTERNATIVE"
)

// CompartmentRule requires a quantity of a shipping unit for a container rule group.
type CompartmentRule struct {
	ID               string       `bson:"_id" json:"id"`
	ContainerID      string       `bson:"container_id" json:"containerId"`
	RuleGroup        int          `bson:"rule_group" json:"ruleGroup"`
	ShippingUnitID   string       `bson:"shipping_unit_id" json:"shippingUnitId"`
	Quantity         int          `bson:"quantity" json:"quantity"`
	Operator         RuleOperator `bson:"operator" json:"operator"`
	AlternativeForID *string      `bson:"alternative_for_id,omitempty" json:"alternativeForId,omitempty"`
	SortOrder        int          `bson:"sort_order" json:"sortOrder"`
	Active           bool         `bson:"active" json:"active"`
}

// PackagingMatch is the transient result of evaluating one rule group.
type PackagingMatch struct {
	ContainerID         string
	ContainerName       string
	TagName             string
	ExternalContainerID int64
	CostSKU             string
	RuleGroup           int
	CoveredUnits        ShippingUnits
	LeftoverUnits       ShippingUnits
	SpecificityScore    int
	Volume              float64
	BoxCost             float64
	TransportCost       float64
	TotalCost           float64
	WeightBracket       *string
	MaxWeightGrams      *int
}

// IsPerfect reports whether the match leaves nothing behind.
func (m PackagingMatch) IsPerfect() bool {
	return m.LeftoverUnits.IsEmpty()
}
