package model

// OrderProduct is a single order line item handed to the engine.
//
// @Description Order line item
// @Example {"productId": 1001, "productCode": "PLANT-12", "quantity": 2}
type OrderProduct struct {
	// ProductID is the order-system product id
	ProductID int64 `json:"productId" example:"1001"`
	// ProductCode is the product code shown to warehouse staff
	ProductCode string `json:"productCode" example:"PLANT-12"`
	// Quantity is the ordered quantity
	Quantity int `json:"quantity" example:"2"`
}

// ClassificationStatus tells whether a product could be mapped to a shipping unit.
type ClassificationStatus string

const (
	ClassificationClassified   ClassificationStatus = "classified"
	ClassificationUnclassified ClassificationStatus = "unclassified"
	ClassificationNoMatch      ClassificationStatus = "no_match"
	ClassificationMissingData  ClassificationStatus = "missing_data"
)

// ProductAttributes holds the catalog data the engine needs for one product.
type ProductAttributes struct {
	ProductID            int64                `bson:"product_id" json:"productId"`
	ProductCode          string               `bson:"product_code" json:"productCode"`
	ProductName          string               `bson:"product_name,omitempty" json:"productName,omitempty"`
	ProductType          string               `bson:"product_type,omitempty" json:"productType,omitempty"`
	IsComposition        bool                 `bson:"is_composition" json:"isComposition"`
	WeightGrams          *int                 `bson:"weight_grams,omitempty" json:"weightGrams,omitempty"`
	IsFragile            bool                 `bson:"is_fragile" json:"isFragile"`
	IsMixable            bool                 `bson:"is_mixable" json:"isMixable"`
	PotSize              *float64             `bson:"pot_size,omitempty" json:"potSize,omitempty"`
	Height               *float64             `bson:"height,omitempty" json:"height,omitempty"`
	ShippingUnitID       *string              `bson:"shipping_unit_id,omitempty" json:"shippingUnitId,omitempty"`
	ClassificationStatus ClassificationStatus `bson:"classification_status" json:"classificationStatus"`
}

// Weight returns the product weight in grams, zero when unknown.
func (a ProductAttributes) Weight() int {
	if a.WeightGrams == nil {
		return 0
	}
	return *a.WeightGrams
}

// Classified reports whether the product maps directly to a shipping unit.
func (a ProductAttributes) Classified() bool {
	return a.ClassificationStatus == ClassificationClassified && a.ShippingUnitID != nil
}

// Expandable reports whether the product resolves through its composition parts.
// Compositions marked no_match or missing_data stay unresolved.
func (a ProductAttributes) Expandable() bool {
	return a.IsComposition && a.ClassificationStatus == ClassificationUnclassified
}

// CompositionPart expands a composite product into its parts.
type CompositionPart struct {
	ParentProductID    int64   `bson:"parent_product_id" json:"parentProductId"`
	PartProductID      int64   `bson:"part_product_id" json:"partProductId"`
	Amount             int     `bson:"amount" json:"amount"`
	PartShippingUnitID *string `bson:"part_shipping_unit_id,omitempty" json:"partShippingUnitId,omitempty"`
}

// ShippingUnit is the catalog definition of a shipping unit and its classification ranges.
// Nil bounds are open; a nil fragile filter accepts both.
type ShippingUnit struct {
	ID                 string   `bson:"_id" json:"id"`
	Name               string   `bson:"name" json:"name"`
	ProductType        string   `bson:"product_type" json:"productType"`
	PotSizeMin         *float64 `bson:"pot_size_min,omitempty" json:"potSizeMin,omitempty"`
	PotSizeMax         *float64 `bson:"pot_size_max,omitempty" json:"potSizeMax,omitempty"`
	HeightMin          *float64 `bson:"height_min,omitempty" json:"heightMin,omitempty"`
	HeightMax          *float64 `bson:"height_max,omitempty" json:"heightMax,omitempty"`
	IsFragileFilter    *bool    `bson:"is_fragile_filter,omitempty" json:"isFragileFilter,omitempty"`
	DefaultContainerID *string  `bson:"default_container_id,omitempty" json:"defaultContainerId,omitempty"`
	SortOrder          int      `bson:"sort_order" json:"sortOrder"`
	Active             bool     `bson:"active" json:"active"`
}
