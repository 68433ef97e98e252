package model

// CostEntry is one published cost row for a box SKU and destination country.
// A nil WeightBracket matches any weight.
//
// @Description Published box and transport cost
type CostEntry struct {
	BoxSKU          string  `json:"boxSku" example:"BOX-S"`
	CountryCode     string  `json:"countryCode" example:"NL"`
	Carrier         string  `json:"carrier" example:"PostNL"`
	TariffClass     string  `json:"tariffClass,omitempty" example:"parcel"`
	WeightBracket   *string `json:"weightBracket,omitempty" example:"0-5kg"`
	IsPallet        bool    `json:"isPallet"`
	BoxMaterialCost float64 `json:"boxMaterialCost" example:"0.85"`
	BoxPickCost     float64 `json:"boxPickCost" example:"0.30"`
	BoxPackCost     float64 `json:"boxPackCost" example:"0.45"`
	TransportCost   float64 `json:"transportCost" example:"6.95"`
	TotalCost       float64 `json:"totalCost" example:"8.55"`
}

// BoxCost is the material, pick and pack share of the entry.
func (e CostEntry) BoxCost() float64 {
	return e.BoxMaterialCost + e.BoxPickCost + e.BoxPackCost
}

// CountryCosts maps a box SKU to its cost entries for one country.
type CountryCosts map[string][]CostEntry
