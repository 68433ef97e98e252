package service

import "github.com/guttosm/pack-advice/internal/domain/model"

func ptr[T any](v T) *T {
	return &v
}

// unitsOf builds shipping units from id, name and quantity triples.
func unitsOf(entries ...model.ShippingUnitEntry) model.ShippingUnits {
	u := model.ShippingUnits{}
	for _, e := range entries {
		u.Add(e.ID, e.Name, e.Quantity)
	}
	return u
}

func small(qty int) model.ShippingUnitEntry {
	return model.ShippingUnitEntry{ID: "su-s", Name: "Small pot", Quantity: qty}
}

func medium(qty int) model.ShippingUnitEntry {
	return model.ShippingUnitEntry{ID: "su-m", Name: "Medium pot", Quantity: qty}
}

func large(qty int) model.ShippingUnitEntry {
	return model.ShippingUnitEntry{ID: "su-l", Name: "Large pot", Quantity: qty}
}

func andRule(id, containerID, unitID string, qty int) model.CompartmentRule {
	return model.CompartmentRule{ID: id, ContainerID: containerID, ShippingUnitID: unitID, Quantity: qty, Operator: model.OperatorAnd, Active: true}
}

func orRule(id, containerID, unitID string, qty, sortOrder int) model.CompartmentRule {
	return model.CompartmentRule{ID: id, ContainerID: containerID, ShippingUnitID: unitID, Quantity: qty, Operator: model.OperatorOr, SortOrder: sortOrder, Active: true}
}

func altRule(id, containerID, forID, unitID string, qty int) model.CompartmentRule {
	return model.CompartmentRule{ID: id, ContainerID: containerID, ShippingUnitID: unitID, Quantity: qty, Operator: model.OperatorAlternative, AlternativeForID: ptr(forID), Active: true}
}

func box(id, sku string, specificity int, volume float64) model.Container {
	return model.Container{
		ID:               id,
		ExternalID:       int64(len(id)) * 100,
		Name:             "Box " + id,
		TagName:          "Doos " + id,
		CostSKU:          sku,
		SpecificityScore: ptr(specificity),
		VolumeCm3:        ptr(volume),
		HandlingCost:     1,
		MaterialCost:     0.5,
		Active:           true,
		UseInAdvice:      true,
	}
}

func entry(sku string, bracket *string, total float64) model.CostEntry {
	return model.CostEntry{
		BoxSKU:          sku,
		CountryCode:     "NL",
		Carrier:         "PostNL",
		WeightBracket:   bracket,
		BoxMaterialCost: 0.5,
		BoxPickCost:     0.25,
		BoxPackCost:     0.25,
		TransportCost:   total - 1,
		TotalCost:       total,
	}
}
