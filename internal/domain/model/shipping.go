// Package model defines the core domain entities for the packaging advice service.
package model

import "sort"

// ShippingUnitEntry is an abstract countable category of product quantity.
//
// @Description Shipping unit and the quantity detected for it
// @Example {"id": "su-small-pot", "name": "Small pot", "quantity": 4}
type ShippingUnitEntry struct {
	// ID is the shipping unit identifier
	ID string `json:"id" bson:"id" example:"su-small-pot"`
	// Name is the human readable shipping unit name
	Name string `json:"name" bson:"name" example:"Small pot"`
	// Quantity is the accumulated quantity of this unit
	Quantity int `json:"quantity" bson:"quantity" example:"4"`
}

// ShippingUnits maps a shipping unit id to its accumulated entry.
type ShippingUnits map[string]ShippingUnitEntry

// Add accumulates qty on the unit, creating the entry when needed.
func (u ShippingUnits) Add(id, name string, qty int) {
	e, ok := u[id]
	if !ok {
		e = ShippingUnitEntry{ID: id, Name: name}
	}
	if e.Name == "" {
		e.Name = name
	}
	e.Quantity += qty
	u[id] = e
}

// Clone returns an independent copy.
func (u ShippingUnits) Clone() ShippingUnits {
	out := make(ShippingUnits, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Quantity returns the quantity held for the unit, zero when absent.
func (u ShippingUnits) Quantity(id string) int {
	return u[id].Quantity
}

// Total returns the summed quantity over all units.
func (u ShippingUnits) Total() int {
	total := 0
	for _, e := range u {
		total += e.Quantity
	}
	return total
}

// IsEmpty reports whether no unit has a positive quantity.
func (u ShippingUnits) IsEmpty() bool {
	for _, e := range u {
		if e.Quantity > 0 {
			return false
		}
	}
	return true
}

// Subtract removes the quantities of other, dropping entries that reach zero.
func (u ShippingUnits) Subtract(other ShippingUnits) {
	for id, e := range other {
		cur, ok := u[id]
		if !ok {
			continue
		}
		cur.Quantity -= e.Quantity
		if cur.Quantity <= 0 {
			delete(u, id)
			continue
		}
		u[id] = cur
	}
}

// Sorted returns the entries ordered by name, then id.
func (u ShippingUnits) Sorted() []ShippingUnitEntry {
	out := make([]ShippingUnitEntry, 0, len(u))
	for _, e := range u {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
