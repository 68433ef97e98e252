package ordersystem

// ProductField is a custom field value on a product.
type ProductField struct {
	ID    int64  `json:"idproductfield"`
	Value string `json:"value"`
}

// Product is the full product record.
type Product struct {
	ID          int64          `json:"idproduct"`
	ProductCode string         `json:"productcode"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Weight      *int           `json:"weight"`
	Fields      []ProductField `json:"productfields"`
}

// FieldValue returns the value of the custom field, empty when absent.
func (p Product) FieldValue(id int64) string {
	for _, f := range p.Fields {
		if f.ID == id {
			return f.Value
		}
	}
	return ""
}

// ProductPart is one part of a composition product.
type ProductPart struct {
	ParentID int64 `json:"idproduct"`
	PartID   int64 `json:"idproduct_part"`
	Amount   int   `json:"amount"`
}

type addTagRequest struct {
	ID int64 `json:"idtag"`
}
