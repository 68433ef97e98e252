package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/rs/zerolog/log"
)

// UnknownProductType is stored when a product carries no product type field.
const UnknownProductType = "Onbekend"

// openRangeBound stands in for a missing upper bound when comparing unit ranges.
const openRangeBound = 1000

// FieldIDs are the order-system custom field ids carrying classification data.
type FieldIDs struct {
	PotSize     int64
	Height      int64
	ProductType int64
	Fragile     int64
	Mixable     int64
}

// DefaultFieldIDs returns the field ids used when none are configured.
func DefaultFieldIDs() FieldIDs {
	return FieldIDs{PotSize: 5768, Height: 5769, ProductType: 5770, Fragile: 5771, Mixable: 5772}
}

// CustomFields holds the parsed classification fields of a product.
type CustomFields struct {
	PotSize     *float64
	Height      *float64
	ProductType string
	Fragile     bool
	Mixable     bool
}

// ProductFetcher reads products from the order system.
type ProductFetcher interface {
	Product(ctx context.Context, productID int64) (*ordersystem.Product, error)
	ProductParts(ctx context.Context, productID int64) ([]ordersystem.ProductPart, error)
}

// ProductSyncService fetches unknown products, stores them and classifies them.
type ProductSyncService struct {
	fetcher ProductFetcher
	writer  CatalogWriter
	fields  FieldIDs
}

// NewProductSyncService creates a product sync service.
func NewProductSyncService(fetcher ProductFetcher, writer CatalogWriter, fields FieldIDs) *ProductSyncService {
	return &ProductSyncService{fetcher: fetcher, writer: writer, fields: fields}
}

// SyncAndClassify fetches the product, upserts its attributes, replaces its composition
// parts and assigns a shipping unit.
func (s *ProductSyncService) SyncAndClassify(ctx context.Context, productID int64) error {
	product, err := s.fetcher.Product(ctx, productID)
	if err != nil {
		return fmt.Errorf("fetch product %d: %w", productID, err)
	}

	custom := ParseCustomFields(*product, s.fields)
	attrs := model.ProductAttributes{
		ProductID:            product.ID,
		ProductCode:          product.ProductCode,
		ProductName:          product.Name,
		ProductType:          custom.ProductType,
		IsComposition:        strings.Contains(product.Type, "composition"),
		WeightGrams:          product.Weight,
		IsFragile:            custom.Fragile,
		IsMixable:            custom.Mixable,
		PotSize:              custom.PotSize,
		Height:               custom.Height,
		ClassificationStatus: model.ClassificationUnclassified,
	}
	if attrs.ProductID == 0 {
		attrs.ProductID = productID
	}
	if err := s.writer.UpsertProductAttributes(ctx, attrs); err != nil {
		return fmt.Errorf("store product %d: %w", productID, err)
	}

	if attrs.IsComposition {
		parts, err := s.fetcher.ProductParts(ctx, productID)
		if err != nil {
			return fmt.Errorf("fetch parts of %d: %w", productID, err)
		}
		stored := make([]model.CompositionPart, 0, len(parts))
		for _, p := range parts {
			stored = append(stored, model.CompositionPart{
				ParentProductID: productID,
				PartProductID:   p.PartID,
				Amount:          p.Amount,
			})
		}
		if err := s.writer.ReplaceCompositionParts(ctx, productID, stored); err != nil {
			return fmt.Errorf("store parts of %d: %w", productID, err)
		}
	}

	var units []model.ShippingUnit
	if attrs.PotSize != nil || attrs.Height != nil {
		if units, err = s.writer.ActiveShippingUnits(ctx, attrs.ProductType); err != nil {
			return fmt.Errorf("load shipping units: %w", err)
		}
	}
	unitID, status := ClassifyAttributes(attrs, units)
	if err := s.writer.SetClassification(ctx, productID, unitID, status); err != nil {
		return fmt.Errorf("store classification of %d: %w", productID, err)
	}

	log.Info().
		Int64("product_id", productID).
		Str("product_code", attrs.ProductCode).
		Str("status", string(status)).
		Bool("composition", attrs.IsComposition).
		Msg("Product synced on demand")
	return nil
}

// ParseCustomFields extracts the classification fields. Unparseable numbers are nil;
// fragile requires "Ja" and mixable is true unless the field says "Nee".
func ParseCustomFields(p ordersystem.Product, ids FieldIDs) CustomFields {
	productType := p.FieldValue(ids.ProductType)
	if productType == "" {
		productType = UnknownProductType
	}
	return CustomFields{
		PotSize:     parseMeasure(p.FieldValue(ids.PotSize)),
		Height:      parseMeasure(p.FieldValue(ids.Height)),
		ProductType: productType,
		Fragile:     p.FieldValue(ids.Fragile) == "Ja",
		Mixable:     p.FieldValue(ids.Mixable) != "Nee",
	}
}

func parseMeasure(raw string) *float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ClassifyAttributes picks the most specific unit whose ranges contain the product.
// Units are expected in sort order; the first unit wins ties. A composition without
// measures stays unclassified so it can resolve through its parts.
func ClassifyAttributes(attrs model.ProductAttributes, units []model.ShippingUnit) (*string, model.ClassificationStatus) {
	if attrs.PotSize == nil && attrs.Height == nil {
		if attrs.IsComposition {
			return nil, model.ClassificationUnclassified
		}
		return nil, model.ClassificationMissingData
	}

	var best *model.ShippingUnit
	for i := range units {
		u := &units[i]
		if !unitAccepts(*u, attrs) {
			continue
		}
		if best == nil || unitRange(*u) < unitRange(*best) {
			best = u
		}
	}
	if best == nil {
		return nil, model.ClassificationNoMatch
	}
	id := best.ID
	return &id, model.ClassificationClassified
}

func unitAccepts(u model.ShippingUnit, attrs model.ProductAttributes) bool {
	if !withinBounds(attrs.PotSize, u.PotSizeMin, u.PotSizeMax) {
		return false
	}
	if !withinBounds(attrs.Height, u.HeightMin, u.HeightMax) {
		return false
	}
	return u.IsFragileFilter == nil || *u.IsFragileFilter == attrs.IsFragile
}

// withinBounds treats nil bounds as open; a set bound rejects a missing value.
func withinBounds(v, lo, hi *float64) bool {
	if lo != nil && (v == nil || *v < *lo) {
		return false
	}
	if hi != nil && (v == nil || *v > *hi) {
		return false
	}
	return true
}

func unitRange(u model.ShippingUnit) float64 {
	return valueOr(u.PotSizeMax, openRangeBound) - valueOr(u.PotSizeMin, 0) +
		valueOr(u.HeightMax, openRangeBound) - valueOr(u.HeightMin, 0)
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
