package service

import (
	"context"
	"fmt"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultClassifyBatchSize bounds concurrent on-demand lookups against the order system.
	DefaultClassifyBatchSize = 5
	maxCompositionDepth      = 3
)

// UnitContribution records how much of a shipping unit one order line produced.
type UnitContribution struct {
	ProductCode string
	UnitID      string
	Quantity    int
	// WeightPerUnit is the weight in grams carried by one unit of this contribution.
	WeightPerUnit int
	IsMixable     bool
}

// Classification is the classifier output for one order.
type Classification struct {
	Units         model.ShippingUnits
	Unclassified  []string
	Contributions []UnitContribution
}

// Classifier maps order lines to shipping units.
type Classifier struct {
	catalog   Catalog
	syncer    ProductSyncer
	batchSize int
}

// NewClassifier creates a classifier. syncer may be nil to disable on-demand classification.
func NewClassifier(catalog Catalog, syncer ProductSyncer, batchSize int) *Classifier {
	if batchSize <= 0 {
		batchSize = DefaultClassifyBatchSize
	}
	return &Classifier{catalog: catalog, syncer: syncer, batchSize: batchSize}
}

// Classify resolves the shipping units of the products. Catalog read failures are fatal;
// products that cannot be classified are reported by product code.
func (c *Classifier) Classify(ctx context.Context, products []model.OrderProduct) (*Classification, error) {
	ids := uniqueProductIDs(products)

	attrs, err := c.catalog.ProductAttributes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load product attributes: %w", err)
	}
	if attrs == nil {
		attrs = make(map[int64]model.ProductAttributes)
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := attrs[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 && c.syncer != nil {
		c.syncMissing(ctx, missing)
		synced, err := c.catalog.ProductAttributes(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("reload product attributes: %w", err)
		}
		for id, a := range synced {
			attrs[id] = a
		}
	}

	resolver := newCompositionResolver(c.catalog, attrs)
	result := &Classification{Units: model.ShippingUnits{}}

	for _, p := range products {
		a, ok := attrs[p.ProductID]
		switch {
		case !ok:
			result.Unclassified = append(result.Unclassified, p.ProductCode)
		case a.Expandable():
			parts, err := resolver.resolve(ctx, p.ProductID)
			if err != nil {
				return nil, err
			}
			if parts == nil {
				result.Unclassified = append(result.Unclassified, p.ProductCode)
				continue
			}
			perUnit := apportionWeight(a.Weight(), parts)
			for _, part := range parts {
				qty := p.Quantity * part.amount
				result.Units.Add(part.unitID, "", qty)
				result.Contributions = append(result.Contributions, UnitContribution{
					ProductCode:   p.ProductCode,
					UnitID:        part.unitID,
					Quantity:      qty,
					WeightPerUnit: perUnit,
					IsMixable:     a.IsMixable,
				})
			}
		case a.Classified():
			result.Units.Add(*a.ShippingUnitID, "", p.Quantity)
			result.Contributions = append(result.Contributions, UnitContribution{
				ProductCode:   p.ProductCode,
				UnitID:        *a.ShippingUnitID,
				Quantity:      p.Quantity,
				WeightPerUnit: a.Weight(),
				IsMixable:     a.IsMixable,
			})
		default:
			result.Unclassified = append(result.Unclassified, p.ProductCode)
		}
	}

	if len(result.Units) == 0 {
		return result, nil
	}

	unitIDs := make([]string, 0, len(result.Units))
	for id := range result.Units {
		unitIDs = append(unitIDs, id)
	}
	names, err := c.catalog.ShippingUnitNames(ctx, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("load shipping unit names: %w", err)
	}
	for id, e := range result.Units {
		e.Name = names[id]
		if e.Name == "" {
			e.Name = id
		}
		result.Units[id] = e
	}

	return result, nil
}

// syncMissing classifies unknown products in fixed-size concurrent batches.
// Failures are logged and leave the product unclassified.
func (c *Classifier) syncMissing(ctx context.Context, ids []int64) {
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))

		var g errgroup.Group
		for _, id := range ids[start:end] {
			g.Go(func() error {
				if err := c.syncer.SyncAndClassify(ctx, id); err != nil {
					metrics.RecordOnDemandClassification("failed")
					log.Warn().Err(err).Int64("product_id", id).Msg("On-demand classification failed")
					return nil
				}
				metrics.RecordOnDemandClassification("synced")
				return nil
			})
		}
		_ = g.Wait()
	}
}

func uniqueProductIDs(products []model.OrderProduct) []int64 {
	seen := make(map[int64]struct{}, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ProductID]; ok {
			continue
		}
		seen[p.ProductID] = struct{}{}
		ids = append(ids, p.ProductID)
	}
	return ids
}

type resolvedPart struct {
	unitID string
	amount int
}

// compositionResolver expands compositions into shipping units, following nested
// compositions up to maxCompositionDepth and rejecting cycles.
type compositionResolver struct {
	catalog Catalog
	attrs   map[int64]model.ProductAttributes
	parts   map[int64][]model.CompositionPart
}

func newCompositionResolver(catalog Catalog, attrs map[int64]model.ProductAttributes) *compositionResolver {
	return &compositionResolver{
		catalog: catalog,
		attrs:   attrs,
		parts:   make(map[int64][]model.CompositionPart),
	}
}

// resolve returns the unit amounts for one composition, or nil when any part is unknown.
func (r *compositionResolver) resolve(ctx context.Context, productID int64) ([]resolvedPart, error) {
	return r.expand(ctx, productID, map[int64]bool{productID: true}, 1)
}

func (r *compositionResolver) expand(ctx context.Context, productID int64, visiting map[int64]bool, depth int) ([]resolvedPart, error) {
	parts, err := r.loadParts(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}

	if err := r.loadAttributes(ctx, parts); err != nil {
		return nil, err
	}

	var out []resolvedPart
	for _, part := range parts {
		part.Amount = max(part.Amount, 1)
		if part.PartShippingUnitID != nil {
			out = append(out, resolvedPart{unitID: *part.PartShippingUnitID, amount: part.Amount})
			continue
		}

		a, ok := r.attrs[part.PartProductID]
		switch {
		case ok && a.Classified():
			out = append(out, resolvedPart{unitID: *a.ShippingUnitID, amount: part.Amount})
		case ok && a.Expandable():
			if visiting[part.PartProductID] {
				log.Warn().
					Int64("product_id", productID).
					Int64("part_product_id", part.PartProductID).
					Msg("Composition cycle detected")
				return nil, nil
			}
			if depth >= maxCompositionDepth {
				log.Warn().Int64("product_id", productID).Msg("Composition nested too deep")
				return nil, nil
			}
			visiting[part.PartProductID] = true
			nested, err := r.expand(ctx, part.PartProductID, visiting, depth+1)
			delete(visiting, part.PartProductID)
			if err != nil || nested == nil {
				return nil, err
			}
			for _, n := range nested {
				out = append(out, resolvedPart{unitID: n.unitID, amount: n.amount * part.Amount})
			}
		default:
			return nil, nil
		}
	}
	return out, nil
}

func (r *compositionResolver) loadParts(ctx context.Context, productID int64) ([]model.CompositionPart, error) {
	if parts, ok := r.parts[productID]; ok {
		return parts, nil
	}
	loaded, err := r.catalog.CompositionParts(ctx, []int64{productID})
	if err != nil {
		return nil, fmt.Errorf("load composition parts: %w", err)
	}
	r.parts[productID] = loaded[productID]
	return loaded[productID], nil
}

func (r *compositionResolver) loadAttributes(ctx context.Context, parts []model.CompositionPart) error {
	var ids []int64
	for _, p := range parts {
		if p.PartShippingUnitID != nil {
			continue
		}
		if _, ok := r.attrs[p.PartProductID]; !ok {
			ids = append(ids, p.PartProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	loaded, err := r.catalog.ProductAttributes(ctx, ids)
	if err != nil {
		return fmt.Errorf("load part attributes: %w", err)
	}
	for id, a := range loaded {
		r.attrs[id] = a
	}
	return nil
}

// apportionWeight spreads the composition weight evenly over its part units.
func apportionWeight(weight int, parts []resolvedPart) int {
	units := 0
	for _, p := range parts {
		units += p.amount
	}
	if units == 0 {
		return 0
	}
	return weight / units
}
