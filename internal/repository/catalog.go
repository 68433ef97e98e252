package repository

import (
	"context"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogRepository reads and writes product classification data.
type CatalogRepository struct {
	attributes *mongo.Collection
	parts      *mongo.Collection
	units      *mongo.Collection
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *MongoDB) *CatalogRepository {
	return &CatalogRepository{
		attributes: db.ProductAttributes,
		parts:      db.CompositionParts,
		units:      db.ShippingUnits,
	}
}

// ProductAttributes returns the stored attributes keyed by product id. Unknown ids are absent.
func (r *CatalogRepository) ProductAttributes(ctx context.Context, productIDs []int64) (map[int64]model.ProductAttributes, error) {
	result := make(map[int64]model.ProductAttributes, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	cursor, err := r.attributes.Find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []model.ProductAttributes
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		result[d.ProductID] = d
	}
	return result, nil
}

// CompositionParts returns the parts of each composition product keyed by parent id.
func (r *CatalogRepository) CompositionParts(ctx context.Context, parentIDs []int64) (map[int64][]model.CompositionPart, error) {
	result := make(map[int64][]model.CompositionPart, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	cursor, err := r.parts.Find(ctx, bson.M{"parent_product_id": bson.M{"$in": parentIDs}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []model.CompositionPart
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		result[d.ParentProductID] = append(result[d.ParentProductID], d)
	}
	return result, nil
}

// ShippingUnitNames maps unit ids to display names.
func (r *CatalogRepository) ShippingUnitNames(ctx context.Context, unitIDs []string) (map[string]string, error) {
	units, err := r.unitsByID(ctx, unitIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}
	return names, nil
}

// DefaultContainers maps unit ids to their configured default container.
func (r *CatalogRepository) DefaultContainers(ctx context.Context, unitIDs []string) (map[string]string, error) {
	units, err := r.unitsByID(ctx, unitIDs)
	if err != nil {
		return nil, err
	}
	defaults := make(map[string]string, len(units))
	for _, u := range units {
		if u.DefaultContainerID != nil && *u.DefaultContainerID != "" {
			defaults[u.ID] = *u.DefaultContainerID
		}
	}
	return defaults, nil
}

func (r *CatalogRepository) unitsByID(ctx context.Context, unitIDs []string) ([]model.ShippingUnit, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.units.Find(ctx, bson.M{"_id": bson.M{"$in": unitIDs}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var units []model.ShippingUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// UpsertProductAttributes stores the attributes, keyed by product id.
func (r *CatalogRepository) UpsertProductAttributes(ctx context.Context, attrs model.ProductAttributes) error {
	doc, err := toDocument(attrs)
	if err != nil {
		return err
	}
	doc["last_synced_at"] = time.Now().UTC()

	_, err = r.attributes.UpdateOne(
		ctx,
		bson.M{"product_id": attrs.ProductID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	return err
}

// ReplaceCompositionParts deletes the stored parts of the parent, then inserts the new ones.
func (r *CatalogRepository) ReplaceCompositionParts(ctx context.Context, parentID int64, parts []model.CompositionPart) error {
	if _, err := r.parts.DeleteMany(ctx, bson.M{"parent_product_id": parentID}); err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		p.ParentProductID = parentID
		docs = append(docs, p)
	}
	_, err := r.parts.InsertMany(ctx, docs)
	return err
}

// ActiveShippingUnits returns the active units of a product type in sort order.
func (r *CatalogRepository) ActiveShippingUnits(ctx context.Context, productType string) ([]model.ShippingUnit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cursor, err := r.units.Find(ctx, bson.M{"active": true, "product_type": productType}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var units []model.ShippingUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, err
	}
	return units, nil
}

// SetClassification records the classification result of a product.
func (r *CatalogRepository) SetClassification(ctx context.Context, productID int64, unitID *string, status model.ClassificationStatus) error {
	set := bson.M{"classification_status": status}
	update := bson.M{"$set": set}
	if unitID != nil {
		set["shipping_unit_id"] = *unitID
	} else {
		update["$unset"] = bson.M{"shipping_unit_id": ""}
	}
	_, err := r.attributes.UpdateOne(ctx, bson.M{"product_id": productID}, update)
	return err
}

// toDocument converts a value to a bson.M using its bson tags.
func toDocument(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
