package repository

import (
	"context"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContainerRepository reads containers and their compartment rules.
type ContainerRepository struct {
	containers *mongo.Collection
	rules      *mongo.Collection
}

// NewContainerRepository creates a new container repository.
func NewContainerRepository(db *MongoDB) *ContainerRepository {
	return &ContainerRepository{
		containers: db.Containers,
		rules:      db.CompartmentRules,
	}
}

// ListAdviceContainers returns active containers enabled for advice.
func (r *ContainerRepository) ListAdviceContainers(ctx context.Context) ([]model.Container, error) {
	return r.find(ctx, bson.M{"active": true, "use_in_advice": true})
}

// ContainersByID returns the containers with the given ids, regardless of state.
func (r *ContainerRepository) ContainersByID(ctx context.Context, ids []string) (map[string]model.Container, error) {
	result := make(map[string]model.Container, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	containers, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, c := range containers {
		result[c.ID] = c
	}
	return result, nil
}

// ActiveRules returns the active compartment rules of the containers, ordered by
// container, rule group and sort order.
func (r *ContainerRepository) ActiveRules(ctx context.Context, containerIDs []string) ([]model.CompartmentRule, error) {
	if len(containerIDs) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "container_id", Value: 1},
		{Key: "rule_group", Value: 1},
		{Key: "sort_order", Value: 1},
	})
	cursor, err := r.rules.Find(ctx, bson.M{"active": true, "container_id": bson.M{"$in": containerIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rules []model.CompartmentRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ContainerRepository) find(ctx context.Context, filter bson.M) ([]model.Container, error) {
	cursor, err := r.containers.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var containers []model.Container
	if err := cursor.All(ctx, &containers); err != nil {
		return nil, err
	}
	return containers, nil
}
