package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrActiveAdviceExists is returned by Insert when the order already has an active advice.
var ErrActiveAdviceExists = errors.New("order already has an active advice")

// AdviceRepository persists packaging advice records.
type AdviceRepository struct {
	collection *mongo.Collection
}

// NewAdviceRepository creates a new advice repository.
func NewAdviceRepository(db *MongoDB) *AdviceRepository {
	return &AdviceRepository{collection: db.Advice}
}

// LatestActive returns the newest active advice for the order, or nil.
func (r *AdviceRepository) LatestActive(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "calculated_at", Value: -1}})
	return r.findOne(ctx, bson.M{"order_id": orderID, "active": true}, opts)
}

// FindByID returns the advice with the id, or nil.
func (r *AdviceRepository) FindByID(ctx context.Context, id string) (*model.PackagingAdviceResult, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Invalidate marks the advice invalidated when it is still active. Already
// invalidated records are left untouched.
func (r *AdviceRepository) Invalidate(ctx context.Context, id string, at time.Time) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{
			"active":         false,
			"status":         model.StatusInvalidated,
			"invalidated_at": at,
		}},
	)
	return err
}

// Insert stores a new advice. The unique partial index on active advice per order
// turns a concurrent insert into ErrActiveAdviceExists.
func (r *AdviceRepository) Insert(ctx context.Context, advice *model.PackagingAdviceResult) error {
	_, err := r.collection.InsertOne(ctx, advice)
	if mongo.IsDuplicateKeyError(err) {
		return ErrActiveAdviceExists
	}
	return err
}

// MarkApplied records the written tags and moves the advice to applied. Invalidated
// advice is never applied: it reports mongo.ErrNoDocuments like an unknown id.
func (r *AdviceRepository) MarkApplied(ctx context.Context, id string, tags []string, at time.Time) error {
	if tags == nil {
		tags = []string{}
	}
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{
			"status":       model.StatusApplied,
			"tags_written": tags,
			"applied_at":   at,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SaveOutcome stores the feedback record of the advice.
func (r *AdviceRepository) SaveOutcome(ctx context.Context, id string, outcome model.OutcomeRecord) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"outcome": outcome}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// List returns a page of non-invalidated advice, newest first, with the total count.
func (r *AdviceRepository) List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error) {
	query := bson.M{"status": bson.M{"$ne": model.StatusInvalidated}}
	if filter.Confidence != "" {
		query["confidence"] = filter.Confidence
	}
	switch filter.Outcome {
	case "":
	case model.OutcomePending:
		query["outcome"] = bson.M{"$exists": false}
	default:
		query["outcome.outcome"] = filter.Outcome
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "calculated_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	results := []model.PackagingAdviceResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *AdviceRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*model.PackagingAdviceResult, error) {
	var advice model.PackagingAdviceResult
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&advice)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &advice, nil
}
