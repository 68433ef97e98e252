// Package repository provides the MongoDB and Postgres data access layer.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names of the advice database.
const (
	collContainers        = "containers"
	collCompartmentRules  = "compartment_rules"
	collProductAttributes = "product_attributes"
	collCompositionParts  = "composition_parts"
	collShippingUnits     = "shipping_units"
	collAdvice            = "packaging_advice"
)

const healthCheckTimeout = 2 * time.Second

// MongoSettings describes one MongoDB connection. Zero pool size and
// timeout use the driver tuning the service is deployed with.
type MongoSettings struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

func (s MongoSettings) clientOptions() *options.ClientOptions {
	if s.MaxPoolSize == 0 {
		s.MaxPoolSize = 50
	}
	if s.ConnectTimeout <= 0 {
		s.ConnectTimeout = 10 * time.Second
	}
	return options.Client().
		ApplyURI(s.URI).
		SetMaxPoolSize(s.MaxPoolSize).
		SetMinPoolSize(min(10, s.MaxPoolSize)).
		SetMaxConnIdleTime(10 * time.Minute).
		SetConnectTimeout(s.ConnectTimeout).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(30 * time.Second).
		SetCompressors([]string{"zstd", "snappy", "zlib"}).
		SetRetryWrites(true).
		SetRetryReads(true)
}

// MongoDB holds the client and the collections of the advice database.
type MongoDB struct {
	Client            *mongo.Client
	Database          *mongo.Database
	Containers        *mongo.Collection
	CompartmentRules  *mongo.Collection
	ProductAttributes *mongo.Collection
	CompositionParts  *mongo.Collection
	ShippingUnits     *mongo.Collection
	Advice            *mongo.Collection
}

// NewMongoDB connects with the default tuning.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return ConnectMongoDB(context.Background(), MongoSettings{URI: uri, Database: databaseName})
}

// ConnectMongoDB connects, pings and ensures the indexes the repositories
// rely on. The client is disconnected again when any step fails.
func ConnectMongoDB(ctx context.Context, s MongoSettings) (*MongoDB, error) {
	opts := s.clientOptions()
	ctx, cancel := context.WithTimeout(ctx, *opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	m := newMongoDB(client, s.Database)
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return m, nil
}

func newMongoDB(client *mongo.Client, databaseName string) *MongoDB {
	db := client.Database(databaseName)
	return &MongoDB{
		Client:            client,
		Database:          db,
		Containers:        db.Collection(collContainers),
		CompartmentRules:  db.Collection(collCompartmentRules),
		ProductAttributes: db.Collection(collProductAttributes),
		CompositionParts:  db.Collection(collCompositionParts),
		ShippingUnits:     db.Collection(collShippingUnits),
		Advice:            db.Collection(collAdvice),
	}
}

type indexSpec struct {
	coll  *mongo.Collection
	model mongo.IndexModel
	// required indexes carry an invariant; the others only speed up reads.
	required bool
}

func (m *MongoDB) indexSpecs() []indexSpec {
	return []indexSpec{
		{
			// At most one active advice per order; concurrent inserts race on it.
			coll: m.Advice,
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "order_id", Value: 1}},
				Options: options.Index().
					SetName("order_id_active_unique").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"active": true}),
			},
			required: true,
		},
		{
			coll: m.ProductAttributes,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			required: true,
		},
		{coll: m.Advice, model: mongo.IndexModel{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "calculated_at", Value: -1}}}},
		{coll: m.Advice, model: mongo.IndexModel{Keys: bson.D{{Key: "confidence", Value: 1}}}},
		{coll: m.CompositionParts, model: mongo.IndexModel{Keys: bson.D{{Key: "parent_product_id", Value: 1}}}},
		{coll: m.CompartmentRules, model: mongo.IndexModel{Keys: bson.D{{Key: "container_id", Value: 1}, {Key: "active", Value: 1}}}},
		{coll: m.ShippingUnits, model: mongo.IndexModel{Keys: bson.D{{Key: "product_type", Value: 1}, {Key: "active", Value: 1}, {Key: "sort_order", Value: 1}}}},
		{coll: m.Containers, model: mongo.IndexModel{Keys: bson.D{{Key: "active", Value: 1}, {Key: "use_in_advice", Value: 1}}}},
	}
}

// ensureIndexes creates missing indexes. Only a failing required index is
// an error: an existing index with other options must be fixed by hand.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	for _, spec := range m.indexSpecs() {
		if _, err := spec.coll.Indexes().CreateOne(ctx, spec.model); err != nil && spec.required {
			return fmt.Errorf("%s: %w", spec.coll.Name(), err)
		}
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary within a short timeout.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
