package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gridlock-dev/gridlock/pkg/report"
)

// MongoConfig holds connection settings for a MongoDB-backed store.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "gridlock"
	Collection string // defaults to "snapshots"
}

// MongoStore stores snapshots as documents with an expires_at field. A TTL
// index on that field makes MongoDB evict stale snapshots on its own, so
// the collection only ever holds live dashboard state.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	RunID     string           `bson:"_id"`
	Snapshot  *report.Snapshot `bson:"snapshot"`
	ExpiresAt time.Time        `bson:"expires_at"`
}

// NewMongoStore connects to MongoDB and ensures the TTL index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "gridlock"
	}
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo %s: %w", cfg.URI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo %s: %w", cfg.URI, err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create ttl index: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Get(ctx context.Context, runID string) (*report.Snapshot, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": runID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}

	// The TTL monitor runs periodically; treat not-yet-evicted stale
	// documents as gone.
	if time.Now().After(doc.ExpiresAt) {
		return nil, ErrNotFound
	}
	return doc.Snapshot, nil
}

func (s *MongoStore) Set(ctx context.Context, snap *report.Snapshot, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	doc := mongoDoc{
		RunID:     snap.RunID,
		Snapshot:  snap,
		ExpiresAt: time.Now().Add(ttl),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": snap.RunID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, runID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": runID}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
