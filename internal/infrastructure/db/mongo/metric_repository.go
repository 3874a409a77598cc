package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

const metricCollection = "metric_points"

type MetricRepository struct {
	coll *mongo.Collection
}

func NewMetricRepository(db *mongo.Database) *MetricRepository {
	return &MetricRepository{coll: db.Collection(metricCollection)}
}

// Insert persists one scraped snapshot.
func (r *MetricRepository) Insert(ctx context.Context, point *domain.MetricPoint) error {
	doc := bson.M{
		"account_id":  point.AccountID,
		"handle":      point.Handle,
		"captured_at": point.CapturedAt.UTC(),
		"followers":   point.Followers,
		"posts":       point.Posts,
		"following":   point.Following,
		"views":       point.Views,
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return storeErr("insert metric point", err)
	}
	return nil
}

// ListByHandle returns snapshots for the handle, newest first. A limit of zero
// or less returns everything.
func (r *MetricRepository) ListByHandle(ctx context.Context, handle string, limit int64) ([]*domain.MetricPoint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "captured_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := r.coll.Find(ctx, bson.M{"handle": handle}, opts)
	if err != nil {
		return nil, storeErr("list metric points", err)
	}
	defer cur.Close(ctx)

	var out []*domain.MetricPoint
	for cur.Next(ctx) {
		var p domain.MetricPoint
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode metric point: %w", err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list metric points", err)
	}
	return out, nil
}

// EnsureIndexes creates the compound index driving the history queries.
func (r *MetricRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "handle", Value: 1}, {Key: "captured_at", Value: -1}},
	})
	return err
}
