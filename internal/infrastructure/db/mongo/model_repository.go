package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

const modelCollection = "model_artifacts"

type ModelRepository struct {
	coll *mongo.Collection
}

func NewModelRepository(db *mongo.Database) *ModelRepository {
	return &ModelRepository{coll: db.Collection(modelCollection)}
}

// Save inserts a new artifact. Earlier artifacts for the same (handle, kind)
// are kept as history; FindLatest decides which one is live.
func (r *ModelRepository) Save(ctx context.Context, artifact *domain.ModelArtifact) error {
	_, err := r.coll.InsertOne(ctx, artifact)
	if err != nil {
		return storeErr("insert model artifact", err)
	}
	return nil
}

// FindLatest returns the most recently trained artifact for (handle, kind).
func (r *ModelRepository) FindLatest(ctx context.Context, handle string, kind domain.ModelKind) (*domain.ModelArtifact, error) {
	filter := bson.M{"handle": handle, "kind": kind}
	opts := options.FindOne().SetSort(bson.D{{Key: "trained_at", Value: -1}})

	var a domain.ModelArtifact
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrModelNotFound
		}
		return nil, storeErr("find model artifact", err)
	}
	return &a, nil
}

// ListByHandle returns all artifacts for (handle, kind), newest first.
func (r *ModelRepository) ListByHandle(ctx context.Context, handle string, kind domain.ModelKind) ([]*domain.ModelArtifact, error) {
	cur, err := r.coll.Find(ctx, bson.M{"handle": handle, "kind": kind},
		options.Find().SetSort(bson.D{{Key: "trained_at", Value: -1}}))
	if err != nil {
		return nil, storeErr("list model artifacts", err)
	}
	defer cur.Close(ctx)

	var out []*domain.ModelArtifact
	for cur.Next(ctx) {
		var a domain.ModelArtifact
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode model artifact: %w", err)
		}
		out = append(out, &a)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list model artifacts", err)
	}
	return out, nil
}

// DeleteByHandle removes every artifact for (handle, kind), history included.
func (r *ModelRepository) DeleteByHandle(ctx context.Context, handle string, kind domain.ModelKind) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"handle": handle, "kind": kind})
	if err != nil {
		return 0, storeErr("delete model artifacts", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the compound index serving latest-model lookups.
func (r *ModelRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "handle", Value: 1}, {Key: "kind", Value: 1}, {Key: "trained_at", Value: -1}},
	})
	return err
}
