package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

const postCollection = "posts"

type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postCollection)}
}

// Insert persists one published post with its engagement counters.
func (r *PostRepository) Insert(ctx context.Context, post *domain.Post) error {
	doc := bson.M{
		"account_id":      post.AccountID,
		"handle":          post.Handle,
		"published_at":    post.PublishedAt.UTC(),
		"content":         post.Content,
		"likes":           post.Likes,
		"retweets":        post.Retweets,
		"views":           post.Views,
		"engagement_rate": post.EngagementRate,
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return storeErr("insert post", err)
	}
	return nil
}

// ListByHandle returns all posts for the handle, newest first.
func (r *PostRepository) ListByHandle(ctx context.Context, handle string) ([]*domain.Post, error) {
	cur, err := r.coll.Find(ctx, bson.M{"handle": handle},
		options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}}))
	if err != nil {
		return nil, storeErr("list posts", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Post
	for cur.Next(ctx) {
		var p domain.Post
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list posts", err)
	}
	return out, nil
}
