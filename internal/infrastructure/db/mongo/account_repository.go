package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

const accountCollection = "social_accounts"

type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type mongoAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Handle       string             `bson:"handle"`
	DisplayName  string             `bson:"display_name"`
	CompanyID    int64              `bson:"company_id"`
	RegisteredAt int64              `bson:"registered_at"`
}

func (ma mongoAccount) toDomain() *domain.SocialAccount {
	return &domain.SocialAccount{
		ID:           ma.ID.Hex(),
		Handle:       ma.Handle,
		DisplayName:  ma.DisplayName,
		CompanyID:    ma.CompanyID,
		RegisteredAt: unixToTime(ma.RegisteredAt),
	}
}

func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (*domain.SocialAccount, error) {
	var ma mongoAccount
	if err := r.coll.FindOne(ctx, bson.M{"handle": handle}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeErr("find account", err)
	}
	return ma.toDomain(), nil
}

func (r *AccountRepository) ListByCompany(ctx context.Context, companyID int64) ([]*domain.SocialAccount, error) {
	cur, err := r.coll.Find(ctx, bson.M{"company_id": companyID},
		options.Find().SetSort(bson.D{{Key: "handle", Value: 1}}))
	if err != nil {
		return nil, storeErr("list accounts", err)
	}
	defer cur.Close(ctx)

	var out []*domain.SocialAccount
	for cur.Next(ctx) {
		var ma mongoAccount
		if err := cur.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		out = append(out, ma.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list accounts", err)
	}
	return out, nil
}

// EnsureIndexes creates the handle and company lookup indexes.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "company_id", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
