package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

const principalCollection = "principals"

type MongoPrincipalRepository struct {
	coll *mongo.Collection
}

func NewPrincipalRepository(db *mongo.Database) *MongoPrincipalRepository {
	return &MongoPrincipalRepository{coll: db.Collection(principalCollection)}
}

type mongoPrincipal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	CompanyID    int64              `bson:"company_id"`
	Role         string             `bson:"role"`
	Active       bool               `bson:"active"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *MongoPrincipalRepository) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	doc := mongoPrincipal{
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		CompanyID:    p.CompanyID,
		Role:         p.Role,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt.Unix(),
		UpdatedAt:    p.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, storeErr("insert principal", err)
	}

	// fetch back to get ID
	created, err := r.FindByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *MongoPrincipalRepository) FindByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	var mp mongoPrincipal
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, storeErr("find principal", err)
	}

	return &domain.Principal{
		ID:           mp.ID.Hex(),
		Username:     mp.Username,
		PasswordHash: mp.PasswordHash,
		CompanyID:    mp.CompanyID,
		Role:         mp.Role,
		Active:       mp.Active,
		CreatedAt:    unixToTime(mp.CreatedAt),
		UpdatedAt:    unixToTime(mp.UpdatedAt),
	}, nil
}

func (r *MongoPrincipalRepository) SetActive(ctx context.Context, username string, active bool) error {
	update := bson.M{"$set": bson.M{
		"active":     active,
		"updated_at": time.Now().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"username": username}, update)
	if err != nil {
		return storeErr("set active", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index backing duplicate detection.
func (r *MongoPrincipalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
