package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

const companyCollection = "companies"

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection(companyCollection)}
}

// Companies use their numeric tenant identifier as the document _id, so a
// lookup by ID is a primary-key read.
type mongoCompany struct {
	ID           int64  `bson:"_id"`
	Name         string `bson:"name"`
	RegisteredAt int64  `bson:"registered_at"`
}

func (r *CompanyRepository) FindByID(ctx context.Context, id int64) (*domain.Company, error) {
	var mc mongoCompany
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, storeErr("find company", err)
	}

	return &domain.Company{
		ID:           mc.ID,
		Name:         mc.Name,
		RegisteredAt: unixToTime(mc.RegisteredAt),
	}, nil
}
