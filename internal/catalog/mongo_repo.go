package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	pkgmongo "github.com/angelmondragon/bazaar-backend/pkg/mongo"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type productDoc struct {
	ID        string               `bson:"_id"`
	Name      types.LocalizedText  `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	Stock     int                  `bson:"stock"`
	Image     *string              `bson:"image,omitempty"`
	IsActive  bool                 `bson:"isActive"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

func (d productDoc) toModel() (models.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("product id %q: %w", d.ID, err)
	}
	price, err := pkgmongo.FromDecimal128(d.Price)
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:        id,
		Name:      d.Name,
		Price:     price,
		Stock:     d.Stock,
		Image:     d.Image,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// MongoRepository reads products from the document catalog.
type MongoRepository struct {
	coll *mongodriver.Collection
}

func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{coll: client.Collection(pkgmongo.CollectionProducts)}
}

func (r *MongoRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}, "isActive": true})
	if err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
