package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgmongo "github.com/angelmondragon/bazaar-backend/pkg/mongo"
)

type userDoc struct {
	ID             string  `bson:"_id"`
	FirstName      string  `bson:"firstName"`
	LastName       string  `bson:"lastName"`
	Email          string  `bson:"email"`
	PhoneNumber    *string `bson:"phoneNumber,omitempty"`
	ProfilePicture *string `bson:"profilePicture,omitempty"`
	Role           string  `bson:"role"`
	IsActive       bool    `bson:"isActive"`
}

// MongoRepository exposes user lookups backed by the document store.
type MongoRepository struct {
	coll *mongodriver.Collection
}

func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{coll: client.Collection(pkgmongo.CollectionUsers)}
}

func (r *MongoRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		u, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (d userDoc) toModel() (models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("user id %q: %w", d.ID, err)
	}
	role, err := enums.ParseUserRole(d.Role)
	if err != nil {
		return models.User{}, fmt.Errorf("user %s: %w", d.ID, err)
	}
	return models.User{
		ID:             id,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		PhoneNumber:    d.PhoneNumber,
		ProfilePicture: d.ProfilePicture,
		Role:           role,
		IsActive:       d.IsActive,
	}, nil
}
