package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgmongo "github.com/angelmondragon/bazaar-backend/pkg/mongo"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type cartItemDoc struct {
	Product  string               `bson:"product"`
	Quantity int                  `bson:"quantity"`
	Price    primitive.Decimal128 `bson:"price"`
	Notes    *types.LocalizedText `bson:"notes,omitempty"`
}

type cartDoc struct {
	ID                  string               `bson:"_id"`
	UserID              string               `bson:"userId"`
	Items               []cartItemDoc        `bson:"items"`
	TotalPrice          primitive.Decimal128 `bson:"totalPrice"`
	Discount            primitive.Decimal128 `bson:"discount"`
	DiscountDescription *types.LocalizedText `bson:"discountDescription,omitempty"`
	Notes               *types.LocalizedText `bson:"notes,omitempty"`
	Status              string               `bson:"status"`
	CreatedAt           time.Time            `bson:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt"`
}

func cartToDoc(c *models.Cart) (cartDoc, error) {
	total, err := pkgmongo.ToDecimal128(c.TotalPrice)
	if err != nil {
		return cartDoc{}, err
	}
	discount, err := pkgmongo.ToDecimal128(c.Discount)
	if err != nil {
		return cartDoc{}, err
	}
	items := make([]cartItemDoc, 0, len(c.Items))
	for _, it := range c.Items {
		price, err := pkgmongo.ToDecimal128(it.Price)
		if err != nil {
			return cartDoc{}, err
		}
		items = append(items, cartItemDoc{
			Product:  it.ProductID.String(),
			Quantity: it.Quantity,
			Price:    price,
			Notes:    it.Notes,
		})
	}
	return cartDoc{
		ID:                  c.ID.String(),
		UserID:              c.UserID.String(),
		Items:               items,
		TotalPrice:          total,
		Discount:            discount,
		DiscountDescription: c.DiscountDescription,
		Notes:               c.Notes,
		Status:              c.Status.String(),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}, nil
}

func (d cartDoc) toModel() (*models.Cart, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("cart id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("cart %s user id: %w", d.ID, err)
	}
	total, err := pkgmongo.FromDecimal128(d.TotalPrice)
	if err != nil {
		return nil, err
	}
	discount, err := pkgmongo.FromDecimal128(d.Discount)
	if err != nil {
		return nil, err
	}
	status, err := enums.ParseCartStatus(d.Status)
	if err != nil {
		return nil, err
	}
	items := make([]models.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		productID, err := uuid.Parse(it.Product)
		if err != nil {
			return nil, fmt.Errorf("cart %s item product: %w", d.ID, err)
		}
		price, err := pkgmongo.FromDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, models.CartItem{
			ProductID: productID,
			Quantity:  it.Quantity,
			Price:     price,
			Notes:     it.Notes,
		})
	}
	return &models.Cart{
		ID:                  id,
		UserID:              userID,
		Items:               items,
		TotalPrice:          total,
		Discount:            discount,
		DiscountDescription: d.DiscountDescription,
		Notes:               d.Notes,
		Status:              status,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}, nil
}

// MongoRepository stores each cart as a single document with inline items.
type MongoRepository struct {
	coll *mongodriver.Collection
	now  func() time.Time
}

func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{
		coll: client.Collection(pkgmongo.CollectionCarts),
		now:  time.Now,
	}
}

func (r *MongoRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return r.findOne(ctx, bson.M{"userId": userID.String(), "status": enums.CartStatusActive.String()})
}

func (r *MongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Cart, error) {
	var doc cartDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	return doc.toModel()
}

func (r *MongoRepository) Create(ctx context.Context, cart *models.Cart) error {
	now := r.now().UTC()
	cart.CreatedAt, cart.UpdatedAt = now, now
	doc, err := cartToDoc(cart)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return pkgmongo.TranslateError(err)
}

func (r *MongoRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = r.now().UTC()
	doc, err := cartToDoc(cart)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(false))
	if err != nil {
		return pkgmongo.TranslateError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return pkgmongo.TranslateError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]models.Cart, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	var docs []cartDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Cart, 0, len(docs))
	for _, d := range docs {
		c, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Convert runs as two single-document writes. A failure between them leaves the
// user with no active cart, which GetOrCreate repairs on the next request.
func (r *MongoRepository) Convert(ctx context.Context, cart, fresh *models.Cart) error {
	if err := r.Save(ctx, cart); err != nil {
		return err
	}
	return r.Create(ctx, fresh)
}
func (r *MongoRepository) AbandonIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{
			"status":    enums.CartStatusActive.String(),
			"updatedAt": bson.M{"$lt": cutoff.UTC()},
		},
		bson.M{"$set": bson.M{
			"status":    enums.CartStatusAbandoned.String(),
			"updatedAt": r.now().UTC(),
		}},
	)
	if err != nil {
		return 0, pkgmongo.TranslateError(err)
	}
	return res.ModifiedCount, nil
}

var _ CartRepository = (*MongoRepository)(nil)
