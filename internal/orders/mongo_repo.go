package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	pkgmongo "github.com/angelmondragon/bazaar-backend/pkg/mongo"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type orderItemDoc struct {
	Product  string               `bson:"product"`
	Quantity int                  `bson:"quantity"`
	Price    primitive.Decimal128 `bson:"price"`
}

type orderDoc struct {
	ID              string                `bson:"_id"`
	UserID          string                `bson:"userId"`
	Items           []orderItemDoc        `bson:"items"`
	TotalOrderPrice primitive.Decimal128  `bson:"totalOrderPrice"`
	ShippingAddress types.ShippingAddress `bson:"shippingAddress"`
	Status          string                `bson:"status"`
	PaymentMethod   string                `bson:"paymentMethod"`
	PaymentStatus   string                `bson:"paymentStatus"`
	Notes           *types.LocalizedText  `bson:"notes,omitempty"`
	IsActive        bool                  `bson:"isActive"`
	CreatedAt       time.Time             `bson:"createdAt"`
	UpdatedAt       time.Time             `bson:"updatedAt"`
}

func orderToDoc(o *models.Order) (orderDoc, error) {
	total, err := pkgmongo.ToDecimal128(o.TotalOrderPrice)
	if err != nil {
		return orderDoc{}, err
	}
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		price, err := pkgmongo.ToDecimal128(it.Price)
		if err != nil {
			return orderDoc{}, err
		}
		items = append(items, orderItemDoc{Product: it.ProductID.String(), Quantity: it.Quantity, Price: price})
	}
	return orderDoc{
		ID:              o.ID.String(),
		UserID:          o.UserID.String(),
		Items:           items,
		TotalOrderPrice: total,
		ShippingAddress: o.ShippingAddress,
		Status:          o.Status.String(),
		PaymentMethod:   o.PaymentMethod.String(),
		PaymentStatus:   o.PaymentStatus.String(),
		Notes:           o.Notes,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}, nil
}

func (d orderDoc) toModel() (models.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("order id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s user id: %w", d.ID, err)
	}
	total, err := pkgmongo.FromDecimal128(d.TotalOrderPrice)
	if err != nil {
		return models.Order{}, err
	}
	status, err := enums.ParseOrderStatus(d.Status)
	if err != nil {
		return models.Order{}, err
	}
	method, err := enums.ParsePaymentMethod(d.PaymentMethod)
	if err != nil {
		return models.Order{}, err
	}
	payment, err := enums.ParsePaymentStatus(d.PaymentStatus)
	if err != nil {
		return models.Order{}, err
	}
	items := make([]models.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		productID, err := uuid.Parse(it.Product)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %s item product: %w", d.ID, err)
		}
		price, err := pkgmongo.FromDecimal128(it.Price)
		if err != nil {
			return models.Order{}, err
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: it.Quantity, Price: price})
	}
	return models.Order{
		ID:              id,
		UserID:          userID,
		Items:           items,
		TotalOrderPrice: total,
		ShippingAddress: d.ShippingAddress,
		Status:          status,
		PaymentMethod:   method,
		PaymentStatus:   payment,
		Notes:           d.Notes,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

// MongoRepository stores orders as single documents.
type MongoRepository struct {
	coll *mongodriver.Collection
	now  func() time.Time
}

func NewMongoRepository(client *pkgmongo.Client) *MongoRepository {
	return &MongoRepository{coll: client.Collection(pkgmongo.CollectionOrders), now: time.Now}
}

var _ Repository = (*MongoRepository)(nil)

func (r *MongoRepository) Create(ctx context.Context, order *models.Order) error {
	now := r.now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now
	doc, err := orderToDoc(order)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return pkgmongo.TranslateError(err)
}

func (r *MongoRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	order, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoRepository) Save(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = r.now().UTC()
	doc, err := orderToDoc(order)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
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

func (r *MongoRepository) List(ctx context.Context, filters Filters, page pagination.Params) ([]models.Order, error) {
	page = page.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	return r.find(ctx, mongoFilter(filters), opts)
}

func (r *MongoRepository) Totals(ctx context.Context, filters Filters) (Totals, error) {
	pipeline := mongodriver.Pipeline{
		{{Key: "$match", Value: mongoFilter(filters)}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalOrderPrice"},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Totals{}, pkgmongo.TranslateError(err)
	}
	var rows []struct {
		Count   int64                `bson:"count"`
		Revenue primitive.Decimal128 `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Totals{}, err
	}
	if len(rows) == 0 {
		return Totals{Revenue: decimal.Zero}, nil
	}
	revenue, err := pkgmongo.FromDecimal128(rows[0].Revenue)
	if err != nil {
		return Totals{}, err
	}
	return Totals{Count: rows[0].Count, Revenue: revenue}, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"userId": ownerID.String()}, opts)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, pkgmongo.TranslateError(err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func mongoFilter(f Filters) bson.M {
	filter := bson.M{}
	if f.Status != nil {
		filter["status"] = f.Status.String()
	}
	if f.PaymentStatus != nil {
		filter["paymentStatus"] = f.PaymentStatus.String()
	}
	if f.OwnerID != nil {
		filter["userId"] = f.OwnerID.String()
	}
	if f.IsActive != nil {
		filter["isActive"] = *f.IsActive
	}
	return filter
}
