package mongo

import (
	"context"
	"fmt"

	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionCarts    = "carts"
	CollectionOrders   = "orders"
	CollectionProducts = "products"
	CollectionUsers    = "users"
)

// Client wraps a connected mongo client bound to one database.
type Client struct {
	client *mongodriver.Client
	db     *mongodriver.Database
}

// Connect dials the configured deployment and verifies it with a primary ping.
func Connect(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	c := &Client{client: client, db: client.Database(cfg.Database)}
	if err := c.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "database", cfg.Database), "mongo connection established")
	}
	return c, nil
}

func (c *Client) Database() *mongodriver.Database {
	return c.db
}

func (c *Client) Collection(name string) *mongodriver.Collection {
	return c.db.Collection(name)
}

// Ping verifies the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to call on every boot.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongodriver.IndexModel{
		CollectionCarts: {
			{
				Keys: bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().
					SetName("carts_one_active_per_user").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "active"}),
			},
		},
		CollectionOrders: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "paymentStatus", Value: 1}}},
		},
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range indexes {
		if _, err := c.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", name, err)
		}
	}
	return nil
}
