// Package backend opens the repositories for the configured store driver.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/bazaar-backend/internal/cart"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/internal/orders"
	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/db"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/migrate"
	pkgmongo "github.com/angelmondragon/bazaar-backend/pkg/mongo"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend holds the repositories for one store driver.
type Backend struct {
	Carts    cart.CartRepository
	Orders   orders.Repository
	Products catalog.ProductRepository
	Users    users.UserRepository

	// Driver names the store; Pinger reports its health.
	Driver string
	Pinger Pinger

	close func() error
	logg  *logger.Logger
}

// Open connects to the store named by cfg.Store.Driver. Postgres runs pending
// migrations when auto-migrate is on; mongo ensures its indexes.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg, logg)
	default:
		return openPostgres(ctx, cfg, logg)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap database: %w", err)
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	conn := client.DB()
	return &Backend{
		Carts:    cart.NewRepository(conn),
		Orders:   orders.NewRepository(conn),
		Products: catalog.NewRepository(conn),
		Users:    users.NewRepository(conn),
		Driver:   config.StoreDriverPostgres,
		Pinger:   client,
		close:    client.Close,
		logg:     logg,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	client, err := pkgmongo.Connect(ctx, cfg.Mongo, logg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap mongo: %w", err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		_ = client.Close(context.Background())
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}

	return &Backend{
		Carts:    cart.NewMongoRepository(client),
		Orders:   orders.NewMongoRepository(client),
		Products: catalog.NewMongoRepository(client),
		Users:    users.NewMongoRepository(client),
		Driver:   config.StoreDriverMongo,
		Pinger:   client,
		close: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(ctx)
		},
		logg: logg,
	}, nil
}

// Close releases the underlying connection.
func (b *Backend) Close() {
	if b == nil || b.close == nil {
		return
	}
	if err := b.close(); err != nil {
		b.logg.Error(context.Background(), "error closing store", err)
	}
}
