package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
// Lookups return store.ErrNotFound when nothing matches; Create returns
// store.ErrDuplicate when the user already holds an active cart.
type CartRepository interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Cart, error)
	// Convert persists cart as converted and inserts fresh as the user's new active cart.
	Convert(ctx context.Context, cart, fresh *models.Cart) error
	// AbandonIdle marks active carts untouched since cutoff as abandoned and
	// reports how many changed.
	AbandonIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

type productCatalog interface {
	Products(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.ProductSummary, error)
}

type ownerDirectory interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}
