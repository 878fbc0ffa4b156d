package orders

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	"github.com/angelmondragon/bazaar-backend/internal/users"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
)

// Repository defines the persistence surface required by the order service.
// Missing orders are reported as store.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns one page of filtered orders, newest first.
	List(ctx context.Context, filters Filters, page pagination.Params) ([]models.Order, error)
	// Totals counts and sums the whole filtered set, ignoring pagination.
	Totals(ctx context.Context, filters Filters) (Totals, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error)
}

// CartConverter closes the caller's active cart once an order is placed.
type CartConverter interface {
	MarkConverted(ctx context.Context, userID uuid.UUID) error
}

type productProjector interface {
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.ProductSummary, error)
}

type customerDirectory interface {
	Profiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]users.Profile, error)
}
