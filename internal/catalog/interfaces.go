package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
)

// ProductRepository is implemented by the gorm and mongo catalog stores.
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}
