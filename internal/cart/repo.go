package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/bazaar-backend/pkg/db"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
)

// activeCartIndex is the partial unique index that keeps one active cart per user.
const activeCartIndex = "carts_one_active_per_user"

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(conn *gorm.DB) CartRepository {
	return &repository{db: conn}
}

func (r *repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &cart, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cart).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.Cart) error {
	return translateGormError(r.db.WithContext(ctx).Create(cart).Error)
}

func (r *repository) Save(ctx context.Context, cart *models.Cart) error {
	return translateGormError(r.db.WithContext(ctx).Save(cart).Error)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Cart{})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]models.Cart, error) {
	var carts []models.Cart
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// Convert writes the converted cart before inserting the fresh one so the
// active-cart index never sees two active rows.
func (r *repository) Convert(ctx context.Context, cart, fresh *models.Cart) error {
	err := db.RunTx(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Save(cart).Error; err != nil {
			return err
		}
		return tx.Create(fresh).Error
	})
	return translateGormError(err)
}

func (r *repository) AbandonIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("status = ? AND updated_at < ?", enums.CartStatusActive, cutoff).
		Update("status", enums.CartStatusAbandoned)
	if res.Error != nil {
		return 0, translateGormError(res.Error)
	}
	return res.RowsAffected, nil
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNotFound(err):
		return store.ErrNotFound
	case db.IsUniqueViolation(err, activeCartIndex):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
