package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/bazaar-backend/pkg/db"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/pagination"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filters Filters, page pagination.Params) ([]models.Order, error) {
	page = page.Normalize()
	var orders []models.Order
	err := applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Totals(ctx context.Context, filters Filters) (Totals, error) {
	var row struct {
		Count   int64
		Revenue decimal.NullDecimal
	}
	err := applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters).
		Select("COUNT(*) AS count, SUM(total_order_price) AS revenue").
		Scan(&row).Error
	if err != nil {
		return Totals{}, err
	}
	out := Totals{Count: row.Count, Revenue: decimal.Zero}
	if row.Revenue.Valid {
		out.Revenue = row.Revenue.Decimal
	}
	return out, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func applyFilters(q *gorm.DB, f Filters) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.PaymentStatus != nil {
		q = q.Where("payment_status = ?", *f.PaymentStatus)
	}
	if f.OwnerID != nil {
		q = q.Where("user_id = ?", *f.OwnerID)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	return q
}
