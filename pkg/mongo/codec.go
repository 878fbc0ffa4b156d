package mongo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/angelmondragon/bazaar-backend/pkg/store"
)

// ToDecimal128 converts an exact decimal to BSON Decimal128.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return out, nil
}

// FromDecimal128 converts BSON Decimal128 back to an exact decimal.
func FromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", d, err)
	}
	return out, nil
}

// TranslateError maps driver errors onto the shared store sentinels.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongodriver.ErrNoDocuments):
		return store.ErrNotFound
	case mongodriver.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
