package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/angelmondragon/bazaar-backend/pkg/store"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "10.00", "199.99", "12.5", "-3.25"} {
		d := decimal.RequireFromString(raw)
		enc, err := ToDecimal128(d)
		if err != nil {
			t.Fatalf("encode %s: %v", raw, err)
		}
		dec, err := FromDecimal128(enc)
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if !dec.Equal(d) {
			t.Fatalf("round trip %s produced %s", raw, dec)
		}
	}
}

func TestTranslateError(t *testing.T) {
	if TranslateError(nil) != nil {
		t.Fatal("nil should stay nil")
	}
	if !errors.Is(TranslateError(fmt.Errorf("find: %w", mongodriver.ErrNoDocuments)), store.ErrNotFound) {
		t.Fatal("no documents should map to not found")
	}
	boom := errors.New("boom")
	if !errors.Is(TranslateError(boom), boom) {
		t.Fatal("other errors should pass through")
	}
}
