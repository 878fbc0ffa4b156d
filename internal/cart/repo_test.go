package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bazaar-backend/pkg/db/dbtest"
	"github.com/angelmondragon/bazaar-backend/pkg/db/models"
	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/store"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

func TestRepositoryRoundTripsItems(t *testing.T) {
	conn := dbtest.Open(t, dbtest.CartsTable, dbtest.CartsActiveIndex)
	repo := NewRepository(conn)
	ctx := context.Background()

	cart := newCart(uuid.New())
	cart.Items = []models.CartItem{{
		ProductID: uuid.New(),
		Quantity:  2,
		Price:     decimal.RequireFromString("7.25"),
		Notes:     &types.LocalizedText{AR: "هدية"},
	}}
	Recalculate(cart)
	cart.Notes = &types.LocalizedText{EN: "ring the bell"}
	require.NoError(t, repo.Create(ctx, cart))

	got, err := repo.FindActiveByUser(ctx, cart.UserID)
	require.NoError(t, err)
	require.Equal(t, cart.ID, got.ID)
	require.Len(t, got.Items, 1)
	require.Equal(t, "هدية", got.Items[0].Notes.AR)
	require.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("7.25")))
	require.True(t, got.TotalPrice.Equal(decimal.RequireFromString("14.5")))
	require.Equal(t, "ring the bell", got.Notes.EN)

	got.Items[0].Quantity = 3
	Recalculate(got)
	require.NoError(t, repo.Save(ctx, got))

	reloaded, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, 3, reloaded.Items[0].Quantity)
}

func TestRepositoryOneActiveCartPerUser(t *testing.T) {
	conn := dbtest.Open(t, dbtest.CartsTable, dbtest.CartsActiveIndex)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, newCart(userID)))
	err := repo.Create(ctx, newCart(userID))
	require.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)

	converted := newCart(userID)
	converted.Status = enums.CartStatusConverted
	require.NoError(t, repo.Create(ctx, converted))
}

func TestRepositoryConvert(t *testing.T) {
	conn := dbtest.Open(t, dbtest.CartsTable, dbtest.CartsActiveIndex)
	repo := NewRepository(conn)
	ctx := context.Background()
	userID := uuid.New()

	cart := newCart(userID)
	require.NoError(t, repo.Create(ctx, cart))

	cart.Status = enums.CartStatusConverted
	fresh := newCart(userID)
	require.NoError(t, repo.Convert(ctx, cart, fresh))

	active, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, fresh.ID, active.ID)

	old, err := repo.FindByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Equal(t, enums.CartStatusConverted, old.Status)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestRepositoryNotFound(t *testing.T) {
	conn := dbtest.Open(t, dbtest.CartsTable, dbtest.CartsActiveIndex)
	repo := NewRepository(conn)
	ctx := context.Background()

	_, err := repo.FindActiveByUser(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, uuid.New()), store.ErrNotFound)
}

func TestRepositoryAbandonIdle(t *testing.T) {
	conn := dbtest.Open(t, dbtest.CartsTable, dbtest.CartsActiveIndex)
	repo := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := newCart(uuid.New())
	recent := newCart(uuid.New())
	converted := newCart(uuid.New())
	converted.Status = enums.CartStatusConverted
	for _, c := range []*models.Cart{stale, recent, converted} {
		require.NoError(t, repo.Create(ctx, c))
	}
	touch := func(id uuid.UUID, at time.Time) {
		require.NoError(t, conn.Model(&models.Cart{}).Where("id = ?", id).UpdateColumn("updated_at", at).Error)
	}
	touch(stale.ID, now.Add(-48*time.Hour))
	touch(recent.ID, now.Add(-time.Hour))
	touch(converted.ID, now.Add(-48*time.Hour))

	n, err := repo.AbandonIdle(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, enums.CartStatusAbandoned, got.Status)

	_, err = repo.FindActiveByUser(ctx, stale.UserID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindActiveByUser(ctx, recent.UserID)
	require.NoError(t, err)
}
