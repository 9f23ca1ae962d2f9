package service

import (
	"context"
	"testing"

	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutRequiresSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, _ := env.seedEvent(t, 5, true, 2)

	_, err := env.checkoutService.Summary(ctx, event.ID, "v")
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = env.checkoutService.PlaceOrder(ctx, event.ID, "v", "es", models.CheckoutRequest{
		Name: "Ana", Email: "ana@example.com", PaymentMethod: models.PaymentMethodOnline,
	})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestCheckoutSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, photos := env.seedEvent(t, 5, true, 4)
	env.selectPhotos(t, "v", photos[0], photos[1], photos[3])

	summary, err := env.checkoutService.Summary(ctx, event.ID, "v")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Len(t, summary.Photos, 3)
	assert.Equal(t, 15.0, summary.Total)
	assert.Equal(t, "$15.00", summary.TotalDisplay)

	_, err = env.checkoutService.Summary(ctx, "missing", "v")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestPlaceOrderRoutesByMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, photos := env.seedEvent(t, 5, true, 3)
	env.selectPhotos(t, "v", photos...)

	online, err := env.checkoutService.PlaceOrder(ctx, event.ID, "v", "en", models.CheckoutRequest{
		Name: "Ana", Email: "ana@example.com", PaymentMethod: models.PaymentMethodOnline,
	})
	require.NoError(t, err)
	assert.Equal(t, "/payment/"+online.Order.ID, online.Next)
	assert.Equal(t, models.PaymentStatusPending, online.Order.PaymentStatus)
	assert.Equal(t, 15.0, online.Order.TotalAmount)
	assert.Len(t, online.Order.PhotoIDs, 3)

	// the selection survives checkout
	offline, err := env.checkoutService.PlaceOrder(ctx, event.ID, "v", "en", models.CheckoutRequest{
		Name: "Ana", Email: "ana@example.com", PaymentMethod: models.PaymentMethodOffline,
	})
	require.NoError(t, err)
	assert.Equal(t, "/download/"+offline.Order.ID, offline.Next)
	assert.Equal(t, models.PaymentStatusPending, offline.Order.PaymentStatus)
}

func TestPlaceOrderKeepsPriceAtCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	event, photos := env.seedEvent(t, 5, true, 2)
	env.selectPhotos(t, "v", photos...)

	placed, err := env.checkoutService.PlaceOrder(ctx, event.ID, "v", "es", models.CheckoutRequest{
		Name: "Ana", Email: "ana@example.com", PaymentMethod: models.PaymentMethodOffline,
	})
	require.NoError(t, err)

	price := 20.0
	_, err = env.eventService.Update(ctx, event.ID, models.UpdateEventRequest{PricePerPhoto: &price})
	require.NoError(t, err)

	order, err := env.orders.GetByID(ctx, placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, order.TotalAmount)
}
