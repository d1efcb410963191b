package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/cart"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/checkout"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/repository"
)

type orderRepoMock struct {
	createErr error
	linesErr  error
	created   *domain.Order
}

func (m *orderRepoMock) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = 1
	order.CreatedAt = time.Now()
	m.created = order
	return nil
}

func (m *orderRepoMock) InsertOrderLines(context.Context, int64, []domain.OrderLine) error {
	return m.linesErr
}

func (m *orderRepoMock) FindOrderByIdempotencyKey(context.Context, string) (*domain.Order, error) {
	return nil, repository.ErrOrderNotFound
}

func (m *orderRepoMock) ListOrdersByUser(context.Context, string) ([]*domain.Order, error) {
	return nil, nil
}

func setupCheckoutHandler(t *testing.T, repo repository.OrderRepository) (*CheckoutHandler, *cart.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	carts := cart.NewService(cart.NewRedisStore(client))
	builder := checkout.NewBuilder(15, 0.07)
	pipeline := checkout.NewPipeline(repo, carts)
	return NewCheckoutHandler(carts, builder, pipeline), carts
}

func placeOrderBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(PlaceOrderRequestDTO{
		IdempotencyKey: "key-1",
		Shipping: domain.ShippingInfo{
			Name: "Ama Mensah", Email: "ama@example.com", Phone: "0241234567",
			Address: "12 Ring Road", City: "Accra", State: "Greater Accra", PostalCode: "GA-100",
		},
		PaymentMethod:  domain.PaymentMethodMTNMomo,
		PaymentDetails: domain.PaymentDetails{MobileNumber: "0241234567"},
	})
	require.NoError(t, err)
	return body
}

func TestPlaceOrder_Success(t *testing.T) {
	repo := &orderRepoMock{}
	handler, carts := setupCheckoutHandler(t, repo)

	ctx := context.Background()
	_, err := carts.AddItem(ctx, "u1", domain.CartLine{ProductID: 1, Name: "Kettle", UnitPrice: 10, Quantity: 2})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "u1", domain.CartLine{ProductID: 2, Name: "Toaster", UnitPrice: 5, Quantity: 3})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/v1/checkout", placeOrderBody(t)))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var conf checkout.Confirmation
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&conf))
	assert.NotEmpty(t, conf.Number)
	assert.InDelta(t, 52.45, conf.Total, 1e-9)

	require.NotNil(t, repo.created)
	assert.Equal(t, domain.OrderStatusPending, repo.created.Status)

	// Successful placement clears the cart.
	assert.True(t, carts.Get(ctx, "u1").IsEmpty())
}

func TestPlaceOrder_EmptyCartRedirects(t *testing.T) {
	handler, _ := setupCheckoutHandler(t, &orderRepoMock{})

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/v1/checkout", placeOrderBody(t)))

	// Empty cart at checkout is a navigational redirect, not an error.
	require.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/cart", recorder.Header().Get("Location"))
}

func TestPlaceOrder_PartialWriteKeepsCart(t *testing.T) {
	repo := &orderRepoMock{linesErr: fmt.Errorf("connection reset")}
	handler, carts := setupCheckoutHandler(t, repo)

	ctx := context.Background()
	_, err := carts.AddItem(ctx, "u1", domain.CartLine{ProductID: 1, Name: "Kettle", UnitPrice: 10, Quantity: 2})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/v1/checkout", placeOrderBody(t)))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "order_incomplete", resp.Code)

	// No false success: the cart must remain non-empty for a retry.
	assert.False(t, carts.Get(ctx, "u1").IsEmpty())
}

func TestPlaceOrder_StoreDown(t *testing.T) {
	repo := &orderRepoMock{createErr: fmt.Errorf("connection refused")}
	handler, carts := setupCheckoutHandler(t, repo)

	ctx := context.Background()
	_, err := carts.AddItem(ctx, "u1", domain.CartLine{ProductID: 1, Name: "Kettle", UnitPrice: 10, Quantity: 1})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/v1/checkout", placeOrderBody(t)))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.False(t, carts.Get(ctx, "u1").IsEmpty())
}

func TestPlaceOrder_MissingIdempotencyKey(t *testing.T) {
	handler, _ := setupCheckoutHandler(t, &orderRepoMock{})

	body, _ := json.Marshal(PlaceOrderRequestDTO{PaymentMethod: domain.PaymentMethodCard})
	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/v1/checkout", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPlaceOrder_UnknownPaymentMethod(t *testing.T) {
	handler, _ := setupCheckoutHandler(t, &orderRepoMock{})

	body, _ := json.Marshal(PlaceOrderRequestDTO{
		IdempotencyKey: "key-1",
		PaymentMethod:  domain.PaymentMethod("barter"),
	})
	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/v1/checkout", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
