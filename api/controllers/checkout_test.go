package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const testFlashKey = "flash-key"

type stubCheckout struct {
	review       *checkout.Review
	reviewErr    error
	result       *checkout.PlacementResult
	placeErr     error
	summaries    []orders.OrderSummary
	placedFor    int64
	placedAddr   int64
	confirmedFor []string
}

func (s *stubCheckout) Review(ctx context.Context, customerID int64) (*checkout.Review, error) {
	return s.review, s.reviewErr
}

func (s *stubCheckout) PlaceOrder(ctx context.Context, customerID, shippingAddressID int64) (*checkout.PlacementResult, error) {
	s.placedFor = customerID
	s.placedAddr = shippingAddressID
	return s.result, s.placeErr
}

func (s *stubCheckout) Confirmation(ctx context.Context, customerID int64, orderNumbers []string) ([]orders.OrderSummary, error) {
	s.confirmedFor = orderNumbers
	return s.summaries, nil
}

func customerRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	ctx := middleware.WithActor(req.Context(), 7, enums.RoleCustomer)
	ctx = middleware.WithFlashKey(ctx, testFlashKey)
	return req.WithContext(ctx)
}

func pendingFlash(t *testing.T, store flash.Store) []flash.Message {
	t.Helper()
	msgs, err := store.Pop(context.Background(), testFlashKey)
	require.NoError(t, err)
	return msgs
}

func TestCheckoutReviewEmptyCartRedirectsToCatalog(t *testing.T) {
	store := flash.NewMemoryStore()
	svc := &stubCheckout{reviewErr: pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty")}

	resp := httptest.NewRecorder()
	CheckoutReview(svc, store, nil).ServeHTTP(resp, customerRequest(http.MethodGet, "/checkout/", ""))

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/products/", resp.Header().Get("Location"))
	assert.Equal(t, []flash.Message{flash.Error("Your cart is empty.")}, pendingFlash(t, store))
}

func TestCheckoutReviewRendersPageWithFlash(t *testing.T) {
	store := flash.NewMemoryStore()
	require.NoError(t, store.Add(context.Background(), testFlashKey, flash.Error("insufficient stock for Mug")))
	svc := &stubCheckout{review: &checkout.Review{CartID: 3}}

	resp := httptest.NewRecorder()
	CheckoutReview(svc, store, nil).ServeHTTP(resp, customerRequest(http.MethodGet, "/checkout/", ""))

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data  checkout.Review `json:"data"`
		Flash []flash.Message `json:"flash"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 3, body.Data.CartID)
	require.Len(t, body.Flash, 1)
	assert.Equal(t, "insufficient stock for Mug", body.Flash[0].Text)
	assert.Empty(t, pendingFlash(t, store))
}

func TestCheckoutPlaceOrderSuccessRedirectsToConfirmation(t *testing.T) {
	store := flash.NewMemoryStore()
	svc := &stubCheckout{result: &checkout.PlacementResult{OrderNumbers: []string{"ORD-AAAA1111", "ORD-BBBB2222"}}}

	resp := httptest.NewRecorder()
	CheckoutPlaceOrder(svc, store, nil).ServeHTTP(resp, customerRequest(http.MethodPost, "/checkout/place-order", "shipping_address_id=12"))

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/checkout/confirmation?order_numbers=ORD-AAAA1111,ORD-BBBB2222", resp.Header().Get("Location"))
	assert.EqualValues(t, 7, svc.placedFor)
	assert.EqualValues(t, 12, svc.placedAddr)
}

func TestCheckoutPlaceOrderFailures(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		location string
		flash    string
	}{
		{
			name:     "missing address",
			body:     "shipping_address_id=",
			location: "/checkout/",
			flash:    "Please select a shipping address.",
		},
		{
			name:     "malformed address",
			body:     "shipping_address_id=abc",
			location: "/checkout/",
			flash:    "Please select a shipping address.",
		},
		{
			name:     "empty cart",
			body:     "shipping_address_id=1",
			err:      pkgerrors.New(pkgerrors.CodeEmptyCart, "your cart is empty"),
			location: "/products/",
			flash:    "Your cart is empty.",
		},
		{
			name:     "insufficient stock",
			body:     "shipping_address_id=1",
			err:      pkgerrors.New(pkgerrors.CodeInsufficient, "insufficient stock for Mug"),
			location: "/checkout/",
			flash:    "insufficient stock for Mug",
		},
		{
			name:     "internal failure hides detail",
			body:     "shipping_address_id=1",
			err:      pkgerrors.Wrap(pkgerrors.CodeInternal, context.DeadlineExceeded, "write order"),
			location: "/checkout/",
			flash:    pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := flash.NewMemoryStore()
			svc := &stubCheckout{placeErr: tc.err}

			resp := httptest.NewRecorder()
			CheckoutPlaceOrder(svc, store, nil).ServeHTTP(resp, customerRequest(http.MethodPost, "/checkout/place-order", tc.body))

			assert.Equal(t, http.StatusSeeOther, resp.Code)
			assert.Equal(t, tc.location, resp.Header().Get("Location"))
			assert.Equal(t, []flash.Message{flash.Error(tc.flash)}, pendingFlash(t, store))
		})
	}
}

func TestCheckoutConfirmationParsesNumbers(t *testing.T) {
	store := flash.NewMemoryStore()
	svc := &stubCheckout{summaries: []orders.OrderSummary{{ID: 1, OrderNumber: "ORD-AAAA1111"}}}

	resp := httptest.NewRecorder()
	req := customerRequest(http.MethodGet, "/checkout/confirmation?order_numbers=ORD-AAAA1111,%20ORD-ZZZZ9999,,ORD-AAAA1111", "")
	CheckoutConfirmation(svc, store, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"ORD-AAAA1111", "ORD-ZZZZ9999"}, svc.confirmedFor)

	var body struct {
		Data struct {
			Orders []orders.OrderSummary `json:"orders"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Orders, 1)
	assert.Equal(t, "ORD-AAAA1111", body.Data.Orders[0].OrderNumber)
}
