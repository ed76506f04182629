package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
)

// CartSummary is the server-computed aggregate returned after every cart
// mutation. TotalAmount is absent on the add path, so it is optional here and
// consumers update only the fields present.
type CartSummary struct {
	TotalQuantity int              `json:"total_quantity"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
}

// AddCartItemRequest creates or increments a line item in the session cart.
type AddCartItemRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateCartItemRequest sets the quantity of an existing line item. Quantity
// is a pointer so unparseable user input travels to the server as null, the
// not-a-number sentinel; the server is the source of truth for validity.
type UpdateCartItemRequest struct {
	ID       string `json:"id"`
	Quantity *int   `json:"quantity"`
}

// AddCartItem POSTs a new line item and returns the refreshed summary.
func (c *Client) AddCartItem(ctx context.Context, req AddCartItemRequest) (CartSummary, error) {
	var summary CartSummary
	if strings.TrimSpace(req.ID) == "" {
		return summary, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if err := c.do(ctx, http.MethodPost, "/api/carts", req, &summary); err != nil {
		return CartSummary{}, err
	}
	return summary, nil
}

// UpdateCartItem PUTs the new quantity and returns the refreshed summary.
func (c *Client) UpdateCartItem(ctx context.Context, req UpdateCartItemRequest) (CartSummary, error) {
	var summary CartSummary
	if strings.TrimSpace(req.ID) == "" {
		return summary, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if err := c.do(ctx, http.MethodPut, "/api/update-cart", req, &summary); err != nil {
		return CartSummary{}, err
	}
	return summary, nil
}

// DeleteCartItem removes the line item and returns the refreshed summary.
func (c *Client) DeleteCartItem(ctx context.Context, itemID string) (CartSummary, error) {
	var summary CartSummary
	trimmed := strings.TrimSpace(itemID)
	if trimmed == "" {
		return summary, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	path := fmt.Sprintf("/api/delete-cart/%s", url.PathEscape(trimmed))
	if err := c.do(ctx, http.MethodDelete, path, nil, &summary); err != nil {
		return CartSummary{}, err
	}
	return summary, nil
}

// NotifyLoginRequired queues the flash login prompt server-side. The caller
// redirects or reloads regardless of the result, so failures are not retried.
func (c *Client) NotifyLoginRequired(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/flash-login-required", nil, nil)
}
