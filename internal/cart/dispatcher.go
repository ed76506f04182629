package cart

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/session"
	"github.com/garage-vn/storefront/internal/ui"
	"github.com/garage-vn/storefront/internal/view"
	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
	"github.com/garage-vn/storefront/pkg/logger"
	"github.com/garage-vn/storefront/pkg/metrics"
)

const (
	actionAdd    = "add_to_cart"
	actionUpdate = "update_cart"
	actionDelete = "delete_cart"
)

// API is the slice of the storefront client the dispatcher needs.
type API interface {
	AddCartItem(ctx context.Context, req api.AddCartItemRequest) (api.CartSummary, error)
	UpdateCartItem(ctx context.Context, req api.UpdateCartItemRequest) (api.CartSummary, error)
	DeleteCartItem(ctx context.Context, itemID string) (api.CartSummary, error)
}

// Dispatcher drives the three cart mutations: one request/response cycle
// each, gated on authentication, with the response applied to the page.
type Dispatcher struct {
	client    API
	gate      *session.Gate
	engine    *view.Engine
	confirmer ui.Confirmer
	alerter   ui.Alerter
	messages  ui.Messages
	metrics   *metrics.ActionMetrics
	logg      *logger.Logger
}

// Params collects the dispatcher's collaborators.
type Params struct {
	Client    API
	Gate      *session.Gate
	Engine    *view.Engine
	Confirmer ui.Confirmer
	Alerter   ui.Alerter
	Messages  ui.Messages
	Metrics   *metrics.ActionMetrics
	Logger    *logger.Logger
}

func NewDispatcher(p Params) *Dispatcher {
	return &Dispatcher{
		client:    p.Client,
		gate:      p.Gate,
		engine:    p.Engine,
		confirmer: p.Confirmer,
		alerter:   p.Alerter,
		messages:  p.Messages,
		metrics:   p.Metrics,
		logg:      p.Logger,
	}
}

// AddToCart creates or increments a line item. The gate runs before any
// network call; an intercepted attempt issues no cart request.
func (d *Dispatcher) AddToCart(ctx context.Context, itemID, name string, unitPrice decimal.Decimal) error {
	if !d.gate.Guard(ctx, session.DivertToLogin) {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "add to cart blocked")
	}

	start := time.Now()
	summary, err := d.client.AddCartItem(ctx, api.AddCartItemRequest{
		ID:        itemID,
		Name:      name,
		UnitPrice: unitPrice,
	})
	d.metrics.ObserveDuration(actionAdd, time.Since(start))
	if err != nil {
		return d.fail(ctx, actionAdd, err)
	}

	d.metrics.IncSuccess(actionAdd)
	// The add response carries only total_quantity; the engine leaves the
	// amount view untouched for summaries without a total.
	return d.engine.ApplyCartSummary(ctx, summary)
}

// UpdateCart sets a line item's quantity from raw user input. Non-numeric
// input is forwarded as the null quantity sentinel; the server decides what
// to do with it.
func (d *Dispatcher) UpdateCart(ctx context.Context, itemID, rawQuantity string) error {
	if !d.gate.Guard(ctx, session.DivertToLogin) {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "update cart blocked")
	}

	var quantity *int
	if parsed, err := strconv.Atoi(strings.TrimSpace(rawQuantity)); err == nil {
		quantity = &parsed
	}

	start := time.Now()
	summary, err := d.client.UpdateCartItem(ctx, api.UpdateCartItemRequest{ID: itemID, Quantity: quantity})
	d.metrics.ObserveDuration(actionUpdate, time.Since(start))
	if err != nil {
		return d.fail(ctx, actionUpdate, err)
	}

	d.metrics.IncSuccess(actionUpdate)
	return d.engine.ApplyCartSummary(ctx, summary)
}

// DeleteCart removes a line item after explicit confirmation. Declining the
// prompt issues zero network requests and leaves the page unchanged.
func (d *Dispatcher) DeleteCart(ctx context.Context, itemID string) error {
	if !d.gate.Guard(ctx, session.DivertToLogin) {
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "delete cart blocked")
	}

	if d.confirmer == nil || !d.confirmer.Confirm(d.messages.ConfirmDeleteItem) {
		return nil
	}

	start := time.Now()
	summary, err := d.client.DeleteCartItem(ctx, itemID)
	d.metrics.ObserveDuration(actionDelete, time.Since(start))
	if err != nil {
		return d.fail(ctx, actionDelete, err)
	}

	d.metrics.IncSuccess(actionDelete)
	if err := d.engine.ApplyCartSummary(ctx, summary); err != nil {
		return err
	}
	return d.engine.HideItemRow(itemID)
}

func (d *Dispatcher) fail(ctx context.Context, action string, err error) error {
	reason := "transport"
	if typed := pkgerrors.As(err); typed != nil {
		reason = strings.ToLower(string(typed.Code()))
	}
	d.metrics.IncFailure(action, reason)
	if d.logg != nil {
		d.logg.Error(ctx, action+" failed", err)
	}
	if d.alerter != nil {
		d.alerter.Alert(d.messages.SystemError)
	}
	return err
}
