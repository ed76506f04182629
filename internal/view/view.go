package view

import (
	"context"

	"go.uber.org/multierr"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/pkg/logger"
	"github.com/garage-vn/storefront/pkg/money"
)

// CounterMirror displays the cart's item count. Every mirror on the page
// must show the same value after a sync completes.
type CounterMirror interface {
	SetCount(count int) error
}

// AmountView displays the formatted cart total.
type AmountView interface {
	SetAmount(text string) error
}

// Page is the engine's window onto the rendered page. CounterMirrors must
// return the current set on every call: partial page updates can add or
// remove mirrors, so the engine never caches the list.
type Page interface {
	CounterMirrors() []CounterMirror
	AmountView() AmountView
	HideRow(rowID string) error
}

// RowID derives the deterministic row element id for a cart line item.
func RowID(itemID string) string {
	return "product" + itemID
}

// Engine propagates a server-computed cart summary to every mirror on the
// page. Applying the same summary twice produces the same visible state.
type Engine struct {
	page      Page
	formatter *money.Formatter
	logg      *logger.Logger
}

func NewEngine(page Page, formatter *money.Formatter, logg *logger.Logger) *Engine {
	return &Engine{page: page, formatter: formatter, logg: logg}
}

// ApplyCartSummary writes the item count to every counter mirror and, when
// the summary carries a total, the locale-formatted amount to the amount
// view. All mirrors are attempted; failures are aggregated.
func (e *Engine) ApplyCartSummary(ctx context.Context, summary api.CartSummary) error {
	if e == nil || e.page == nil {
		return nil
	}

	var errs error
	for _, mirror := range e.page.CounterMirrors() {
		if mirror == nil {
			continue
		}
		errs = multierr.Append(errs, mirror.SetCount(summary.TotalQuantity))
	}

	if summary.TotalAmount != nil {
		if amountView := e.page.AmountView(); amountView != nil {
			errs = multierr.Append(errs, amountView.SetAmount(e.formatter.Format(*summary.TotalAmount)))
		}
	}

	if errs != nil && e.logg != nil {
		e.logg.Warn(ctx, "cart summary sync incomplete: "+errs.Error())
	}
	return errs
}

// HideItemRow hides the row element for the deleted item. The row stays in
// the page, preserving layout and index stability; hiding twice is a no-op.
func (e *Engine) HideItemRow(itemID string) error {
	if e == nil || e.page == nil {
		return nil
	}
	return e.page.HideRow(RowID(itemID))
}
