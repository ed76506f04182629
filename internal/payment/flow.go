package payment

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/session"
	"github.com/garage-vn/storefront/internal/ui"
	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
	"github.com/garage-vn/storefront/pkg/logger"
	"github.com/garage-vn/storefront/pkg/metrics"
)

// Context selects the checkout scenario. Each maps to its own endpoint and
// payload but shares the {code, pay_url, msg} result contract.
type Context string

const (
	ContextGeneric        Context = "generic"
	ContextRepairForm     Context = "repair_form"
	ContextSparePartOrder Context = "spare_part_order"
)

// Intent is the tagged payment variant presented to the flow.
type Intent struct {
	Context      Context
	RepairFormID string
}

// GenericCash pays a repair form in cash at the counter.
func GenericCash(repairFormID string) Intent {
	return Intent{Context: ContextGeneric, RepairFormID: repairFormID}
}

// RepairFormInvoice pays one repair-form invoice through the gateway.
func RepairFormInvoice(repairFormID string) Intent {
	return Intent{Context: ContextRepairForm, RepairFormID: repairFormID}
}

// SparePartOrder pays the session's spare-part cart through the gateway.
func SparePartOrder() Intent {
	return Intent{Context: ContextSparePartOrder}
}

// Outcome is the terminal disposition of one pay attempt.
type Outcome int

const (
	// OutcomeDeclined: the user dismissed the confirmation prompt; nothing
	// was sent.
	OutcomeDeclined Outcome = iota
	// OutcomeBusy: a request for this flow is already pending; the click was
	// dropped.
	OutcomeBusy
	// OutcomeRedirected: the page navigated to the gateway URL.
	OutcomeRedirected
	// OutcomeReloaded: payment completed without a gateway; the page
	// reloaded.
	OutcomeReloaded
	// OutcomeFailed: business or transport failure; the flow returned to
	// idle and the action is retryable.
	OutcomeFailed
	// OutcomeBlocked: the auth gate diverted the attempt.
	OutcomeBlocked
)

// API is the slice of the storefront client the flow needs.
type API interface {
	Pay(ctx context.Context, repairFormID string) (api.PayResult, error)
	PayRepairForm(ctx context.Context, repairFormID string) (api.PayResult, error)
	PaySparePartOrder(ctx context.Context) (api.PayResult, error)
}

// Flow drives a two-step payment: blocking confirmation, then exactly one
// POST whose result either navigates the page or surfaces a message. At most
// one request is in flight per flow; clicks during Pending are dropped.
type Flow struct {
	client    API
	gate      *session.Gate
	confirmer ui.Confirmer
	alerter   ui.Alerter
	navigator ui.Navigator
	messages  ui.Messages
	metrics   *metrics.ActionMetrics
	logg      *logger.Logger

	pending atomic.Bool
}

// Params collects the flow's collaborators.
type Params struct {
	Client    API
	Gate      *session.Gate
	Confirmer ui.Confirmer
	Alerter   ui.Alerter
	Navigator ui.Navigator
	Messages  ui.Messages
	Metrics   *metrics.ActionMetrics
	Logger    *logger.Logger
}

func NewFlow(p Params) *Flow {
	return &Flow{
		client:    p.Client,
		gate:      p.Gate,
		confirmer: p.Confirmer,
		alerter:   p.Alerter,
		navigator: p.Navigator,
		messages:  p.Messages,
		metrics:   p.Metrics,
		logg:      p.Logger,
	}
}

// Pay runs the state machine for one click on a pay action.
func (f *Flow) Pay(ctx context.Context, intent Intent) (Outcome, error) {
	if f.gate != nil && !f.gate.Guard(ctx, session.DivertToLogin) {
		return OutcomeBlocked, pkgerrors.New(pkgerrors.CodeUnauthenticated, "payment blocked")
	}

	if !f.pending.CompareAndSwap(false, true) {
		return OutcomeBusy, nil
	}
	defer f.pending.Store(false)

	if f.confirmer == nil || !f.confirmer.Confirm(f.messages.ConfirmPay) {
		return OutcomeDeclined, nil
	}

	action := "pay_" + string(intent.Context)
	start := time.Now()
	result, err := f.dispatch(ctx, intent)
	f.metrics.ObserveDuration(action, time.Since(start))

	if err != nil {
		f.metrics.IncFailure(action, "transport")
		if f.logg != nil {
			f.logg.Error(f.logg.WithPaymentContext(ctx, string(intent.Context)), "payment request failed", err)
		}
		if f.alerter != nil {
			f.alerter.Alert(f.messages.SystemError)
		}
		return OutcomeFailed, err
	}

	if !result.OK() {
		f.metrics.IncFailure(action, "business")
		msg := strings.TrimSpace(result.Msg)
		if msg == "" {
			msg = f.messages.PaymentFailed
		}
		if f.alerter != nil {
			f.alerter.Alert(msg)
		}
		return OutcomeFailed, pkgerrors.New(pkgerrors.CodeBusiness, "payment rejected").WithDetails(result)
	}

	f.metrics.IncSuccess(action)
	if result.PayURL != "" {
		f.navigator.Redirect(result.PayURL)
		return OutcomeRedirected, nil
	}
	f.navigator.Reload()
	return OutcomeReloaded, nil
}

func (f *Flow) dispatch(ctx context.Context, intent Intent) (api.PayResult, error) {
	switch intent.Context {
	case ContextRepairForm:
		return f.client.PayRepairForm(ctx, intent.RepairFormID)
	case ContextSparePartOrder:
		return f.client.PaySparePartOrder(ctx)
	default:
		return f.client.Pay(ctx, intent.RepairFormID)
	}
}
