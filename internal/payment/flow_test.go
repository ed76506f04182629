package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/session"
	"github.com/garage-vn/storefront/internal/ui"
	pkgerrors "github.com/garage-vn/storefront/pkg/errors"
)

type fakePayAPI struct {
	result api.PayResult
	err    error

	payCalls       int
	repairCalls    int
	sparePartCalls int
	lastRepairID   string

	block   chan struct{}
	started chan struct{}
}

func (f *fakePayAPI) Pay(_ context.Context, repairFormID string) (api.PayResult, error) {
	f.payCalls++
	f.maybeBlock()
	return f.result, f.err
}

func (f *fakePayAPI) PayRepairForm(_ context.Context, repairFormID string) (api.PayResult, error) {
	f.repairCalls++
	f.lastRepairID = repairFormID
	f.maybeBlock()
	return f.result, f.err
}

func (f *fakePayAPI) PaySparePartOrder(context.Context) (api.PayResult, error) {
	f.sparePartCalls++
	f.maybeBlock()
	return f.result, f.err
}

func (f *fakePayAPI) maybeBlock() {
	if f.block != nil {
		if f.started != nil {
			close(f.started)
			f.started = nil
		}
		<-f.block
	}
}

func (f *fakePayAPI) NotifyLoginRequired(context.Context) error { return nil }

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (f *fakeConfirmer) Confirm(prompt string) bool {
	f.prompts = append(f.prompts, prompt)
	return f.answer
}

type fakeAlerter struct{ alerts []string }

func (f *fakeAlerter) Alert(msg string) { f.alerts = append(f.alerts, msg) }

type fakeNavigator struct {
	redirects []string
	reloads   int
}

func (f *fakeNavigator) Redirect(url string) { f.redirects = append(f.redirects, url) }
func (f *fakeNavigator) Reload()             { f.reloads++ }

type flowFixture struct {
	flow      *Flow
	client    *fakePayAPI
	confirmer *fakeConfirmer
	alerter   *fakeAlerter
	nav       *fakeNavigator
}

func newFlowFixture(t *testing.T, sess session.Session, client *fakePayAPI) *flowFixture {
	t.Helper()
	confirmer := &fakeConfirmer{answer: true}
	alerter := &fakeAlerter{}
	nav := &fakeNavigator{}
	flow := NewFlow(Params{
		Client:    client,
		Gate:      session.NewGate(sess, client, nav, "/login", nil),
		Confirmer: confirmer,
		Alerter:   alerter,
		Navigator: nav,
		Messages:  ui.DefaultMessages(),
	})
	return &flowFixture{flow: flow, client: client, confirmer: confirmer, alerter: alerter, nav: nav}
}

func loggedIn() session.Session {
	return session.Session{Authenticated: true, CustomerID: "c-1"}
}

func TestPaySuccessWithGatewayURLRedirects(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 200, PayURL: "https://gw/x"}}
	fx := newFlowFixture(t, loggedIn(), client)

	outcome, err := fx.flow.Pay(context.Background(), SparePartOrder())
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if outcome != OutcomeRedirected {
		t.Fatalf("expected redirect outcome, got %v", outcome)
	}
	if len(fx.nav.redirects) != 1 || fx.nav.redirects[0] != "https://gw/x" {
		t.Fatalf("expected navigation to gateway, got %+v", fx.nav.redirects)
	}
	if client.sparePartCalls != 1 {
		t.Fatalf("expected one spare part call, got %d", client.sparePartCalls)
	}
}

func TestPaySuccessWithoutGatewayURLReloads(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 200}}
	fx := newFlowFixture(t, loggedIn(), client)

	outcome, err := fx.flow.Pay(context.Background(), GenericCash("rf-9"))
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if outcome != OutcomeReloaded {
		t.Fatalf("expected reload outcome, got %v", outcome)
	}
	if fx.nav.reloads != 1 || len(fx.nav.redirects) != 0 {
		t.Fatalf("expected reload without redirect, got %+v", fx.nav)
	}
}

func TestPayBusinessFailureShowsServerMessage(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 400, Msg: "insufficient stock"}}
	fx := newFlowFixture(t, loggedIn(), client)

	outcome, err := fx.flow.Pay(context.Background(), RepairFormInvoice("rf-9"))
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %v", outcome)
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeBusiness) {
		t.Fatalf("expected business error, got %v", err)
	}
	if len(fx.alerter.alerts) != 1 || fx.alerter.alerts[0] != "insufficient stock" {
		t.Fatalf("expected server message alert, got %+v", fx.alerter.alerts)
	}
	if fx.nav.reloads != 0 || len(fx.nav.redirects) != 0 {
		t.Fatalf("business failure must not navigate, got %+v", fx.nav)
	}
	if client.lastRepairID != "rf-9" {
		t.Fatalf("unexpected repair form id %q", client.lastRepairID)
	}
}

func TestPayBusinessFailureFallbackMessage(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 500}}
	fx := newFlowFixture(t, loggedIn(), client)

	if outcome, _ := fx.flow.Pay(context.Background(), GenericCash("rf-9")); outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %v", outcome)
	}
	if len(fx.alerter.alerts) != 1 || fx.alerter.alerts[0] != ui.DefaultMessages().PaymentFailed {
		t.Fatalf("expected fallback message, got %+v", fx.alerter.alerts)
	}
}

func TestPayTransportFailureShowsSystemMessage(t *testing.T) {
	client := &fakePayAPI{err: pkgerrors.Wrap(pkgerrors.CodeTransport, errors.New("refused"), "execute POST /api/pay")}
	fx := newFlowFixture(t, loggedIn(), client)

	outcome, err := fx.flow.Pay(context.Background(), GenericCash("rf-9"))
	if outcome != OutcomeFailed {
		t.Fatalf("expected failed outcome, got %v", outcome)
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(fx.alerter.alerts) != 1 || fx.alerter.alerts[0] != ui.DefaultMessages().SystemError {
		t.Fatalf("expected system error alert, got %+v", fx.alerter.alerts)
	}
}

func TestPayFailureIsRetryable(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 400, Msg: "het hang"}}
	fx := newFlowFixture(t, loggedIn(), client)

	if outcome, _ := fx.flow.Pay(context.Background(), SparePartOrder()); outcome != OutcomeFailed {
		t.Fatalf("first attempt should fail")
	}
	client.result = api.PayResult{Code: 200}
	if outcome, err := fx.flow.Pay(context.Background(), SparePartOrder()); err != nil || outcome != OutcomeReloaded {
		t.Fatalf("retry should succeed, got %v %v", outcome, err)
	}
}

func TestPayDeclinedSendsNothing(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 200}}
	fx := newFlowFixture(t, loggedIn(), client)
	fx.confirmer.answer = false

	outcome, err := fx.flow.Pay(context.Background(), GenericCash("rf-9"))
	if err != nil || outcome != OutcomeDeclined {
		t.Fatalf("expected declined outcome, got %v %v", outcome, err)
	}
	if client.payCalls != 0 {
		t.Fatalf("declined confirmation must issue no request")
	}
	if len(fx.confirmer.prompts) != 1 || fx.confirmer.prompts[0] != ui.DefaultMessages().ConfirmPay {
		t.Fatalf("unexpected prompts %+v", fx.confirmer.prompts)
	}
}

func TestPayDropsClicksWhilePending(t *testing.T) {
	client := &fakePayAPI{
		result:  api.PayResult{Code: 200},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	fx := newFlowFixture(t, loggedIn(), client)

	started := client.started
	done := make(chan struct{})
	go func() {
		defer close(done)
		if outcome, err := fx.flow.Pay(context.Background(), SparePartOrder()); err != nil || outcome != OutcomeReloaded {
			t.Errorf("first click should reload, got %v %v", outcome, err)
		}
	}()

	<-started
	if outcome, err := fx.flow.Pay(context.Background(), SparePartOrder()); err != nil || outcome != OutcomeBusy {
		t.Fatalf("second click during pending must be dropped, got %v %v", outcome, err)
	}

	close(client.block)
	<-done

	if client.sparePartCalls != 1 {
		t.Fatalf("expected exactly one request, got %d", client.sparePartCalls)
	}
}

func TestPayAnonymousIsBlockedBeforeConfirmation(t *testing.T) {
	client := &fakePayAPI{result: api.PayResult{Code: 200}}
	fx := newFlowFixture(t, session.Anonymous(), client)

	outcome, err := fx.flow.Pay(context.Background(), GenericCash("rf-9"))
	if outcome != OutcomeBlocked {
		t.Fatalf("expected blocked outcome, got %v", outcome)
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
	if len(fx.confirmer.prompts) != 0 || client.payCalls != 0 {
		t.Fatalf("gate must run before the prompt and the request")
	}
	if len(fx.nav.redirects) != 1 {
		t.Fatalf("expected login redirect, got %+v", fx.nav)
	}
}
