package garagetest_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/cart"
	"github.com/garage-vn/storefront/internal/garagetest"
	"github.com/garage-vn/storefront/internal/payment"
	"github.com/garage-vn/storefront/internal/session"
	"github.com/garage-vn/storefront/internal/ui"
	"github.com/garage-vn/storefront/internal/view"
	"github.com/garage-vn/storefront/pkg/config"
	"github.com/garage-vn/storefront/pkg/money"
)

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{JWTSecret: "stub-secret", JWTIssuer: "garage"},
		Gateway: config.GatewayConfig{
			TmnCode:    "TESTCODE",
			HashSecret: "test-secret",
			PaymentURL: "https://sandbox.example.vn/pay",
			ReturnURL:  "http://localhost:5000/payment_return",
		},
		Stub: config.StubConfig{SessionTTLMinutes: 60},
	}
}

func startStub(t *testing.T) (*garagetest.Server, *api.Client) {
	t.Helper()
	stub := garagetest.NewServer(testConfig(), nil)
	ts := httptest.NewServer(stub.Router())
	t.Cleanup(ts.Close)

	client, err := api.NewClient(ts.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return stub, client
}

type recordingNavigator struct {
	mu        sync.Mutex
	redirects []string
	reloads   int
}

func (n *recordingNavigator) Redirect(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, url)
}

func (n *recordingNavigator) Reload() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reloads++
}

type approvingConfirmer struct{}

func (approvingConfirmer) Confirm(string) bool { return true }

type recordingAlerter struct {
	alerts []string
}

func (a *recordingAlerter) Alert(msg string) { a.alerts = append(a.alerts, msg) }

func TestCartLifecycleAgainstStub(t *testing.T) {
	_, client := startStub(t)
	ctx := context.Background()

	summary, err := client.AddCartItem(ctx, api.AddCartItemRequest{ID: "sp-1", Name: "Lốp xe", UnitPrice: decimal.NewFromInt(250000)})
	if err != nil {
		t.Fatalf("AddCartItem returned error: %v", err)
	}
	if summary.TotalQuantity != 1 {
		t.Fatalf("TotalQuantity = %d, want 1", summary.TotalQuantity)
	}
	if summary.TotalAmount != nil {
		t.Fatal("add response should not carry total_amount")
	}

	if _, err := client.AddCartItem(ctx, api.AddCartItemRequest{ID: "sp-1", Name: "Lốp xe", UnitPrice: decimal.NewFromInt(250000)}); err != nil {
		t.Fatalf("second AddCartItem returned error: %v", err)
	}

	qty := 5
	summary, err = client.UpdateCartItem(ctx, api.UpdateCartItemRequest{ID: "sp-1", Quantity: &qty})
	if err != nil {
		t.Fatalf("UpdateCartItem returned error: %v", err)
	}
	if summary.TotalQuantity != 5 {
		t.Fatalf("TotalQuantity after update = %d, want 5", summary.TotalQuantity)
	}
	if summary.TotalAmount == nil || !summary.TotalAmount.Equal(decimal.NewFromInt(1250000)) {
		t.Fatalf("TotalAmount after update = %v, want 1250000", summary.TotalAmount)
	}

	summary, err = client.DeleteCartItem(ctx, "sp-1")
	if err != nil {
		t.Fatalf("DeleteCartItem returned error: %v", err)
	}
	if summary.TotalQuantity != 0 {
		t.Fatalf("TotalQuantity after delete = %d, want 0", summary.TotalQuantity)
	}
}

func TestUpdateCartNullQuantityRejected(t *testing.T) {
	_, client := startStub(t)
	ctx := context.Background()

	if _, err := client.AddCartItem(ctx, api.AddCartItemRequest{ID: "sp-2", Name: "Nhớt", UnitPrice: decimal.NewFromInt(90000)}); err != nil {
		t.Fatalf("AddCartItem returned error: %v", err)
	}

	// A null quantity reaches the server unchanged and comes back as a
	// summary-shaped body with zero totals.
	summary, err := client.UpdateCartItem(ctx, api.UpdateCartItemRequest{ID: "sp-2", Quantity: nil})
	if err != nil {
		t.Fatalf("UpdateCartItem returned error: %v", err)
	}
	if summary.TotalQuantity != 0 {
		t.Fatalf("TotalQuantity from rejected update = %d, want 0", summary.TotalQuantity)
	}
}

func TestPayRepairFormIssuesGatewayURL(t *testing.T) {
	stub, client := startStub(t)
	stub.SeedRepairForm("rf-9", decimal.NewFromInt(480000))

	result, err := client.PayRepairForm(context.Background(), "rf-9")
	if err != nil {
		t.Fatalf("PayRepairForm returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("result not OK: code=%d msg=%q", result.Code, result.Msg)
	}
	if !strings.HasPrefix(result.PayURL, "https://sandbox.example.vn/pay?") {
		t.Fatalf("unexpected pay_url: %s", result.PayURL)
	}
	if !strings.Contains(result.PayURL, "vnp_TxnRef=repair-rf-9") {
		t.Fatalf("pay_url missing txn ref: %s", result.PayURL)
	}
}

func TestPayRepairFormUnknownID(t *testing.T) {
	_, client := startStub(t)

	result, err := client.PayRepairForm(context.Background(), "missing")
	if err != nil {
		t.Fatalf("PayRepairForm returned error: %v", err)
	}
	if result.OK() {
		t.Fatal("expected business failure for unknown repair form")
	}
	if result.Msg == "" {
		t.Fatal("expected server-supplied msg")
	}
}

func TestPaySparePartOrderEmptyCart(t *testing.T) {
	_, client := startStub(t)

	result, err := client.PaySparePartOrder(context.Background())
	if err != nil {
		t.Fatalf("PaySparePartOrder returned error: %v", err)
	}
	if result.OK() {
		t.Fatal("expected business failure for empty cart")
	}
}

func TestCashPaymentHasNoRedirect(t *testing.T) {
	stub, client := startStub(t)
	stub.SeedRepairForm("rf-1", decimal.NewFromInt(100000))

	result, err := client.Pay(context.Background(), "rf-1")
	if err != nil {
		t.Fatalf("Pay returned error: %v", err)
	}
	if !result.OK() {
		t.Fatalf("result not OK: code=%d msg=%q", result.Code, result.Msg)
	}
	if result.PayURL != "" {
		t.Fatalf("cash payment carried pay_url %q", result.PayURL)
	}
}

func TestFlashLoginRequiredRecorded(t *testing.T) {
	stub, client := startStub(t)

	if err := client.NotifyLoginRequired(context.Background()); err != nil {
		t.Fatalf("NotifyLoginRequired returned error: %v", err)
	}
	if got := len(stub.Flashes()); got != 1 {
		t.Fatalf("flash count = %d, want 1", got)
	}
}

func TestCommentsAcceptedAndRejected(t *testing.T) {
	stub, client := startStub(t)
	ctx := context.Background()

	result, err := client.AddComment(ctx, api.AddCommentRequest{SparePartID: "sp-3", Content: "Hàng tốt"})
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	if result.Status != 201 {
		t.Fatalf("Status = %d, want 201", result.Status)
	}
	if got := len(stub.Comments()); got != 1 {
		t.Fatalf("stored comments = %d, want 1", got)
	}

	result, err = client.AddComment(ctx, api.AddCommentRequest{SparePartID: "sp-3", Content: ""})
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	if result.Status < 400 {
		t.Fatalf("Status = %d, want rejection", result.Status)
	}
	if result.ErrMsg == "" {
		t.Fatal("expected err_msg on rejection")
	}
}

func TestVehiclesSeededAndEmpty(t *testing.T) {
	stub, client := startStub(t)
	stub.SeedVehicles("cus-1",
		api.Vehicle{ID: "v-1", LicensePlate: "59A-123.45", VehicleType: "Xe máy"},
	)
	ctx := context.Background()

	vehicles, err := client.ListVehicles(ctx, "cus-1")
	if err != nil {
		t.Fatalf("ListVehicles returned error: %v", err)
	}
	if len(vehicles) != 1 || vehicles[0].LicensePlate != "59A-123.45" {
		t.Fatalf("unexpected vehicles: %+v", vehicles)
	}

	vehicles, err = client.ListVehicles(ctx, "cus-none")
	if err != nil {
		t.Fatalf("ListVehicles for unseeded customer returned error: %v", err)
	}
	if len(vehicles) != 0 {
		t.Fatalf("expected empty list, got %+v", vehicles)
	}
}

func TestLoginMintsUsableSessionToken(t *testing.T) {
	stub, client := startStub(t)
	if err := stub.SeedAccount("nam", "mat-khau-bi-mat", "cus-7", "Nguyễn Nam"); err != nil {
		t.Fatalf("SeedAccount returned error: %v", err)
	}

	resp, err := client.Login(context.Background(), "nam", "mat-khau-bi-mat")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token")
	}

	sess, err := session.FromToken(resp.AccessToken, config.SessionConfig{JWTSecret: "stub-secret", JWTIssuer: "garage"})
	if err != nil {
		t.Fatalf("FromToken returned error: %v", err)
	}
	if !sess.Authenticated || sess.CustomerID != "cus-7" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if _, err := client.Login(context.Background(), "nam", "wrong"); err == nil {
		t.Fatal("expected error for bad password")
	}
}

// End-to-end run: the dispatcher and payment flow drive the stub over real
// HTTP and the page mirrors land on the stub's totals.
func TestDispatcherAndFlowAgainstStub(t *testing.T) {
	stub, client := startStub(t)
	ctx := context.Background()

	nav := &recordingNavigator{}
	alerter := &recordingAlerter{}
	gate := session.NewGate(session.Session{Authenticated: true, CustomerID: "cus-1"}, client, nav, "/login", nil)

	page := view.NewMemoryPage()
	counter := &view.TextCounter{}
	page.AddCounter(counter)
	page.AddRow(view.RowID("sp-1"))
	engine := view.NewEngine(page, money.NewFormatter("vi"), nil)

	dispatcher := cart.NewDispatcher(cart.Params{
		Client:    client,
		Gate:      gate,
		Engine:    engine,
		Confirmer: approvingConfirmer{},
		Alerter:   alerter,
		Messages:  ui.DefaultMessages(),
	})

	require.NoError(t, dispatcher.AddToCart(ctx, "sp-1", "Lốp xe", decimal.NewFromInt(250000)))
	require.NoError(t, dispatcher.UpdateCart(ctx, "sp-1", "3"))
	require.Equal(t, "3", counter.Text())

	flow := payment.NewFlow(payment.Params{
		Client:    client,
		Gate:      gate,
		Confirmer: approvingConfirmer{},
		Alerter:   alerter,
		Navigator: nav,
		Messages:  ui.DefaultMessages(),
	})

	outcome, err := flow.Pay(ctx, payment.SparePartOrder())
	require.NoError(t, err)
	require.Equal(t, payment.OutcomeRedirected, outcome)
	require.Len(t, nav.redirects, 1)
	require.Contains(t, nav.redirects[0], "vnp_SecureHash=")

	require.NoError(t, dispatcher.DeleteCart(ctx, "sp-1"))
	require.Equal(t, "0", counter.Text())
	require.Empty(t, stub.CartItemIDs())
}
