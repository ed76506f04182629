package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/cart"
	"github.com/garage-vn/storefront/internal/comments"
	"github.com/garage-vn/storefront/internal/payment"
	"github.com/garage-vn/storefront/internal/session"
	"github.com/garage-vn/storefront/internal/ui"
	"github.com/garage-vn/storefront/internal/ui/term"
	"github.com/garage-vn/storefront/internal/vehicles"
	"github.com/garage-vn/storefront/internal/view"
	"github.com/garage-vn/storefront/pkg/config"
	"github.com/garage-vn/storefront/pkg/logger"
	"github.com/garage-vn/storefront/pkg/metrics"
	"github.com/garage-vn/storefront/pkg/money"
)

// app bundles the wired flows. Logging in swaps the session, so everything
// downstream of the gate is rebuilt from here.
type app struct {
	cfg      *config.Config
	logg     *logger.Logger
	client   *api.Client
	terminal *term.Terminal
	metrics  *metrics.ActionMetrics

	page       *view.MemoryPage
	counter    *view.TextCounter
	amount     *view.TextAmount
	dispatcher *cart.Dispatcher
	flow       *payment.Flow
	comments   *comments.Service
	picker     *vehicles.Picker
	dropdown   *optionPrinter
	session    session.Session
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := api.NewClient(cfg.Client.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.Client.HTTPTimeout}))
	if err != nil {
		logg.Error(context.Background(), "failed to build storefront client", err)
		os.Exit(1)
	}

	sess, err := session.FromToken(cfg.Session.Token, cfg.Session)
	if err != nil {
		logg.Warn(context.Background(), "session token rejected, starting anonymous: "+err.Error())
	}

	var actionMetrics *metrics.ActionMetrics
	if cfg.App.Metrics {
		actionMetrics = metrics.NewActionMetrics(prometheus.NewRegistry())
	}

	a := &app{
		cfg:      cfg,
		logg:     logg,
		client:   client,
		terminal: term.New(os.Stdin, os.Stdout),
		metrics:  actionMetrics,
	}
	a.rebuild(sess)

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)
	logg.Info(ctx, "storefront ready")
	a.repl(ctx)
}

// rebuild wires the page, gate and flows for the given session.
func (a *app) rebuild(sess session.Session) {
	a.session = sess

	a.page = view.NewMemoryPage()
	a.counter = &view.TextCounter{}
	a.amount = &view.TextAmount{}
	a.page.AddCounter(a.counter)
	a.page.SetAmountView(a.amount)

	engine := view.NewEngine(a.page, money.NewFormatter(a.cfg.App.Locale), a.logg)
	loginURL := strings.TrimRight(a.cfg.Client.BaseURL, "/") + a.cfg.Client.LoginPath
	gate := session.NewGate(sess, a.client, a.terminal, loginURL, a.logg)
	messages := ui.DefaultMessages()

	a.dispatcher = cart.NewDispatcher(cart.Params{
		Client:    a.client,
		Gate:      gate,
		Engine:    engine,
		Confirmer: a.terminal,
		Alerter:   a.terminal,
		Messages:  messages,
		Metrics:   a.metrics,
		Logger:    a.logg,
	})
	a.flow = payment.NewFlow(payment.Params{
		Client:    a.client,
		Gate:      gate,
		Confirmer: a.terminal,
		Alerter:   a.terminal,
		Navigator: a.terminal,
		Messages:  messages,
		Metrics:   a.metrics,
		Logger:    a.logg,
	})
	a.comments = comments.NewService(a.client, gate, a.logg)
	a.dropdown = &optionPrinter{out: os.Stdout}
	a.picker = vehicles.NewPicker(a.client, a.dropdown, messages, a.logg)
}

func (a *app) repl(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`Lệnh: login | add | update | delete | pay-cash | pay-repair | pay-order | comment | vehicles | show | exit`)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" {
			return
		}
		a.run(ctx, fields)
	}
}

func (a *app) run(ctx context.Context, fields []string) {
	var err error
	switch fields[0] {
	case "login":
		err = a.login(ctx, fields[1:])
	case "add":
		err = a.add(ctx, fields[1:])
	case "update":
		if len(fields) != 3 {
			err = fmt.Errorf("usage: update <id> <quantity>")
			break
		}
		err = a.dispatcher.UpdateCart(ctx, fields[1], fields[2])
	case "delete":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: delete <id>")
			break
		}
		err = a.dispatcher.DeleteCart(ctx, fields[1])
	case "pay-cash":
		repairFormID := ""
		if len(fields) > 1 {
			repairFormID = fields[1]
		}
		_, err = a.flow.Pay(ctx, payment.GenericCash(repairFormID))
	case "pay-repair":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: pay-repair <repair-form-id>")
			break
		}
		_, err = a.flow.Pay(ctx, payment.RepairFormInvoice(fields[1]))
	case "pay-order":
		_, err = a.flow.Pay(ctx, payment.SparePartOrder())
	case "comment":
		if len(fields) < 3 {
			err = fmt.Errorf("usage: comment <sparepart-id> <content>")
			break
		}
		err = a.comments.Submit(ctx, comments.Form{
			SparePartID: fields[1],
			Content:     strings.Join(fields[2:], " "),
		})
	case "vehicles":
		customerID := a.session.CustomerID
		if len(fields) > 1 {
			customerID = fields[1]
		}
		err = a.picker.Load(ctx, customerID, "")
	case "show":
		fmt.Printf("giỏ hàng: %s sản phẩm, tổng %s\n", orDash(a.counter.Text()), orDash(a.amount.Text()))
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		fmt.Println("lỗi:", err)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}
	resp, err := a.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	sess, err := session.FromToken(resp.AccessToken, a.cfg.Session)
	if err != nil {
		return err
	}
	a.rebuild(sess)
	fmt.Printf("đã đăng nhập: %s\n", sess.CustomerID)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: add <id> <name> <unit-price>")
	}
	price, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid unit price %q: %w", args[2], err)
	}
	a.page.AddRow(view.RowID(args[0]))
	return a.dispatcher.AddToCart(ctx, args[0], args[1], price)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// optionPrinter renders the vehicle dropdown as terminal lines.
type optionPrinter struct {
	out *os.File
}

func (p *optionPrinter) SetOptions(options []vehicles.Option) {
	for _, opt := range options {
		marker := " "
		if opt.Selected {
			marker = "*"
		}
		if opt.Disabled {
			fmt.Fprintf(p.out, "  %s (%s)\n", opt.Label, "không chọn được")
			continue
		}
		fmt.Fprintf(p.out, "%s %s [%s]\n", marker, opt.Label, opt.ID)
	}
}
