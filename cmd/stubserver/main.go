package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/garage-vn/storefront/internal/api"
	"github.com/garage-vn/storefront/internal/garagetest"
	"github.com/garage-vn/storefront/pkg/config"
	"github.com/garage-vn/storefront/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "stubserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	stub := garagetest.NewServer(cfg, logg)
	seedDemoData(stub, logg)

	addr := ":" + cfg.Stub.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting stub garage server")

	server := &http.Server{
		Addr:    addr,
		Handler: stub.Router(),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		timeoutCtx, cancel := context.WithTimeout(context.Background(), cfg.Stub.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			logg.Error(timeoutCtx, "stub server shutdown", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "stub server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// seedDemoData loads a small fixture set so the storefront CLI has something
// to work against out of the box.
func seedDemoData(stub *garagetest.Server, logg *logger.Logger) {
	if err := stub.SeedAccount("demo", "demo123", "cus-demo", "Khách Demo"); err != nil {
		logg.Error(context.Background(), "seeding demo account", err)
		os.Exit(1)
	}

	stub.SeedRepairForm("rf-1001", decimal.NewFromInt(480000))
	stub.SeedRepairForm("rf-1002", decimal.NewFromInt(1250000))

	stub.SeedVehicles("cus-demo",
		api.Vehicle{ID: "v-1", LicensePlate: "59A-123.45", VehicleType: "Xe máy"},
		api.Vehicle{ID: "v-2", LicensePlate: "51B-678.90", VehicleType: "Ô tô"},
	)
}
