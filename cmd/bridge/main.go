package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paybridge/gateway/internal/config"
	"github.com/paybridge/gateway/internal/gateway"
	"github.com/paybridge/gateway/internal/gateway/authorizenet"
	"github.com/paybridge/gateway/internal/gateway/innovative"
	"github.com/paybridge/gateway/internal/gateway/paypal"
	"github.com/paybridge/gateway/internal/gateway/stripe"
	"github.com/paybridge/gateway/internal/interfaces/rest"
	"github.com/paybridge/gateway/internal/interfaces/rest/middleware"
	"github.com/paybridge/gateway/internal/service"
	"github.com/paybridge/gateway/internal/store/postgres"
	"github.com/paybridge/gateway/internal/transport"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payment bridge",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	transactionRepo := postgres.NewTransactionRepository(db)

	senderCfg, err := cfg.Transport.SenderConfig()
	if err != nil {
		logger.Error("failed to build transport config", "error", err)
		os.Exit(1)
	}
	sender := transport.NewHTTPSender(senderCfg)

	registry := buildRegistry(cfg.Gateways, sender, logger)
	if len(registry.Names()) == 0 {
		logger.Error("no gateways configured, refusing to start")
		os.Exit(1)
	}
	logger.Info("gateways registered", "names", registry.Names())

	paymentService := service.NewPaymentService(registry, transactionRepo, logger)

	h := rest.NewHandler(paymentService, logger)
	router := http.Handler(h.Routes())

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// buildRegistry wires one adapter per configured credential block.
func buildRegistry(cfg config.GatewaysConfig, sender transport.Sender, logger *slog.Logger) *gateway.Registry {
	registry := gateway.NewRegistry()

	if cfg.AuthorizeNet.Login != "" {
		registry.Register("authorizenet", authorizenet.New(authorizenet.Config{
			Login:    cfg.AuthorizeNet.Login,
			TransKey: cfg.AuthorizeNet.TransKey,
			TestMode: cfg.AuthorizeNet.TestMode,
		}, sender, logger))
	}

	if cfg.Innovative.Username != "" {
		registry.Register("innovative", innovative.New(innovative.Config{
			Username: cfg.Innovative.Username,
			Password: cfg.Innovative.Password,
		}, sender, logger))
	}

	if cfg.PayPal.User != "" {
		registry.Register("paypal", paypal.New(paypal.Config{
			User:      cfg.PayPal.User,
			Password:  cfg.PayPal.Password,
			Signature: cfg.PayPal.Signature,
			TestMode:  cfg.PayPal.TestMode,
		}, sender, logger))
	}

	if cfg.Stripe.APIKey != "" {
		registry.Register("stripe", stripe.New(stripe.Config{
			APIKey:   cfg.Stripe.APIKey,
			Currency: cfg.Stripe.Currency,
		}, sender, logger))
	}

	return registry
}
