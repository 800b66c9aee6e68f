package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	accountapp "github.com/piorhaii05/eatup/internal/account/app"
	accountapi "github.com/piorhaii05/eatup/internal/account/infra/httpapi"

	cartapp "github.com/piorhaii05/eatup/internal/cart/app"
	cartapi "github.com/piorhaii05/eatup/internal/cart/infra/httpapi"

	checkoutapp "github.com/piorhaii05/eatup/internal/checkout/app"
	checkoutadapter "github.com/piorhaii05/eatup/internal/checkout/infra/adapter"
	checkoutapi "github.com/piorhaii05/eatup/internal/checkout/infra/httpapi"

	followupapp "github.com/piorhaii05/eatup/internal/followup/app"
	followupmq "github.com/piorhaii05/eatup/internal/followup/infra/rabbitmq"

	orderapp "github.com/piorhaii05/eatup/internal/order/app"
	orderapi "github.com/piorhaii05/eatup/internal/order/infra/httpapi"

	voucherapp "github.com/piorhaii05/eatup/internal/voucher/app"
	voucherapi "github.com/piorhaii05/eatup/internal/voucher/infra/httpapi"

	"github.com/piorhaii05/eatup/internal/httpserver"
	"github.com/piorhaii05/eatup/internal/session"
	"github.com/piorhaii05/eatup/pkg/apiclient"
	"github.com/piorhaii05/eatup/pkg/config"
	"github.com/piorhaii05/eatup/pkg/localstore"
	"github.com/piorhaii05/eatup/pkg/logger"
	"github.com/piorhaii05/eatup/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "eatupd",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	store, err := localstore.OpenBolt(cfg.StorePath)
	if err != nil {
		log.Error("store open failed", slog.Any("err", err), slog.String("path", cfg.StorePath))
		os.Exit(1)
	}
	defer store.Close()

	sessions := session.NewManager(store, log)
	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithTokenSource(sessions.Token),
		apiclient.WithLogger(log),
	)

	// Backend adapters
	cartAPI := cartapi.NewCartAPI(client)
	voucherAPI := voucherapi.NewVoucherAPI(client)
	accountAPI := accountapi.NewAccountAPI(client)
	historyAPI := orderapi.NewOrderAPI(client)

	// Follow-ups run in process; a configured broker takes them first.
	runner := followupapp.NewRunner(
		followupapp.NewExecutor(cartAPI, voucherAPI),
		followupapp.RunnerOptions{Workers: cfg.FollowupWorkers, MaxAttempts: cfg.FollowupMaxAttempt},
		log,
	)
	var queue followupapp.Queue = runner
	if cfg.RabbitMQURL != "" {
		pool, err := followupmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize, log)
		if err != nil {
			log.Warn("rabbitmq unavailable, follow-ups stay in process", slog.Any("err", err))
		} else {
			defer pool.Close()
			queue = followupapp.NewFallback(followupmq.NewPublisher(pool, cfg.RabbitMQQueue, log), runner, log)
		}
	}

	// Screens
	cartSvc := cartapp.NewService(cartAPI, sessions, cfg.MediaBaseURL, log)
	accountSvc := accountapp.NewService(accountAPI, log)
	selector := voucherapp.NewSelector(voucherAPI, sessions, store, cfg.SystemRestaurantID, log)
	orderSvc := orderapp.NewService(historyAPI, sessions, log)
	checkout := checkoutapp.NewOrchestrator(checkoutapp.Deps{
		Orders:   checkoutapi.NewOrderAPI(client),
		Payments: checkoutapi.NewPaymentAPI(client),
		Accounts: checkoutadapter.NewAccountServiceReader(accountSvc),
		Vouchers: checkoutadapter.NewStoredVoucherSource(store),
		Users:    sessions,
		Store:    store,
		After:    checkoutadapter.NewFollowupScheduler(queue),
	}, cfg.ShippingFee, log)

	router := httpserver.NewRouter(httpserver.Services{
		Sessions:  sessions,
		Cart:      cartSvc,
		Vouchers:  selector,
		Checkout:  checkout,
		Orders:    orderSvc,
		Accounts:  accountSvc,
		Selection: checkoutadapter.NewCartSelectionReader(cartSvc),
		Ready: func(context.Context) error {
			_, err := store.Read(session.StoreKey)
			return err
		},
	}, httpserver.Options{CORSOrigins: cfg.CORSOrigins, Log: log})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	runCtx, stopRunner := context.WithCancel(context.Background())
	defer stopRunner()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runner.Run(runCtx); err != nil {
			log.Error("follow-up runner error", slog.Any("err", err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	runner.Close()
	drained := shutdown.Graceful(10*time.Second, func(context.Context) { wg.Wait() }, stopRunner)
	if !drained {
		log.Warn("follow-up drain timeout, remaining tasks dropped")
		wg.Wait()
	}
	log.Info("bye")
}
