package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	cartapi "github.com/piorhaii05/eatup/internal/cart/infra/httpapi"
	followupapp "github.com/piorhaii05/eatup/internal/followup/app"
	followupmq "github.com/piorhaii05/eatup/internal/followup/infra/rabbitmq"
	voucherapi "github.com/piorhaii05/eatup/internal/voucher/infra/httpapi"
	"github.com/piorhaii05/eatup/pkg/apiclient"
	"github.com/piorhaii05/eatup/pkg/config"
	"github.com/piorhaii05/eatup/pkg/logger"
	"github.com/piorhaii05/eatup/pkg/shutdown"
)

// followupd drains the follow-up queue that eatupd publishes to when a
// broker is configured.
func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "followupd", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	if cfg.RabbitMQURL == "" {
		log.Error("RABBITMQ_URL is required")
		os.Exit(1)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Error("rabbitmq connect failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Error("rabbitmq channel failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := followupmq.DeclareQueue(ch, cfg.RabbitMQQueue); err != nil {
		log.Error("queue declare failed", slog.Any("err", err), slog.String("queue", cfg.RabbitMQQueue))
		os.Exit(1)
	}
	_ = ch.Close()

	token := cfg.FollowupAPIToken
	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithTokenSource(func(context.Context) string { return token }),
		apiclient.WithLogger(log),
	)

	// Process is used directly; the runner's own queue stays idle here.
	runner := followupapp.NewRunner(
		followupapp.NewExecutor(cartapi.NewCartAPI(client), voucherapi.NewVoucherAPI(client)),
		followupapp.RunnerOptions{MaxAttempts: cfg.FollowupMaxAttempt},
		log,
	)

	var wg sync.WaitGroup
	for i := range max(cfg.FollowupWorkers, 1) {
		w, err := followupmq.NewWorker(i+1, conn, cfg.RabbitMQQueue, runner, log)
		if err != nil {
			log.Error("worker start failed", slog.Any("err", err))
			cancel()
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				log.Error("worker stopped", slog.Any("err", err))
			}
		}()
	}
	log.Info("workers started", slog.Int("workers", cfg.FollowupWorkers), slog.String("queue", cfg.RabbitMQQueue))

	<-ctx.Done()
	log.Info("shutdown requested")

	drained := shutdown.Graceful(10*time.Second, func(context.Context) { wg.Wait() }, func() { _ = conn.Close() })
	if !drained {
		log.Warn("graceful stop timeout, connection closed")
		wg.Wait()
	}
	log.Info("bye")
}
