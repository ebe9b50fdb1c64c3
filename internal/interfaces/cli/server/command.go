package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/clubgate/clubgate/internal/application/billing"
	paymentUsecases "github.com/clubgate/clubgate/internal/application/payment/usecases"
	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	subscriptionUsecases "github.com/clubgate/clubgate/internal/application/subscription/usecases"
	"github.com/clubgate/clubgate/internal/infrastructure/config"
	"github.com/clubgate/clubgate/internal/infrastructure/database"
	"github.com/clubgate/clubgate/internal/infrastructure/email"
	"github.com/clubgate/clubgate/internal/infrastructure/gateway/yookassa"
	"github.com/clubgate/clubgate/internal/infrastructure/migration"
	"github.com/clubgate/clubgate/internal/infrastructure/ratelimit"
	"github.com/clubgate/clubgate/internal/infrastructure/repository"
	"github.com/clubgate/clubgate/internal/infrastructure/scheduler"
	"github.com/clubgate/clubgate/internal/infrastructure/telegram"
	httpRouter "github.com/clubgate/clubgate/internal/interfaces/http"
	"github.com/clubgate/clubgate/internal/interfaces/http/handlers"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server and background loops",
		Long:  `Start the ClubGate HTTP server together with the payment reaper, expiry enforcement and reminder loops.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.NewLogger()

	log.Infow("starting server", "environment", env)

	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.Get()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production, this is not recommended")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(db, migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Infow("auto-migration completed")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	linkRepo := repository.NewInviteLinkRepository(db)
	eventRepo := repository.NewProcessedEventRepository(db)
	promoRepo := repository.NewPromoWindowRepository(db)

	bot := telegram.NewBotService(cfg.Telegram)
	notifier := telegram.NewNotifier(bot)
	gateway := yookassa.NewClient(cfg.Gateway)
	alerts := email.NewSMTPAlertService(cfg.Email)
	rateLimiter := ratelimit.NewRedisRateLimiter(redisClient)

	pricing, err := billing.NewPricingService(promoRepo, cfg.Billing, log)
	if err != nil {
		return fmt.Errorf("failed to initialize pricing: %w", err)
	}

	granter := appsub.NewAccessGranter(subRepo, linkRepo, bot, notifier, log)

	linkTTL := time.Duration(cfg.Billing.PaymentLinkTTLMinutes) * time.Minute
	reaperCeiling := time.Duration(cfg.Billing.PaymentReaperCeilingHours) * time.Hour
	retryInterval := time.Duration(cfg.Billing.AutoRenewalRetryHours) * time.Hour

	createPaymentUC := paymentUsecases.NewCreatePaymentUseCase(
		userRepo, paymentRepo, pricing, gateway, log,
		cfg.Billing.CustomerReceiptEmail, linkTTL)
	succeededUC := paymentUsecases.NewHandlePaymentSucceededUseCase(
		eventRepo, paymentRepo, gateway, granter, pricing, log)
	canceledUC := paymentUsecases.NewHandlePaymentCanceledUseCase(
		eventRepo, paymentRepo, subRepo, linkRepo, bot, notifier, alerts, log,
		cfg.Billing.AutoRenewalMaxAttempts)
	refundUC := paymentUsecases.NewHandleRefundSucceededUseCase(
		eventRepo, paymentRepo, subRepo, linkRepo, bot, notifier, alerts, log)
	expirePaymentsUC := paymentUsecases.NewExpirePaymentsUseCase(
		paymentRepo, subRepo, gateway, succeededUC, canceledUC, notifier, log, linkTTL, reaperCeiling)
	processExpiredUC := subscriptionUsecases.NewProcessExpiredUseCase(
		subRepo, paymentRepo, linkRepo, pricing, gateway, bot, notifier,
		succeededUC, canceledUC, log,
		subscriptionUsecases.ProcessExpiredConfig{
			MaxAttempts:    cfg.Billing.AutoRenewalMaxAttempts,
			RetryInterval:  retryInterval,
			Cooldown:       time.Duration(cfg.Scheduler.UserCooldownSeconds) * time.Second,
			CooldownMaxIDs: cfg.Scheduler.DedupCacheSize,
			ReceiptEmail:   cfg.Billing.CustomerReceiptEmail,
		})
	remindExpiringUC := subscriptionUsecases.NewRemindExpiringUseCase(
		subRepo, notifier, log,
		subscriptionUsecases.RemindExpiringConfig{
			Offset:      time.Duration(cfg.Scheduler.ExpiringSoonOffsetHours) * time.Hour,
			Tolerance:   time.Duration(cfg.Scheduler.ExpiringSoonToleranceMinutes) * time.Minute,
			DedupMaxIDs: cfg.Scheduler.DedupCacheSize,
		})
	getStatusUC := subscriptionUsecases.NewGetStatusUseCase(subRepo, log, cfg.Billing.AutoRenewalMaxAttempts)

	router := httpRouter.NewRouter(
		handlers.NewHealthHandler(db),
		handlers.NewPaymentHandler(createPaymentUC, log),
		handlers.NewSubscriptionHandler(getStatusUC, log),
		handlers.NewWebhookHandler(succeededUC, canceledUC, refundUC, log),
		handlers.NewAdminHandler(pricing, log),
		rateLimiter,
		cfg,
		log,
	)
	router.SetupRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paymentSched := scheduler.NewPaymentScheduler(expirePaymentsUC, log,
		time.Duration(cfg.Scheduler.PaymentReaperIntervalSeconds)*time.Second)
	subscriptionSched := scheduler.NewSubscriptionScheduler(processExpiredUC, log,
		time.Duration(cfg.Scheduler.ExpiryIntervalSeconds)*time.Second)
	reminderSched := scheduler.NewReminderScheduler(remindExpiringUC, log,
		time.Duration(cfg.Scheduler.ReminderIntervalMinutes)*time.Minute)

	paymentSched.Start(ctx)
	subscriptionSched.Start(ctx)
	reminderSched.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Infow("shutting down server...")

	paymentSched.Stop()
	subscriptionSched.Stop()
	reminderSched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
