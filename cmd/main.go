package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"project_resident/internal/config"
	"project_resident/internal/infrastructure"
	"project_resident/internal/interfaces"
	api "project_resident/internal/interfaces/http"
	"project_resident/internal/logging"
	"project_resident/internal/repository"
	"project_resident/internal/usecases"
)

const (
	chatBurst       = 3
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgClient, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pgClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pgClient.Pool)
	businessRepo := repository.NewBusinessRepository(pgClient.Pool)
	portfolioRepo := repository.NewPortfolioRepository(pgClient.Pool)
	priceRepo := repository.NewPriceRepository(pgClient.Pool)
	requestRepo := repository.NewRequestRepository(pgClient.Pool)
	invoiceRepo := repository.NewInvoiceRepository(pgClient.Pool)
	conversationRepo := repository.NewConversationRepository(pgClient.Pool)
	inquiryRepo := repository.NewInquiryRepository(pgClient.Pool)
	statsRepo := repository.NewStatsRepository(pgClient.Pool)

	ttl, err := cfg.TokenTTL()
	if err != nil {
		return err
	}
	authUsecase := usecases.NewAuthUsecase(userRepo, businessRepo, cfg.Auth.JWTSecret, ttl)

	if cfg.Auth.AdminEmail != "" {
		created, err := authUsecase.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		switch {
		case err != nil:
			log.Warn("failed to ensure admin user", zap.Error(err))
		case created:
			log.Info("admin user created", zap.String("email", cfg.Auth.AdminEmail))
		}
	}

	// Owner notifications
	var notifiers infrastructure.MultiNotifier
	var telegramBot string
	if cfg.Notify.TelegramBotToken != "" {
		tg, err := infrastructure.NewTelegramNotifier(cfg.Notify.TelegramBotToken, log)
		if err != nil {
			log.Warn("telegram notifications disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
			telegramBot = tg.BotUsername()
			log.Info("telegram bot connected", zap.String("bot", telegramBot))
		}
	}

	var device interfaces.WhatsAppDevice
	if cfg.Notify.WhatsAppDeviceDB != "" {
		wa, err := infrastructure.NewWhatsAppDevice(ctx, cfg.Notify.WhatsAppDeviceDB, log)
		if err != nil {
			log.Warn("whatsapp notifications disabled", zap.Error(err))
		} else {
			defer wa.Close()
			if err := wa.Connect(ctx); err != nil {
				log.Warn("whatsapp connect failed", zap.Error(err))
			}
			notifiers = append(notifiers, wa)
			device = wa
		}
	}

	gateway, err := infrastructure.NewChatGateway(ctx, infrastructure.GatewayConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AITimeout(),
	})
	if err != nil {
		return fmt.Errorf("init ai gateway: %w", err)
	}
	if gateway == nil {
		log.Info("ai provider disabled, chat widget answers with a contact suggestion")
	}

	guard := infrastructure.NewConversationGuard()
	visitorLimiter := infrastructure.NewVisitorRateLimiter(cfg.RateLimit.ChatPerMinute, chatBurst)
	defer visitorLimiter.Close()

	handler := api.NewHandler(api.Deps{
		Auth:       authUsecase,
		Businesses: usecases.NewBusinessUsecase(businessRepo, portfolioRepo, priceRepo),
		Portfolio:  usecases.NewPortfolioUsecase(businessRepo, portfolioRepo),
		Prices:     usecases.NewPriceUsecase(businessRepo, priceRepo),
		Comparison: usecases.NewComparisonUsecase(businessRepo, priceRepo),
		Requests:   usecases.NewRequestUsecase(businessRepo, priceRepo, requestRepo, notifiers, log),
		Invoices:   usecases.NewInvoiceUsecase(businessRepo, requestRepo, invoiceRepo),
		Chat: usecases.NewChatService(usecases.ChatDeps{
			Businesses:    businessRepo,
			Prices:        priceRepo,
			Conversations: conversationRepo,
			Inquiries:     inquiryRepo,
			Gateway:       gateway,
			Guard:         guard,
			Limiter:       visitorLimiter,
			Notifier:      notifiers,
		}, log),
		Dashboard:   usecases.NewDashboardUsecase(businessRepo, statsRepo),
		WhatsApp:    device,
		TelegramBot: telegramBot,
	}, log)

	metrics := api.NewMetricsCollector(guard.InFlight, visitorLimiter.Active)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics,
	)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	middleware := api.NewMiddleware(cfg.Auth.JWTSecret, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	api.SetupRoutes(r, handler, middleware, api.RouteOptions{
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     metrics,
		Registry:    registry,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
