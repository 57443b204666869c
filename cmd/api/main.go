package main

import (
	"context"
	stderrors "errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"reuseu/internal/adapter/api"
	"reuseu/internal/adapter/api/handler"
	apimiddleware "reuseu/internal/adapter/api/middleware"
	"reuseu/internal/adapter/api/router"
	"reuseu/internal/adapter/repository"
	"reuseu/internal/domain/service"
	"reuseu/internal/infrastructure/metrics"
	"reuseu/internal/infrastructure/openai"
	"reuseu/internal/infrastructure/ratelimit"
	"reuseu/internal/infrastructure/storage"
	"reuseu/internal/infrastructure/websocket"
	"reuseu/internal/usecase"
	"reuseu/pkg/config"
	"reuseu/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, flush := logger.Init(cfg.Environment)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := &platform{cfg: cfg, log: zl}
	defer func() {
		if err := p.Close(); err != nil {
			zl.Warn("closing clients", zap.Error(err))
		}
	}()

	store, err := p.treeStore(ctx)
	if err != nil {
		zl.Fatal("tree store", zap.Error(err))
	}
	listingImages, pictures, err := p.blobStores(ctx)
	if err != nil {
		zl.Fatal("blob store", zap.Error(err))
	}
	auditRepo, err := p.auditRepository(ctx, store)
	if err != nil {
		zl.Fatal("audit log", zap.Error(err))
	}
	provider, err := p.tokenProvider(ctx)
	if err != nil {
		zl.Fatal("token verifier", zap.Error(err))
	}

	m := metrics.New()
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := m.Register(registry); err != nil {
		zl.Fatal("registering metrics", zap.Error(err))
	}

	accountRepo := repository.NewTreeAccountRepository(store)
	listingRepo := repository.NewTreeListingRepository(store)
	reviewRepo := repository.NewTreeReviewRepository(store)
	reportRepo := repository.NewTreeReportRepository(store)
	cascadeRepo := repository.NewTreeCascadeRepository(store)
	chatRepo := repository.NewTreeChatRepository(store)
	transactionRepo := repository.NewTreeTransactionRepository(store)

	admins := service.NewAdminGate(cfg.AdminUIDs)
	if len(cfg.AdminUIDs) == 0 {
		zl.Warn("no admin subjects configured; moderation endpoints will refuse everyone")
	}
	verifier := service.NewIdentityVerifier(provider, cfg.TokenClockSkew)

	wsManager := websocket.NewManager(zl.Named("ws"))

	var oracle service.PriceOracle
	if cfg.OpenAIAPIKey != "" {
		oracle = openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		zl.Warn("OPENAI_API_KEY not set; price suggestions are disabled")
	}

	sessionUseCase := usecase.NewSessionUseCase(verifier, accountRepo, m, zl.Named("session"))
	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo, admins, wsManager, zl.Named("chat"))
	useCases := handler.UseCases{
		Accounts: usecase.NewAccountUseCase(accountRepo, pictures, admins, zl.Named("account")),
		Listings: usecase.NewListingUseCase(usecase.ListingDeps{
			Listings:   listingRepo,
			Reports:    reportRepo,
			Cascade:    cascadeRepo,
			Images:     listingImages,
			Compressor: storage.NewJPEGCompressor(),
			ImageMaxKB: cfg.ImageMaxKB,
			Admins:     admins,
			Log:        zl.Named("listing"),
		}),
		Reviews: usecase.NewReviewUseCase(reviewRepo, listingRepo, admins, zl.Named("review")),
		Reports: usecase.NewReportUseCase(usecase.ReportDeps{
			Reports:  reportRepo,
			Listings: listingRepo,
			Cascade:  cascadeRepo,
			Images:   listingImages,
			Audit:    auditRepo,
			Admins:   admins,
			Metrics:  m,
			Log:      zl.Named("moderation"),
		}),
		Chats:        chatUseCase,
		Transactions: usecase.NewTransactionUseCase(transactionRepo, listingRepo, admins, zl.Named("transaction")),
		Prices:       usecase.NewPriceUseCase(oracle, ratelimit.PerMinute(cfg.PriceLimitPerMinute), m, zl.Named("price")),
	}

	httpLimiter := ratelimit.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	wsLimiter := ratelimit.NewRateLimiter(rate.Limit(2), 10)
	go httpLimiter.Cleanup(ctx, 10*time.Minute, time.Hour)
	go wsLimiter.Cleanup(ctx, 10*time.Minute, time.Hour)

	dispatcher := websocket.NewDispatcher(wsManager, chatUseCase, wsLimiter, zl.Named("ws"))
	wsHandler := handler.NewWebSocketHandler(sessionUseCase, wsManager, dispatcher, cfg.CORSOrigins, zl.Named("ws"))
	handlers := handler.Setup(useCases, wsHandler)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()

	e.Use(middleware.Recover())
	e.Use(apimiddleware.RequestLogger(zl.Named("http"), m))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(middleware.BodyLimit("12M"))
	e.Use(apimiddleware.RateLimit(httpLimiter, zl.Named("ratelimit")))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.Setup(e, handlers,
		apimiddleware.NewAuthMiddleware(sessionUseCase),
		apimiddleware.NewAdminMiddleware(admins))

	go func() {
		zl.Info("starting server", zap.String("port", cfg.ServerPort), zap.String("environment", cfg.Environment))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
