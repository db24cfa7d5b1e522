package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	playgroundValidator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/courseforge/monetize/internal/api"
	v1 "github.com/courseforge/monetize/internal/api/v1"
	"github.com/courseforge/monetize/internal/cache"
	"github.com/courseforge/monetize/internal/config"
	"github.com/courseforge/monetize/internal/logger"
	"github.com/courseforge/monetize/internal/repository"
	"github.com/courseforge/monetize/internal/service"
	"github.com/courseforge/monetize/internal/validator"
)

// @title Course Monetization API
// @version 1.0
// @description Pricing and rewards configuration engine for course monetization
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Local overrides for development; missing file is fine
	_ = godotenv.Load()

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,

			cache.Initialize,
			provideCache,

			// Repositories
			repository.NewPlanRepository,
			repository.NewCouponRepository,
			repository.NewReferralProgramRepository,
			repository.NewReferralRepository,
			repository.NewCatalogRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewInstallmentService,
			service.NewSubscriptionCatalogService,
			service.NewCouponService,
			service.NewReferralService,
			service.NewPlanService,
			service.NewPricingValidationService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			// request validation relies on the package-level instance
			func(*playgroundValidator.Validate) {},
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(c *cache.InMemoryCache) cache.Cache {
	return c
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	params service.ServiceParams,
	planService service.PlanService,
	couponService service.CouponService,
	referralService service.ReferralService,
	validationService service.PricingValidationService,
) api.Handlers {
	return api.Handlers{
		Plan:     v1.NewPlanHandler(planService, logger),
		Coupon:   v1.NewCouponHandler(couponService, logger),
		Referral: v1.NewReferralHandler(referralService, logger),
		Validation: v1.NewValidationHandler(
			validationService, planService, couponService, referralService, logger),
		Catalog: v1.NewCatalogHandler(params.CatalogRepo, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server at %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
