package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	v1 "github.com/courseforge/monetize/internal/api/v1"
	"github.com/courseforge/monetize/internal/config"
	"github.com/courseforge/monetize/internal/logger"
	"github.com/courseforge/monetize/internal/rest/middleware"
	"github.com/courseforge/monetize/internal/types"
)

type Handlers struct {
	Plan       *v1.PlanHandler
	Coupon     *v1.CouponHandler
	Referral   *v1.ReferralHandler
	Validation *v1.ValidationHandler
	Catalog    *v1.CatalogHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeLocal {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.PUT("/:id", handlers.Plan.UpdatePlan)
		plans.DELETE("/:id", handlers.Plan.DeletePlan)
		plans.POST("/:id/default", handlers.Plan.SetDefaultPlan)
	}

	coupons := router.Group("/coupons")
	{
		coupons.POST("", handlers.Coupon.CreateCoupon)
		coupons.GET("", handlers.Coupon.ListCoupons)
		coupons.POST("/preview", handlers.Coupon.PreviewDiscount)
		coupons.GET("/:id", handlers.Coupon.GetCoupon)
		coupons.PUT("/:id", handlers.Coupon.UpdateCoupon)
		coupons.DELETE("/:id", handlers.Coupon.DeleteCoupon)
	}

	programs := router.Group("/referral-programs")
	{
		programs.POST("", handlers.Referral.CreateProgram)
		programs.GET("", handlers.Referral.ListPrograms)
		programs.GET("/:id", handlers.Referral.GetProgram)
		programs.PUT("/:id", handlers.Referral.UpdateProgram)
		programs.DELETE("/:id", handlers.Referral.DeleteProgram)
		programs.POST("/:id/default", handlers.Referral.SetDefaultProgram)
		programs.GET("/:id/progress", handlers.Referral.ReferrerProgress)
	}

	referrals := router.Group("/referrals")
	{
		referrals.POST("", handlers.Referral.CreateReferral)
		referrals.POST("/:id/convert", handlers.Referral.ConvertReferral)
		referrals.POST("/:id/complete-vesting", handlers.Referral.CompleteVesting)
		referrals.POST("/:id/forfeit", handlers.Referral.ForfeitReferral)
	}

	router.POST("/validate", handlers.Validation.ValidateConfiguration)

	catalog := router.Group("/catalog")
	{
		catalog.GET("/courses", handlers.Catalog.ListCourses)
		catalog.GET("/courses/:id/sessions", handlers.Catalog.ListSessions)
		catalog.GET("/sessions/:id/levels", handlers.Catalog.ListLevels)
	}
}
