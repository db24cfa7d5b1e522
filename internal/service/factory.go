package service

import (
	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/config"
	"github.com/courseforge/monetize/internal/domain/catalog"
	"github.com/courseforge/monetize/internal/domain/coupon"
	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/domain/referral"
	"github.com/courseforge/monetize/internal/logger"
)

// percentCeiling bounds every percentage field in the engine
var percentCeiling = decimal.NewFromInt(100)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	PlanRepo            plan.Repository
	CouponRepo          coupon.Repository
	ReferralProgramRepo referral.ProgramRepository
	ReferralRepo        referral.Repository
	CatalogRepo         catalog.Repository
}

// NewServiceParams creates a ServiceParams with the given dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	planRepo plan.Repository,
	couponRepo coupon.Repository,
	referralProgramRepo referral.ProgramRepository,
	referralRepo referral.Repository,
	catalogRepo catalog.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              config,
		PlanRepo:            planRepo,
		CouponRepo:          couponRepo,
		ReferralProgramRepo: referralProgramRepo,
		ReferralRepo:        referralRepo,
		CatalogRepo:         catalogRepo,
	}
}
