package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/courseforge/monetize/internal/cache"
	"github.com/courseforge/monetize/internal/config"
	"github.com/courseforge/monetize/internal/domain/catalog"
	"github.com/courseforge/monetize/internal/domain/coupon"
	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/domain/referral"
	"github.com/courseforge/monetize/internal/logger"
	"github.com/courseforge/monetize/internal/repository"
	"github.com/courseforge/monetize/internal/types"
	"github.com/courseforge/monetize/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PlanRepo            plan.Repository
	CouponRepo          coupon.Repository
	ReferralProgramRepo referral.ProgramRepository
	ReferralRepo        referral.Repository
	CatalogRepo         catalog.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	cache.Initialize(cfg, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PlanRepo:            repository.NewInMemoryPlanStore(),
		CouponRepo:          repository.NewInMemoryCouponStore(),
		ReferralProgramRepo: repository.NewInMemoryReferralProgramStore(),
		ReferralRepo:        repository.NewInMemoryReferralStore(),
		CatalogRepo:         repository.NewInMemoryCatalogStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PlanRepo.(*repository.InMemoryPlanStore).Clear()
	s.stores.CouponRepo.(*repository.InMemoryCouponStore).Clear()
	s.stores.ReferralProgramRepo.(*repository.InMemoryReferralProgramStore).Clear()
	s.stores.ReferralRepo.(*repository.InMemoryReferralStore).Clear()
	cache.GetInMemoryCache().Flush(s.ctx)
}

// ClearStores resets every store mid-test
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetNow returns the current test time in UTC
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetCatalog returns the catalog store for seeding test data
func (s *BaseServiceTestSuite) GetCatalog() *repository.InMemoryCatalogStore {
	return s.stores.CatalogRepo.(*repository.InMemoryCatalogStore)
}
