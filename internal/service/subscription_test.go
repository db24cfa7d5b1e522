package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/testutil"
	"github.com/courseforge/monetize/internal/types"
)

type SubscriptionCatalogSuite struct {
	testutil.BaseServiceTestSuite
	service SubscriptionCatalogService
}

func TestSubscriptionCatalogService(t *testing.T) {
	suite.Run(t, new(SubscriptionCatalogSuite))
}

func (s *SubscriptionCatalogSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSubscriptionCatalogService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
	})
}

func (s *SubscriptionCatalogSuite) TestListEnabledTiersRequiresEnabledAndPriced() {
	cfg := plan.SubscriptionConfig{
		Tiers: []plan.TierPrice{
			{Name: types.SubscriptionTierMonthly, Enabled: true, Price: "499"},
			{Name: types.SubscriptionTierQuarterly, Enabled: true, Price: ""},
			{Name: types.SubscriptionTierHalfYearly, Enabled: true, Price: "0"},
			{Name: types.SubscriptionTierAnnual, Enabled: false, Price: "4999"},
		},
	}

	tiers := s.service.ListEnabledTiers(cfg)

	s.Len(tiers, 1)
	s.Equal(types.SubscriptionTierMonthly.String(), tiers[0].Label)
	s.True(tiers[0].Price.Equal(decimal.NewFromInt(499)))
}

func (s *SubscriptionCatalogSuite) TestListEnabledTiersUnparseablePriceExcluded() {
	cfg := plan.SubscriptionConfig{
		Tiers: []plan.TierPrice{
			{Name: types.SubscriptionTierMonthly, Enabled: true, Price: "abc"},
			{Name: types.SubscriptionTierAnnual, Enabled: true, Price: "-100"},
		},
	}

	s.Empty(s.service.ListEnabledTiers(cfg))
}

func (s *SubscriptionCatalogSuite) TestListEnabledTiersIncludesCustomIntervals() {
	cfg := plan.SubscriptionConfig{
		CustomIntervals: []plan.CustomInterval{
			{Value: 2, Unit: types.CustomIntervalUnitWeeks, Price: "299"},
			{Value: 45, Unit: types.CustomIntervalUnitDays, Price: "bad"},
		},
	}

	tiers := s.service.ListEnabledTiers(cfg)

	s.Len(tiers, 1)
	s.True(tiers[0].IsCustom)
	s.Equal("every 2 weeks", tiers[0].Label)
}

func (s *SubscriptionCatalogSuite) TestValidateNoActiveTier() {
	cfg := plan.SubscriptionConfig{
		Tiers: []plan.TierPrice{
			{Name: types.SubscriptionTierMonthly, Enabled: false, Price: "499"},
		},
	}

	result := s.service.Validate(cfg)

	s.False(result.IsValid())
	s.Equal(types.ErrorKindNoActivePlan, result.Errors[0].Kind)
	s.Equal("subscriptionPlans", result.Errors[0].Field)
}

func (s *SubscriptionCatalogSuite) TestValidatePassesWithOneActiveTier() {
	cfg := plan.SubscriptionConfig{
		Tiers: []plan.TierPrice{
			{Name: types.SubscriptionTierMonthly, Enabled: true, Price: "499"},
		},
	}

	s.True(s.service.Validate(cfg).IsValid())
}

func (s *SubscriptionCatalogSuite) TestEnsureDefaultsBackfillsFixedTiers() {
	cfg := s.service.EnsureDefaults(plan.SubscriptionConfig{})

	s.Len(cfg.Tiers, 4)
	for i, name := range types.FixedSubscriptionTiers {
		s.Equal(name, cfg.Tiers[i].Name)
		s.False(cfg.Tiers[i].Enabled)
		s.Empty(cfg.Tiers[i].Price)
	}
}

func (s *SubscriptionCatalogSuite) TestEnsureDefaultsPreservesExistingTiers() {
	cfg := s.service.EnsureDefaults(plan.SubscriptionConfig{
		Tiers: []plan.TierPrice{
			{Name: types.SubscriptionTierQuarterly, Enabled: true, Price: "1299"},
		},
		AutoRenew: true,
	})

	s.Len(cfg.Tiers, 4)
	s.True(cfg.AutoRenew)

	for _, tier := range cfg.Tiers {
		if tier.Name == types.SubscriptionTierQuarterly {
			s.True(tier.Enabled)
			s.Equal("1299", tier.Price)
		} else {
			s.False(tier.Enabled)
		}
	}
}
