package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/monetize/internal/domain/coupon"
	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/domain/referral"
	"github.com/courseforge/monetize/internal/testutil"
	"github.com/courseforge/monetize/internal/types"
)

type PricingValidationSuite struct {
	testutil.BaseServiceTestSuite
	service PricingValidationService
}

func TestPricingValidation(t *testing.T) {
	suite.Run(t, new(PricingValidationSuite))
}

func (s *PricingValidationSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewPricingValidationService(ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		PlanRepo:            stores.PlanRepo,
		CouponRepo:          stores.CouponRepo,
		ReferralProgramRepo: stores.ReferralProgramRepo,
		ReferralRepo:        stores.ReferralRepo,
		CatalogRepo:         stores.CatalogRepo,
	})
}

func (s *PricingValidationSuite) money(amount int64) types.Money {
	return types.Money{Amount: decimal.NewFromInt(amount), Currency: "inr"}
}

func (s *PricingValidationSuite) subscriptionPlan(name string) *plan.PaymentPlan {
	return &plan.PaymentPlan{
		ID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_PLAN),
		CourseID: "course_1",
		Name:     name,
		Type:     types.PlanTypeSubscription,
		Currency: "inr",
		Config: plan.SubscriptionConfig{
			Tiers: []plan.TierPrice{
				{Name: types.SubscriptionTierMonthly, Enabled: true, Price: "499"},
			},
		},
	}
}

func (s *PricingValidationSuite) TestPaidCourseWithoutPlansIsIncomplete() {
	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
	})

	s.False(report.IsValid)
	s.Equal(types.ConfigurationStatusIncomplete, report.Status)
	s.Equal(types.ErrorKindNoActivePlan, report.ErrorsByField["paymentModels"].Kind)
}

func (s *PricingValidationSuite) TestPaidCourseWithValidPlanIsComplete() {
	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
		Plans:          []*plan.PaymentPlan{s.subscriptionPlan("Monthly")},
	})

	s.True(report.IsValid)
	s.Equal(types.ConfigurationStatusComplete, report.Status)
	s.Empty(report.Errors)
}

func (s *PricingValidationSuite) TestFreeCourseIsAlwaysComplete() {
	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypeFree,
	})

	s.True(report.IsValid)
	s.Equal(types.ConfigurationStatusComplete, report.Status)
}

func (s *PricingValidationSuite) TestSubscriptionPlanWithoutSellableTier() {
	p := s.subscriptionPlan("Monthly")
	p.Config = plan.SubscriptionConfig{
		Tiers: []plan.TierPrice{
			{Name: types.SubscriptionTierMonthly, Enabled: false, Price: "499"},
		},
	}

	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
		Plans:          []*plan.PaymentPlan{p},
	})

	s.False(report.IsValid)
	s.Equal(types.ConfigurationStatusError, report.Status)
	s.Contains(report.ErrorsByField, "plans[0].subscriptionPlans")
}

func (s *PricingValidationSuite) TestUpfrontPlanChecks() {
	due1 := time.Now().UTC().AddDate(0, 1, 0)
	due2 := due1.AddDate(0, 1, 0)
	due3 := due2.AddDate(0, 1, 0)

	p := &plan.PaymentPlan{
		ID:       "plan_upfront",
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Config: plan.UpfrontConfig{
			FullPrice:           s.money(0),
			InstallmentsEnabled: true,
			InstallmentPlans: []plan.InstallmentPlan{
				{
					ID:               "inst_1",
					NumberOfPayments: 3,
					AmountPerPayment: s.money(5000),
					DueDates:         []time.Time{due1, due2, due3},
				},
			},
			LateFee: plan.LateFeePolicy{Type: types.LateFeeTypeFixed},
		},
	}

	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
		Plans:          []*plan.PaymentPlan{p},
	})

	s.False(report.IsValid)
	s.Equal(types.ErrorKindOutOfRange, report.ErrorsByField["plans[0].fullPrice"].Kind)
	// Fixed late fee without an amount
	s.Contains(report.ErrorsByField, "plans[0].lateFee")
}

func (s *PricingValidationSuite) TestInstallmentTotalBoundSurfacesPrefixed() {
	due1 := time.Now().UTC().AddDate(0, 1, 0)
	due2 := due1.AddDate(0, 1, 0)

	p := &plan.PaymentPlan{
		ID:       "plan_upfront",
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Config: plan.UpfrontConfig{
			FullPrice:           s.money(10000),
			InstallmentsEnabled: true,
			InstallmentPlans: []plan.InstallmentPlan{
				{
					ID:               "inst_1",
					NumberOfPayments: 2,
					AmountPerPayment: s.money(9000),
					DueDates:         []time.Time{due1, due2},
				},
			},
		},
	}

	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
		Plans:          []*plan.PaymentPlan{p},
	})

	s.False(report.IsValid)
	fe := report.ErrorsByField["plans[0].installmentPlans[0].installmentTotal"]
	s.Equal(types.ErrorKindSanityBoundExceeded, fe.Kind)
}

func (s *PricingValidationSuite) TestFreeEnrollmentDonationTokens() {
	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:                 "course_1",
		EnrollmentType:           types.EnrollmentTypeFree,
		DonationsEnabled:         true,
		SuggestedDonationAmounts: "100, 250, abc, -5",
	})

	// Two bad tokens, one finding each
	s.False(report.IsValid)
	s.Len(report.Errors, 2)
	s.Equal(types.ErrorKindOutOfRange, report.ErrorsByField["donationAmounts"].Kind)

	// Free enrollment still reports complete even with donation findings
	s.Equal(types.ConfigurationStatusComplete, report.Status)
}

func (s *PricingValidationSuite) TestDonationTokensIgnoredWhenDonationsDisabled() {
	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:                 "course_1",
		EnrollmentType:           types.EnrollmentTypeFree,
		DonationsEnabled:         false,
		SuggestedDonationAmounts: "abc",
	})

	s.True(report.IsValid)
}

func (s *PricingValidationSuite) TestCouponFindingsArePrefixed() {
	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
		Plans:          []*plan.PaymentPlan{s.subscriptionPlan("Monthly")},
		Coupons: []*coupon.DiscountCoupon{
			{ID: "coupon_1", Code: "", Type: types.CouponTypePercentage, Value: decimal.NewFromInt(150)},
		},
	})

	s.False(report.IsValid)
	s.Equal(types.ErrorKindMissingRequiredField, report.ErrorsByField["coupons[0].couponCode"].Kind)
	s.Equal(types.ErrorKindOutOfRange, report.ErrorsByField["coupons[0].couponValue"].Kind)
}

func (s *PricingValidationSuite) TestReferralFindingsArePrefixed() {
	program := &referral.ReferralProgram{
		ID:            "prog_1",
		CourseID:      "course_1",
		Label:         "Drive",
		RefereeReward: referral.DiscountPercentageReward{Value: decimal.NewFromInt(10)},
		ReferrerRewards: []referral.ReferrerTier{
			{ID: "tier_1", TierName: "A", ReferralCount: 5, Reward: referral.FreeDaysReward{Days: 5}},
			{ID: "tier_2", TierName: "B", ReferralCount: 5, Reward: referral.FreeDaysReward{Days: 10}},
		},
	}

	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:         "course_1",
		EnrollmentType:   types.EnrollmentTypePaid,
		Plans:            []*plan.PaymentPlan{s.subscriptionPlan("Monthly")},
		ReferralPrograms: []*referral.ReferralProgram{program},
	})

	s.False(report.IsValid)
	fe := report.ErrorsByField["referralPrograms[0].referrerRewards[1]"]
	s.Equal(types.ErrorKindDuplicateThreshold, fe.Kind)
}

func (s *PricingValidationSuite) TestAllCategoriesSurfaceInOnePass() {
	p := s.subscriptionPlan("")
	p.Config = plan.SubscriptionConfig{}

	report := s.service.ValidateConfiguration(s.GetContext(), CourseMonetizationConfig{
		CourseID:       "course_1",
		EnrollmentType: types.EnrollmentTypePaid,
		Plans:          []*plan.PaymentPlan{p},
		Coupons: []*coupon.DiscountCoupon{
			{ID: "coupon_1", Code: "SAVE", Type: types.CouponTypePercentage, Value: decimal.Zero},
		},
		ReferralPrograms: []*referral.ReferralProgram{
			{ID: "prog_1", CourseID: "course_1"},
		},
	})

	s.False(report.IsValid)
	s.Equal(types.ConfigurationStatusError, report.Status)
	s.Contains(report.ErrorsByField, "plans[0].name")
	s.Contains(report.ErrorsByField, "plans[0].subscriptionPlans")
	s.Contains(report.ErrorsByField, "coupons[0].couponValue")
	s.Contains(report.ErrorsByField, "referralPrograms[0].programLabel")
	s.Contains(report.ErrorsByField, "referralPrograms[0].refereeReward")
}
