package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/monetize/internal/api/dto"
	"github.com/courseforge/monetize/internal/domain/plan"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/testutil"
	"github.com/courseforge/monetize/internal/types"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewPlanService(ServiceParams{
		Logger:   s.GetLogger(),
		Config:   s.GetConfig(),
		PlanRepo: stores.PlanRepo,
	})
}

func (s *PlanServiceSuite) subscriptionRequest(name string) dto.CreatePlanRequest {
	return dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     name,
		Type:     types.PlanTypeSubscription,
		Currency: "inr",
		Subscription: &dto.SubscriptionConfigRequest{
			Tiers: []dto.TierPriceRequest{
				{Name: types.SubscriptionTierMonthly, Enabled: true, Price: "499"},
			},
			AutoRenew: true,
		},
	}
}

func (s *PlanServiceSuite) createPlan(req dto.CreatePlanRequest) *dto.PlanResponse {
	resp, err := s.service.CreatePlan(s.GetContext(), req)
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *PlanServiceSuite) TestCreateSubscriptionPlanBackfillsFixedTiers() {
	resp := s.createPlan(s.subscriptionRequest("Monthly access"))

	s.Equal(types.PlanTypeSubscription, resp.Type)
	s.Equal("inr", resp.Currency)

	cfg, ok := resp.Config.(plan.SubscriptionConfig)
	s.True(ok)
	s.True(cfg.AutoRenew)
	s.Len(cfg.Tiers, len(types.FixedSubscriptionTiers))

	byName := make(map[types.SubscriptionTierName]plan.TierPrice, len(cfg.Tiers))
	for _, t := range cfg.Tiers {
		byName[t.Name] = t
	}
	s.True(byName[types.SubscriptionTierMonthly].Enabled)
	s.Equal("499", byName[types.SubscriptionTierMonthly].Price)
	s.False(byName[types.SubscriptionTierAnnual].Enabled)
}

func (s *PlanServiceSuite) dueDates(count int) []time.Time {
	first := time.Now().UTC().AddDate(0, 1, 0)
	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = first.AddDate(0, i, 0)
	}
	return dates
}

func (s *PlanServiceSuite) TestCreateUpfrontPlanWithInstallments() {
	resp := s.createPlan(dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Upfront: &dto.UpfrontConfigRequest{
			FullPrice:           decimal.NewFromInt(15000),
			InstallmentsEnabled: true,
			InstallmentPlans: []dto.InstallmentPlanRequest{
				{NumberOfPayments: 3, AmountPerPayment: decimal.NewFromInt(5000), DueDates: s.dueDates(3)},
			},
			LateFee: &dto.LateFeeRequest{
				Type:            types.LateFeeTypeFixed,
				FixedAmount:     decimal.NewFromInt(100),
				GracePeriodDays: 3,
			},
		},
	})

	cfg, ok := resp.Config.(plan.UpfrontConfig)
	s.True(ok)
	s.True(cfg.InstallmentsEnabled)
	s.Len(cfg.InstallmentPlans, 1)
	s.NotEmpty(cfg.InstallmentPlans[0].ID)
	s.Equal(types.LateFeeTypeFixed, cfg.LateFee.Type)
	s.Equal(3, cfg.LateFee.GracePeriodDays)
}

func (s *PlanServiceSuite) TestCreateUpfrontPlanRejectsSinglePaymentInstallment() {
	_, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Upfront: &dto.UpfrontConfigRequest{
			FullPrice: decimal.NewFromInt(15000),
			InstallmentPlans: []dto.InstallmentPlanRequest{
				{NumberOfPayments: 1, AmountPerPayment: decimal.NewFromInt(15000)},
			},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestCreateUpfrontPlanRejectsInvalidSchedule() {
	// Due dates in the past and strictly decreasing, total over the
	// sanity bound: the plan must never be stored
	past := time.Now().UTC().AddDate(0, -1, 0)

	_, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Upfront: &dto.UpfrontConfigRequest{
			FullPrice:           decimal.NewFromInt(15000),
			InstallmentsEnabled: true,
			InstallmentPlans: []dto.InstallmentPlanRequest{
				{
					NumberOfPayments: 3,
					AmountPerPayment: decimal.NewFromInt(8000),
					DueDates:         []time.Time{past, past.AddDate(0, -1, 0), past.AddDate(0, -2, 0)},
				},
			},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	plans, err := s.service.ListPlansByCourse(s.GetContext(), "course_1")
	s.NoError(err)
	s.Empty(plans)
}

func (s *PlanServiceSuite) TestCreateUpfrontPlanRejectsBadLateFee() {
	_, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Upfront: &dto.UpfrontConfigRequest{
			FullPrice: decimal.NewFromInt(15000),
			LateFee: &dto.LateFeeRequest{
				Type: types.LateFeeTypeFixed,
			},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestUpdatePlanRejectsInvalidSchedule() {
	resp := s.createPlan(dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "One-time",
		Type:     types.PlanTypeUpfront,
		Currency: "inr",
		Upfront: &dto.UpfrontConfigRequest{
			FullPrice: decimal.NewFromInt(15000),
		},
	})

	_, err := s.service.UpdatePlan(s.GetContext(), resp.ID, dto.UpdatePlanRequest{
		Upfront: &dto.UpfrontConfigRequest{
			FullPrice:           decimal.NewFromInt(15000),
			InstallmentsEnabled: true,
			InstallmentPlans: []dto.InstallmentPlanRequest{
				{NumberOfPayments: 2, AmountPerPayment: decimal.NewFromInt(5000), DueDates: s.dueDates(3)},
			},
		},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// The stored plan keeps its previous config
	got, err := s.service.GetPlan(s.GetContext(), resp.ID)
	s.NoError(err)
	cfg, ok := got.Config.(plan.UpfrontConfig)
	s.True(ok)
	s.False(cfg.InstallmentsEnabled)
}

func (s *PlanServiceSuite) TestCreatePlanRequiresMatchingConfigBlock() {
	req := s.subscriptionRequest("Mismatched")
	req.Type = types.PlanTypeUpfront

	_, err := s.service.CreatePlan(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestCreatePlanRejectsExtraConfigBlock() {
	req := s.subscriptionRequest("Two blocks")
	req.Free = &dto.FreeConfigRequest{ValidityDays: 30}

	_, err := s.service.CreatePlan(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestCreatePlanEnforcesUniqueNamePerCourse() {
	s.createPlan(s.subscriptionRequest("Monthly access"))

	_, err := s.service.CreatePlan(s.GetContext(), s.subscriptionRequest("Monthly access"))
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))

	// Same name on a different course is fine
	other := s.subscriptionRequest("Monthly access")
	other.CourseID = "course_2"
	s.createPlan(other)
}

func (s *PlanServiceSuite) TestCreateDonationPlan() {
	resp := s.createPlan(dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "Pay what you want",
		Type:     types.PlanTypeDonation,
		Currency: "inr",
		Donation: &dto.DonationConfigRequest{
			SuggestedAmounts:  []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(500)},
			AllowCustomAmount: true,
			MinimumAmount:     decimal.NewFromInt(50),
		},
	})

	cfg, ok := resp.Config.(plan.DonationConfig)
	s.True(ok)
	s.Len(cfg.SuggestedAmounts, 2)
	s.True(cfg.AllowCustomAmount)
	s.Equal("inr", cfg.MinimumAmount.Currency)
}

func (s *PlanServiceSuite) TestCreateInvoicePlan() {
	resp := s.createPlan(dto.CreatePlanRequest{
		CourseID: "course_1",
		Name:     "Invoiced",
		Type:     types.PlanTypeInvoice,
		Currency: "inr",
		Invoice: &dto.InvoiceConfigRequest{
			BaseAmount:      decimal.NewFromInt(2000),
			BillingInterval: types.BillingIntervalMonthly,
			GracePeriodDays: 7,
		},
	})

	cfg, ok := resp.Config.(plan.InvoiceConfig)
	s.True(ok)
	s.Equal(types.BillingIntervalMonthly, cfg.BillingInterval)
	s.Equal(7, cfg.GracePeriodDays)
}

func (s *PlanServiceSuite) TestUpdatePlanReplacesConfig() {
	resp := s.createPlan(s.subscriptionRequest("Monthly access"))

	updated, err := s.service.UpdatePlan(s.GetContext(), resp.ID, dto.UpdatePlanRequest{
		Name: lo.ToPtr("Quarterly access"),
		Subscription: &dto.SubscriptionConfigRequest{
			Tiers: []dto.TierPriceRequest{
				{Name: types.SubscriptionTierQuarterly, Enabled: true, Price: "1299"},
			},
		},
	})
	s.NoError(err)
	s.Equal("Quarterly access", updated.Name)

	cfg, ok := updated.Config.(plan.SubscriptionConfig)
	s.True(ok)
	s.Len(cfg.Tiers, 1)
	s.Equal(types.SubscriptionTierQuarterly, cfg.Tiers[0].Name)
}

func (s *PlanServiceSuite) TestUpdatePlanRejectsConfigOfDifferentType() {
	resp := s.createPlan(s.subscriptionRequest("Monthly access"))

	_, err := s.service.UpdatePlan(s.GetContext(), resp.ID, dto.UpdatePlanRequest{
		Upfront: &dto.UpfrontConfigRequest{FullPrice: decimal.NewFromInt(15000)},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PlanServiceSuite) TestSetDefaultPlanIsExclusive() {
	first := s.createPlan(s.subscriptionRequest("Monthly access"))

	second := s.subscriptionRequest("Annual access")
	second.IsDefault = true
	secondResp := s.createPlan(second)

	plans, err := s.service.ListPlansByCourse(s.GetContext(), "course_1")
	s.NoError(err)
	s.Len(plans, 2)
	for _, p := range plans {
		s.Equal(p.ID == secondResp.ID, p.IsDefault)
	}

	s.NoError(s.service.SetDefaultPlan(s.GetContext(), "course_1", first.ID))

	plans, err = s.service.ListPlansByCourse(s.GetContext(), "course_1")
	s.NoError(err)
	for _, p := range plans {
		s.Equal(p.ID == first.ID, p.IsDefault)
	}
}

func (s *PlanServiceSuite) TestSetDefaultPlanRejectsForeignCourse() {
	resp := s.createPlan(s.subscriptionRequest("Monthly access"))

	err := s.service.SetDefaultPlan(s.GetContext(), "course_other", resp.ID)
	s.Error(err)
}

func (s *PlanServiceSuite) TestDeletePlan() {
	resp := s.createPlan(s.subscriptionRequest("Monthly access"))

	s.NoError(s.service.DeletePlan(s.GetContext(), resp.ID))

	_, err := s.service.GetPlan(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
