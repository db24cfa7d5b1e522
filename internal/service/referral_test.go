package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/courseforge/monetize/internal/api/dto"
	"github.com/courseforge/monetize/internal/domain/catalog"
	"github.com/courseforge/monetize/internal/domain/referral"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/testutil"
	"github.com/courseforge/monetize/internal/types"
)

type ReferralServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ReferralService
}

func TestReferralService(t *testing.T) {
	suite.Run(t, new(ReferralServiceSuite))
}

func (s *ReferralServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewReferralService(ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		ReferralProgramRepo: stores.ReferralProgramRepo,
		ReferralRepo:        stores.ReferralRepo,
		CatalogRepo:         stores.CatalogRepo,
	})
}

func (s *ReferralServiceSuite) percentageReward(value int64) dto.RewardSpecDTO {
	return dto.RewardSpecDTO{
		Type:  types.RewardTypeDiscountPercentage,
		Value: lo.ToPtr(decimal.NewFromInt(value)),
	}
}

func (s *ReferralServiceSuite) freeDaysReward(days int) dto.RewardSpecDTO {
	return dto.RewardSpecDTO{
		Type: types.RewardTypeFreeDays,
		Days: lo.ToPtr(days),
	}
}

func (s *ReferralServiceSuite) pointsReward(perReferral, toReward int) dto.RewardSpecDTO {
	return dto.RewardSpecDTO{
		Type:              types.RewardTypePointsSystem,
		PointsPerReferral: lo.ToPtr(perReferral),
		PointsToReward:    lo.ToPtr(toReward),
		PointsRewardType:  types.PointsRewardTypeDiscountPercentage,
		PointsRewardValue: lo.ToPtr(decimal.NewFromInt(10)),
	}
}

func (s *ReferralServiceSuite) programRequest() dto.CreateReferralProgramRequest {
	return dto.CreateReferralProgramRequest{
		CourseID:      "course_1",
		Label:         "Spring referral drive",
		RefereeReward: s.percentageReward(10),
		ReferrerRewards: []dto.ReferrerTierRequest{
			{TierName: "Starter", ReferralCount: 1, Reward: s.freeDaysReward(5)},
			{TierName: "Champion", ReferralCount: 10, Reward: s.pointsReward(100, 250)},
		},
	}
}

func (s *ReferralServiceSuite) createProgram(req dto.CreateReferralProgramRequest) *dto.ReferralProgramResponse {
	resp, err := s.service.CreateProgram(s.GetContext(), req)
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *ReferralServiceSuite) TestCreateProgram() {
	resp := s.createProgram(s.programRequest())

	s.Equal("course_1", resp.CourseID)
	s.Equal("Spring referral drive", resp.Label)
	s.Len(resp.ReferrerRewards, 2)
	s.IsType(referral.DiscountPercentageReward{}, resp.RefereeReward)

	got, err := s.service.GetProgram(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(resp.ID, got.ID)
}

func (s *ReferralServiceSuite) TestCreateProgramRejectsDuplicateThresholds() {
	req := s.programRequest()
	req.ReferrerRewards = []dto.ReferrerTierRequest{
		{TierName: "A", ReferralCount: 5, Reward: s.freeDaysReward(5)},
		{TierName: "B", ReferralCount: 5, Reward: s.freeDaysReward(10)},
	}

	_, err := s.service.CreateProgram(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReferralServiceSuite) TestCreateProgramRejectsPointsAsRefereeReward() {
	req := s.programRequest()
	req.RefereeReward = s.pointsReward(100, 250)

	_, err := s.service.CreateProgram(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReferralServiceSuite) TestCreateProgramRejectsZeroPointsDivisors() {
	req := s.programRequest()
	req.ReferrerRewards = []dto.ReferrerTierRequest{
		{TierName: "Broken", ReferralCount: 1, Reward: s.pointsReward(0, 0)},
	}

	_, err := s.service.CreateProgram(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReferralServiceSuite) TestCreateProgramChecksFreeCourseAgainstCatalog() {
	req := s.programRequest()
	req.RefereeReward = dto.RewardSpecDTO{
		Type:      types.RewardTypeFreeCourse,
		CourseID:  "course_bonus",
		SessionID: "session_1",
		LevelID:   "level_1",
	}

	_, err := s.service.CreateProgram(s.GetContext(), req)
	s.Error(err, "unknown course must be rejected")

	s.GetCatalog().AddCourse(&catalog.Course{ID: "course_bonus", Name: "Bonus course"})
	s.createProgram(req)
}

func (s *ReferralServiceSuite) TestValidateProgramWarnsOnEmptyLadder() {
	req := s.programRequest()
	req.ReferrerRewards = nil

	// Warnings do not block creation
	resp := s.createProgram(req)

	program, err := s.GetStores().ReferralProgramRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)

	result := s.service.ValidateProgram(s.GetContext(), program)
	s.True(result.IsValid())
	s.Len(result.Warnings, 1)
	s.Equal("referrerRewards", result.Warnings[0].Field)
}

func (s *ReferralServiceSuite) TestValidateProgramCollectsFieldErrors() {
	program := &referral.ReferralProgram{
		ID:                "prog_bad",
		CourseID:          "course_1",
		PayoutVestingDays: -1,
	}

	result := s.service.ValidateProgram(s.GetContext(), program)
	s.False(result.IsValid())

	byField := result.ErrorsByField()
	s.Equal(types.ErrorKindMissingRequiredField, byField["programLabel"].Kind)
	s.Equal(types.ErrorKindOutOfRange, byField["payoutVestingDays"].Kind)
	s.Equal(types.ErrorKindMissingRequiredField, byField["refereeReward"].Kind)
}

func (s *ReferralServiceSuite) TestUpdateProgramReplacesLadder() {
	resp := s.createProgram(s.programRequest())

	req := dto.UpdateReferralProgramRequest{
		Label: lo.ToPtr("Renamed drive"),
		ReferrerRewards: &[]dto.ReferrerTierRequest{
			{TierName: "Only", ReferralCount: 3, Reward: s.freeDaysReward(7)},
		},
	}

	updated, err := s.service.UpdateProgram(s.GetContext(), resp.ID, req)
	s.NoError(err)
	s.Equal("Renamed drive", updated.Label)
	s.Len(updated.ReferrerRewards, 1)
	s.Equal(3, updated.ReferrerRewards[0].ReferralCount)
}

func (s *ReferralServiceSuite) TestSetDefaultProgramIsExclusive() {
	first := s.createProgram(s.programRequest())

	second := s.programRequest()
	second.Label = "Second drive"
	secondResp := s.createProgram(second)

	s.NoError(s.service.SetDefaultProgram(s.GetContext(), "course_1", first.ID))
	s.NoError(s.service.SetDefaultProgram(s.GetContext(), "course_1", secondResp.ID))

	programs, err := s.service.ListProgramsByCourse(s.GetContext(), "course_1")
	s.NoError(err)
	s.Len(programs, 2)
	for _, p := range programs {
		s.Equal(p.ID == secondResp.ID, p.IsDefault)
	}
}

func (s *ReferralServiceSuite) TestDeleteProgram() {
	resp := s.createProgram(s.programRequest())

	s.NoError(s.service.DeleteProgram(s.GetContext(), resp.ID))

	_, err := s.service.GetProgram(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReferralServiceSuite) TestResolveReferrerTierIsMonotonic() {
	resp := s.createProgram(s.programRequest())
	program, err := s.GetStores().ReferralProgramRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)

	s.Nil(s.service.ResolveReferrerTier(program, 0))

	for _, count := range []int{1, 5, 9} {
		tier := s.service.ResolveReferrerTier(program, count)
		s.NotNil(tier)
		s.Equal("Starter", tier.TierName)
	}

	for _, count := range []int{10, 25} {
		tier := s.service.ResolveReferrerTier(program, count)
		s.NotNil(tier)
		s.Equal("Champion", tier.TierName)
	}
}

func (s *ReferralServiceSuite) TestPointsAccrualAndResolution() {
	reward := referral.PointsSystemReward{
		PointsPerReferral: 100,
		PointsToReward:    250,
		RewardType_:       types.PointsRewardTypeDiscountPercentage,
		RewardValue:       decimal.NewFromInt(10),
	}

	state := referral.PointsState{ProgramID: "prog_1", ReferrerID: "ref_1"}
	for i := 0; i < 3; i++ {
		state = s.service.AccruePoints(state, reward.PointsPerReferral)
	}
	s.Equal(300, state.TotalPoints)

	times, remainder, err := s.service.ResolvePointsReward(state, reward)
	s.NoError(err)
	s.Equal(1, times)
	s.Equal(50, remainder)

	// Resolution never deducts
	s.Equal(300, state.TotalPoints)
}

func (s *ReferralServiceSuite) TestRedeemPointsKeepsRemainder() {
	reward := referral.PointsSystemReward{
		PointsPerReferral: 100,
		PointsToReward:    250,
		RewardType_:       types.PointsRewardTypeMembershipDays,
		RewardValue:       decimal.NewFromInt(30),
	}

	state := referral.PointsState{ProgramID: "prog_1", ReferrerID: "ref_1", TotalPoints: 600}
	next, granted, err := s.service.RedeemPoints(state, reward)
	s.NoError(err)
	s.Equal(2, granted)
	s.Equal(100, next.TotalPoints)
}

func (s *ReferralServiceSuite) TestResolvePointsRewardRejectsZeroThreshold() {
	state := referral.PointsState{TotalPoints: 100}
	_, _, err := s.service.ResolvePointsReward(state, referral.PointsSystemReward{PointsToReward: 0})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReferralServiceSuite) createReferral(programID string) *dto.ReferralResponse {
	resp, err := s.service.CreateReferral(s.GetContext(), dto.CreateReferralRequest{
		ProgramID:  programID,
		ReferrerID: "user_referrer",
		RefereeID:  "user_referee",
	})
	s.NoError(err)
	s.NotNil(resp)
	return resp
}

func (s *ReferralServiceSuite) TestCreateReferralRequiresProgram() {
	_, err := s.service.CreateReferral(s.GetContext(), dto.CreateReferralRequest{
		ProgramID:  "prog_missing",
		ReferrerID: "user_referrer",
		RefereeID:  "user_referee",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReferralServiceSuite) TestConvertReferralGrantsRefereeReward() {
	program := s.createProgram(s.programRequest())
	ref := s.createReferral(program.ID)
	s.Equal(types.ReferralStatusPendingConversion, ref.Status)

	converted, err := s.service.ConvertReferral(s.GetContext(), ref.ID)
	s.NoError(err)
	s.Equal(types.ReferralStatusVesting, converted.Status)
	s.NotNil(converted.ConvertedAt)
	s.NotNil(converted.VestsAt)
	s.NotNil(converted.RefereeReward)
	s.Equal(types.RewardTypeDiscountPercentage, converted.RefereeReward.Type)

	// A referral converts exactly once
	_, err = s.service.ConvertReferral(s.GetContext(), ref.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReferralServiceSuite) TestCompleteVestingBlocksInsideWindow() {
	req := s.programRequest()
	req.PayoutVestingDays = 15
	program := s.createProgram(req)

	ref := s.createReferral(program.ID)
	_, err := s.service.ConvertReferral(s.GetContext(), ref.ID)
	s.NoError(err)

	_, err = s.service.CompleteVesting(s.GetContext(), ref.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReferralServiceSuite) TestCompleteVestingRewardsAndAccruesPoints() {
	// Points tier from the first referral so vesting accrues immediately
	req := s.programRequest()
	req.PayoutVestingDays = 0
	req.ReferrerRewards = []dto.ReferrerTierRequest{
		{TierName: "Points", ReferralCount: 1, Reward: s.pointsReward(100, 250)},
	}
	program := s.createProgram(req)

	for i := 0; i < 3; i++ {
		ref := s.createReferral(program.ID)
		_, err := s.service.ConvertReferral(s.GetContext(), ref.ID)
		s.NoError(err)

		rewarded, err := s.service.CompleteVesting(s.GetContext(), ref.ID)
		s.NoError(err)
		s.Equal(types.ReferralStatusRewarded, rewarded.Status)
		s.NotNil(rewarded.ResolvedAt)
	}

	progress, err := s.service.ReferrerProgress(s.GetContext(), program.ID, "user_referrer")
	s.NoError(err)
	s.Equal(3, progress.RewardedCount)
	s.NotNil(progress.CurrentTier)
	s.Equal("Points", progress.CurrentTier.TierName)
	s.Equal(300, progress.TotalPoints)
	s.Equal(1, progress.TimesRewardable)
	s.Equal(50, progress.PointsRemainder)
}

func (s *ReferralServiceSuite) TestCompleteVestingRequiresVestingStatus() {
	program := s.createProgram(s.programRequest())
	ref := s.createReferral(program.ID)

	_, err := s.service.CompleteVesting(s.GetContext(), ref.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReferralServiceSuite) TestForfeitReferral() {
	req := s.programRequest()
	req.PayoutVestingDays = 0
	program := s.createProgram(req)

	ref := s.createReferral(program.ID)
	_, err := s.service.ConvertReferral(s.GetContext(), ref.ID)
	s.NoError(err)

	forfeited, err := s.service.ForfeitReferral(s.GetContext(), ref.ID)
	s.NoError(err)
	s.Equal(types.ReferralStatusForfeited, forfeited.Status)

	// Forfeited referrals never count toward progress
	progress, err := s.service.ReferrerProgress(s.GetContext(), program.ID, "user_referrer")
	s.NoError(err)
	s.Equal(0, progress.RewardedCount)
	s.Nil(progress.CurrentTier)

	// Terminal, no further transitions
	_, err = s.service.CompleteVesting(s.GetContext(), ref.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReferralServiceSuite) TestForfeitRequiresVesting() {
	program := s.createProgram(s.programRequest())
	ref := s.createReferral(program.ID)

	// Pending referrals have nothing to forfeit
	_, err := s.service.ForfeitReferral(s.GetContext(), ref.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReferralServiceSuite) TestReferralStatusValidate() {
	for _, status := range []types.ReferralStatus{
		types.ReferralStatusPendingConversion,
		types.ReferralStatusVesting,
		types.ReferralStatusRewarded,
		types.ReferralStatusForfeited,
	} {
		s.NoError(status.Validate())
	}

	s.Error(types.ReferralStatus("converted").Validate(),
		"conversion enters vesting directly; no intermediate status exists")
}
