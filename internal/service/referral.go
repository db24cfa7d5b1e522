package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courseforge/monetize/internal/api/dto"
	"github.com/courseforge/monetize/internal/domain/referral"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
)

// ReferralService manages referral programs and runs the reward engine:
// tier resolution, points accrual and conversion, and the per-referral
// vesting lifecycle. Resolution operations are pure and O(number of tiers).
type ReferralService interface {
	CreateProgram(ctx context.Context, req dto.CreateReferralProgramRequest) (*dto.ReferralProgramResponse, error)
	GetProgram(ctx context.Context, id string) (*dto.ReferralProgramResponse, error)
	ListProgramsByCourse(ctx context.Context, courseID string) ([]*dto.ReferralProgramResponse, error)
	UpdateProgram(ctx context.Context, id string, req dto.UpdateReferralProgramRequest) (*dto.ReferralProgramResponse, error)
	DeleteProgram(ctx context.Context, id string) error
	SetDefaultProgram(ctx context.Context, courseID string, programID string) error

	// ValidateProgram checks a program definition: label, referee reward
	// fields, tier thresholds, and the points-system division guards. An
	// empty ladder is flagged as a warning, not an error.
	ValidateProgram(ctx context.Context, program *referral.ReferralProgram) *types.ValidationResult

	// ResolveRefereeReward returns the one-time acquisition reward granted
	// at conversion, independent of vesting.
	ResolveRefereeReward(program *referral.ReferralProgram) referral.RewardSpec

	// ResolveReferrerTier returns the highest tier whose threshold the
	// referral count meets, or nil below the lowest threshold. Tiers are
	// thresholds, not additive milestones.
	ResolveReferrerTier(program *referral.ReferralProgram, referralCount int) *referral.ReferrerTier

	// AccruePoints returns the points state after one rewarded referral
	// under a points-system tier.
	AccruePoints(state referral.PointsState, pointsPerReferral int) referral.PointsState

	// ResolvePointsReward computes how many whole rewards the balance
	// covers and what remains. It never deducts; redemption is separate.
	ResolvePointsReward(state referral.PointsState, reward referral.PointsSystemReward) (timesRewardable int, remainder int, err error)

	// RedeemPoints deducts every redeemable multiple from the balance and
	// returns the next state plus the number of rewards granted.
	RedeemPoints(state referral.PointsState, reward referral.PointsSystemReward) (referral.PointsState, int, error)

	// Referral lifecycle
	CreateReferral(ctx context.Context, req dto.CreateReferralRequest) (*dto.ReferralResponse, error)
	ConvertReferral(ctx context.Context, referralID string) (*dto.ConvertReferralResponse, error)
	CompleteVesting(ctx context.Context, referralID string) (*dto.ReferralResponse, error)
	ForfeitReferral(ctx context.Context, referralID string) (*dto.ReferralResponse, error)

	// ReferrerProgress reports a referrer's rewarded-referral count, the
	// tier currently met, and the points balance under that tier.
	ReferrerProgress(ctx context.Context, programID string, referrerID string) (*dto.ReferrerProgressResponse, error)
}

type referralService struct {
	ServiceParams
}

// NewReferralService creates a new referral program service
func NewReferralService(params ServiceParams) ReferralService {
	return &referralService{
		ServiceParams: params,
	}
}

func (s *referralService) CreateProgram(ctx context.Context, req dto.CreateReferralProgramRequest) (*dto.ReferralProgramResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := req.ToProgram(ctx)
	if err != nil {
		return nil, err
	}

	if result := s.ValidateProgram(ctx, program); !result.IsValid() {
		return nil, programError(result)
	}

	if err := s.ReferralProgramRepo.Create(ctx, program); err != nil {
		return nil, err
	}

	if program.IsDefault {
		if err := s.ReferralProgramRepo.SetDefault(ctx, program.CourseID, program.ID); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("created referral program",
		"program_id", program.ID,
		"course_id", program.CourseID)

	return &dto.ReferralProgramResponse{ReferralProgram: program}, nil
}

func (s *referralService) GetProgram(ctx context.Context, id string) (*dto.ReferralProgramResponse, error) {
	program, err := s.ReferralProgramRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ReferralProgramResponse{ReferralProgram: program}, nil
}

func (s *referralService) ListProgramsByCourse(ctx context.Context, courseID string) ([]*dto.ReferralProgramResponse, error) {
	programs, err := s.ReferralProgramRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ReferralProgramResponse, len(programs))
	for i, p := range programs {
		responses[i] = &dto.ReferralProgramResponse{ReferralProgram: p}
	}
	return responses, nil
}

func (s *referralService) UpdateProgram(ctx context.Context, id string, req dto.UpdateReferralProgramRequest) (*dto.ReferralProgramResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	program, err := s.ReferralProgramRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.ApplyTo(program); err != nil {
		return nil, err
	}
	program.UpdatedAt = time.Now().UTC()
	program.UpdatedBy = types.GetUserID(ctx)

	if result := s.ValidateProgram(ctx, program); !result.IsValid() {
		return nil, programError(result)
	}

	if err := s.ReferralProgramRepo.Update(ctx, program); err != nil {
		return nil, err
	}

	return &dto.ReferralProgramResponse{ReferralProgram: program}, nil
}

func (s *referralService) DeleteProgram(ctx context.Context, id string) error {
	if _, err := s.ReferralProgramRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.ReferralProgramRepo.Delete(ctx, id)
}

func (s *referralService) SetDefaultProgram(ctx context.Context, courseID string, programID string) error {
	return s.ReferralProgramRepo.SetDefault(ctx, courseID, programID)
}

func (s *referralService) ValidateProgram(ctx context.Context, program *referral.ReferralProgram) *types.ValidationResult {
	result := types.NewValidationResult()

	if program.Label == "" {
		result.AddError("programLabel", types.ErrorKindMissingRequiredField,
			"Program label is required")
	}

	if program.PayoutVestingDays < 0 {
		result.AddError("payoutVestingDays", types.ErrorKindOutOfRange,
			"Vesting days cannot be negative")
	}

	if program.RefereeReward == nil {
		result.AddError("refereeReward", types.ErrorKindMissingRequiredField,
			"A referee reward is required")
	} else {
		s.validateRewardSpec(ctx, "refereeReward", program.RefereeReward, false, result)
	}

	if len(program.ReferrerRewards) == 0 {
		result.AddWarning("referrerRewards", types.ErrorKindMissingRequiredField,
			"No referrer tiers configured; referrers will earn nothing")
	}

	seen := make(map[int]string, len(program.ReferrerRewards))
	for i, tier := range program.ReferrerRewards {
		field := fmt.Sprintf("referrerRewards[%d]", i)

		if tier.ReferralCount < 1 {
			result.AddError(field, types.ErrorKindOutOfRange,
				"Tier referral count must be at least 1")
		} else if prev, dup := seen[tier.ReferralCount]; dup {
			result.AddError(field, types.ErrorKindDuplicateThreshold,
				fmt.Sprintf("Tier shares its referral count with %s", prev))
		} else {
			seen[tier.ReferralCount] = field
		}

		if tier.Reward == nil {
			result.AddError(field, types.ErrorKindMissingRequiredField,
				"Tier reward is required")
			continue
		}
		s.validateRewardSpec(ctx, field, tier.Reward, true, result)
	}

	return result
}

func (s *referralService) validateRewardSpec(ctx context.Context, field string, spec referral.RewardSpec, referrerSide bool, result *types.ValidationResult) {
	switch reward := spec.(type) {
	case referral.DiscountPercentageReward:
		if !reward.Value.IsPositive() || reward.Value.GreaterThan(percentCeiling) {
			result.AddError(field, types.ErrorKindOutOfRange,
				"Percentage reward must be between 0 and 100")
		}
	case referral.DiscountFixedReward:
		if !reward.Value.IsPositive() {
			result.AddError(field, types.ErrorKindOutOfRange,
				"Fixed discount reward must be greater than zero")
		}
		if reward.Currency == "" {
			result.AddError(field, types.ErrorKindMissingRequiredField,
				"Fixed discount reward requires a currency")
		}
	case referral.FreeDaysReward:
		if reward.Days < 1 {
			result.AddError(field, types.ErrorKindOutOfRange,
				"Free days reward must grant at least 1 day")
		}
	case referral.FreeCourseReward:
		if reward.CourseID == "" || reward.SessionID == "" || reward.LevelID == "" {
			result.AddError(field, types.ErrorKindMissingRequiredField,
				"Free course reward requires a course, session and level")
			return
		}
		if s.CatalogRepo != nil {
			if _, err := s.CatalogRepo.GetCourse(ctx, reward.CourseID); err != nil {
				result.AddError(field, types.ErrorKindMissingRequiredField,
					"Free course reward references an unknown course")
			}
		}
	case referral.BonusContentReward:
		if !reward.DeliveryChannels.Email && !reward.DeliveryChannels.Whatsapp {
			result.AddError(field, types.ErrorKindMissingRequiredField,
				"Bonus content reward needs at least one delivery channel")
		}
		if err := reward.SourceType.Validate(); err != nil {
			result.AddError(field, types.ErrorKindMissingRequiredField,
				"Bonus content reward has an invalid source type")
		}
	case referral.PointsSystemReward:
		if !referrerSide {
			result.AddError(field, types.ErrorKindOutOfRange,
				"Points system rewards are only valid on referrer tiers")
		}
		// Division-by-zero guard, a hard requirement
		if reward.PointsPerReferral < 1 {
			result.AddError(field, types.ErrorKindDivisionGuardViolation,
				"Points per referral must be at least 1")
		}
		if reward.PointsToReward < 1 {
			result.AddError(field, types.ErrorKindDivisionGuardViolation,
				"Points to reward must be at least 1")
		}
	default:
		result.AddError(field, types.ErrorKindMissingRequiredField,
			"Unknown reward type")
	}
}

func (s *referralService) ResolveRefereeReward(program *referral.ReferralProgram) referral.RewardSpec {
	return program.RefereeReward
}

func (s *referralService) ResolveReferrerTier(program *referral.ReferralProgram, referralCount int) *referral.ReferrerTier {
	var met *referral.ReferrerTier
	for _, tier := range program.SortedTiers() {
		if tier.ReferralCount > referralCount {
			break
		}
		t := tier
		met = &t
	}
	return met
}

func (s *referralService) AccruePoints(state referral.PointsState, pointsPerReferral int) referral.PointsState {
	if pointsPerReferral < 1 {
		return state
	}
	return state.Accrue(pointsPerReferral)
}

func (s *referralService) ResolvePointsReward(state referral.PointsState, reward referral.PointsSystemReward) (int, int, error) {
	if reward.PointsToReward < 1 {
		return 0, 0, ierr.NewError("points to reward must be positive").
			WithHint("Points to reward must be at least 1").
			WithReportableDetails(map[string]any{
				"points_to_reward": reward.PointsToReward,
			}).
			Mark(ierr.ErrValidation)
	}

	timesRewardable := state.TotalPoints / reward.PointsToReward
	remainder := state.TotalPoints % reward.PointsToReward
	return timesRewardable, remainder, nil
}

func (s *referralService) RedeemPoints(state referral.PointsState, reward referral.PointsSystemReward) (referral.PointsState, int, error) {
	times, remainder, err := s.ResolvePointsReward(state, reward)
	if err != nil {
		return state, 0, err
	}

	state.TotalPoints = remainder
	return state, times, nil
}

func (s *referralService) CreateReferral(ctx context.Context, req dto.CreateReferralRequest) (*dto.ReferralResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ReferralProgramRepo.Get(ctx, req.ProgramID); err != nil {
		return nil, err
	}

	ref := &referral.Referral{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFERRAL),
		ProgramID:  req.ProgramID,
		ReferrerID: req.ReferrerID,
		RefereeID:  req.RefereeID,
		Status:     types.ReferralStatusPendingConversion,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}

	if err := s.ReferralRepo.Create(ctx, ref); err != nil {
		return nil, err
	}

	return &dto.ReferralResponse{Referral: ref}, nil
}

func (s *referralService) ConvertReferral(ctx context.Context, referralID string) (*dto.ConvertReferralResponse, error) {
	ref, err := s.ReferralRepo.Get(ctx, referralID)
	if err != nil {
		return nil, err
	}

	program, err := s.ReferralProgramRepo.Get(ctx, ref.ProgramID)
	if err != nil {
		return nil, err
	}

	next, err := ref.Convert(time.Now().UTC(), program.PayoutVestingDays)
	if err != nil {
		return nil, err
	}

	if err := s.ReferralRepo.Update(ctx, &next); err != nil {
		return nil, err
	}

	s.Logger.Infow("referral converted",
		"referral_id", next.ID,
		"program_id", program.ID,
		"vests_at", next.VestsAt)

	// The referee reward is granted exactly once, here
	return &dto.ConvertReferralResponse{
		Referral:      &next,
		RefereeReward: dto.NewRewardSpecDTO(s.ResolveRefereeReward(program)),
	}, nil
}

func (s *referralService) CompleteVesting(ctx context.Context, referralID string) (*dto.ReferralResponse, error) {
	ref, err := s.ReferralRepo.Get(ctx, referralID)
	if err != nil {
		return nil, err
	}

	program, err := s.ReferralProgramRepo.Get(ctx, ref.ProgramID)
	if err != nil {
		return nil, err
	}

	next, err := ref.CompleteVesting(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.ReferralRepo.Update(ctx, &next); err != nil {
		return nil, err
	}

	// Re-evaluate tier and points with the incremented count
	count, err := s.rewardedCount(ctx, program.ID, next.ReferrerID)
	if err != nil {
		return nil, err
	}

	if tier := s.ResolveReferrerTier(program, count); tier != nil {
		if points, ok := tier.Reward.(referral.PointsSystemReward); ok {
			state, err := s.ReferralRepo.GetPointsState(ctx, program.ID, next.ReferrerID)
			if err != nil {
				return nil, err
			}
			state = s.AccruePoints(state, points.PointsPerReferral)
			if err := s.ReferralRepo.SavePointsState(ctx, state); err != nil {
				return nil, err
			}
		}
	}

	s.Logger.Infow("referral vested",
		"referral_id", next.ID,
		"referrer_id", next.ReferrerID,
		"rewarded_count", count)

	return &dto.ReferralResponse{Referral: &next}, nil
}

func (s *referralService) ForfeitReferral(ctx context.Context, referralID string) (*dto.ReferralResponse, error) {
	ref, err := s.ReferralRepo.Get(ctx, referralID)
	if err != nil {
		return nil, err
	}

	next, err := ref.Forfeit(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.ReferralRepo.Update(ctx, &next); err != nil {
		return nil, err
	}

	return &dto.ReferralResponse{Referral: &next}, nil
}

func (s *referralService) ReferrerProgress(ctx context.Context, programID string, referrerID string) (*dto.ReferrerProgressResponse, error) {
	program, err := s.ReferralProgramRepo.Get(ctx, programID)
	if err != nil {
		return nil, err
	}

	count, err := s.rewardedCount(ctx, programID, referrerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReferrerProgressResponse{
		ReferrerID:    referrerID,
		ProgramID:     programID,
		RewardedCount: count,
	}

	tier := s.ResolveReferrerTier(program, count)
	if tier == nil {
		return resp, nil
	}
	resp.CurrentTier = tier

	if points, ok := tier.Reward.(referral.PointsSystemReward); ok {
		state, err := s.ReferralRepo.GetPointsState(ctx, programID, referrerID)
		if err != nil {
			return nil, err
		}
		times, remainder, err := s.ResolvePointsReward(state, points)
		if err != nil {
			return nil, err
		}
		resp.TotalPoints = state.TotalPoints
		resp.TimesRewardable = times
		resp.PointsRemainder = remainder
	}

	return resp, nil
}

// rewardedCount is the referrer's cumulative count of referrals that
// survived vesting. Forfeited referrals never count.
func (s *referralService) rewardedCount(ctx context.Context, programID string, referrerID string) (int, error) {
	refs, err := s.ReferralRepo.GetByReferrer(ctx, programID, referrerID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range refs {
		if r.Status == types.ReferralStatusRewarded {
			count++
		}
	}
	return count, nil
}

// programError folds a failed validation result into a single
// validation-marked error for API callers
func programError(result *types.ValidationResult) error {
	details := make(map[string]any, len(result.Errors))
	for _, fe := range result.Errors {
		details[fe.Field] = fe.Message
	}
	return ierr.NewError("referral program is invalid").
		WithHint("Please fix the reported fields").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
