package dto

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/domain/referral"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
	"github.com/courseforge/monetize/internal/validator"
)

// RewardSpecDTO is the flat wire shape of a reward. ToSpec converts it
// into the matching sum-type case; unknown or mismatched fields fail
// instead of silently building an invalid combination.
type RewardSpecDTO struct {
	Type types.RewardType `json:"type" validate:"required"`

	// discount_percentage / discount_fixed
	Value    *decimal.Decimal `json:"value,omitempty"`
	Currency string           `json:"currency,omitempty"`

	// free_days
	Days *int `json:"days,omitempty"`

	// free_course
	CourseID  string `json:"course_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	LevelID   string `json:"level_id,omitempty"`

	// bonus_content
	Content *BonusContentDTO `json:"content,omitempty"`

	// points_system
	PointsPerReferral *int                   `json:"points_per_referral,omitempty"`
	PointsToReward    *int                   `json:"points_to_reward,omitempty"`
	PointsRewardType  types.PointsRewardType `json:"points_reward_type,omitempty"`
	PointsRewardValue *decimal.Decimal       `json:"points_reward_value,omitempty"`
}

// BonusContentDTO is the wire shape of a bonus content reward
type BonusContentDTO struct {
	ContentType string                  `json:"content_type"`
	SourceType  types.ContentSourceType `json:"source_type"`
	Email       bool                    `json:"email"`
	Whatsapp    bool                    `json:"whatsapp"`
}

// ToSpec converts the DTO into the matching reward case
func (d *RewardSpecDTO) ToSpec() (referral.RewardSpec, error) {
	if err := d.Type.Validate(); err != nil {
		return nil, err
	}

	switch d.Type {
	case types.RewardTypeDiscountPercentage:
		if d.Value == nil {
			return nil, missingRewardField("value", d.Type)
		}
		return referral.DiscountPercentageReward{Value: *d.Value}, nil

	case types.RewardTypeDiscountFixed:
		if d.Value == nil {
			return nil, missingRewardField("value", d.Type)
		}
		if d.Currency == "" {
			return nil, missingRewardField("currency", d.Type)
		}
		return referral.DiscountFixedReward{
			Value:    *d.Value,
			Currency: types.NormalizeCurrency(d.Currency),
		}, nil

	case types.RewardTypeFreeDays:
		if d.Days == nil {
			return nil, missingRewardField("days", d.Type)
		}
		return referral.FreeDaysReward{Days: *d.Days}, nil

	case types.RewardTypeFreeCourse:
		if d.CourseID == "" || d.SessionID == "" || d.LevelID == "" {
			return nil, missingRewardField("course_id/session_id/level_id", d.Type)
		}
		return referral.FreeCourseReward{
			CourseID:  d.CourseID,
			SessionID: d.SessionID,
			LevelID:   d.LevelID,
		}, nil

	case types.RewardTypeBonusContent:
		if d.Content == nil {
			return nil, missingRewardField("content", d.Type)
		}
		return referral.BonusContentReward{
			ContentType: d.Content.ContentType,
			SourceType:  d.Content.SourceType,
			DeliveryChannels: referral.DeliveryChannels{
				Email:    d.Content.Email,
				Whatsapp: d.Content.Whatsapp,
			},
		}, nil

	case types.RewardTypePointsSystem:
		if d.PointsPerReferral == nil || d.PointsToReward == nil {
			return nil, missingRewardField("points_per_referral/points_to_reward", d.Type)
		}
		if err := d.PointsRewardType.Validate(); err != nil {
			return nil, err
		}
		if d.PointsRewardValue == nil {
			return nil, missingRewardField("points_reward_value", d.Type)
		}
		return referral.PointsSystemReward{
			PointsPerReferral: *d.PointsPerReferral,
			PointsToReward:    *d.PointsToReward,
			RewardType_:       d.PointsRewardType,
			RewardValue:       *d.PointsRewardValue,
		}, nil

	default:
		return nil, ierr.NewError("unsupported reward type").
			WithHint("Please provide a valid reward type").
			Mark(ierr.ErrValidation)
	}
}

// NewRewardSpecDTO flattens a reward case back into the wire shape
func NewRewardSpecDTO(spec referral.RewardSpec) *RewardSpecDTO {
	if spec == nil {
		return nil
	}

	dto := &RewardSpecDTO{Type: spec.RewardType()}

	switch reward := spec.(type) {
	case referral.DiscountPercentageReward:
		v := reward.Value
		dto.Value = &v
	case referral.DiscountFixedReward:
		v := reward.Value
		dto.Value = &v
		dto.Currency = reward.Currency
	case referral.FreeDaysReward:
		d := reward.Days
		dto.Days = &d
	case referral.FreeCourseReward:
		dto.CourseID = reward.CourseID
		dto.SessionID = reward.SessionID
		dto.LevelID = reward.LevelID
	case referral.BonusContentReward:
		dto.Content = &BonusContentDTO{
			ContentType: reward.ContentType,
			SourceType:  reward.SourceType,
			Email:       reward.DeliveryChannels.Email,
			Whatsapp:    reward.DeliveryChannels.Whatsapp,
		}
	case referral.PointsSystemReward:
		per := reward.PointsPerReferral
		to := reward.PointsToReward
		value := reward.RewardValue
		dto.PointsPerReferral = &per
		dto.PointsToReward = &to
		dto.PointsRewardType = reward.RewardType_
		dto.PointsRewardValue = &value
	}

	return dto
}

func missingRewardField(field string, rewardType types.RewardType) error {
	return ierr.NewError("reward field is missing").
		WithHintf("A %s reward requires %s", rewardType, field).
		WithReportableDetails(map[string]any{
			"reward_type": rewardType,
			"field":       field,
		}).
		Mark(ierr.ErrValidation)
}

// ReferrerTierRequest is one rung of the referrer reward ladder
type ReferrerTierRequest struct {
	TierName      string        `json:"tier_name"`
	ReferralCount int           `json:"referral_count" validate:"required,min=1"`
	Reward        RewardSpecDTO `json:"reward" validate:"required"`
}

// CreateReferralProgramRequest represents the request to create a
// referral program
type CreateReferralProgramRequest struct {
	CourseID                     string                `json:"course_id" validate:"required"`
	Label                        string                `json:"label" validate:"required"`
	IsDefault                    bool                  `json:"is_default"`
	RequireReferrerActiveInBatch bool                  `json:"require_referrer_active_in_batch"`
	RefereeReward                RewardSpecDTO         `json:"referee_reward" validate:"required"`
	ReferrerRewards              []ReferrerTierRequest `json:"referrer_rewards,omitempty"`
	AllowCombineOffers           bool                  `json:"allow_combine_offers"`
	PayoutVestingDays            int                   `json:"payout_vesting_days"`
}

// Validate validates the CreateReferralProgramRequest
func (r *CreateReferralProgramRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.CourseID == "" {
		return ierr.NewError("course_id is required").
			WithHint("Please provide the owning course").
			Mark(ierr.ErrValidation)
	}
	if r.Label == "" {
		return ierr.NewError("label is required").
			WithHint("Please provide a program label").
			Mark(ierr.ErrValidation)
	}
	if r.PayoutVestingDays < 0 {
		return ierr.NewError("payout_vesting_days cannot be negative").
			WithHint("Please provide a non-negative vesting period").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToProgram builds the domain referral program from the request
func (r *CreateReferralProgramRequest) ToProgram(ctx context.Context) (*referral.ReferralProgram, error) {
	refereeReward, err := r.RefereeReward.ToSpec()
	if err != nil {
		return nil, err
	}

	tiers := make([]referral.ReferrerTier, 0, len(r.ReferrerRewards))
	for _, t := range r.ReferrerRewards {
		reward, err := t.Reward.ToSpec()
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, referral.ReferrerTier{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFERRER_TIER),
			TierName:      t.TierName,
			ReferralCount: t.ReferralCount,
			Reward:        reward,
		})
	}

	return &referral.ReferralProgram{
		ID:                           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFERRAL_PROGRAM),
		CourseID:                     r.CourseID,
		Label:                        r.Label,
		IsDefault:                    r.IsDefault,
		RequireReferrerActiveInBatch: r.RequireReferrerActiveInBatch,
		RefereeReward:                refereeReward,
		ReferrerRewards:              tiers,
		AllowCombineOffers:           r.AllowCombineOffers,
		PayoutVestingDays:            r.PayoutVestingDays,
		BaseModel:                    types.GetDefaultBaseModel(ctx),
	}, nil
}

// UpdateReferralProgramRequest represents the request to update a
// referral program. The tier ladder, when present, fully replaces the
// existing one.
type UpdateReferralProgramRequest struct {
	Label                        *string                `json:"label,omitempty"`
	RequireReferrerActiveInBatch *bool                  `json:"require_referrer_active_in_batch,omitempty"`
	RefereeReward                *RewardSpecDTO         `json:"referee_reward,omitempty"`
	ReferrerRewards              *[]ReferrerTierRequest `json:"referrer_rewards,omitempty"`
	AllowCombineOffers           *bool                  `json:"allow_combine_offers,omitempty"`
	PayoutVestingDays            *int                   `json:"payout_vesting_days,omitempty"`
}

// Validate validates the UpdateReferralProgramRequest
func (r *UpdateReferralProgramRequest) Validate() error {
	if r.Label != nil && *r.Label == "" {
		return ierr.NewError("label cannot be empty").
			WithHint("Please provide a program label").
			Mark(ierr.ErrValidation)
	}
	if r.PayoutVestingDays != nil && *r.PayoutVestingDays < 0 {
		return ierr.NewError("payout_vesting_days cannot be negative").
			WithHint("Please provide a non-negative vesting period").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ApplyTo applies the requested changes onto an existing program
func (r *UpdateReferralProgramRequest) ApplyTo(p *referral.ReferralProgram) error {
	if r.Label != nil {
		p.Label = *r.Label
	}
	if r.RequireReferrerActiveInBatch != nil {
		p.RequireReferrerActiveInBatch = *r.RequireReferrerActiveInBatch
	}
	if r.RefereeReward != nil {
		reward, err := r.RefereeReward.ToSpec()
		if err != nil {
			return err
		}
		p.RefereeReward = reward
	}
	if r.ReferrerRewards != nil {
		tiers := make([]referral.ReferrerTier, 0, len(*r.ReferrerRewards))
		for _, t := range *r.ReferrerRewards {
			reward, err := t.Reward.ToSpec()
			if err != nil {
				return err
			}
			tiers = append(tiers, referral.ReferrerTier{
				ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REFERRER_TIER),
				TierName:      t.TierName,
				ReferralCount: t.ReferralCount,
				Reward:        reward,
			})
		}
		p.ReferrerRewards = tiers
	}
	if r.AllowCombineOffers != nil {
		p.AllowCombineOffers = *r.AllowCombineOffers
	}
	if r.PayoutVestingDays != nil {
		p.PayoutVestingDays = *r.PayoutVestingDays
	}
	return nil
}

// ReferralProgramResponse represents a referral program in API responses
type ReferralProgramResponse struct {
	*referral.ReferralProgram
}

// CreateReferralRequest registers a referred user entering the funnel
type CreateReferralRequest struct {
	ProgramID  string `json:"program_id" validate:"required"`
	ReferrerID string `json:"referrer_id" validate:"required"`
	RefereeID  string `json:"referee_id" validate:"required"`
}

// Validate validates the CreateReferralRequest
func (r *CreateReferralRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.ProgramID == "" || r.ReferrerID == "" || r.RefereeID == "" {
		return ierr.NewError("program_id, referrer_id and referee_id are required").
			WithHint("Please provide the program, referrer and referee").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReferralResponse represents a referral record in API responses
type ReferralResponse struct {
	*referral.Referral
}

// ConvertReferralResponse reports the conversion and the one-time
// referee reward granted at it
type ConvertReferralResponse struct {
	*referral.Referral
	RefereeReward *RewardSpecDTO `json:"referee_reward"`
}

// ReferrerProgressResponse reports a referrer's standing in a program
type ReferrerProgressResponse struct {
	ReferrerID      string                 `json:"referrer_id"`
	ProgramID       string                 `json:"program_id"`
	RewardedCount   int                    `json:"rewarded_count"`
	CurrentTier     *referral.ReferrerTier `json:"current_tier,omitempty"`
	TotalPoints     int                    `json:"total_points"`
	TimesRewardable int                    `json:"times_rewardable"`
	PointsRemainder int                    `json:"points_remainder"`
}
