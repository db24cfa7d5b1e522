package types

import (
	"github.com/samber/lo"

	ierr "github.com/courseforge/monetize/internal/errors"
)

// RewardType represents the kind of reward granted to a referee or referrer
type RewardType string

const (
	RewardTypeDiscountPercentage RewardType = "discount_percentage"
	RewardTypeDiscountFixed      RewardType = "discount_fixed"
	RewardTypeFreeDays           RewardType = "free_days"
	RewardTypeFreeCourse         RewardType = "free_course"
	RewardTypeBonusContent       RewardType = "bonus_content"
	// RewardTypePointsSystem is only valid on referrer tiers
	RewardTypePointsSystem RewardType = "points_system"
)

func (r RewardType) String() string {
	return string(r)
}

func (r RewardType) Validate() error {
	allowed := []RewardType{
		RewardTypeDiscountPercentage,
		RewardTypeDiscountFixed,
		RewardTypeFreeDays,
		RewardTypeFreeCourse,
		RewardTypeBonusContent,
		RewardTypePointsSystem,
	}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid reward type").
			WithHint("Please provide a valid reward type").
			WithReportableDetails(map[string]any{
				"allowed":     allowed,
				"reward_type": r,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PointsRewardType is what a points balance converts into on redemption
type PointsRewardType string

const (
	PointsRewardTypeDiscountPercentage PointsRewardType = "discount_percentage"
	PointsRewardTypeDiscountFixed      PointsRewardType = "discount_fixed"
	PointsRewardTypeMembershipDays     PointsRewardType = "membership_days"
)

func (p PointsRewardType) String() string {
	return string(p)
}

func (p PointsRewardType) Validate() error {
	allowed := []PointsRewardType{
		PointsRewardTypeDiscountPercentage,
		PointsRewardTypeDiscountFixed,
		PointsRewardTypeMembershipDays,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid points reward type").
			WithHint("Please provide a valid points reward type").
			WithReportableDetails(map[string]any{
				"allowed":            allowed,
				"points_reward_type": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ContentSourceType is where a bonus content reward is sourced from
type ContentSourceType string

const (
	ContentSourceTypeUpload         ContentSourceType = "upload"
	ContentSourceTypeLink           ContentSourceType = "link"
	ContentSourceTypeExistingCourse ContentSourceType = "existing_course"
)

func (c ContentSourceType) String() string {
	return string(c)
}

func (c ContentSourceType) Validate() error {
	allowed := []ContentSourceType{
		ContentSourceTypeUpload,
		ContentSourceTypeLink,
		ContentSourceTypeExistingCourse,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid content source type").
			WithHint("Please provide a valid content source type").
			WithReportableDetails(map[string]any{
				"allowed":     allowed,
				"source_type": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReferralStatus tracks a referred user's progress through the reward
// lifecycle. Rewarded and Forfeited are terminal.
type ReferralStatus string

const (
	// ReferralStatusPendingConversion means the referee has used the code
	// but not yet completed enrollment or payment
	ReferralStatusPendingConversion ReferralStatus = "pending_conversion"
	// ReferralStatusVesting means the referee completed enrollment and
	// the referral is inside the payout vesting window, absorbing refunds
	// and cancellations. The referee reward is granted exactly once at
	// the transition into this status.
	ReferralStatusVesting ReferralStatus = "vesting"
	// ReferralStatusRewarded means vesting elapsed and the referral counts
	// toward the referrer's tier and points totals
	ReferralStatusRewarded ReferralStatus = "rewarded"
	// ReferralStatusForfeited means a refund or cancellation landed before
	// vesting completed; no reward, no count
	ReferralStatusForfeited ReferralStatus = "forfeited"
)

func (s ReferralStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed
func (s ReferralStatus) IsTerminal() bool {
	return s == ReferralStatusRewarded || s == ReferralStatusForfeited
}

func (s ReferralStatus) Validate() error {
	allowed := []ReferralStatus{
		ReferralStatusPendingConversion,
		ReferralStatusVesting,
		ReferralStatusRewarded,
		ReferralStatusForfeited,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid referral status").
			WithHint("Please provide a valid referral status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
