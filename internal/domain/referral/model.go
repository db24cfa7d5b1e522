package referral

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
)

// ReferralProgram configures how referrals are rewarded for one course.
// The referee reward is a one-time acquisition incentive; the referrer
// ladder is threshold-based and sorted ascending by referral count.
type ReferralProgram struct {
	ID                           string         `json:"id"`
	CourseID                     string         `json:"course_id"`
	Label                        string         `json:"label"`
	IsDefault                    bool           `json:"is_default"`
	RequireReferrerActiveInBatch bool           `json:"require_referrer_active_in_batch"`
	RefereeReward                RewardSpec     `json:"referee_reward"`
	ReferrerRewards              []ReferrerTier `json:"referrer_rewards"`
	AllowCombineOffers           bool           `json:"allow_combine_offers"`
	PayoutVestingDays            int            `json:"payout_vesting_days"`
	types.BaseModel
}

// SortedTiers returns the referrer ladder sorted ascending by referral
// count. Insertion order is preserved among equal thresholds, though
// validation rejects duplicates before they reach resolution.
func (p *ReferralProgram) SortedTiers() []ReferrerTier {
	tiers := make([]ReferrerTier, len(p.ReferrerRewards))
	copy(tiers, p.ReferrerRewards)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].ReferralCount < tiers[j].ReferralCount
	})
	return tiers
}

// ReferrerTier is a referral-count threshold unlocking a specific reward
type ReferrerTier struct {
	ID            string     `json:"id"`
	TierName      string     `json:"tier_name"`
	ReferralCount int        `json:"referral_count"`
	Reward        RewardSpec `json:"reward"`
}

// RewardSpec is the reward granted to a referee or referrer. One concrete
// case exists per reward type; invalid combinations (a fixed discount
// without a currency slot, say) are unrepresentable.
type RewardSpec interface {
	RewardType() types.RewardType
}

// DiscountPercentageReward takes a percentage off the next purchase
type DiscountPercentageReward struct {
	Value decimal.Decimal `json:"value"`
}

func (DiscountPercentageReward) RewardType() types.RewardType {
	return types.RewardTypeDiscountPercentage
}

// DiscountFixedReward takes a fixed amount off the next purchase
type DiscountFixedReward struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

func (DiscountFixedReward) RewardType() types.RewardType {
	return types.RewardTypeDiscountFixed
}

// FreeDaysReward extends course access by a number of days
type FreeDaysReward struct {
	Days int `json:"days"`
}

func (FreeDaysReward) RewardType() types.RewardType {
	return types.RewardTypeFreeDays
}

// FreeCourseReward grants access to another course
type FreeCourseReward struct {
	CourseID  string `json:"course_id"`
	SessionID string `json:"session_id"`
	LevelID   string `json:"level_id"`
}

func (FreeCourseReward) RewardType() types.RewardType {
	return types.RewardTypeFreeCourse
}

// DeliveryChannels selects how bonus content reaches the recipient
type DeliveryChannels struct {
	Email    bool `json:"email"`
	Whatsapp bool `json:"whatsapp"`
}

// BonusContentReward delivers extra content over the selected channels
type BonusContentReward struct {
	ContentType      string                  `json:"content_type"`
	SourceType       types.ContentSourceType `json:"source_type"`
	DeliveryChannels DeliveryChannels        `json:"delivery_channels"`
}

func (BonusContentReward) RewardType() types.RewardType {
	return types.RewardTypeBonusContent
}

// PointsSystemReward accrues points per rewarded referral and converts
// them into a reward once the threshold is met. Referrer-only.
type PointsSystemReward struct {
	PointsPerReferral int                    `json:"points_per_referral"`
	PointsToReward    int                    `json:"points_to_reward"`
	RewardType_       types.PointsRewardType `json:"points_reward_type"`
	RewardValue       decimal.Decimal        `json:"points_reward_value"`
}

func (PointsSystemReward) RewardType() types.RewardType {
	return types.RewardTypePointsSystem
}

// PointsState is a referrer's accumulated points balance. All updates are
// functional: callers receive the next state and persist it themselves.
type PointsState struct {
	ReferrerID  string `json:"referrer_id"`
	ProgramID   string `json:"program_id"`
	TotalPoints int    `json:"total_points"`
}

// Accrue returns the state after earning points for one rewarded referral
func (s PointsState) Accrue(pointsPerReferral int) PointsState {
	s.TotalPoints += pointsPerReferral
	return s
}

// Referral tracks one referred user through the reward lifecycle.
// Lifecycle: pending_conversion -> vesting (conversion enters the payout
// window directly) -> rewarded, or forfeited when a refund lands before
// vesting completes.
type Referral struct {
	ID          string               `json:"id"`
	ProgramID   string               `json:"program_id"`
	ReferrerID  string               `json:"referrer_id"`
	RefereeID   string               `json:"referee_id"`
	Status      types.ReferralStatus `json:"status"`
	ConvertedAt *time.Time           `json:"converted_at,omitempty"`
	VestsAt     *time.Time           `json:"vests_at,omitempty"`
	ResolvedAt  *time.Time           `json:"resolved_at,omitempty"`
	types.BaseModel
}

// Convert records the referee completing enrollment. The referral enters
// vesting immediately; the vesting window is payoutVestingDays long. The
// referee reward is granted exactly once at this transition.
func (r Referral) Convert(now time.Time, payoutVestingDays int) (Referral, error) {
	if r.Status != types.ReferralStatusPendingConversion {
		return r, ierr.NewError("referral cannot be converted").
			WithHintf("Referral is %s, only pending referrals can convert", r.Status).
			WithReportableDetails(map[string]any{
				"referral_id": r.ID,
				"status":      r.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	vestsAt := now.AddDate(0, 0, payoutVestingDays)
	r.Status = types.ReferralStatusVesting
	r.ConvertedAt = &now
	r.VestsAt = &vestsAt
	return r, nil
}

// CompleteVesting finalizes the referral once the vesting window has
// elapsed with no forfeiting event. Callers then increment the referrer's
// cumulative count and re-run tier and points resolution.
func (r Referral) CompleteVesting(now time.Time) (Referral, error) {
	if r.Status != types.ReferralStatusVesting {
		return r, ierr.NewError("referral is not vesting").
			WithHintf("Referral is %s, only vesting referrals can be rewarded", r.Status).
			WithReportableDetails(map[string]any{
				"referral_id": r.ID,
				"status":      r.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if r.VestsAt != nil && now.Before(*r.VestsAt) {
		return r, ierr.NewError("vesting window has not elapsed").
			WithHint("The payout vesting period is still running").
			WithReportableDetails(map[string]any{
				"referral_id": r.ID,
				"vests_at":    r.VestsAt,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	r.Status = types.ReferralStatusRewarded
	r.ResolvedAt = &now
	return r, nil
}

// Forfeit voids the referral on a refund or cancellation observed before
// vesting completed. No reward is granted and the referral never counts
// toward tier or points totals.
func (r Referral) Forfeit(now time.Time) (Referral, error) {
	if r.Status != types.ReferralStatusVesting {
		return r, ierr.NewError("referral cannot be forfeited").
			WithHintf("Referral is %s, only vesting referrals can forfeit", r.Status).
			WithReportableDetails(map[string]any{
				"referral_id": r.ID,
				"status":      r.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	r.Status = types.ReferralStatusForfeited
	r.ResolvedAt = &now
	return r, nil
}
