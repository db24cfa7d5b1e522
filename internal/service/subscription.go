package service

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/types"
)

// EnabledTier is a subscription tier that passed the enabled-and-priced
// gate and may appear in previews or be purchased.
type EnabledTier struct {
	Label    string          `json:"label"`
	Price    decimal.Decimal `json:"price"`
	IsCustom bool            `json:"is_custom"`
}

// SubscriptionCatalogService validates the enabled subscription intervals
// of a subscription-typed payment plan.
type SubscriptionCatalogService interface {
	// ListEnabledTiers filters to tiers that are enabled and whose price
	// parses as a positive number. This is the sole gate for a tier to
	// be visible or purchasable: a tier can be enabled yet excluded for
	// carrying an invalid or zero price.
	ListEnabledTiers(cfg plan.SubscriptionConfig) []EnabledTier

	// Validate fails with NoActivePlan when no tier passes the gate.
	Validate(cfg plan.SubscriptionConfig) *types.ValidationResult

	// EnsureDefaults backfills the four fixed tiers (disabled, unpriced)
	// when absent. Pure; applied once at config creation, never on render.
	EnsureDefaults(cfg plan.SubscriptionConfig) plan.SubscriptionConfig
}

type subscriptionCatalogService struct {
	ServiceParams
}

// NewSubscriptionCatalogService creates a new subscription catalog service
func NewSubscriptionCatalogService(params ServiceParams) SubscriptionCatalogService {
	return &subscriptionCatalogService{
		ServiceParams: params,
	}
}

func (s *subscriptionCatalogService) ListEnabledTiers(cfg plan.SubscriptionConfig) []EnabledTier {
	enabled := make([]EnabledTier, 0, len(cfg.Tiers)+len(cfg.CustomIntervals))

	for _, tier := range cfg.Tiers {
		if !tier.Enabled {
			continue
		}
		price, ok := parseTierPrice(tier.Price)
		if !ok {
			continue
		}
		enabled = append(enabled, EnabledTier{
			Label: tier.Name.String(),
			Price: price,
		})
	}

	for _, interval := range cfg.CustomIntervals {
		price, ok := parseTierPrice(interval.Price)
		if !ok {
			continue
		}
		enabled = append(enabled, EnabledTier{
			Label:    fmt.Sprintf("every %d %s", interval.Value, interval.Unit),
			Price:    price,
			IsCustom: true,
		})
	}

	return enabled
}

func (s *subscriptionCatalogService) Validate(cfg plan.SubscriptionConfig) *types.ValidationResult {
	result := types.NewValidationResult()
	if len(s.ListEnabledTiers(cfg)) == 0 {
		result.AddError("subscriptionPlans", types.ErrorKindNoActivePlan,
			"At least one subscription interval must be enabled with a valid price")
	}
	return result
}

func (s *subscriptionCatalogService) EnsureDefaults(cfg plan.SubscriptionConfig) plan.SubscriptionConfig {
	out := plan.SubscriptionConfig{
		Tiers:           make([]plan.TierPrice, 0, len(types.FixedSubscriptionTiers)),
		CustomIntervals: cfg.CustomIntervals,
		AutoRenew:       cfg.AutoRenew,
	}

	for _, name := range types.FixedSubscriptionTiers {
		existing, found := lo.Find(cfg.Tiers, func(t plan.TierPrice) bool {
			return t.Name == name
		})
		if found {
			out.Tiers = append(out.Tiers, existing)
			continue
		}
		out.Tiers = append(out.Tiers, plan.TierPrice{Name: name})
	}

	return out
}

// parseTierPrice parses the admin-entered price text. Only a parseable
// value greater than zero counts as priced.
func parseTierPrice(raw string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(trimmed)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
