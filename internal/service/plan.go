package service

import (
	"context"
	"fmt"
	"time"

	"github.com/courseforge/monetize/internal/api/dto"
	"github.com/courseforge/monetize/internal/domain/plan"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
)

// PlanService manages a course's payment plans. Default-flag exclusivity
// lives in the repository's SetDefault, never at call sites.
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	ListPlansByCourse(ctx context.Context, courseID string) ([]*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id string) error
	SetDefaultPlan(ctx context.Context, courseID string, planID string) error
}

type planService struct {
	ServiceParams
	subscriptionCatalog SubscriptionCatalogService
	installments        InstallmentService
}

// NewPlanService creates a new payment plan service
func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams:       params,
		subscriptionCatalog: NewSubscriptionCatalogService(params),
		installments:        NewInstallmentService(params),
	}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := req.ToPlan(ctx)
	if err != nil {
		return nil, err
	}

	// Subscription scaffolding is derived once here, not on render
	if cfg, ok := p.Config.(plan.SubscriptionConfig); ok {
		p.Config = s.subscriptionCatalog.EnsureDefaults(cfg)
	}

	// Installment schedules and late fees hold their invariants from the
	// moment they are stored, not just at publish time
	if cfg, ok := p.Config.(plan.UpfrontConfig); ok {
		if result := s.validateUpfrontConfig(cfg); !result.IsValid() {
			return nil, planConfigError(result)
		}
	}

	if err := s.ensureUniqueName(ctx, p.CourseID, p.Name, ""); err != nil {
		return nil, err
	}

	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if p.IsDefault {
		if err := s.PlanRepo.SetDefault(ctx, p.CourseID, p.ID); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("created payment plan",
		"plan_id", p.ID,
		"course_id", p.CourseID,
		"type", p.Type)

	return &dto.PlanResponse{PaymentPlan: p}, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{PaymentPlan: p}, nil
}

func (s *planService) ListPlansByCourse(ctx context.Context, courseID string) ([]*dto.PlanResponse, error) {
	plans, err := s.PlanRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.PlanResponse, len(plans))
	for i, p := range plans {
		responses[i] = &dto.PlanResponse{PaymentPlan: p}
	}
	return responses, nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != p.Name {
		if err := s.ensureUniqueName(ctx, p.CourseID, *req.Name, p.ID); err != nil {
			return nil, err
		}
	}

	if err := req.ApplyTo(p); err != nil {
		return nil, err
	}

	if cfg, ok := p.Config.(plan.UpfrontConfig); ok {
		if result := s.validateUpfrontConfig(cfg); !result.IsValid() {
			return nil, planConfigError(result)
		}
	}

	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return &dto.PlanResponse{PaymentPlan: p}, nil
}

func (s *planService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.PlanRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.PlanRepo.Delete(ctx, id)
}

func (s *planService) SetDefaultPlan(ctx context.Context, courseID string, planID string) error {
	return s.PlanRepo.SetDefault(ctx, courseID, planID)
}

func (s *planService) validateUpfrontConfig(cfg plan.UpfrontConfig) *types.ValidationResult {
	result := types.NewValidationResult()

	if cfg.InstallmentsEnabled {
		for i, inst := range cfg.InstallmentPlans {
			mergePrefixed(result, fmt.Sprintf("installmentPlans[%d]", i),
				s.installments.Validate(inst, cfg.FullPrice))
		}
	}
	result.Merge(s.installments.ValidateLateFee(cfg.LateFee))

	return result
}

// planConfigError folds a failed validation result into a single
// validation-marked error for API callers
func planConfigError(result *types.ValidationResult) error {
	details := make(map[string]any, len(result.Errors))
	for _, fe := range result.Errors {
		details[fe.Field] = fe.Message
	}
	return ierr.NewError("payment plan configuration is invalid").
		WithHint("Please fix the reported fields").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

func (s *planService) ensureUniqueName(ctx context.Context, courseID string, name string, excludeID string) error {
	plans, err := s.PlanRepo.GetByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	for _, existing := range plans {
		if existing.ID != excludeID && existing.Name == name {
			return ierr.NewError("plan name already in use").
				WithHintf("A plan named %q already exists for this course", name).
				WithReportableDetails(map[string]any{
					"course_id": courseID,
					"name":      name,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
	}
	return nil
}
