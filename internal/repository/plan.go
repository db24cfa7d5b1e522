package repository

import (
	"context"

	"github.com/courseforge/monetize/internal/domain/plan"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.PaymentPlan]
}

// NewInMemoryPlanStore creates a new in-memory payment plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.PaymentPlan](),
	}
}

// NewPlanRepository creates the payment plan repository
func NewPlanRepository(log *logger.Logger) plan.Repository {
	return NewInMemoryPlanStore()
}

func copyPlan(p *plan.PaymentPlan) *plan.PaymentPlan {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.PaymentPlan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPlan(p))
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.PaymentPlan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan not found").
			WithHint("Payment plan not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) GetByCourse(ctx context.Context, courseID string) ([]*plan.PaymentPlan, error) {
	plans, err := s.InMemoryStore.List(ctx, courseID,
		func(ctx context.Context, p *plan.PaymentPlan, filter interface{}) bool {
			return p.CourseID == filter.(string)
		},
		func(a, b *plan.PaymentPlan) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
	if err != nil {
		return nil, err
	}

	result := make([]*plan.PaymentPlan, len(plans))
	for i, p := range plans {
		result[i] = copyPlan(p)
	}
	return result, nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.PaymentPlan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, copyPlan(p)); err != nil {
		return ierr.NewError("plan not found").
			WithHint("Payment plan not found").
			WithReportableDetails(map[string]any{
				"id": p.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPlanStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("plan not found").
			WithHint("Payment plan not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// SetDefault flips the default flag to the given plan and clears it on
// every other plan of the course in one locked pass.
func (s *InMemoryPlanStore) SetDefault(ctx context.Context, courseID string, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, exists := s.items[planID]
	if !exists || target.CourseID != courseID {
		return ierr.NewError("plan not found in course").
			WithHint("The plan does not belong to this course").
			WithReportableDetails(map[string]any{
				"course_id": courseID,
				"plan_id":   planID,
			}).
			Mark(ierr.ErrNotFound)
	}

	for id, p := range s.items {
		if p.CourseID != courseID {
			continue
		}
		copied := copyPlan(p)
		copied.IsDefault = id == planID
		s.items[id] = copied
	}
	return nil
}
