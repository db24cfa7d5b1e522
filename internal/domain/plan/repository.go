package plan

import (
	"context"
)

// Repository defines the interface for payment plan persistence
type Repository interface {
	Create(ctx context.Context, plan *PaymentPlan) error
	Get(ctx context.Context, id string) (*PaymentPlan, error)
	GetByCourse(ctx context.Context, courseID string) ([]*PaymentPlan, error)
	Update(ctx context.Context, plan *PaymentPlan) error
	Delete(ctx context.Context, id string) error
	// SetDefault marks the given plan as the course default and atomically
	// clears the flag on every other plan of the course (last writer wins).
	SetDefault(ctx context.Context, courseID string, planID string) error
}
