package referral

import (
	"context"
)

// ProgramRepository defines the interface for referral program persistence
type ProgramRepository interface {
	Create(ctx context.Context, program *ReferralProgram) error
	Get(ctx context.Context, id string) (*ReferralProgram, error)
	GetByCourse(ctx context.Context, courseID string) ([]*ReferralProgram, error)
	Update(ctx context.Context, program *ReferralProgram) error
	Delete(ctx context.Context, id string) error
	// SetDefault marks the given program as the course default and
	// atomically clears the flag on every other program of the course.
	SetDefault(ctx context.Context, courseID string, programID string) error
}

// Repository defines the interface for per-referral vesting state. The
// engine consumes these records and returns next states; it never mutates
// stored state itself.
type Repository interface {
	Create(ctx context.Context, referral *Referral) error
	Get(ctx context.Context, id string) (*Referral, error)
	GetByReferrer(ctx context.Context, programID string, referrerID string) ([]*Referral, error)
	Update(ctx context.Context, referral *Referral) error

	GetPointsState(ctx context.Context, programID string, referrerID string) (PointsState, error)
	SavePointsState(ctx context.Context, state PointsState) error
}
