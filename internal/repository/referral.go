package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/courseforge/monetize/internal/domain/referral"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
)

// InMemoryReferralProgramStore implements referral.ProgramRepository
type InMemoryReferralProgramStore struct {
	*InMemoryStore[*referral.ReferralProgram]
}

// NewInMemoryReferralProgramStore creates a new in-memory program store
func NewInMemoryReferralProgramStore() *InMemoryReferralProgramStore {
	return &InMemoryReferralProgramStore{
		InMemoryStore: NewInMemoryStore[*referral.ReferralProgram](),
	}
}

// NewReferralProgramRepository creates the referral program repository
func NewReferralProgramRepository(log *logger.Logger) referral.ProgramRepository {
	return NewInMemoryReferralProgramStore()
}

func copyProgram(p *referral.ReferralProgram) *referral.ReferralProgram {
	if p == nil {
		return nil
	}
	copied := *p
	copied.ReferrerRewards = append([]referral.ReferrerTier(nil), p.ReferrerRewards...)
	return &copied
}

func (s *InMemoryReferralProgramStore) Create(ctx context.Context, p *referral.ReferralProgram) error {
	if p == nil {
		return ierr.NewError("program cannot be nil").
			WithHint("Referral program cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyProgram(p))
}

func (s *InMemoryReferralProgramStore) Get(ctx context.Context, id string) (*referral.ReferralProgram, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, programNotFound(id)
	}
	return copyProgram(p), nil
}

func (s *InMemoryReferralProgramStore) GetByCourse(ctx context.Context, courseID string) ([]*referral.ReferralProgram, error) {
	programs, err := s.InMemoryStore.List(ctx, courseID,
		func(ctx context.Context, p *referral.ReferralProgram, filter interface{}) bool {
			return p.CourseID == filter.(string)
		},
		func(a, b *referral.ReferralProgram) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
	if err != nil {
		return nil, err
	}

	result := make([]*referral.ReferralProgram, len(programs))
	for i, p := range programs {
		result[i] = copyProgram(p)
	}
	return result, nil
}

func (s *InMemoryReferralProgramStore) Update(ctx context.Context, p *referral.ReferralProgram) error {
	if p == nil {
		return ierr.NewError("program cannot be nil").
			WithHint("Referral program cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, copyProgram(p)); err != nil {
		return programNotFound(p.ID)
	}
	return nil
}

func (s *InMemoryReferralProgramStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return programNotFound(id)
	}
	return nil
}

// SetDefault flips the default flag to the given program and clears it
// on every other program of the course in one locked pass.
func (s *InMemoryReferralProgramStore) SetDefault(ctx context.Context, courseID string, programID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, exists := s.items[programID]
	if !exists || target.CourseID != courseID {
		return ierr.NewError("program not found in course").
			WithHint("The program does not belong to this course").
			WithReportableDetails(map[string]any{
				"course_id":  courseID,
				"program_id": programID,
			}).
			Mark(ierr.ErrNotFound)
	}

	for id, p := range s.items {
		if p.CourseID != courseID {
			continue
		}
		copied := copyProgram(p)
		copied.IsDefault = id == programID
		s.items[id] = copied
	}
	return nil
}

func programNotFound(id string) error {
	return ierr.NewError("referral program not found").
		WithHint("Referral program not found").
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrNotFound)
}

// InMemoryReferralStore implements referral.Repository. Points states are
// keyed by program and referrer; a missing state reads as a zero balance.
type InMemoryReferralStore struct {
	*InMemoryStore[*referral.Referral]

	pointsMu sync.RWMutex
	points   map[string]referral.PointsState
}

// NewInMemoryReferralStore creates a new in-memory referral store
func NewInMemoryReferralStore() *InMemoryReferralStore {
	return &InMemoryReferralStore{
		InMemoryStore: NewInMemoryStore[*referral.Referral](),
		points:        make(map[string]referral.PointsState),
	}
}

// NewReferralRepository creates the referral record repository
func NewReferralRepository(log *logger.Logger) referral.Repository {
	return NewInMemoryReferralStore()
}

func copyReferral(r *referral.Referral) *referral.Referral {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func (s *InMemoryReferralStore) Create(ctx context.Context, r *referral.Referral) error {
	if r == nil {
		return ierr.NewError("referral cannot be nil").
			WithHint("Referral cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, r.ID, copyReferral(r))
}

func (s *InMemoryReferralStore) Get(ctx context.Context, id string) (*referral.Referral, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("referral not found").
			WithHint("Referral not found").
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyReferral(r), nil
}

func (s *InMemoryReferralStore) GetByReferrer(ctx context.Context, programID string, referrerID string) ([]*referral.Referral, error) {
	referrals, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, r *referral.Referral, filter interface{}) bool {
			return r.ProgramID == programID && r.ReferrerID == referrerID
		},
		func(a, b *referral.Referral) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
	if err != nil {
		return nil, err
	}

	result := make([]*referral.Referral, len(referrals))
	for i, r := range referrals {
		result[i] = copyReferral(r)
	}
	return result, nil
}

func (s *InMemoryReferralStore) Update(ctx context.Context, r *referral.Referral) error {
	if r == nil {
		return ierr.NewError("referral cannot be nil").
			WithHint("Referral cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, r.ID, copyReferral(r)); err != nil {
		return ierr.NewError("referral not found").
			WithHint("Referral not found").
			WithReportableDetails(map[string]any{
				"id": r.ID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryReferralStore) GetPointsState(ctx context.Context, programID string, referrerID string) (referral.PointsState, error) {
	s.pointsMu.RLock()
	defer s.pointsMu.RUnlock()

	if state, exists := s.points[pointsKey(programID, referrerID)]; exists {
		return state, nil
	}

	return referral.PointsState{
		ProgramID:  programID,
		ReferrerID: referrerID,
	}, nil
}

func (s *InMemoryReferralStore) SavePointsState(ctx context.Context, state referral.PointsState) error {
	if state.ProgramID == "" || state.ReferrerID == "" {
		return ierr.NewError("points state requires program and referrer").
			WithHint("Points state requires program and referrer").
			Mark(ierr.ErrValidation)
	}

	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()

	s.points[pointsKey(state.ProgramID, state.ReferrerID)] = state
	return nil
}

func pointsKey(programID, referrerID string) string {
	return fmt.Sprintf("%s:%s", programID, referrerID)
}

// Clear removes all referrals and points states
func (s *InMemoryReferralStore) Clear() {
	s.InMemoryStore.Clear()

	s.pointsMu.Lock()
	defer s.pointsMu.Unlock()
	s.points = make(map[string]referral.PointsState)
}
