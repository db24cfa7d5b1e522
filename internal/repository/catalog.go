package repository

import (
	"context"
	"sync"

	"github.com/courseforge/monetize/internal/domain/catalog"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
)

// InMemoryCatalogStore implements catalog.Repository. The catalog is
// owned by an external service; this store mirrors whatever slice of it
// the engine has been fed.
type InMemoryCatalogStore struct {
	mu       sync.RWMutex
	courses  map[string]*catalog.Course
	sessions map[string]*catalog.Session
	levels   map[string]*catalog.Level
}

// NewInMemoryCatalogStore creates a new in-memory catalog store
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		courses:  make(map[string]*catalog.Course),
		sessions: make(map[string]*catalog.Session),
		levels:   make(map[string]*catalog.Level),
	}
}

// NewCatalogRepository creates the catalog lookup repository
func NewCatalogRepository(log *logger.Logger) catalog.Repository {
	return NewInMemoryCatalogStore()
}

// AddCourse registers a course the engine may reference
func (s *InMemoryCatalogStore) AddCourse(c *catalog.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

// AddSession registers a session of a course
func (s *InMemoryCatalogStore) AddSession(session *catalog.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// AddLevel registers a level of a session
func (s *InMemoryCatalogStore) AddLevel(level *catalog.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[level.ID] = level
}

func (s *InMemoryCatalogStore) ListCourses(ctx context.Context) ([]*catalog.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Course, 0, len(s.courses))
	for _, c := range s.courses {
		result = append(result, c)
	}
	return result, nil
}

func (s *InMemoryCatalogStore) GetCourse(ctx context.Context, id string) (*catalog.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, exists := s.courses[id]; exists {
		return c, nil
	}

	return nil, ierr.NewError("course not found").
		WithHint("Course not found in the catalog").
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryCatalogStore) ListSessions(ctx context.Context, courseID string) ([]*catalog.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Session, 0)
	for _, session := range s.sessions {
		if session.CourseID == courseID {
			result = append(result, session)
		}
	}
	return result, nil
}

func (s *InMemoryCatalogStore) ListLevels(ctx context.Context, sessionID string) ([]*catalog.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*catalog.Level, 0)
	for _, level := range s.levels {
		if level.SessionID == sessionID {
			result = append(result, level)
		}
	}
	return result, nil
}
