package catalog

import (
	"context"
)

// Repository is the injected lookup surface over the institute's catalog.
// Implementations are external; nothing in the engine embeds catalog data.
type Repository interface {
	ListCourses(ctx context.Context) ([]*Course, error)
	GetCourse(ctx context.Context, id string) (*Course, error)
	ListSessions(ctx context.Context, courseID string) ([]*Session, error)
	ListLevels(ctx context.Context, sessionID string) ([]*Level, error)
}
