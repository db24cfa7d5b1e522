package catalog

import (
	"github.com/courseforge/monetize/internal/types"
)

// Course is a catalog entry the engine can reference from rewards.
// Catalog data is owned by an external service; only the lookup surface
// is modeled here.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	types.BaseModel
}

// Session is a cohort or batch of a course
type Session struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Name     string `json:"name"`
}

// Level is a difficulty or progress level within a session
type Level struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}
