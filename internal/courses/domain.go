package courses

import "time"

// Course is a unit of published academic content owned by a lecturer.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	LecturerID  int64     `json:"lecturer_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilter narrows course listings.
type ListFilter struct {
	// IncludeUnpublished is only honored for authenticated callers; anonymous
	// listings see published courses exclusively.
	IncludeUnpublished bool
	LecturerID         *int64
	Limit              int
	Offset             int
}
