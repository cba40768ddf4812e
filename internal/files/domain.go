package files

import "time"

// File is the metadata record for an uploaded object. The bytes themselves
// live in the blob store under ObjectKey.
type File struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CourseID    int64     `json:"course_id"`
	UploaderID  int64     `json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}
