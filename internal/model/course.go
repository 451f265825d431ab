package model

// Course represents a course offering identified by a caller-chosen code
// such as "CS101".
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCourseRequest is the payload for adding a course.
type CreateCourseRequest struct {
	ID          string `json:"id" binding:"required,max=32"`
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

// UpdateCourseRequest is the payload for updating a course. The ID comes
// from the path and cannot change.
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}
