package model

import (
	"sort"
	"time"
)

// DateLayout is the wire format of calendar dates such as a date of birth.
const DateLayout = "2006-01-02"

// Student represents an enrolled learner.
type Student struct {
	ID    int       `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	DOB   time.Time `json:"dob"`
	// EnrolledCourses holds each course at most once; use Enroll to add.
	EnrolledCourses []Course  `json:"enrolled_courses"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsEnrolled reports whether the student already holds courseID.
func (s *Student) IsEnrolled(courseID string) bool {
	for _, c := range s.EnrolledCourses {
		if c.ID == courseID {
			return true
		}
	}
	return false
}

// Enroll adds course to the enrolled set. It returns false when the course
// was already present, leaving the set unchanged.
func (s *Student) Enroll(course Course) bool {
	if s.IsEnrolled(course.ID) {
		return false
	}
	s.EnrolledCourses = append(s.EnrolledCourses, course)
	return true
}

// Age returns the student's age in whole years at now.
func (s *Student) Age(now time.Time) int {
	if s.DOB.IsZero() {
		return 0
	}
	years := now.Year() - s.DOB.Year()
	if now.Month() < s.DOB.Month() || (now.Month() == s.DOB.Month() && now.Day() < s.DOB.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// CreateStudentRequest is the payload for registering a new student.
// Name and email rules are enforced by the service so the caller receives
// the domain message rather than a binding error.
type CreateStudentRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,max=255"`
	DOB   string `json:"dob" binding:"required,datetime=2006-01-02"`
}

// UpdateStudentRequest is the payload for updating a student addressed by email.
type UpdateStudentRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,max=255"`
	DOB   string `json:"dob" binding:"required,datetime=2006-01-02"`
}

// StudentDTO is the transfer shape returned by student reads.
type StudentDTO struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	DOB             string   `json:"dob"`
	Age             int      `json:"age"`
	EnrolledCourses []Course `json:"enrolled_courses"`
}

// NewStudentDTO maps a student to its transfer shape. Courses are ordered by
// ID so responses are stable.
func NewStudentDTO(s Student, now time.Time) StudentDTO {
	courses := make([]Course, len(s.EnrolledCourses))
	copy(courses, s.EnrolledCourses)
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })

	return StudentDTO{
		ID:              s.ID,
		Name:            s.Name,
		Email:           s.Email,
		DOB:             s.DOB.Format(DateLayout),
		Age:             s.Age(now),
		EnrolledCourses: courses,
	}
}

// NewStudentDTOs maps a list of students, never returning nil.
func NewStudentDTOs(students []Student, now time.Time) []StudentDTO {
	out := make([]StudentDTO, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentDTO(s, now))
	}
	return out
}
