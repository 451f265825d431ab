package model

import "time"

// Teacher represents a member of teaching staff.
type Teacher struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Subject is the teaching assignment; free text and optional.
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTeacherRequest is the payload for registering a teacher.
type CreateTeacherRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,max=255"`
	Subject string `json:"subject" binding:"omitempty,max=100"`
}

// UpdateTeacherRequest is the payload for updating a teacher addressed by email.
type UpdateTeacherRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,max=255"`
	Subject string `json:"subject" binding:"omitempty,max=100"`
}

// TeacherDTO is the transfer shape returned by teacher reads.
type TeacherDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

func NewTeacherDTO(t Teacher) TeacherDTO {
	return TeacherDTO{ID: t.ID, Name: t.Name, Email: t.Email, Subject: t.Subject}
}

func NewTeacherDTOs(teachers []Teacher) []TeacherDTO {
	out := make([]TeacherDTO, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, NewTeacherDTO(t))
	}
	return out
}
