package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/response"
	"github.com/stemsi/school-records/internal/service"
	"github.com/stemsi/school-records/internal/validator"
)

type StudentHandler struct {
	studentService *service.StudentService
	now            func() time.Time
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService, now: time.Now}
}

// Create godoc
// POST /api/v1/student
func (h *StudentHandler) Create(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	// Format already checked by the datetime binding tag.
	dob, _ := time.Parse(model.DateLayout, req.DOB)

	student := &model.Student{Name: req.Name, Email: req.Email, DOB: dob}
	if err := h.studentService.Register(c.Request.Context(), student); err != nil {
		failWith(c, err)
		return
	}
	response.Created(c)
}

// Update godoc
// PUT /api/v1/student/:email
func (h *StudentHandler) Update(c *gin.Context) {
	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	dob, _ := time.Parse(model.DateLayout, req.DOB)

	patch := model.Student{Name: req.Name, Email: req.Email, DOB: dob}
	if _, err := h.studentService.Update(c.Request.Context(), c.Param("email"), patch); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusUpdated)
}

// DeleteByID godoc
// DELETE /api/v1/student/by-id/:id
func (h *StudentHandler) DeleteByID(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.DeleteByID(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusDeleted)
}

// DeleteByEmail godoc
// DELETE /api/v1/student/by-email/:email
func (h *StudentHandler) DeleteByEmail(c *gin.Context) {
	if err := h.studentService.DeleteByEmail(c.Request.Context(), c.Param("email")); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusDeleted)
}

// GetByID godoc
// GET /api/v1/student/by-id/:id
func (h *StudentHandler) GetByID(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewStudentDTO(*student, h.now()))
}

// GetByEmail godoc
// GET /api/v1/student/by-email/:email
func (h *StudentHandler) GetByEmail(c *gin.Context) {
	student, err := h.studentService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewStudentDTO(*student, h.now()))
}

// GetAll godoc
// GET /api/v1/student
func (h *StudentHandler) GetAll(c *gin.Context) {
	students, err := h.studentService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewStudentDTOs(students, h.now()))
}

// Enroll godoc
// POST /api/v1/student/:id/enroll/:course_id
func (h *StudentHandler) Enroll(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.Enroll(c.Request.Context(), id, c.Param("course_id")); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusEnrolled)
}
