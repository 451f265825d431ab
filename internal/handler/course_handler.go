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

type CourseHandler struct {
	courseService *service.CourseService
	now           func() time.Time
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService, now: time.Now}
}

// Create godoc
// POST /api/v1/course
func (h *CourseHandler) Create(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course := &model.Course{ID: req.ID, Title: req.Title, Description: req.Description}
	if err := h.courseService.Add(c.Request.Context(), course); err != nil {
		failWith(c, err)
		return
	}
	response.Created(c)
}

// Update godoc
// PUT /api/v1/course/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	patch := model.Course{Title: req.Title, Description: req.Description}
	if _, err := h.courseService.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusUpdated)
}

// Delete godoc
// DELETE /api/v1/course/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseService.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusDeleted)
}

// GetByID godoc
// GET /api/v1/course/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	course, err := h.courseService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// GetAll godoc
// GET /api/v1/course
func (h *CourseHandler) GetAll(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	response.JSON(c, http.StatusOK, courses)
}

// GetStudents godoc
// GET /api/v1/course/:id/students
func (h *CourseHandler) GetStudents(c *gin.Context) {
	students, err := h.courseService.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewStudentDTOs(students, h.now()))
}
