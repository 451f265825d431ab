package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/response"
	"github.com/stemsi/school-records/internal/service"
	"github.com/stemsi/school-records/internal/validator"
)

type TeacherHandler struct {
	teacherService *service.TeacherService
}

func NewTeacherHandler(teacherService *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// Create godoc
// POST /api/v1/teacher
func (h *TeacherHandler) Create(c *gin.Context) {
	var req model.CreateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	teacher := &model.Teacher{Name: req.Name, Email: req.Email, Subject: req.Subject}
	if err := h.teacherService.Register(c.Request.Context(), teacher); err != nil {
		failWith(c, err)
		return
	}
	response.Created(c)
}

// Update godoc
// PUT /api/v1/teacher/:email
func (h *TeacherHandler) Update(c *gin.Context) {
	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	patch := model.Teacher{Name: req.Name, Email: req.Email, Subject: req.Subject}
	if _, err := h.teacherService.Update(c.Request.Context(), c.Param("email"), patch); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusUpdated)
}

// DeleteByID godoc
// DELETE /api/v1/teacher/by-id/:id
func (h *TeacherHandler) DeleteByID(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.teacherService.DeleteByID(c.Request.Context(), id); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusDeleted)
}

// DeleteByEmail godoc
// DELETE /api/v1/teacher/by-email/:email
func (h *TeacherHandler) DeleteByEmail(c *gin.Context) {
	if err := h.teacherService.DeleteByEmail(c.Request.Context(), c.Param("email")); err != nil {
		failWith(c, err)
		return
	}
	response.Status(c, http.StatusOK, response.StatusDeleted)
}

// GetByID godoc
// GET /api/v1/teacher/by-id/:id
func (h *TeacherHandler) GetByID(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	teacher, err := h.teacherService.GetByID(c.Request.Context(), id)
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewTeacherDTO(*teacher))
}

// GetByEmail godoc
// GET /api/v1/teacher/by-email/:email
func (h *TeacherHandler) GetByEmail(c *gin.Context) {
	teacher, err := h.teacherService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewTeacherDTO(*teacher))
}

// GetAll godoc
// GET /api/v1/teacher
func (h *TeacherHandler) GetAll(c *gin.Context) {
	teachers, err := h.teacherService.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.JSON(c, http.StatusOK, model.NewTeacherDTOs(teachers))
}
