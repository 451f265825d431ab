package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/school-records/internal/response"
	"github.com/stemsi/school-records/internal/service"
)

// failWith writes the HTTP form of a service error. The service has already
// logged it.
func failWith(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.KindNotFound:
		response.Fail(c, http.StatusNotFound, response.ErrNotFound, err.Error())
	case service.KindInvalidInput:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidInput, err.Error())
	case service.KindConflict:
		response.Fail(c, http.StatusBadRequest, response.ErrConflict, err.Error())
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "")
	}
}

// intParam parses a numeric path parameter, answering 400 when it is not one.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID, "")
		return 0, false
	}
	return id, true
}
