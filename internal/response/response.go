package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorBody is the JSON body of every failed API call.
type ErrorBody struct {
	Code      ErrCode           `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

// Status bodies returned by successful mutations.
const (
	StatusCreated  = "CREATED"
	StatusUpdated  = "UPDATED"
	StatusDeleted  = "DELETED"
	StatusEnrolled = "ENROLLED"
)

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// JSON sends a transfer shape as the response body.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Status sends a plain-text status word such as "CREATED".
func Status(c *gin.Context, statusCode int, status string) {
	c.String(statusCode, status)
}

// Created is Status(c, 201, "CREATED").
func Created(c *gin.Context) {
	Status(c, http.StatusCreated, StatusCreated)
}

// Fail sends an error response. An empty message falls back to the code's
// default message.
func Fail(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.JSON(statusCode, buildError(c, code, message, nil))
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, buildError(c, code, "", fields))
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode, message string) {
	c.AbortWithStatusJSON(statusCode, buildError(c, code, message, nil))
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func buildError(c *gin.Context, code ErrCode, message string, fields map[string]string) ErrorBody {
	if message == "" {
		message = GetMessage(code)
	}
	return ErrorBody{
		Code:      code,
		Message:   message,
		Fields:    fields,
		RequestID: requestID(c),
	}
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get(ContextKeyRequestID)
	id, ok := reqID.(string)
	if !ok || id == "" {
		id = uuid.New().String() // Fallback if middleware not applied
	}
	return id
}
