package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/school-records/internal/response"
	"github.com/stemsi/school-records/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailWithMapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   response.ErrCode
		wantMsg    string
	}{
		{"not found", &service.Error{Kind: service.KindNotFound, Message: "STUDENT NOT EXIST! ID: 9"}, http.StatusNotFound, response.ErrNotFound, "STUDENT NOT EXIST! ID: 9"},
		{"invalid input", &service.Error{Kind: service.KindInvalidInput, Message: "NAME IS NOT VALID!"}, http.StatusBadRequest, response.ErrInvalidInput, "NAME IS NOT VALID!"},
		{"conflict", &service.Error{Kind: service.KindConflict, Message: "EMAIL IS ALREADY TAKEN!"}, http.StatusBadRequest, response.ErrConflict, "EMAIL IS ALREADY TAKEN!"},
		{"wrapped rejection", fmt.Errorf("outer: %w", &service.Error{Kind: service.KindNotFound, Message: "gone"}), http.StatusNotFound, response.ErrNotFound, "outer: gone"},
		{"storage fault", errors.New("update student: conn closed"), http.StatusInternalServerError, response.ErrInternal, response.GetMessage(response.ErrInternal)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			failWith(c, tc.err)

			require.Equal(t, tc.wantStatus, w.Code)
			var body response.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.Equal(t, tc.wantMsg, body.Message)
		})
	}
}

func TestIntParam(t *testing.T) {
	r := gin.New()
	r.GET("/:id", func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, "%d", id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/42", nil))
	assert.Equal(t, "42", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(response.ErrInvalidID))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m 5s", formatDuration(5e9))
	assert.Equal(t, "1h 2m 3s", formatDuration(3723e9))
	assert.Equal(t, "2d 0h 0m 0s", formatDuration(48*3600e9))
}
