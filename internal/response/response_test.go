package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(HeaderRequestID, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFailCarriesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrNotFound, "STUDENT NOT EXIST! ID: 7")
	})

	w := serve(r, "req-123")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrNotFound, body.Code)
	assert.Equal(t, "STUDENT NOT EXIST! ID: 7", body.Message)
	assert.Equal(t, "req-123", body.RequestID)
	assert.Nil(t, body.Fields)
}

func TestFailDefaultsMessageAndGeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Fail(c, http.StatusInternalServerError, ErrInternal, "")
	})

	w := serve(r, "")
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, GetMessage(ErrInternal), body.Message)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, body.RequestID, w.Header().Get(HeaderRequestID))
}

func TestStatusIsPlainText(t *testing.T) {
	r := gin.New()
	r.GET("/", Created)

	w := serve(r, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "CREATED", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
