package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	user, pass string
	err        error
}

func (s stubAuth) Authenticate(_ context.Context, username, password string) (*model.APIUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if username != s.user || password != s.pass {
		return nil, service.ErrInvalidCredentials
	}
	return &model.APIUser{ID: 1, Username: username}, nil
}

func authRouter(auth Authenticator, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequireBasicAuth(auth, "school-records", log))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	return r
}

func TestRequireBasicAuth(t *testing.T) {
	r := authRouter(stubAuth{user: "admin", pass: "s3cret!"}, zerolog.Nop())

	tests := []struct {
		name       string
		setAuth    func(*http.Request)
		wantStatus int
		wantMsg    string
	}{
		{"missing credentials", func(*http.Request) {}, http.StatusUnauthorized, msgAuthRequired},
		{"wrong password", func(r *http.Request) { r.SetBasicAuth("admin", "nope") }, http.StatusUnauthorized, msgBadCredentials},
		{"bearer scheme", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, http.StatusUnauthorized, msgAuthRequired},
		{"valid", func(r *http.Request) { r.SetBasicAuth("admin", "s3cret!") }, http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setAuth(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, "admin", w.Body.String())
				return
			}
			assert.Equal(t, `Basic realm="school-records"`, w.Header().Get("WWW-Authenticate"))
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, map[string]string{"message": tc.wantMsg}, body)
		})
	}
}

func TestRequireBasicAuthStorageFailure(t *testing.T) {
	r := authRouter(stubAuth{err: errors.New("find api user: connection refused")}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "s3cret!")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
}

func TestRequireBasicAuthLogsEachRejection(t *testing.T) {
	var logs bytes.Buffer
	r := authRouter(stubAuth{user: "admin", pass: "s3cret!"}, zerolog.New(&logs))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 1, strings.Count(logs.String(), msgAuthRequired))
	assert.Contains(t, logs.String(), `"level":"warn"`)

	logs.Reset()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "nope")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 1, strings.Count(logs.String(), "Rejected credentials"))

	logs.Reset()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "s3cret!")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, logs.String())
}

type memCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	keys []string
	err  error
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hits == nil {
		m.hits = map[string]int64{}
	}
	m.hits[key]++
	m.keys = append(m.keys, key)
	return m.hits[key], nil
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	counter := &memCounter{}
	rl := NewRateLimiter(counter, 2, time.Minute, zerolog.Nop())
	clock := time.Unix(1_699_999_980, 0)
	rl.now = func() time.Time { return clock }
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.2").Code, "other clients keep their own budget")

	clock = clock.Add(time.Minute)
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code, "next window resets the budget")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl := NewRateLimiter(&memCounter{err: errors.New("redis down")}, 1, time.Minute, zerolog.Nop())
	r := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1").Code)
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("student record ", 200)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "UPDATED") })

	t.Run("compresses large bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, "br", w.Header().Get("Content-Encoding"))
		plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, large, string(plain))
	})

	t.Run("passes small bodies through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/small", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "UPDATED", w.Body.String())
	})

	t.Run("ignores clients without br", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, large, w.Body.String())
	})
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.Use(NoStore())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
