package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	authsvc "github.com/jwalitptl/mediconsult-api/internal/service/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	session *model.Session
	err     error
}

func (f fakeAuthenticator) Authenticate(context.Context, string) (*model.Session, error) {
	return f.session, f.err
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	patient := &model.Session{ID: "s1", UserID: "rahim"}

	tests := []struct {
		name   string
		header string
		auth   fakeAuthenticator
		want   int
	}{
		{"missing header", "", fakeAuthenticator{session: patient}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fakeAuthenticator{session: patient}, http.StatusUnauthorized},
		{"expired session", "Bearer tok", fakeAuthenticator{err: authsvc.ErrSessionExpired}, http.StatusUnauthorized},
		{"store failure", "Bearer tok", fakeAuthenticator{err: errors.New("redis down")}, http.StatusInternalServerError},
		{"valid", "Bearer tok", fakeAuthenticator{session: patient}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			mw := NewAuthMiddleware(tt.auth)
			engine.GET("/", mw.Authenticate(), func(c *gin.Context) {
				assert.Equal(t, "rahim", c.GetString(ContextUserID))
				assert.Same(t, patient, CurrentSession(c))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, serve(engine, req).Code)
		})
	}
}

func TestRoleGuards(t *testing.T) {
	admin := &model.Session{ID: "a", UserID: "1", IsAdmin: true}
	patient := &model.Session{ID: "p", UserID: "rahim"}

	for _, tc := range []struct {
		name    string
		session *model.Session
		admin   int
		patient int
	}{
		{"admin session", admin, http.StatusOK, http.StatusForbidden},
		{"patient session", patient, http.StatusForbidden, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mw := NewAuthMiddleware(fakeAuthenticator{session: tc.session})
			engine := gin.New()
			ok := func(c *gin.Context) { c.Status(http.StatusOK) }
			engine.GET("/admin", mw.Authenticate(), mw.RequireAdmin(), ok)
			engine.GET("/patient", mw.Authenticate(), mw.RequirePatient(), ok)

			for path, want := range map[string]int{"/admin": tc.admin, "/patient": tc.patient} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				req.Header.Set("Authorization", "Bearer tok")
				assert.Equal(t, want, serve(engine, req).Code, path)
			}
		})
	}
}

func TestRateLimiterIsPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	engine := gin.New()
	engine.GET("/", rl.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(engine, req).Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.GET("/", RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	assert.Equal(t, "abc-123", serve(engine, req).Body.String())
}

func TestSizeLimit(t *testing.T) {
	engine := gin.New()
	engine.POST("/", SizeLimit(SizeLimitConfig{MaxBodySize: 8, MaxHeaderSize: 1 << 10}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	assert.Equal(t, http.StatusOK, serve(engine, small).Code)

	large := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(engine, large).Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.GET("/", Recovery(), func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}
