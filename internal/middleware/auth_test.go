package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"bullpen/internal/models"
)

// newAuthTestRouter wires the session store plus an optional stand-in for
// the user loader, which normally resolves the session user from the
// database.
func newAuthTestRouter(loadUser gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("user_id", uint(7))
		_ = session.Save()
		c.Status(http.StatusOK)
	})
	protected := r.Group("/")
	if loadUser != nil {
		protected.Use(loadUser)
	}
	protected.Use(AuthRequired())
	protected.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func loginCookie(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.ServeHTTP(w, req)
	cookieHeader := w.Header().Get("Set-Cookie")
	assert.NotEmpty(t, cookieHeader)
	return cookieHeader
}

func TestAuthRequired_NoSession(t *testing.T) {
	r := newAuthTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_SessionButUserDidNotLoad(t *testing.T) {
	// A cookie referencing a user the loader could not resolve (deleted
	// account, lookup failure) must come back 401, not reach the handler.
	r := newAuthTestRouter(nil)
	c := loginCookie(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", c)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_LoadedUserPasses(t *testing.T) {
	r := newAuthTestRouter(func(c *gin.Context) {
		c.Set(CheckUserKey, &models.User{ID: 7})
		c.Next()
	})
	c := loginCookie(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Cookie", c)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
