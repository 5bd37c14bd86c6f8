package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/wordlist/internal/config"
	"github.com/mrlokans/wordlist/internal/database"
)

func setupManager(t *testing.T) (*Manager, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	registry := NewRegistry(context.Background(), newBlockingSource())
	t.Cleanup(registry.CloseAll)

	m, err := NewManager(sqlDB, config.Sessions{Lifetime: time.Hour}, registry)
	require.NoError(t, err)

	router := gin.New()
	router.Use(m.LoadAndSave())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, m.ID(c.Request))
	})
	router.GET("/controller", func(c *gin.Context) {
		m.Controller(c.Request)
		c.Status(http.StatusNoContent)
	})
	router.DELETE("/session", func(c *gin.Context) {
		if err := m.End(c.Request); err != nil {
			c.String(http.StatusNotFound, err.Error())
			return
		}
		c.Status(http.StatusNoContent)
	})
	return m, router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "wordlist_session" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestManager_AssignsStableID(t *testing.T) {
	_, router := setupManager(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	require.Equal(t, http.StatusOK, w.Code)
	id := w.Body.String()
	require.NotEmpty(t, id)
	cookie := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, id, w.Body.String())
}

func TestManager_ControllerPerSession(t *testing.T) {
	m, router := setupManager(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/controller", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookie := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/controller", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 1, m.Registry().Len())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/controller", nil))
	assert.Equal(t, 2, m.Registry().Len())
}

func TestManager_End(t *testing.T) {
	m, router := setupManager(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/controller", nil))
	cookie := sessionCookie(t, w)
	require.Equal(t, 1, m.Registry().Len())

	req := httptest.NewRequest(http.MethodDelete, "/session", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, m.Registry().Len())

	t.Run("without a session", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/session", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCSRFMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CSRFMiddleware([]byte("0123456789abcdef0123456789abcdef"), false))
	router.GET("/words", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/words", func(c *gin.Context) { c.Status(http.StatusCreated) })

	t.Run("safe methods pass and receive a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/words", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(CSRFTokenHeader))
	})

	t.Run("mutation without token is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/words", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "CSRF")
	})
}
