package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wordlist/internal/session"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.Sessions.LoadAndSave())

	health := NewHealthController(cfg.Database, cfg.Sessions.Registry(), cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	wordsController := NewWordsController(cfg.Store, cfg.Sessions, cfg.TaskClient)
	api := router.Group("/api")
	{
		api.GET("/words", wordsController.ListWords)
		api.POST("/words", wordsController.CreateWord)
		api.DELETE("/words", wordsController.DeleteWords)
		api.POST("/words/query", wordsController.QueryWords)
		api.GET("/words/stream", wordsController.StreamWords)
		api.POST("/words/import", wordsController.ImportWords)
		api.DELETE("/session", wordsController.EndSession)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
