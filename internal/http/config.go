package http

import (
	"github.com/mrlokans/wordlist/internal/database"
	"github.com/mrlokans/wordlist/internal/session"
	"github.com/mrlokans/wordlist/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Store    WordStore

	// Sessions map browser cookies to word controllers
	Sessions *session.Manager

	// CSRF protection, enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
