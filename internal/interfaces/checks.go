package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/wordlist/internal/database/words"
	"github.com/mrlokans/wordlist/internal/http"
	"github.com/mrlokans/wordlist/internal/repository"
	"github.com/mrlokans/wordlist/internal/scheduler"
	"github.com/mrlokans/wordlist/internal/session"
	"github.com/mrlokans/wordlist/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// WordStore implementations
var _ repository.WordStore = (*words.Store)(nil)
var _ http.WordStore = (*words.Store)(nil)

// WordSource implementations
var _ session.WordSource = (*repository.WordRepository)(nil)

// =============================================================================
// Background Work
// =============================================================================

// Task queue targets
var _ tasks.WordInserter = (*repository.WordRepository)(nil)
var _ tasks.WordInserter = (*words.Store)(nil)
var _ tasks.WordPurger = (*words.Store)(nil)

// Scheduler targets
var _ scheduler.SessionSweeper = (*session.Registry)(nil)
var _ http.SessionCounter = (*session.Registry)(nil)
