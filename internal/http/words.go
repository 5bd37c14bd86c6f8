package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wordlist/internal/database/words"
	"github.com/mrlokans/wordlist/internal/entities"
	"github.com/mrlokans/wordlist/internal/session"
	"github.com/mrlokans/wordlist/internal/tasks"
)

// WordStore is the part of the word store the HTTP layer calls directly.
// Ascending reads and inserts go through the session's controller instead.
type WordStore interface {
	Insert(ctx context.Context, word entities.Word) error
	DeleteAll(ctx context.Context) error
	ScanDescending(ctx context.Context) ([]entities.Word, error)
	RawQuery(ctx context.Context, q words.Query) ([]entities.Word, bool)
}

// WordsController serves the word list API.
type WordsController struct {
	store    WordStore
	sessions *session.Manager
	tasks    *tasks.Client
}

// NewWordsController creates a WordsController. taskClient may be nil, in
// which case imports run inline.
func NewWordsController(store WordStore, sessions *session.Manager, taskClient *tasks.Client) *WordsController {
	return &WordsController{
		store:    store,
		sessions: sessions,
		tasks:    taskClient,
	}
}

// WordRequest is the body of POST /api/words.
type WordRequest struct {
	ID      *int64 `json:"id" binding:"required"`
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// ImportRequest is the body of POST /api/words/import.
type ImportRequest struct {
	Words []entities.Word `json:"words" binding:"required"`
}

// WordsResponse wraps a word list.
type WordsResponse struct {
	Words []entities.Word `json:"words"`
	Order string          `json:"order,omitempty"`
	Count int             `json:"count"`
}

// ListWords handles GET /api/words?order=asc|desc.
// Ascending lists come from the session's live view.
func (wc *WordsController) ListWords(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		list []entities.Word
		err  error
	)
	order := c.DefaultQuery("order", "asc")
	switch order {
	case "asc":
		list, err = wc.sessions.Controller(c.Request).AllWords().Snapshot(ctx)
	case "desc":
		list, err = wc.store.ScanDescending(ctx)
	default:
		respondBadRequest(c, "order must be asc or desc")
		return
	}
	if err != nil {
		wc.respondStoreError(c, err, "list words")
		return
	}

	c.JSON(http.StatusOK, WordsResponse{Words: list, Order: order, Count: len(list)})
}

// CreateWord handles POST /api/words. The insert runs in the session's scope
// and the handler waits for it; an existing id is accepted silently.
func (wc *WordsController) CreateWord(c *gin.Context) {
	var req WordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	word := entities.Word{ID: *req.ID, Word: req.Word, Meaning: req.Meaning}
	pending := wc.sessions.Controller(c.Request).Insert(word)
	if err := pending.Wait(c.Request.Context()); err != nil {
		wc.respondStoreError(c, err, "insert word")
		return
	}

	respondCreated(c, word)
}

// DeleteWords handles DELETE /api/words.
func (wc *WordsController) DeleteWords(c *gin.Context) {
	if err := wc.store.DeleteAll(c.Request.Context()); err != nil {
		wc.respondStoreError(c, err, "delete words")
		return
	}
	respondSuccess(c, "word list cleared")
}

// QueryWords handles POST /api/words/query with a words.Query body.
func (wc *WordsController) QueryWords(c *gin.Context) {
	var q words.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		respondBadRequest(c, "invalid query: "+err.Error())
		return
	}

	list, ok := wc.store.RawQuery(c.Request.Context(), q)
	if !ok {
		respondError(c, http.StatusBadRequest, "invalid_query", "query could not be run")
		return
	}

	c.JSON(http.StatusOK, WordsResponse{Words: list, Count: len(list)})
}

// StreamWords handles GET /api/words/stream. Each snapshot of the session's
// live list is sent as a "words" server-sent event until the client leaves
// or the session ends.
func (wc *WordsController) StreamWords(c *gin.Context) {
	ctrl := wc.sessions.Controller(c.Request)

	// The subscription ends with whichever of the request and the session ends first.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stop := context.AfterFunc(ctrl.Context(), cancel)
	defer stop()

	sub, err := ctrl.AllWords().Observe(ctx)
	if err != nil {
		wc.respondStoreError(c, err, "observe words")
		return
	}
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(_ io.Writer) bool {
		list, ok := <-sub.C()
		if !ok {
			return false
		}
		c.SSEvent("words", list)
		return true
	})
}

// ImportWords handles POST /api/words/import. With a task queue the batch
// is stored as an import_words task and 202 is returned; without one the
// words are inserted before responding.
func (wc *WordsController) ImportWords(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if wc.tasks == nil {
		ctx := c.Request.Context()
		for _, w := range req.Words {
			if err := wc.store.Insert(ctx, w); err != nil {
				wc.respondStoreError(c, err, "import words")
				return
			}
		}
		respondCreated(c, gin.H{"imported": len(req.Words)})
		return
	}

	ids, err := wc.tasks.Add(tasks.ImportWordsTask{Words: req.Words}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue import")
		return
	}
	log.Printf("[WORDS] Enqueued import of %d words as task %s", len(req.Words), ids[0])

	respondAccepted(c, "import enqueued", gin.H{"task_id": ids[0], "count": len(req.Words)})
}

// EndSession handles DELETE /api/session.
func (wc *WordsController) EndSession(c *gin.Context) {
	if err := wc.sessions.End(c.Request); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			respondNotFound(c, "session")
			return
		}
		respondInternalError(c, err, "end session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (wc *WordsController) respondStoreError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, session.ErrSessionClosed):
		respondError(c, http.StatusGone, "session_closed", "session has ended")
	case errors.Is(err, words.ErrStoreClosed):
		respondError(c, http.StatusServiceUnavailable, "store_closed", "word store is shutting down")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "cancelled", "request cancelled")
	default:
		respondInternalError(c, err, op)
	}
}
