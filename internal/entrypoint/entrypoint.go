package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/wordlist/internal/config"
	"github.com/mrlokans/wordlist/internal/crypto"
	"github.com/mrlokans/wordlist/internal/database"
	"github.com/mrlokans/wordlist/internal/database/words"
	http_controllers "github.com/mrlokans/wordlist/internal/http"
	"github.com/mrlokans/wordlist/internal/repository"
	"github.com/mrlokans/wordlist/internal/scheduler"
	"github.com/mrlokans/wordlist/internal/session"
	"github.com/mrlokans/wordlist/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Ends sessions first so open streams return before the server waits on them
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Wordlist v%s", version)

	provider := database.NewProvider(cfg.Database.Path)
	db, err := provider.Get()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := provider.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	store := words.NewStore(db.DB, words.Options{QueueSize: cfg.Words.WriteQueueSize})
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing word store: %v", err)
		}
	}()
	repo := repository.NewWordRepository(store)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportWordsQueue(repo),
			tasks.NewPurgeWordsQueue(store),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Sessions: each browser session owns a controller scoped below appCtx
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()
	registry := session.NewRegistry(appCtx, repo)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessions, err := session.NewManager(sqlDB, cfg.Sessions, registry)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var csrfKey []byte
	if cfg.Sessions.CSRFSecret != "" {
		csrfKey, err = crypto.DeriveKey(cfg.Sessions.CSRFSecret, "wordlist csrf")
		if err != nil {
			log.Fatalf("Failed to derive CSRF key: %v", err)
		}
		log.Printf("CSRF protection enabled")
	}

	sched := scheduler.New(scheduler.Config{
		PurgeEnabled:  cfg.Purge.Enabled,
		PurgeSchedule: cfg.Purge.Schedule,
		SessionIdle:   cfg.Sessions.IdleTimeout,
	}, purgeFunc(store, taskClient), registry)
	if err := sched.Start(appCtx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:      db,
		Store:         store,
		Sessions:      sessions,
		CSRFSecret:    csrfKey,
		SecureCookies: cfg.Sessions.SecureCookies,
		TaskClient:    taskClient,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		sched.Stop()
		registry.CloseAll()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// purgeFunc routes scheduled purges through the task queue when there is
// one, so a purge that overlaps shutdown is retried on the next start.
func purgeFunc(store *words.Store, taskClient *tasks.Client) scheduler.PurgeFunc {
	if taskClient == nil {
		return store.DeleteAll
	}
	return func(ctx context.Context) error {
		ids, err := taskClient.Add(tasks.PurgeWordsTask{}).Save()
		if err != nil {
			return fmt.Errorf("enqueue purge: %w", err)
		}
		log.Printf("[PURGE] enqueued task %s", ids[0])
		return nil
	}
}
