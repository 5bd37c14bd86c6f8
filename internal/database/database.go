package database

import (
	"fmt"
	"log"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/wordlist/internal/entities"
)

type Database struct {
	DB   *gorm.DB
	Path string
}

// NewDatabase opens the SQLite database at dbPath and creates word_table.
func NewDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Default.LogMode(logger.Info))
}

// NewQuietDatabase is NewDatabase with SQL logging turned off. Used by the CLI and tests.
func NewQuietDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Default.LogMode(logger.Silent))
}

func open(dbPath string, l logger.Interface) (*Database, error) {
	// _busy_timeout lets the session store and the word writer share the file.
	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: l,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Word{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db, Path: dbPath}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Provider hands out the single process-wide Database. The first Get opens it;
// every later or concurrent Get returns the same instance (or the same error).
type Provider struct {
	path   string
	openFn func(string) (*Database, error)

	once sync.Once
	db   *Database
	err  error
}

// NewProvider creates a provider that lazily opens the database at path.
func NewProvider(path string) *Provider {
	return &Provider{path: path, openFn: NewDatabase}
}

// NewQuietProvider is NewProvider with SQL logging turned off.
func NewQuietProvider(path string) *Provider {
	return &Provider{path: path, openFn: NewQuietDatabase}
}

// Get returns the shared Database, opening it on first use.
func (p *Provider) Get() (*Database, error) {
	p.once.Do(func() {
		p.db, p.err = p.openFn(p.path)
	})
	return p.db, p.err
}

// Close closes the database if it was ever opened.
func (p *Provider) Close() error {
	p.once.Do(func() {
		p.err = fmt.Errorf("database provider closed before first use")
	})
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}
