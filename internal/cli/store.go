package cli

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/wordlist/internal/database"
	"github.com/mrlokans/wordlist/internal/database/words"
	"github.com/mrlokans/wordlist/internal/entities"
)

// WordFile is the YAML layout read by import and written by list -format yaml.
type WordFile struct {
	Words []entities.Word `yaml:"words"`
}

// LoadWordFile reads a YAML word file.
func LoadWordFile(path string) (WordFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WordFile{}, fmt.Errorf("failed to read word file: %w", err)
	}

	var wf WordFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return WordFile{}, fmt.Errorf("failed to parse word file %s: %w", path, err)
	}
	return wf, nil
}

// openStore opens the word database and starts a store on it. The returned
// function closes both.
func openStore(path string) (*words.Store, func(), error) {
	db, err := database.NewQuietDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := words.NewStore(db.DB, words.Options{})
	closeFn := func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing word store: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	return store, closeFn, nil
}
