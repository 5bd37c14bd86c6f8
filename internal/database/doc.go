// Package database opens the SQLite word database through gorm.
//
// # Layout
//
//	database/
//	├── database.go      # Connection setup, migrations, Provider
//	└── words/           # Word store: serial writer, live views, ad-hoc queries
//
// # Opening the Database
//
// Servers go through a Provider so that the connection is opened once, on
// first use, however many goroutines ask for it:
//
//	provider := database.NewProvider("./wordlist.db")
//	db, err := provider.Get()
//	store := words.NewStore(db.DB, words.Options{})
//
// Tests and CLI commands may call NewQuietDatabase directly.
package database
