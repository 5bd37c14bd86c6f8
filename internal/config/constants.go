package config

// DefaultDatabasePath is the default path for the word list database
const DefaultDatabasePath = "./wordlist.db"
