// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - repository.WordStore: inserts and the ascending live view (internal/repository/words.go)
//   - http.WordStore: descending scans, purge and ad-hoc queries (internal/http/words.go)
//   - session.WordSource: what a per-session controller reads and writes (internal/session/controller.go)
//
// ## Background Work Interfaces
//
//   - tasks.WordInserter, tasks.WordPurger: targets of the import_words and purge_words queues
//   - scheduler.SessionSweeper: closes idle session controllers
//
// # Adding a New Word Shape
//
// A shape is a fixed query whose results can be observed. To add one (e.g.
// words ordered by id):
//
//  1. Add an Order value and its clause in internal/database/words/live.go
//
//  2. Expose a LiveView for it from words.Store
//
//  3. The store's refresh re-runs it after every committed write as long as
//     it has subscribers
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the checks in this codebase.
package interfaces
