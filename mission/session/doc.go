// Package session provides session management for the mission server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//   - An optional audit journal written after every state change
//
// Session Identifiers:
//
// Sessions are identified by random 4-character hexadecimal IDs. Lookups are
// case-insensitive, so "A1B2" and "a1b2" name the same session.
//
// Journals:
//
// A Journal records what happened in a session: the mission, the last reached
// position and the full command history. Journals are only written and read
// back for inspection. A restarted server starts with no sessions and never
// rebuilds a rover from a journal.
//
// Usage:
//
//	journal, err := session.NewFileJournal("journals")
//	if err != nil {
//		log.Fatal(err)
//	}
//	mgr := session.NewManagerWithJournal(journal)
//	sess, err := mgr.Create("", "acceptance", config)
package session
