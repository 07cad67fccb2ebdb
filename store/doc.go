// Package store is the booking source: recent bookings, PNR lookups and
// saved journey drafts.
//
// MemoryStore keeps everything in process. SQLiteStore persists to a SQLite
// file through modernc.org/sqlite; its schema is created on open.
package store
