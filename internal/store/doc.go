// Package store persists bold detections to SQLite through GORM.
//
// Records live in a single flat table:
//
//	CREATE TABLE IF NOT EXISTS texts (
//	    id INTEGER PRIMARY KEY AUTOINCREMENT,
//	    text TEXT,
//	    bbox TEXT,
//	    probability REAL
//	)
//
// The table is created when a Store is opened. There is no migration,
// update or delete path.
//
// Each Persist call is one transaction: all rows of the batch commit
// together or none do. Failures surface as ErrStorageFailure and are not
// retried.
package store
