package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ironsheep/boldtext/internal/detection"
)

// ErrStorageFailure wraps every error that prevents a batch from being
// committed, including failures to open the database.
var ErrStorageFailure = errors.New("storage failure")

// createTable is the single flat table. It is created if absent and never
// migrated.
const createTable = `CREATE TABLE IF NOT EXISTS texts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT,
    bbox TEXT,
    probability REAL
)`

// Record is one stored bold detection.
type Record struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Text        string  `gorm:"column:text" json:"text"`
	BBox        string  `gorm:"column:bbox" json:"bbox"`
	Probability float64 `gorm:"column:probability" json:"probability"`
}

// TableName explicitly sets the table name for GORM.
func (Record) TableName() string {
	return "texts"
}

// Region parses the stored bbox back into a region.
func (r Record) Region() (detection.Region, error) {
	return detection.ParseRegion(r.BBox)
}

// Store is the SQLite-backed detection store. A Store is opened for one
// run and closed when the run ends.
type Store struct {
	db   *gorm.DB
	path string
}

// Open connects to the SQLite database at path, creating the file and the
// texts table if needed.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrStorageFailure, path, err)
	}

	s := &Store{db: db, path: path}
	if err := db.Exec(createTable).Error; err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: failed to create texts table: %w", ErrStorageFailure, err)
	}

	return s, nil
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying GORM database instance.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Persist writes the bold entries of batch in a single transaction and
// returns the stored records with their assigned IDs. Entries not marked
// bold are skipped.
//
// Either every row is committed or none is. Any failure is reported as
// ErrStorageFailure; there is no retry.
func (s *Store) Persist(ctx context.Context, batch []detection.Classified) ([]Record, error) {
	records := make([]Record, 0, len(batch))
	for _, c := range batch {
		if !c.Bold {
			continue
		}
		records = append(records, Record{
			Text:        c.Text,
			BBox:        c.Region.String(),
			Probability: c.Confidence,
		})
	}

	if len(records) == 0 {
		return records, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return fmt.Errorf("insert %d of %d (%q): %w", i+1, len(records), records[i].Text, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: batch of %d rolled back: %w", ErrStorageFailure, len(records), err)
	}

	return records, nil
}

// List returns stored records in insertion order. A positive limit keeps
// only the most recent limit records.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	var records []Record

	q := s.db.WithContext(ctx).Model(&Record{})
	if limit > 0 {
		q = q.Order("id DESC").Limit(limit)
	} else {
		q = q.Order("id ASC")
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list records: %w", ErrStorageFailure, err)
	}

	if limit > 0 {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: failed to count records: %w", ErrStorageFailure, err)
	}
	return n, nil
}
