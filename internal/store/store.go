// Package store owns the "already processed" boundary: natural-key existence
// checks plus persistence of new expense and payroll records. The existence
// check and the insert are separate statements; the pipeline runs as a single
// writer, concurrent runs against the same database can double-insert.
package store

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps the database handle. Construct it once at the command boundary
// and pass it down; Close releases the connection at shutdown on success and
// failure paths alike.
type Store struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// Open connects to the database. Schema migration is managed outside this
// module; Open expects the tables to exist.
func Open(dsn string, log logrus.FieldLogger) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is not configured")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return New(db, log), nil
}

// New wraps an existing gorm handle. Used by Open and by tests.
func New(db *gorm.DB, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{db: db, log: log}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting database handle: %w", err)
	}
	return sqlDB.Close()
}
