package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Queries struct {
	db  *gorm.DB
	now func() time.Time
}

// New migrates the schema and returns the query set.
func New(db *gorm.DB) (*Queries, error) {
	if err := Init(db); err != nil {
		return nil, err
	}
	return &Queries{db: db, now: time.Now}, nil
}

func Init(db *gorm.DB) error {
	return errors.WithMessage(db.AutoMigrate(&Todo{}), "migrate todos")
}

// WithClock replaces the time source used for created_at and modified_at.
func (q *Queries) WithClock(now func() time.Time) *Queries {
	return &Queries{db: q.db, now: now}
}
