package dao

import (
	"context"

	"gorm.io/gorm"
)

// Dao wraps database access for the activity journal.
type Dao struct {
	ctx context.Context
	DB  *gorm.DB
}

func New(ctx context.Context, db *gorm.DB) *Dao {
	return &Dao{
		ctx: ctx,
		DB:  db,
	}
}

// AutoMigrate creates the journal tables on startup.
func (d *Dao) AutoMigrate(dst ...interface{}) error {
	return d.DB.AutoMigrate(dst...)
}
