package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"

	"github.com/nftrade-labs/NFTradeBackend/src/model"
)

// RecordActivity appends one confirmed ledger mutation to the journal.
// Replayed transactions are ignored on the tx hash unique index.
func (d *Dao) RecordActivity(ctx context.Context, act model.Activity) error {
	if err := d.DB.WithContext(ctx).
		Table(model.ActivityTableName()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&act).Error; err != nil {
		return errors.Wrap(err, "failed on record activity")
	}
	return nil
}

// QueryActivities returns journal entries touching the account, newest
// first, with total count for pagination.
func (d *Dao) QueryActivities(ctx context.Context, account string, page, pageSize int) ([]model.Activity, int64, error) {
	var total int64
	db := d.DB.WithContext(ctx).
		Table(model.ActivityTableName()).
		Where("initiator = ? or counterparty = ?", account, account)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count activities")
	}

	var acts []model.Activity
	if err := db.Order("event_time desc, id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&acts).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on query activities")
	}
	return acts, total, nil
}
