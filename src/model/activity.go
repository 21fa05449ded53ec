package model

import "github.com/shopspring/decimal"

// Activity journal entry types, one per confirmed terminal transaction.
const (
	ActivityMake   = "make"
	ActivityAccept = "accept"
	ActivityReject = "reject"
	ActivityCancel = "cancel"
	ActivitySeal   = "seal"
)

// Activity records one confirmed ledger mutation for history display.
type Activity struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OfferID      int64           `gorm:"column:offer_id;index" json:"offer_id"`
	ActivityType string          `gorm:"column:activity_type" json:"activity_type"`
	Initiator    string          `gorm:"column:initiator;index" json:"initiator"`
	Counterparty string          `gorm:"column:counterparty;index" json:"counterparty"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(30,0)" json:"amount"`
	TxHash       string          `gorm:"column:tx_hash;uniqueIndex" json:"tx_hash"`
	EventTime    int64           `gorm:"column:event_time" json:"event_time"`
}

func ActivityTableName() string {
	return "nftrade_activity"
}

func (Activity) TableName() string {
	return ActivityTableName()
}
