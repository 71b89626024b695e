package model

import "time"

type TxKind string

const (
	TxKindUsage    TxKind = "usage"
	TxKindPurchase TxKind = "purchase"
)

// Transaction is an append-only ledger row. Amount is negative for usage
// and positive for purchases.
type Transaction struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	AccountID   string    `gorm:"column:account_id;type:varchar(64);not null;index:idx_transactions_account_created,priority:1;<-:create"`
	Kind        TxKind    `gorm:"column:kind;type:varchar(16);not null;check:chk_transactions_kind,kind IN ('usage','purchase');<-:create"`
	Amount      int64     `gorm:"column:amount;not null;<-:create"`
	Description string    `gorm:"column:description;type:text;<-:create"`
	CreatedAt   time.Time `gorm:"column:created_at;index:idx_transactions_account_created,priority:2;<-:create"`

	Account *Account `gorm:"foreignKey:AccountID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Transaction) TableName() string {
	return "transactions"
}
