package model

import "time"

// AccountIDMaxLength matches the width of accounts.id.
const AccountIDMaxLength = 64

type Account struct {
	ID               string     `gorm:"column:id;primaryKey;type:varchar(64)"`
	Credits          int64      `gorm:"column:credits;not null;check:chk_accounts_credits,credits >= 0"`
	TotalCreditsUsed int64      `gorm:"column:total_credits_used;not null;check:chk_accounts_total_used,total_credits_used >= 0"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	LastPurchaseAt   *time.Time `gorm:"column:last_purchase_at"`
}

func (Account) TableName() string {
	return "accounts"
}
