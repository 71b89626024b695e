package model

import "time"

// Draft is a SOAP note in progress. CompletedSections holds the finished
// section names joined by commas.
type Draft struct {
	ID                int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID         string    `gorm:"column:account_id;type:varchar(64);not null;index:idx_drafts_account_updated,priority:1"`
	Title             string    `gorm:"column:title;type:varchar(200);not null"`
	PatientInfo       string    `gorm:"column:patient_info;type:text"`
	Subjective        string    `gorm:"column:subjective;type:text"`
	Objective         string    `gorm:"column:objective;type:text"`
	Assessment        string    `gorm:"column:assessment;type:text"`
	Plan              string    `gorm:"column:plan;type:text"`
	CompletedSections string    `gorm:"column:completed_sections;type:varchar(64)"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;index:idx_drafts_account_updated,priority:2"`
}

func (Draft) TableName() string {
	return "drafts"
}
