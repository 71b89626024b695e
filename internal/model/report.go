package model

import "time"

type Report struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement;<-:create"`
	AccountID       string    `gorm:"column:account_id;type:varchar(64);not null;index:idx_reports_account_created,priority:1;<-:create"`
	ReportType      string    `gorm:"column:report_type;type:varchar(16);not null;<-:create"`
	PatientNotes    string    `gorm:"column:patient_notes;type:text;not null;<-:create"`
	GeneratedReport string    `gorm:"column:generated_report;type:text;not null;<-:create"`
	CreatedAt       time.Time `gorm:"column:created_at;index:idx_reports_account_created,priority:2;<-:create"`
}

func (Report) TableName() string {
	return "reports"
}
