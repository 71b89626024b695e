package service

type PurchaseCommand struct {
	AccountID string
	Package   string
}

type GenerateSectionCommand struct {
	AccountID   string
	Section     string
	Content     string
	PatientInfo string
	ReportType  string
}

type GenerateReportCommand struct {
	AccountID    string
	ReportType   string
	PatientNotes string
}

type ReviewCommand struct {
	AccountID  string
	Subjective string
	Objective  string
	Assessment string
	Plan       string
}

type SaveDraftCommand struct {
	AccountID         string
	Title             string
	PatientInfo       string
	Subjective        string
	Objective         string
	Assessment        string
	Plan              string
	CompletedSections []string
}

// UpdateDraftCommand changes only the fields that are non-nil.
type UpdateDraftCommand struct {
	AccountID         string
	ID                int64
	Title             *string
	PatientInfo       *string
	Subjective        *string
	Objective         *string
	Assessment        *string
	Plan              *string
	CompletedSections *[]string
}
