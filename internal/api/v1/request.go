package v1

type PurchaseRequest struct {
	Package string `json:"package" validate:"required,max=32"`
}

type GenerateSectionRequest struct {
	Section     string `json:"section" validate:"required,section"`
	Content     string `json:"content" validate:"max=20000"`
	PatientInfo string `json:"patient_info" validate:"max=20000"`
	ReportType  string `json:"report_type" validate:"omitempty,reporttype"`
}

type GenerateReportRequest struct {
	ReportType   string `json:"report_type" validate:"required,reporttype"`
	PatientNotes string `json:"patient_notes" validate:"required,max=50000"`
}

type ReviewRequest struct {
	Subjective string `json:"subjective" validate:"required_without_all=Objective Assessment Plan,max=20000"`
	Objective  string `json:"objective" validate:"max=20000"`
	Assessment string `json:"assessment" validate:"max=20000"`
	Plan       string `json:"plan" validate:"max=20000"`
}

type SaveDraftRequest struct {
	Title             string   `json:"title" validate:"required,max=200"`
	PatientInfo       string   `json:"patient_info" validate:"max=20000"`
	Subjective        string   `json:"subjective" validate:"max=20000"`
	Objective         string   `json:"objective" validate:"max=20000"`
	Assessment        string   `json:"assessment" validate:"max=20000"`
	Plan              string   `json:"plan" validate:"max=20000"`
	CompletedSections []string `json:"completed_sections" validate:"max=4,unique,dive,section"`
}

// UpdateDraftRequest leaves absent fields untouched.
type UpdateDraftRequest struct {
	Title             *string   `json:"title" validate:"omitempty,min=1,max=200"`
	PatientInfo       *string   `json:"patient_info" validate:"omitempty,max=20000"`
	Subjective        *string   `json:"subjective" validate:"omitempty,max=20000"`
	Objective         *string   `json:"objective" validate:"omitempty,max=20000"`
	Assessment        *string   `json:"assessment" validate:"omitempty,max=20000"`
	Plan              *string   `json:"plan" validate:"omitempty,max=20000"`
	CompletedSections *[]string `json:"completed_sections" validate:"omitempty,max=4,unique,dive,section"`
}
