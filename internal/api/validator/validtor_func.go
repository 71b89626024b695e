package validator

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/kaixxz/MediNote/internal/service"
)

const (
	SectionTag    = "section"
	ReportTypeTag = "reporttype"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	SectionTag:    ValidateSection,
	ReportTypeTag: ValidateReportType,
}

func ValidateSection(fl validator.FieldLevel) bool {
	return slices.Contains(service.Sections, fl.Field().String())
}

func ValidateReportType(fl validator.FieldLevel) bool {
	return slices.Contains(service.ReportTypes, fl.Field().String())
}
