package service

import (
	"fmt"
	"strings"

	"github.com/kaixxz/MediNote/pkg/aiprovider"
)

const (
	SectionSubjective = "subjective"
	SectionObjective  = "objective"
	SectionAssessment = "assessment"
	SectionPlan       = "plan"
)

const (
	ReportTypeSOAP      = "soap"
	ReportTypeProgress  = "progress"
	ReportTypeDischarge = "discharge"
)

var Sections = []string{SectionSubjective, SectionObjective, SectionAssessment, SectionPlan}

var ReportTypes = []string{ReportTypeSOAP, ReportTypeProgress, ReportTypeDischarge}

const assistantRole = "You are a clinical documentation assistant for doctors. " +
	"Write in professional medical terminology, be concise, and write \"Information not provided\" " +
	"instead of inventing details."

var reportInstructions = map[string]string{
	ReportTypeSOAP: "Produce a SOAP note with the headers SUBJECTIVE, OBJECTIVE, ASSESSMENT and PLAN.",
	ReportTypeProgress: "Produce a progress note covering patient status, interval history, examination, " +
		"assessment and plan.",
	ReportTypeDischarge: "Produce a discharge summary covering admission, hospital course, procedures, " +
		"discharge condition, medications, follow-up and diagnoses.",
}

var sectionInstructions = map[string]string{
	SectionSubjective: "the patient's chief complaint, symptoms and relevant history as reported by the patient",
	SectionObjective:  "measurable findings, vital signs and physical examination results",
	SectionAssessment: "the clinical interpretation and diagnosis or differential diagnosis",
	SectionPlan:       "treatment, medications, follow-up instructions and next steps",
}

func reportTypeOrDefault(reportType string) string {
	if _, ok := reportInstructions[reportType]; ok {
		return reportType
	}
	return ReportTypeSOAP
}

func sectionPrompt(cmd GenerateSectionCommand) aiprovider.Request {
	reportType := reportTypeOrDefault(cmd.ReportType)

	var b strings.Builder
	fmt.Fprintf(&b, "Write the %s section of a %s note. It should contain %s.\n",
		strings.ToUpper(cmd.Section), reportType, sectionInstructions[cmd.Section])
	if cmd.PatientInfo != "" {
		fmt.Fprintf(&b, "\nPatient information:\n%s\n", cmd.PatientInfo)
	}
	if cmd.Content != "" {
		fmt.Fprintf(&b, "\nClinician notes for this section:\n%s\n", cmd.Content)
	}

	return aiprovider.Request{System: assistantRole, Prompt: b.String()}
}

func reportPrompt(cmd GenerateReportCommand) aiprovider.Request {
	reportType := reportTypeOrDefault(cmd.ReportType)

	return aiprovider.Request{
		System: assistantRole + " " + reportInstructions[reportType],
		Prompt: "Patient information:\n" + cmd.PatientNotes,
	}
}

func reviewPrompt(cmd ReviewCommand) aiprovider.Request {
	var b strings.Builder
	b.WriteString("Review the following SOAP note. Point out missing information, inconsistencies " +
		"between sections and unclear wording, then give an overall quality assessment.\n")
	fmt.Fprintf(&b, "\nSUBJECTIVE:\n%s\n", cmd.Subjective)
	fmt.Fprintf(&b, "\nOBJECTIVE:\n%s\n", cmd.Objective)
	fmt.Fprintf(&b, "\nASSESSMENT:\n%s\n", cmd.Assessment)
	fmt.Fprintf(&b, "\nPLAN:\n%s\n", cmd.Plan)

	return aiprovider.Request{System: assistantRole, Prompt: b.String()}
}
