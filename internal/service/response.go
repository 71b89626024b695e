package service

import (
	"strings"
	"time"

	"github.com/kaixxz/MediNote/internal/ledger"
	"github.com/kaixxz/MediNote/internal/model"
)

type CreditsResult struct {
	Credits          int64 `json:"credits"`
	TotalCreditsUsed int64 `json:"total_credits_used"`
}

type TransactionResult struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryResult struct {
	CreditsResult
	Transactions []TransactionResult `json:"transactions"`
}

type PurchaseResult struct {
	CreditsResult
	Package   string `json:"package"`
	Purchased int64  `json:"purchased"`
}

type PackageResult struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Credits        int64  `json:"credits"`
	Price          string `json:"price"`
	PricePerCredit string `json:"price_per_credit"`
	Popular        bool   `json:"popular"`
}

type GenerationResult struct {
	Content  string `json:"content"`
	Credits  int64  `json:"credits"`
	ReportID int64  `json:"report_id,omitempty"`
}

type ReportResult struct {
	ID              int64     `json:"id"`
	ReportType      string    `json:"report_type"`
	PatientNotes    string    `json:"patient_notes"`
	GeneratedReport string    `json:"generated_report"`
	CreatedAt       time.Time `json:"created_at"`
}

type DraftResult struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	PatientInfo       string    `json:"patient_info"`
	Subjective        string    `json:"subjective"`
	Objective         string    `json:"objective"`
	Assessment        string    `json:"assessment"`
	Plan              string    `json:"plan"`
	CompletedSections []string  `json:"completed_sections"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func creditsResult(b ledger.Balance) CreditsResult {
	return CreditsResult{Credits: b.Credits, TotalCreditsUsed: b.TotalCreditsUsed}
}

func transactionResults(txs []ledger.Transaction) []TransactionResult {
	out := make([]TransactionResult, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionResult{
			ID:          tx.ID,
			Kind:        string(tx.Kind),
			Amount:      tx.Amount,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return out
}

func reportResults(reports []model.Report) []ReportResult {
	out := make([]ReportResult, 0, len(reports))
	for _, r := range reports {
		out = append(out, ReportResult{
			ID:              r.ID,
			ReportType:      r.ReportType,
			PatientNotes:    r.PatientNotes,
			GeneratedReport: r.GeneratedReport,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out
}

func draftResult(d model.Draft) DraftResult {
	return DraftResult{
		ID:                d.ID,
		Title:             d.Title,
		PatientInfo:       d.PatientInfo,
		Subjective:        d.Subjective,
		Objective:         d.Objective,
		Assessment:        d.Assessment,
		Plan:              d.Plan,
		CompletedSections: splitSections(d.CompletedSections),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func joinSections(sections []string) string {
	return strings.Join(sections, ",")
}

func splitSections(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
