package review

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

const (
	TriggerHighValue     = "High Value Invoice (> $1000)"
	TriggerMissingVendor = "Missing Vendor Information"
)

var (
	highValueThreshold  = decimal.NewFromInt(1000)
	outlierMultiplier   = decimal.NewFromInt(3)
	roundNumberStep     = decimal.NewFromInt(100)
	roundNumberMinimum  = decimal.NewFromInt(500)
	suspiciousThreshold = decimal.NewFromInt(1)
)

// minOutlierHistory is the number of prior documents a vendor needs before
// its average is trusted as a baseline.
const minOutlierHistory = 2

// Evaluate runs the business rules for one document.
//
// The amount and vendor rules always run. The anomaly heuristics (missing
// date, vendor outlier and duplicate, suspiciously low, round number) run
// only when a history is given; a history built from an empty corpus still
// enables them. A nil history therefore gives the plain approval decision.
//
// Rules run in a fixed order and each may overwrite the status set by an
// earlier one. This is not a severity escalation: a later rule assigning a
// milder status wins. Callers depend on that order, keep it.
func Evaluate(doc domain.Document, history *VendorHistory) domain.WorkflowResult {
	e := evaluation{
		doc:       doc,
		status:    domain.WorkflowApproved,
		triggers:  []string{},
		anomalies: []domain.Anomaly{},
	}

	amount := e.checkAmount()
	e.checkHighValue(amount)
	vendor, hasVendor := e.checkVendor()
	if history != nil {
		e.checkDate()
		if hasVendor {
			entries := history.Lookup(vendor)
			e.checkOutlier(amount, entries)
			e.checkDuplicate(entries)
		}
		e.checkSuspiciouslyLow(amount)
		e.checkRoundNumber(amount)
	}

	return domain.WorkflowResult{
		Status:              e.status,
		Triggers:            e.triggers,
		Anomalies:           e.anomalies,
		RequiresHumanReview: e.status != domain.WorkflowApproved,
		AnomalyCount:        len(e.anomalies),
		RiskLevel:           domain.RiskLevelFor(e.anomalies),
	}
}

type evaluation struct {
	doc       domain.Document
	status    domain.WorkflowStatus
	triggers  []string
	anomalies []domain.Anomaly
}

func (e *evaluation) add(anomaly domain.Anomaly) {
	e.anomalies = append(e.anomalies, anomaly)
}

func (e *evaluation) checkAmount() decimal.Decimal {
	amount := domain.ParseAmount(e.doc.ExtractedData.TotalAmount)
	if amount.Ok() {
		return amount.Value
	}
	e.add(domain.Anomaly{
		Type:     domain.AnomalyMissingAmount,
		Severity: domain.SeverityHigh,
		Message:  missingAmountMessage(amount),
	})
	return decimal.Zero
}

func missingAmountMessage(amount domain.Amount) string {
	switch amount.Kind {
	case domain.AmountSentinel:
		return fmt.Sprintf("Total amount has not been extracted yet (%q)", amount.Raw)
	case domain.AmountMalformed:
		return fmt.Sprintf("Total amount %q could not be parsed", amount.Raw)
	default:
		return "Total amount is missing"
	}
}

func (e *evaluation) checkHighValue(amount decimal.Decimal) {
	if amount.GreaterThan(highValueThreshold) {
		e.triggers = append(e.triggers, TriggerHighValue)
		e.status = domain.WorkflowNeedsApproval
	}
}

func (e *evaluation) checkVendor() (string, bool) {
	vendor, ok := e.doc.ExtractedData.CanonicalVendor()
	if ok {
		return vendor, true
	}
	e.triggers = append(e.triggers, TriggerMissingVendor)
	e.add(domain.Anomaly{
		Type:     domain.AnomalyMissingVendor,
		Severity: domain.SeverityHigh,
		Message:  "Vendor name is missing",
	})
	e.status = domain.WorkflowNeedsReview
	return "", false
}

func (e *evaluation) checkDate() {
	if !e.doc.ExtractedData.Date.IsEmpty() {
		return
	}
	e.add(domain.Anomaly{
		Type:     domain.AnomalyMissingDate,
		Severity: domain.SeverityMedium,
		Message:  "Document date is missing",
	})
}

// checkOutlier compares the amount with the vendor's mean. The document's
// own entry is left out of the baseline, so passing a corpus that contains
// the target gives the same answer as one that does not.
func (e *evaluation) checkOutlier(amount decimal.Decimal, entries []HistoryEntry) {
	baseline := make([]decimal.Decimal, 0, len(entries))
	for _, entry := range entries {
		if e.doc.ID != "" && entry.ID == e.doc.ID {
			continue
		}
		baseline = append(baseline, entry.Amount)
	}
	if len(baseline) < minOutlierHistory {
		return
	}

	avg := decimal.Avg(baseline[0], baseline[1:]...)
	if !avg.IsPositive() || !amount.GreaterThan(avg.Mul(outlierMultiplier)) {
		return
	}

	multiplier := amount.Div(avg)
	e.add(domain.Anomaly{
		Type:     domain.AnomalyOutlierAmount,
		Severity: domain.SeverityHigh,
		Message: fmt.Sprintf(
			"Amount %s is %sx the vendor average of %s",
			domain.FormatMoney(amount),
			multiplier.StringFixed(1),
			domain.FormatMoney(avg),
		),
		Details: map[string]any{
			"average":    domain.RoundedFloat(avg),
			"current":    domain.RoundedFloat(amount),
			"multiplier": domain.RoundedFloat(multiplier),
		},
	})
	e.status = domain.WorkflowNeedsReview
}

func (e *evaluation) checkDuplicate(entries []HistoryEntry) {
	invoice := domain.InvoiceKey(e.doc.ExtractedData.InvoiceNumber.String())
	if invoice == "" {
		return
	}
	for _, entry := range entries {
		if entry.ID == e.doc.ID || domain.InvoiceKey(entry.InvoiceNumber) != invoice {
			continue
		}
		e.add(domain.Anomaly{
			Type:     domain.AnomalyDuplicateInvoice,
			Severity: domain.SeverityCritical,
			Message: fmt.Sprintf(
				"Invoice number %s was already submitted in %s",
				e.doc.ExtractedData.InvoiceNumber.Trimmed(),
				entry.Filename,
			),
			Details: map[string]any{
				"duplicate_doc_id":   entry.ID,
				"duplicate_filename": entry.Filename,
			},
		})
		e.status = domain.WorkflowNeedsReview
		return
	}
}

func (e *evaluation) checkSuspiciouslyLow(amount decimal.Decimal) {
	if !amount.IsPositive() || !amount.LessThan(suspiciousThreshold) {
		return
	}
	e.add(domain.Anomaly{
		Type:     domain.AnomalySuspiciouslyLow,
		Severity: domain.SeverityMedium,
		Message:  fmt.Sprintf("Amount %s is unusually low", domain.FormatMoney(amount)),
	})
}

func (e *evaluation) checkRoundNumber(amount decimal.Decimal) {
	if !amount.IsPositive() || amount.LessThan(roundNumberMinimum) || !amount.Mod(roundNumberStep).IsZero() {
		return
	}
	e.add(domain.Anomaly{
		Type:     domain.AnomalyRoundNumber,
		Severity: domain.SeverityLow,
		Message:  fmt.Sprintf("Amount %s is a round number", domain.FormatMoney(amount)),
	})
}
