package domain

type WorkflowStatus string

const (
	WorkflowApproved      WorkflowStatus = "approved"
	WorkflowNeedsApproval WorkflowStatus = "needs_approval"
	WorkflowNeedsReview   WorkflowStatus = "needs_review"
)

type AnomalyType string

const (
	AnomalyMissingAmount    AnomalyType = "missing_amount"
	AnomalyMissingVendor    AnomalyType = "missing_vendor"
	AnomalyMissingDate      AnomalyType = "missing_date"
	AnomalyOutlierAmount    AnomalyType = "outlier_amount"
	AnomalyDuplicateInvoice AnomalyType = "duplicate_invoice"
	AnomalySuspiciouslyLow  AnomalyType = "suspiciously_low"
	AnomalyRoundNumber      AnomalyType = "round_number"
)

// Severity is ordered: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Anomaly struct {
	Type     AnomalyType    `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

type WorkflowResult struct {
	Status              WorkflowStatus `json:"status"`
	Triggers            []string       `json:"triggers"`
	Anomalies           []Anomaly      `json:"anomalies"`
	RequiresHumanReview bool           `json:"requires_human_review"`
	AnomalyCount        int            `json:"anomaly_count"`
	RiskLevel           RiskLevel      `json:"risk_level"`
}

// RiskLevelFor derives the document risk from its most severe anomaly.
func RiskLevelFor(anomalies []Anomaly) RiskLevel {
	highest := 0
	for _, a := range anomalies {
		if rank := a.Severity.Rank(); rank > highest {
			highest = rank
		}
	}
	switch {
	case highest >= SeverityCritical.Rank():
		return RiskHigh
	case highest >= SeverityHigh.Rank():
		return RiskMedium
	default:
		return RiskLow
	}
}
