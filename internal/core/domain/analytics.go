package domain

// QueryFallbackAnswer is returned in place of an answer whenever the query
// responder fails.
const QueryFallbackAnswer = "Unable to process query at this time."

type AnalyticsSummary struct {
	TotalDocuments int    `json:"total_documents"`
	TotalSpend     string `json:"total_spend"`
	AverageSpend   string `json:"average_spend"`
	HighestAmount  string `json:"highest_amount"`
	LowestAmount   string `json:"lowest_amount"`
}

type VendorSpend struct {
	Vendor string `json:"vendor"`
	Total  string `json:"total"`
	Count  int    `json:"count"`
}

type CategorySpend struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type MonthlySpend struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

type AnalyticsResult struct {
	Summary       AnalyticsSummary `json:"summary"`
	ByVendor      []VendorSpend    `json:"by_vendor"`
	ByCategory    []CategorySpend  `json:"by_category"`
	MonthlyTrends []MonthlySpend   `json:"monthly_trends"`
	QueryResponse string           `json:"query_response,omitempty"`
}
