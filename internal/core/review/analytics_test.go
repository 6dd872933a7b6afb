package review

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

func TestAggregateEmptyCorpus(t *testing.T) {
	result := Aggregate(nil)

	assert.Equal(t, 0, result.Summary.TotalDocuments)
	assert.Equal(t, "$0.00", result.Summary.TotalSpend)
	assert.Equal(t, "$0.00", result.Summary.AverageSpend)
	assert.Equal(t, "$0.00", result.Summary.HighestAmount)
	assert.Equal(t, "$0.00", result.Summary.LowestAmount)
	assert.NotNil(t, result.ByVendor)
	assert.Empty(t, result.ByVendor)
	assert.Empty(t, result.ByCategory)
	assert.Empty(t, result.MonthlyTrends)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"by_vendor":[]`)
	assert.Contains(t, string(raw), `"monthly_trends":[]`)
}

func TestAggregateSpendStatistics(t *testing.T) {
	corpus := []domain.Document{
		{ID: "1", FileType: "pdf", ExtractedData: domain.ExtractedData{Vendor: "Acme", TotalAmount: "$1,200.00", Date: "2024-02-10", DetectedType: "invoice"}},
		{ID: "2", FileType: "pdf", ExtractedData: domain.ExtractedData{Vendor: "Globex", TotalAmount: "300", Date: "2024-01-15", DetectedType: "invoice"}},
		{ID: "3", FileType: "image", ExtractedData: domain.ExtractedData{MerchantName: "Cafe", TotalAmount: "12.50", Date: "2024-02-01"}},
		{ID: "4", ExtractedData: domain.ExtractedData{Vendor: "Acme", TotalAmount: "Pending Extraction", Date: "2024-03-01"}},
		{ID: "5", ExtractedData: domain.ExtractedData{Vendor: "Pending Extraction", TotalAmount: "87.50", Date: "not a date"}},
	}

	result := Aggregate(corpus)

	assert.Equal(t, domain.AnalyticsSummary{
		TotalDocuments: 5,
		TotalSpend:     "$1,600.00",
		AverageSpend:   "$400.00",
		HighestAmount:  "$1,200.00",
		LowestAmount:   "$12.50",
	}, result.Summary)

	assert.Equal(t, []domain.VendorSpend{
		{Vendor: "Acme", Total: "$1,200.00", Count: 2},
		{Vendor: "Globex", Total: "$300.00", Count: 1},
		{Vendor: "Cafe", Total: "$12.50", Count: 1},
	}, result.ByVendor)

	assert.Equal(t, []domain.CategorySpend{
		{Category: "invoice", Total: "$1,500.00"},
		{Category: "other", Total: "$87.50"},
		{Category: "image", Total: "$12.50"},
	}, result.ByCategory)

	assert.Equal(t, []domain.MonthlySpend{
		{Month: "2024-01", Total: "$300.00"},
		{Month: "2024-02", Total: "$1,212.50"},
	}, result.MonthlyTrends)
}

func TestAggregateTopFiveVendors(t *testing.T) {
	var corpus []domain.Document
	for i, vendor := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		corpus = append(corpus, domain.Document{ExtractedData: domain.ExtractedData{
			Vendor:      domain.Field(vendor),
			TotalAmount: domain.Field(fmt.Sprintf("%d00", i+1)),
		}})
	}

	result := Aggregate(corpus)

	require.Len(t, result.ByVendor, 5)
	assert.Equal(t, "G", result.ByVendor[0].Vendor)
	assert.Equal(t, "$700.00", result.ByVendor[0].Total)
	assert.Equal(t, "C", result.ByVendor[4].Vendor)
}

func TestAggregateVendorKeysAreCaseSensitive(t *testing.T) {
	corpus := []domain.Document{
		{ExtractedData: domain.ExtractedData{Vendor: "Acme", TotalAmount: "10"}},
		{ExtractedData: domain.ExtractedData{Vendor: "ACME", TotalAmount: "20"}},
	}

	result := Aggregate(corpus)

	require.Len(t, result.ByVendor, 2)
	assert.Equal(t, "ACME", result.ByVendor[0].Vendor)
	assert.Equal(t, 1, result.ByVendor[0].Count)
}

func TestAggregateTiesKeepCorpusOrder(t *testing.T) {
	corpus := []domain.Document{
		{ExtractedData: domain.ExtractedData{Vendor: "Zeta", TotalAmount: "50"}},
		{ExtractedData: domain.ExtractedData{Vendor: "Alpha", TotalAmount: "50"}},
	}

	result := Aggregate(corpus)

	require.Len(t, result.ByVendor, 2)
	assert.Equal(t, "Zeta", result.ByVendor[0].Vendor)
	assert.Equal(t, "Alpha", result.ByVendor[1].Vendor)
}

func TestAggregateIsIdempotent(t *testing.T) {
	corpus := []domain.Document{
		{ID: "1", ExtractedData: domain.ExtractedData{Vendor: "Acme", TotalAmount: "$10", Date: "2024-01-02"}},
		{ID: "2", ExtractedData: domain.ExtractedData{Vendor: "Globex", TotalAmount: "$10", Date: "2023-12-02"}},
		{ID: "3", ExtractedData: domain.ExtractedData{Vendor: "Initech", TotalAmount: "N/A"}},
	}

	first, err := json.Marshal(Aggregate(corpus))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate(corpus))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestMonthKey(t *testing.T) {
	for raw, want := range map[domain.Field]string{
		"2024-03-15":           "2024-03",
		" 2024-11 ":            "2024-11",
		"2024-03-15T10:00:00Z": "2024-03",
		"03/15/2024":           "",
		"2024":                 "",
		"":                     "",
	} {
		got, ok := monthKey(raw)
		assert.Equal(t, want != "", ok, "date %q", raw)
		assert.Equal(t, want, got, "date %q", raw)
	}
}
