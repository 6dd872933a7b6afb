package review

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

const topVendorLimit = 5

// totals accumulates amounts per key and remembers first-seen order so that
// equal totals sort the same way on every call.
type totals struct {
	order []string
	sums  map[string]decimal.Decimal
}

func newTotals() *totals {
	return &totals{sums: make(map[string]decimal.Decimal)}
}

func (t *totals) add(key string, amount decimal.Decimal) {
	current, ok := t.sums[key]
	if !ok {
		t.order = append(t.order, key)
	}
	t.sums[key] = current.Add(amount)
}

func (t *totals) byTotalDesc() []string {
	keys := append([]string(nil), t.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.sums[keys[i]].GreaterThan(t.sums[keys[j]])
	})
	return keys
}

// Aggregate computes spend analytics over a corpus. Documents without a
// usable amount are left out of every spend figure but still count toward
// total_documents.
func Aggregate(corpus []domain.Document) domain.AnalyticsResult {
	var (
		amounts    []decimal.Decimal
		vendors    = newTotals()
		categories = newTotals()
		months     = newTotals()
	)

	for _, doc := range corpus {
		amount := domain.ParseAmount(doc.ExtractedData.TotalAmount)
		if !amount.Ok() {
			continue
		}
		amounts = append(amounts, amount.Value)

		if vendor, ok := doc.ExtractedData.CanonicalVendor(); ok {
			vendors.add(vendor, amount.Value)
		}
		categories.add(doc.Category(), amount.Value)
		if month, ok := monthKey(doc.ExtractedData.Date); ok {
			months.add(month, amount.Value)
		}
	}

	result := domain.AnalyticsResult{
		Summary:       summarize(len(corpus), amounts),
		ByVendor:      []domain.VendorSpend{},
		ByCategory:    []domain.CategorySpend{},
		MonthlyTrends: []domain.MonthlySpend{},
	}

	ranked := vendors.byTotalDesc()
	if len(ranked) > topVendorLimit {
		ranked = ranked[:topVendorLimit]
	}
	for _, vendor := range ranked {
		result.ByVendor = append(result.ByVendor, domain.VendorSpend{
			Vendor: vendor,
			Total:  domain.FormatMoney(vendors.sums[vendor]),
			Count:  countVendorDocuments(corpus, vendor),
		})
	}

	for _, category := range categories.byTotalDesc() {
		result.ByCategory = append(result.ByCategory, domain.CategorySpend{
			Category: category,
			Total:    domain.FormatMoney(categories.sums[category]),
		})
	}

	monthKeys := append([]string(nil), months.order...)
	sort.Strings(monthKeys)
	for _, month := range monthKeys {
		result.MonthlyTrends = append(result.MonthlyTrends, domain.MonthlySpend{
			Month: month,
			Total: domain.FormatMoney(months.sums[month]),
		})
	}

	return result
}

func summarize(totalDocuments int, amounts []decimal.Decimal) domain.AnalyticsSummary {
	total, avg, highest, lowest := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	if len(amounts) > 0 {
		total = decimal.Sum(amounts[0], amounts[1:]...)
		avg = total.Div(decimal.NewFromInt(int64(len(amounts))))
		highest = decimal.Max(amounts[0], amounts[1:]...)
		lowest = decimal.Min(amounts[0], amounts[1:]...)
	}
	return domain.AnalyticsSummary{
		TotalDocuments: totalDocuments,
		TotalSpend:     domain.FormatMoney(total),
		AverageSpend:   domain.FormatMoney(avg),
		HighestAmount:  domain.FormatMoney(highest),
		LowestAmount:   domain.FormatMoney(lowest),
	}
}

// countVendorDocuments counts every document in the corpus whose vendor is
// exactly the given name, including documents whose amount did not parse.
func countVendorDocuments(corpus []domain.Document, vendor string) int {
	count := 0
	for _, doc := range corpus {
		if name, ok := doc.ExtractedData.CanonicalVendor(); ok && name == vendor {
			count++
		}
	}
	return count
}

// monthKey takes the YYYY-MM prefix of a date; anything else is skipped.
func monthKey(date domain.Field) (string, bool) {
	raw := date.Trimmed()
	if len(raw) < 7 {
		return "", false
	}
	key := raw[:7]
	if _, err := time.Parse("2006-01", key); err != nil {
		return "", false
	}
	return key, true
}
