// Package review holds the pure decision logic: per-document workflow
// evaluation against business rules and vendor history, corpus analytics,
// and pairwise document comparison. Nothing in here performs I/O or keeps
// state between calls.
package review

import (
	"github.com/shopspring/decimal"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

// HistoryEntry is one past document of a vendor with a usable amount.
type HistoryEntry struct {
	ID            string
	Filename      string
	InvoiceNumber string
	Amount        decimal.Decimal
}

// VendorHistory groups a corpus by vendor key. It is built for a single
// evaluation and must not outlive the corpus it was built from.
type VendorHistory struct {
	byVendor map[string][]HistoryEntry
}

// BuildVendorHistory indexes every document that has a real vendor and a
// parseable amount, keeping corpus order within each vendor.
func BuildVendorHistory(corpus []domain.Document) *VendorHistory {
	h := &VendorHistory{byVendor: make(map[string][]HistoryEntry)}
	for _, doc := range corpus {
		vendor, ok := doc.ExtractedData.CanonicalVendor()
		if !ok {
			continue
		}
		amount := domain.ParseAmount(doc.ExtractedData.TotalAmount)
		if !amount.Ok() {
			continue
		}
		key := domain.VendorKey(vendor)
		h.byVendor[key] = append(h.byVendor[key], HistoryEntry{
			ID:            doc.ID,
			Filename:      doc.Filename,
			InvoiceNumber: doc.ExtractedData.InvoiceNumber.String(),
			Amount:        amount.Value,
		})
	}
	return h
}

// Lookup returns the vendor's entries, ignoring case and surrounding
// whitespace. The returned slice is a copy.
func (h *VendorHistory) Lookup(vendor string) []HistoryEntry {
	if h == nil {
		return nil
	}
	entries := h.byVendor[domain.VendorKey(vendor)]
	if len(entries) == 0 {
		return []HistoryEntry{}
	}
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// Vendors reports how many distinct vendor keys were indexed.
func (h *VendorHistory) Vendors() int {
	if h == nil {
		return 0
	}
	return len(h.byVendor)
}
