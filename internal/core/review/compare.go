package review

import (
	"github.com/agnivade/levenshtein"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

// Compare lines up the key fields of two documents and flags a duplicate
// when both name the same vendor and carry the same invoice number.
func Compare(a, b domain.Document) domain.Comparison {
	vendorA, _ := a.ExtractedData.CanonicalVendor()
	vendorB, _ := b.ExtractedData.CanonicalVendor()

	cmp := domain.Comparison{
		Document1:        comparedDocument(a, vendorA),
		Document2:        comparedDocument(b, vendorB),
		Differences:      []domain.Difference{},
		VendorSimilarity: vendorSimilarity(vendorA, vendorB),
	}

	if vendorA != vendorB {
		cmp.Differences = append(cmp.Differences, domain.Difference{Field: "vendor", Type: "different"})
	}
	if a.ExtractedData.TotalAmount != b.ExtractedData.TotalAmount {
		cmp.Differences = append(cmp.Differences, domain.Difference{Field: "amount", Type: "different"})
	}

	invoiceA := domain.InvoiceKey(a.ExtractedData.InvoiceNumber.String())
	invoiceB := domain.InvoiceKey(b.ExtractedData.InvoiceNumber.String())
	keyA := domain.VendorKey(vendorA)
	if invoiceA != "" && keyA != "" && invoiceA == invoiceB && keyA == domain.VendorKey(vendorB) {
		cmp.IsDuplicate = true
		cmp.Differences = append(cmp.Differences, domain.Difference{Field: "invoice_number", Type: "duplicate"})
	}
	return cmp
}

func comparedDocument(doc domain.Document, vendor string) domain.ComparedDocument {
	return domain.ComparedDocument{
		Filename:      doc.Filename,
		Vendor:        vendor,
		Amount:        doc.ExtractedData.TotalAmount.String(),
		Date:          doc.ExtractedData.Date.String(),
		InvoiceNumber: doc.ExtractedData.InvoiceNumber.String(),
	}
}

// vendorSimilarity is 1 minus the normalized edit distance of the vendor
// keys. Two missing vendors are not considered similar.
func vendorSimilarity(a, b string) float64 {
	keyA, keyB := domain.VendorKey(a), domain.VendorKey(b)
	if keyA == "" || keyB == "" {
		return 0
	}
	longest := max(len([]rune(keyA)), len([]rune(keyB)))
	dist := levenshtein.ComputeDistance(keyA, keyB)
	return 1 - float64(dist)/float64(longest)
}
