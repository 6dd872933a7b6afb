package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is a stored upload together with the fields an extraction
// pipeline produced for it. Status is free text for records supplied by
// callers; the pipeline itself only writes the constants above.
type Document struct {
	ID            string          `json:"id"`
	Filename      string          `json:"filename"`
	FileType      string          `json:"file_type,omitempty"`
	MimeType      string          `json:"mime_type,omitempty"`
	StoragePath   string          `json:"storage_path,omitempty"`
	Status        DocumentStatus  `json:"status,omitempty"`
	Summary       string          `json:"summary,omitempty"`
	Error         string          `json:"error,omitempty"`
	ExtractedData ExtractedData   `json:"extracted_data"`
	Workflow      *WorkflowResult `json:"workflow,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitzero"`
	UpdatedAt     time.Time       `json:"updated_at,omitzero"`
}

type ExtractedData struct {
	Vendor        Field `json:"vendor,omitempty"`
	VendorName    Field `json:"vendor_name,omitempty"`
	MerchantName  Field `json:"merchant_name,omitempty"`
	TotalAmount   Field `json:"total_amount,omitempty"`
	InvoiceNumber Field `json:"invoice_number,omitempty"`
	Date          Field `json:"date,omitempty"`
	DueDate       Field `json:"due_date,omitempty"`
	DetectedType  Field `json:"detected_type,omitempty"`
	PaymentTerms  Field `json:"payment_terms,omitempty"`
	Currency      Field `json:"currency,omitempty"`
}

// Field holds one extracted value. Extraction output is loosely typed, so
// JSON strings, numbers, booleans and null all decode into it; null and a
// missing key both become the empty Field.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*f = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = Field(s)
	default:
		// numbers, booleans, and the odd nested object keep their literal text
		*f = Field(trimmed)
	}
	return nil
}

func (f Field) String() string { return string(f) }

func (f Field) Trimmed() string { return strings.TrimSpace(string(f)) }

func (f Field) IsEmpty() bool { return f.Trimmed() == "" }

var vendorSentinels = map[string]struct{}{
	"":                   {},
	"Pending Extraction": {},
	"Unknown":            {},
}

// IsVendorSentinel reports whether a vendor value only stands in for
// "not extracted yet".
func IsVendorSentinel(vendor string) bool {
	_, ok := vendorSentinels[strings.TrimSpace(vendor)]
	return ok
}

// CanonicalVendor is the single accessor for a document's vendor. It checks
// vendor, then vendor_name, then merchant_name, and returns the first value
// that is not a sentinel. The value is returned as written; use VendorKey to
// group case-insensitively.
func (d ExtractedData) CanonicalVendor() (string, bool) {
	for _, candidate := range []Field{d.Vendor, d.VendorName, d.MerchantName} {
		if !IsVendorSentinel(string(candidate)) {
			return string(candidate), true
		}
	}
	return "", false
}

// VendorKey normalizes a vendor name for history lookups.
func VendorKey(vendor string) string {
	return strings.ToLower(strings.TrimSpace(vendor))
}

// InvoiceKey normalizes an invoice number for duplicate matching.
func InvoiceKey(invoice string) string {
	return strings.ToLower(strings.TrimSpace(invoice))
}

// Category is the spend category of a document: detected type, then file
// type, then "other".
func (d Document) Category() string {
	if !d.ExtractedData.DetectedType.IsEmpty() {
		return string(d.ExtractedData.DetectedType)
	}
	if strings.TrimSpace(d.FileType) != "" {
		return d.FileType
	}
	return "other"
}
