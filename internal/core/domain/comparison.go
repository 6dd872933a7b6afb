package domain

type ComparedDocument struct {
	Filename      string `json:"filename"`
	Vendor        string `json:"vendor"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	InvoiceNumber string `json:"invoice_number"`
}

type Difference struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

type Comparison struct {
	Document1        ComparedDocument `json:"document1"`
	Document2        ComparedDocument `json:"document2"`
	Differences      []Difference     `json:"differences"`
	IsDuplicate      bool             `json:"is_duplicate"`
	VendorSimilarity float64          `json:"vendor_similarity"`
}

type ExportFormat string

const (
	ExportCSV        ExportFormat = "csv"
	ExportQuickBooks ExportFormat = "quickbooks"
	ExportExcel      ExportFormat = "excel"
)

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
