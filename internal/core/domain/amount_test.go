package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		kind  AmountKind
		value string
	}{
		{name: "currency text", input: " $1,234.56 ", kind: AmountParsed, value: "1234.56"},
		{name: "plain number text", input: "42", kind: AmountParsed, value: "42"},
		{name: "zero is a value", input: "0", kind: AmountParsed, value: "0"},
		{name: "negative", input: "-15.25", kind: AmountParsed, value: "-15.25"},
		{name: "dollar then space", input: "$ 99.10", kind: AmountParsed, value: "99.1"},
		{name: "float", input: 12.5, kind: AmountParsed, value: "12.5"},
		{name: "int", input: 600, kind: AmountParsed, value: "600"},
		{name: "field", input: Field("$2,500.00"), kind: AmountParsed, value: "2500"},
		{name: "nil", input: nil, kind: AmountAbsent},
		{name: "blank", input: "   ", kind: AmountAbsent},
		{name: "empty field", input: Field(""), kind: AmountAbsent},
		{name: "pending extraction", input: "Pending Extraction", kind: AmountSentinel},
		{name: "pending", input: "Pending", kind: AmountSentinel},
		{name: "not available", input: "N/A", kind: AmountSentinel},
		{name: "unknown", input: "Unknown", kind: AmountSentinel},
		{name: "words", input: "about twelve dollars", kind: AmountMalformed},
		{name: "bare dollar", input: "$", kind: AmountMalformed},
		{name: "bool literal", input: Field("true"), kind: AmountMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			assert.Equal(t, tt.kind, got.Kind)
			if tt.kind == AmountParsed {
				assert.True(t, got.Ok())
				assert.True(t, decimal.RequireFromString(tt.value).Equal(got.Value), "got %s", got.Value)
			} else {
				assert.False(t, got.Ok())
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "$1,234.56", FormatMoney(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "$1,000,000.00", FormatMoney(decimal.NewFromInt(1000000)))
	assert.Equal(t, "$0.50", FormatMoney(decimal.RequireFromString("0.5")))
	assert.Equal(t, "$-1,250.00", FormatMoney(decimal.NewFromInt(-1250)))
}

func TestFieldDecodesLooseJSON(t *testing.T) {
	var data ExtractedData
	err := json.Unmarshal([]byte(`{"vendor":"Acme","total_amount":1250.5,"date":null,"invoice_number":1001}`), &data)
	require.NoError(t, err)

	assert.Equal(t, Field("Acme"), data.Vendor)
	assert.Equal(t, Field("1250.5"), data.TotalAmount)
	assert.Equal(t, Field(""), data.Date)
	assert.Equal(t, Field("1001"), data.InvoiceNumber)
	assert.True(t, ParseAmount(data.TotalAmount).Ok())
}

func TestCanonicalVendorPriority(t *testing.T) {
	tests := []struct {
		name   string
		data   ExtractedData
		want   string
		wantOK bool
	}{
		{name: "vendor wins", data: ExtractedData{Vendor: "Acme", VendorName: "Other", MerchantName: "Shop"}, want: "Acme", wantOK: true},
		{name: "vendor_name fallback", data: ExtractedData{VendorName: "Other", MerchantName: "Shop"}, want: "Other", wantOK: true},
		{name: "merchant fallback", data: ExtractedData{MerchantName: "Shop"}, want: "Shop", wantOK: true},
		{name: "sentinel skipped", data: ExtractedData{Vendor: "Pending Extraction", MerchantName: "Shop"}, want: "Shop", wantOK: true},
		{name: "all missing", data: ExtractedData{Vendor: "Unknown"}, wantOK: false},
		{name: "whitespace only", data: ExtractedData{Vendor: "   "}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.data.CanonicalVendor()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocumentCategory(t *testing.T) {
	assert.Equal(t, "invoice", Document{FileType: "pdf", ExtractedData: ExtractedData{DetectedType: "invoice"}}.Category())
	assert.Equal(t, "pdf", Document{FileType: "pdf"}.Category())
	assert.Equal(t, "other", Document{}.Category())
}

func TestRiskLevelFor(t *testing.T) {
	assert.Equal(t, RiskLow, RiskLevelFor(nil))
	assert.Equal(t, RiskLow, RiskLevelFor([]Anomaly{{Severity: SeverityLow}, {Severity: SeverityMedium}}))
	assert.Equal(t, RiskMedium, RiskLevelFor([]Anomaly{{Severity: SeverityHigh}, {Severity: SeverityLow}}))
	assert.Equal(t, RiskHigh, RiskLevelFor([]Anomaly{{Severity: SeverityMedium}, {Severity: SeverityCritical}}))
}
