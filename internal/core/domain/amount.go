package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type AmountKind int

const (
	AmountParsed AmountKind = iota
	// AmountAbsent covers null, a missing key and blank text.
	AmountAbsent
	// AmountSentinel is a placeholder such as "Pending Extraction".
	AmountSentinel
	// AmountMalformed is text that is not a number once currency noise is removed.
	AmountMalformed
)

func (k AmountKind) String() string {
	switch k {
	case AmountParsed:
		return "parsed"
	case AmountAbsent:
		return "absent"
	case AmountSentinel:
		return "sentinel"
	case AmountMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Amount is the outcome of normalizing an extracted total. A zero Value with
// Kind AmountParsed is a real "$0.00"; every other kind means no number.
type Amount struct {
	Value decimal.Decimal
	Kind  AmountKind
	Raw   string
}

func (a Amount) Ok() bool { return a.Kind == AmountParsed }

var amountSentinels = map[string]struct{}{
	"Pending":            {},
	"N/A":                {},
	"Pending Extraction": {},
	"Unknown":            {},
}

// ParseAmount normalizes a currency amount given as text, a Field, a number
// or nil. It never fails: unusable input is reported through Kind.
func ParseAmount(v any) Amount {
	switch value := v.(type) {
	case nil:
		return Amount{Kind: AmountAbsent}
	case Field:
		return parseAmountText(string(value))
	case string:
		return parseAmountText(value)
	case *string:
		if value == nil {
			return Amount{Kind: AmountAbsent}
		}
		return parseAmountText(*value)
	case json.Number:
		return parseAmountText(value.String())
	case decimal.Decimal:
		return Amount{Value: value, Kind: AmountParsed, Raw: value.String()}
	case float64:
		return Amount{Value: decimal.NewFromFloat(value), Kind: AmountParsed, Raw: fmt.Sprint(value)}
	case float32:
		return Amount{Value: decimal.NewFromFloat32(value), Kind: AmountParsed, Raw: fmt.Sprint(value)}
	case int:
		return Amount{Value: decimal.NewFromInt(int64(value)), Kind: AmountParsed, Raw: fmt.Sprint(value)}
	case int64:
		return Amount{Value: decimal.NewFromInt(value), Kind: AmountParsed, Raw: fmt.Sprint(value)}
	default:
		return parseAmountText(fmt.Sprint(value))
	}
}

func parseAmountText(raw string) Amount {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Amount{Kind: AmountAbsent, Raw: raw}
	}
	if _, ok := amountSentinels[trimmed]; ok {
		return Amount{Kind: AmountSentinel, Raw: raw}
	}

	clean := strings.TrimPrefix(trimmed, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return Amount{Kind: AmountMalformed, Raw: raw}
	}

	value, err := decimal.NewFromString(clean)
	if err != nil {
		return Amount{Kind: AmountMalformed, Raw: raw}
	}
	return Amount{Value: value, Kind: AmountParsed, Raw: raw}
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount as "$#,##0.00".
func FormatMoney(amount decimal.Decimal) string {
	return "$" + moneyPrinter.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// RoundedFloat is a two-decimal float for JSON detail payloads.
func RoundedFloat(amount decimal.Decimal) float64 {
	return amount.Round(2).InexactFloat64()
}
