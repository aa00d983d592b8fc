package dataset

import (
	"strconv"
	"strings"

	"github.com/zeronista/retailops/internal/model"
)

// Recognized header names. Matching is case-sensitive and exact;
// unrecognized columns are ignored at parse time.
const (
	colInvoiceNo    = "InvoiceNo"
	colStockCode    = "StockCode"
	colDescription  = "Description"
	colQuantity     = "Quantity"
	colInvoiceDate  = "InvoiceDate"
	colUnitPrice    = "UnitPrice"
	colCustomerID   = "CustomerID"
	colCountry      = "Country"
	colTotalPrice   = "TotalPrice"
	colRevenue      = "Revenue" // alias for TotalPrice
	colInvoiceYear  = "InvoiceYear"
	colInvoiceMonth = "InvoiceMonth"
)

// buildInvoice maps one tokenized row onto an Invoice using the header
// order from line 1. Malformed numeric values become nil fields; the
// row itself is kept.
func buildInvoice(headers, fields []string) model.Invoice {
	var inv model.Invoice

	for i, name := range headers {
		if i >= len(fields) {
			break
		}
		value := fields[i]

		switch name {
		case colInvoiceNo:
			inv.InvoiceNo = parseIdentifier(value)
		case colStockCode:
			inv.StockCode = value
		case colDescription:
			inv.Description = value
		case colQuantity:
			inv.Quantity = parseInt(value)
		case colInvoiceDate:
			inv.InvoiceDate = value
		case colUnitPrice:
			inv.UnitPrice = parseFloat(value)
		case colCustomerID:
			inv.CustomerID = parseIdentifier(value)
		case colCountry:
			inv.Country = value
		case colTotalPrice, colRevenue:
			inv.TotalPrice = parseFloat(value)
		case colInvoiceYear:
			inv.InvoiceYear = parseInt(value)
		case colInvoiceMonth:
			inv.InvoiceMonth = parseInt(value)
		}
	}

	// Derive the total once at parse time. An explicit TotalPrice or
	// Revenue value is used verbatim and never overwritten.
	if inv.TotalPrice == nil && inv.Quantity != nil && inv.UnitPrice != nil {
		total := float64(*inv.Quantity) * *inv.UnitPrice
		inv.TotalPrice = &total
	}

	return inv
}

// parseInt parses an exact integer string, returning nil on failure.
func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// parseFloat parses an exact numeric string, returning nil on failure.
func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseIdentifier strips non-digit characters before parsing,
// tolerating formats like "INV-12345" or trailing whitespace. A minus
// sign counts only as a leading sign; embedded hyphens are separator
// junk. Returns nil when nothing parseable remains.
func parseIdentifier(s string) *int64 {
	trimmed := strings.TrimSpace(s)

	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	if strings.HasPrefix(trimmed, "-") {
		n = -n
	}
	return &n
}
