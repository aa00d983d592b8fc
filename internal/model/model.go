// Package model holds the domain types shared across the application.
package model

// Invoice is one parsed transaction line from the retail dataset.
// Numeric fields are pointers: a malformed source value parses to nil
// rather than dropping the row.
type Invoice struct {
	InvoiceNo    *int64   `json:"invoice_no"`
	StockCode    string   `json:"stock_code"`
	Description  string   `json:"description"`
	Quantity     *int     `json:"quantity"` // negative quantity represents a return
	InvoiceDate  string   `json:"invoice_date"`
	UnitPrice    *float64 `json:"unit_price"`
	CustomerID   *int64   `json:"customer_id"`
	Country      string   `json:"country"`
	TotalPrice   *float64 `json:"total_price"`
	InvoiceYear  *int     `json:"invoice_year,omitempty"`
	InvoiceMonth *int     `json:"invoice_month,omitempty"`
}

// Product is a per-stock-code rollup derived from invoice lines.
type Product struct {
	StockCode     string  `json:"stock_code"`
	Description   string  `json:"description"`
	LineCount     int     `json:"line_count"`
	TotalQuantity int     `json:"total_quantity"`
	AvgUnitPrice  float64 `json:"avg_unit_price"`
}

// Customer is a per-customer rollup derived from invoice lines.
type Customer struct {
	CustomerID   int64   `json:"customer_id"`
	Country      string  `json:"country"`
	InvoiceCount int     `json:"invoice_count"`
	LineCount    int     `json:"line_count"`
	TotalSpend   float64 `json:"total_spend"`
}

// Order groups the invoice lines that share one transaction identifier.
type Order struct {
	InvoiceNo   int64   `json:"invoice_no"`
	CustomerID  *int64  `json:"customer_id"`
	Country     string  `json:"country"`
	InvoiceDate string  `json:"invoice_date"`
	LineCount   int     `json:"line_count"`
	TotalValue  float64 `json:"total_value"`
}

// Page is a single page of results plus the pagination envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
