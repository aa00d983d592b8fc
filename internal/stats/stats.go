// Package stats computes aggregate report statistics over an invoice
// list.
package stats

import (
	"fmt"
	"sort"

	"github.com/zeronista/retailops/internal/model"
)

// ProductRevenue is one entry in the top-products ranking.
type ProductRevenue struct {
	StockCode   string  `json:"stock_code"`
	Description string  `json:"description"`
	Revenue     float64 `json:"revenue"`
}

// Summary is the aggregate report over one dataset.
type Summary struct {
	TotalLines        int                `json:"total_lines"`
	TotalRevenue      float64            `json:"total_revenue"`
	DistinctInvoices  int                `json:"distinct_invoices"`
	DistinctCustomers int                `json:"distinct_customers"`
	DistinctProducts  int                `json:"distinct_products"`
	ReturnLines       int                `json:"return_lines"` // negative quantity
	AvgOrderValue     float64            `json:"avg_order_value"`
	RevenueByCountry  map[string]float64 `json:"revenue_by_country"`
	RevenueByMonth    map[string]float64 `json:"revenue_by_month"`
	TopProducts       []ProductRevenue   `json:"top_products"`
}

const topProductCount = 5

// Summarize walks the record list once and computes the sums, counts
// and averages for the report.
func Summarize(records []model.Invoice) Summary {
	summary := Summary{
		TotalLines:       len(records),
		RevenueByCountry: make(map[string]float64),
		RevenueByMonth:   make(map[string]float64),
	}

	invoices := make(map[int64]struct{})
	customers := make(map[int64]struct{})
	productRevenue := make(map[string]*ProductRevenue)

	for _, inv := range records {
		if inv.InvoiceNo != nil {
			invoices[*inv.InvoiceNo] = struct{}{}
		}
		if inv.CustomerID != nil {
			customers[*inv.CustomerID] = struct{}{}
		}
		if inv.Quantity != nil && *inv.Quantity < 0 {
			summary.ReturnLines++
		}
		if inv.TotalPrice == nil {
			continue
		}

		total := *inv.TotalPrice
		summary.TotalRevenue += total
		if inv.Country != "" {
			summary.RevenueByCountry[inv.Country] += total
		}
		if inv.InvoiceYear != nil && inv.InvoiceMonth != nil {
			key := fmt.Sprintf("%04d-%02d", *inv.InvoiceYear, *inv.InvoiceMonth)
			summary.RevenueByMonth[key] += total
		}
		if inv.StockCode != "" {
			pr, ok := productRevenue[inv.StockCode]
			if !ok {
				pr = &ProductRevenue{StockCode: inv.StockCode, Description: inv.Description}
				productRevenue[inv.StockCode] = pr
			}
			pr.Revenue += total
		}
	}

	summary.DistinctInvoices = len(invoices)
	summary.DistinctCustomers = len(customers)
	summary.DistinctProducts = len(productRevenue)
	if summary.DistinctInvoices > 0 {
		summary.AvgOrderValue = summary.TotalRevenue / float64(summary.DistinctInvoices)
	}

	ranked := make([]ProductRevenue, 0, len(productRevenue))
	for _, pr := range productRevenue {
		ranked = append(ranked, *pr)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].StockCode < ranked[j].StockCode
	})
	if len(ranked) > topProductCount {
		ranked = ranked[:topProductCount]
	}
	summary.TopProducts = ranked

	return summary
}
