package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeronista/retailops/internal/model"
)

func line(invoiceNo int64, stock string, qty int, price float64, customer int64, country string, year, month int) model.Invoice {
	total := float64(qty) * price
	return model.Invoice{
		InvoiceNo:    &invoiceNo,
		StockCode:    stock,
		Quantity:     &qty,
		UnitPrice:    &price,
		CustomerID:   &customer,
		Country:      country,
		TotalPrice:   &total,
		InvoiceYear:  &year,
		InvoiceMonth: &month,
	}
}

func TestSummarize(t *testing.T) {
	records := []model.Invoice{
		line(1, "A", 2, 10.0, 100, "United Kingdom", 2010, 12), // 20.00
		line(1, "B", 1, 5.0, 100, "United Kingdom", 2010, 12),  // 5.00
		line(2, "A", 3, 10.0, 200, "France", 2011, 1),          // 30.00
		line(3, "C", -1, 4.0, 200, "France", 2011, 1),          // -4.00 return
	}

	s := Summarize(records)

	assert.Equal(t, 4, s.TotalLines)
	assert.InDelta(t, 51.0, s.TotalRevenue, 1e-9)
	assert.Equal(t, 3, s.DistinctInvoices)
	assert.Equal(t, 2, s.DistinctCustomers)
	assert.Equal(t, 3, s.DistinctProducts)
	assert.Equal(t, 1, s.ReturnLines)
	assert.InDelta(t, 17.0, s.AvgOrderValue, 1e-9)

	assert.InDelta(t, 25.0, s.RevenueByCountry["United Kingdom"], 1e-9)
	assert.InDelta(t, 26.0, s.RevenueByCountry["France"], 1e-9)

	assert.InDelta(t, 25.0, s.RevenueByMonth["2010-12"], 1e-9)
	assert.InDelta(t, 26.0, s.RevenueByMonth["2011-01"], 1e-9)

	require.NotEmpty(t, s.TopProducts)
	assert.Equal(t, "A", s.TopProducts[0].StockCode)
	assert.InDelta(t, 50.0, s.TopProducts[0].Revenue, 1e-9)
}

func TestSummarize_NilFieldsAreIgnored(t *testing.T) {
	records := []model.Invoice{
		{StockCode: "A", Country: "Spain"}, // no numerics at all
		line(1, "B", 2, 3.0, 100, "Spain", 2011, 2),
	}

	s := Summarize(records)

	assert.Equal(t, 2, s.TotalLines)
	assert.InDelta(t, 6.0, s.TotalRevenue, 1e-9)
	assert.Equal(t, 1, s.DistinctInvoices)
	assert.Equal(t, 1, s.DistinctCustomers)
	// Only the priced line contributes product revenue.
	assert.Equal(t, 1, s.DistinctProducts)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TotalLines)
	assert.Zero(t, s.TotalRevenue)
	assert.Zero(t, s.AvgOrderValue)
	assert.Empty(t, s.TopProducts)
}

func TestSummarize_TopProductsCappedAndOrdered(t *testing.T) {
	var records []model.Invoice
	codes := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, code := range codes {
		records = append(records, line(int64(i+1), code, i+1, 10.0, 100, "UK", 2011, 3))
	}

	s := Summarize(records)

	require.Len(t, s.TopProducts, 5)
	assert.Equal(t, "G", s.TopProducts[0].StockCode)
	for i := 1; i < len(s.TopProducts); i++ {
		assert.GreaterOrEqual(t, s.TopProducts[i-1].Revenue, s.TopProducts[i].Revenue)
	}
}
