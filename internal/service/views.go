package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/model"
)

// Products returns one page of per-stock-code rollups.
func (s *Service) Products(ds dataset.Dataset, q string, page, size int) (model.Page[model.Product], error) {
	records, _, err := s.cache.Load(ds)
	if err != nil {
		return model.Page[model.Product]{}, err
	}

	type acc struct {
		product  model.Product
		priceSum float64
		priced   int
	}
	byCode := make(map[string]*acc)
	for _, inv := range records {
		if inv.StockCode == "" {
			continue
		}
		a, ok := byCode[inv.StockCode]
		if !ok {
			a = &acc{product: model.Product{StockCode: inv.StockCode}}
			byCode[inv.StockCode] = a
		}
		a.product.LineCount++
		if a.product.Description == "" {
			a.product.Description = inv.Description
		}
		if inv.Quantity != nil {
			a.product.TotalQuantity += *inv.Quantity
		}
		if inv.UnitPrice != nil {
			a.priceSum += *inv.UnitPrice
			a.priced++
		}
	}

	products := make([]model.Product, 0, len(byCode))
	for _, a := range byCode {
		if a.priced > 0 {
			a.product.AvgUnitPrice = a.priceSum / float64(a.priced)
		}
		if q != "" && !productMatches(a.product, q) {
			continue
		}
		products = append(products, a.product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].StockCode < products[j].StockCode
	})

	return paginate(products, page, size), nil
}

// Customers returns one page of per-customer rollups. Lines with no
// parseable customer identifier are excluded.
func (s *Service) Customers(ds dataset.Dataset, q string, page, size int) (model.Page[model.Customer], error) {
	records, _, err := s.cache.Load(ds)
	if err != nil {
		return model.Page[model.Customer]{}, err
	}

	type acc struct {
		customer model.Customer
		invoices map[int64]struct{}
	}
	byID := make(map[int64]*acc)
	for _, inv := range records {
		if inv.CustomerID == nil {
			continue
		}
		a, ok := byID[*inv.CustomerID]
		if !ok {
			a = &acc{
				customer: model.Customer{CustomerID: *inv.CustomerID, Country: inv.Country},
				invoices: make(map[int64]struct{}),
			}
			byID[*inv.CustomerID] = a
		}
		a.customer.LineCount++
		if inv.InvoiceNo != nil {
			a.invoices[*inv.InvoiceNo] = struct{}{}
		}
		if inv.TotalPrice != nil {
			a.customer.TotalSpend += *inv.TotalPrice
		}
	}

	customers := make([]model.Customer, 0, len(byID))
	for _, a := range byID {
		a.customer.InvoiceCount = len(a.invoices)
		if q != "" && !customerMatches(a.customer, q) {
			continue
		}
		customers = append(customers, a.customer)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})

	return paginate(customers, page, size), nil
}

// Orders groups invoice lines by transaction identifier and returns one
// page. Lines with no parseable identifier are excluded.
func (s *Service) Orders(ds dataset.Dataset, q string, page, size int) (model.Page[model.Order], error) {
	records, _, err := s.cache.Load(ds)
	if err != nil {
		return model.Page[model.Order]{}, err
	}

	byNo := make(map[int64]*model.Order)
	for _, inv := range records {
		if inv.InvoiceNo == nil {
			continue
		}
		o, ok := byNo[*inv.InvoiceNo]
		if !ok {
			o = &model.Order{
				InvoiceNo:   *inv.InvoiceNo,
				CustomerID:  inv.CustomerID,
				Country:     inv.Country,
				InvoiceDate: inv.InvoiceDate,
			}
			byNo[*inv.InvoiceNo] = o
		}
		o.LineCount++
		if inv.TotalPrice != nil {
			o.TotalValue += *inv.TotalPrice
		}
	}

	orders := make([]model.Order, 0, len(byNo))
	for _, o := range byNo {
		if q != "" && !orderMatches(*o, q) {
			continue
		}
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].InvoiceNo < orders[j].InvoiceNo
	})

	return paginate(orders, page, size), nil
}

func productMatches(p model.Product, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.StockCode), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

func customerMatches(c model.Customer, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strconv.FormatInt(c.CustomerID, 10), q) ||
		strings.Contains(strings.ToLower(c.Country), q)
}

func orderMatches(o model.Order, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strconv.FormatInt(o.InvoiceNo, 10), q) ||
		strings.Contains(strings.ToLower(o.Country), q)
}
