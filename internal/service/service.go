// Package service provides the in-memory lookup services over the
// cached transaction dataset: invoices, products, customers and
// orders, each with substring search and manual pagination.
package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/model"
)

// ErrNotFound signals an absent entity for single-entity lookups.
var ErrNotFound = errors.New("not found")

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// DataSource supplies dataset records; satisfied by *dataset.Cache.
type DataSource interface {
	Load(ds dataset.Dataset) ([]model.Invoice, dataset.Report, error)
}

// Service answers dataset queries against the loader cache.
type Service struct {
	cache DataSource
	log   zerolog.Logger
}

func New(cache DataSource, log zerolog.Logger) *Service {
	return &Service{
		cache: cache,
		log:   log.With().Str("component", "service").Logger(),
	}
}

// Invoices returns one page of invoice lines matching the search term.
func (s *Service) Invoices(ds dataset.Dataset, q string, page, size int) (model.Page[model.Invoice], error) {
	records, _, err := s.cache.Load(ds)
	if err != nil {
		return model.Page[model.Invoice]{}, err
	}

	matched := records
	if q != "" {
		matched = nil
		for _, inv := range records {
			if invoiceMatches(inv, q) {
				matched = append(matched, inv)
			}
		}
	}
	return paginate(matched, page, size), nil
}

// InvoiceByNo returns every line of one transaction. ErrNotFound when
// the identifier matches no line.
func (s *Service) InvoiceByNo(ds dataset.Dataset, invoiceNo int64) ([]model.Invoice, error) {
	records, _, err := s.cache.Load(ds)
	if err != nil {
		return nil, err
	}

	var lines []model.Invoice
	for _, inv := range records {
		if inv.InvoiceNo != nil && *inv.InvoiceNo == invoiceNo {
			lines = append(lines, inv)
		}
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}
	return lines, nil
}

func invoiceMatches(inv model.Invoice, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(inv.StockCode), q) ||
		strings.Contains(strings.ToLower(inv.Description), q) ||
		strings.Contains(strings.ToLower(inv.Country), q) {
		return true
	}
	if inv.InvoiceNo != nil && strings.Contains(strconv.FormatInt(*inv.InvoiceNo, 10), q) {
		return true
	}
	return false
}

// paginate slices one page out of the full result list. Page numbers
// start at 1; out-of-range pages yield an empty page rather than an
// error.
func paginate[T any](items []T, page, size int) model.Page[T] {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	total := len(items)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return model.Page[T]{
		Items:      pageItems,
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
