// Package proxy forwards categorized REST calls to the configured
// upstream backend services.
package proxy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zeronista/retailops/internal/config"
	"github.com/zeronista/retailops/internal/model"
)

// Category names one upstream service group.
type Category string

const (
	Inventory Category = "inventory"
	Marketing Category = "marketing"
	Sales     Category = "sales"
	Analytics Category = "analytics"
)

// Categories lists every proxy category in a stable order.
func Categories() []Category {
	return []Category{Inventory, Marketing, Sales, Analytics}
}

// ParseCategory validates a URL path segment as a category.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(s)) {
	case Inventory:
		return Inventory, true
	case Marketing:
		return Marketing, true
	case Sales:
		return Sales, true
	case Analytics:
		return Analytics, true
	}
	return "", false
}

// AllowedRoles returns the roles permitted to call a category. ADMIN
// is allowed everywhere; SALES_MANAGER also covers analytics.
func AllowedRoles(cat Category) []model.Role {
	switch cat {
	case Inventory:
		return []model.Role{model.RoleAdmin, model.RoleInventoryManager}
	case Marketing:
		return []model.Role{model.RoleAdmin, model.RoleMarketingManager}
	case Sales, Analytics:
		return []model.Role{model.RoleAdmin, model.RoleSalesManager}
	}
	return []model.Role{model.RoleAdmin}
}

// Proxy holds the shared HTTP client and the upstream base URLs.
type Proxy struct {
	client    *http.Client
	upstreams map[Category]string
	log       zerolog.Logger
}

// New creates a proxy from the configured upstream URLs. Categories
// with an empty URL are disabled.
func New(cfg *config.Config, log zerolog.Logger) *Proxy {
	upstreams := map[Category]string{}
	for cat, url := range map[Category]string{
		Inventory: cfg.InventoryAPIURL,
		Marketing: cfg.MarketingAPIURL,
		Sales:     cfg.SalesAPIURL,
		Analytics: cfg.AnalyticsAPIURL,
	} {
		if url != "" {
			upstreams[cat] = strings.TrimRight(url, "/")
		}
	}

	return &Proxy{
		client:    &http.Client{Timeout: 30 * time.Second},
		upstreams: upstreams,
		log:       log.With().Str("component", "proxy").Logger(),
	}
}

// BaseURL returns the configured base URL for a category.
func (p *Proxy) BaseURL(cat Category) (string, bool) {
	url, ok := p.upstreams[cat]
	return url, ok
}

// Forward relays a GET or POST to the category's upstream, preserving
// the remaining path, query string, and JSON body. The caller owns the
// returned response body.
func (p *Proxy) Forward(ctx context.Context, cat Category, method, path, rawQuery string, body io.Reader) (*http.Response, error) {
	base, ok := p.upstreams[cat]
	if !ok {
		return nil, fmt.Errorf("upstream for category %q is not configured", cat)
	}

	url := base
	if path != "" {
		url += "/" + strings.TrimLeft(path, "/")
	}
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	p.log.Debug().Str("category", string(cat)).Str("method", method).Str("url", url).
		Msg("Forwarding upstream request")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream %s request failed: %w", cat, err)
	}
	return resp, nil
}

// Health probes every configured category concurrently and reports
// per-category boolean reachability. Unconfigured categories report
// false.
func (p *Proxy) Health(ctx context.Context) map[Category]bool {
	var mu sync.Mutex
	results := make(map[Category]bool, len(Categories()))
	for _, cat := range Categories() {
		results[cat] = false
	}

	g, ctx := errgroup.WithContext(ctx)
	for cat, base := range p.upstreams {
		cat, base := cat, base
		g.Go(func() error {
			reachable := p.probe(ctx, base)
			mu.Lock()
			results[cat] = reachable
			mu.Unlock()
			return nil // one unreachable upstream must not cancel the rest
		})
	}
	_ = g.Wait()

	return results
}

// probe treats any HTTP response, regardless of status, as proof of
// reachability; only transport-level failures count as down.
func (p *Proxy) probe(ctx context.Context, base string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return true
}
