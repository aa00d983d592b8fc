package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeronista/retailops/internal/config"
	"github.com/zeronista/retailops/internal/model"
)

func TestParseCategory(t *testing.T) {
	for _, name := range []string{"inventory", "marketing", "sales", "analytics", "INVENTORY"} {
		cat, ok := ParseCategory(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, cat)
	}

	_, ok := ParseCategory("finance")
	assert.False(t, ok)
}

func TestAllowedRoles(t *testing.T) {
	for _, cat := range Categories() {
		assert.Contains(t, AllowedRoles(cat), model.RoleAdmin, string(cat))
	}
	assert.Contains(t, AllowedRoles(Inventory), model.RoleInventoryManager)
	assert.Contains(t, AllowedRoles(Marketing), model.RoleMarketingManager)
	assert.Contains(t, AllowedRoles(Sales), model.RoleSalesManager)
	assert.Contains(t, AllowedRoles(Analytics), model.RoleSalesManager)
	assert.NotContains(t, AllowedRoles(Inventory), model.RoleSalesManager)
}

func TestBaseURL(t *testing.T) {
	p := New(&config.Config{InventoryAPIURL: "http://inventory:8000/"}, zerolog.Nop())

	base, ok := p.BaseURL(Inventory)
	assert.True(t, ok)
	assert.Equal(t, "http://inventory:8000", base) // trailing slash trimmed

	_, ok = p.BaseURL(Marketing)
	assert.False(t, ok)
}

func TestForward_RelaysRequest(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotBody, gotContentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer upstream.Close()

	p := New(&config.Config{InventoryAPIURL: upstream.URL}, zerolog.Nop())

	resp, err := p.Forward(context.Background(), Inventory, http.MethodPost,
		"items/restock", "dry_run=1", strings.NewReader(`{"sku":"A1","qty":5}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/items/restock", gotPath)
	assert.Equal(t, "dry_run=1", gotQuery)
	assert.Equal(t, `{"sku":"A1","qty":5}`, gotBody)
	assert.Equal(t, "application/json", gotContentType)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestForward_GETWithoutBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	p := New(&config.Config{SalesAPIURL: upstream.URL + "/"}, zerolog.Nop())

	resp, err := p.Forward(context.Background(), Sales, http.MethodGet, "", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForward_UnconfiguredCategory(t *testing.T) {
	p := New(&config.Config{}, zerolog.Nop())

	_, err := p.Forward(context.Background(), Marketing, http.MethodGet, "", "", nil)
	assert.Error(t, err)
}

func TestHealth_PerCategoryReachability(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	// An upstream that answers 500 still counts as reachable.
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer flaky.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close() // closed immediately: transport error

	p := New(&config.Config{
		InventoryAPIURL: up.URL,
		MarketingAPIURL: flaky.URL,
		SalesAPIURL:     down.URL,
		// analytics left unconfigured
	}, zerolog.Nop())

	results := p.Health(context.Background())

	assert.True(t, results[Inventory])
	assert.True(t, results[Marketing])
	assert.False(t, results[Sales])
	assert.False(t, results[Analytics])
	assert.Len(t, results, 4)
}
