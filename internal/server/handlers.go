package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zeronista/retailops/internal/auth"
	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/service"
	"github.com/zeronista/retailops/internal/stats"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
	}

	caches := map[string]any{}
	for _, ds := range []dataset.Dataset{dataset.Cleaned, dataset.Full} {
		if age, ok := s.cache.Age(ds); ok {
			caches[string(ds)] = map[string]any{
				"age_seconds": int(age.Seconds()),
				"fresh":       age < s.cache.TTL(),
			}
		} else {
			caches[string(ds)] = map[string]any{"loaded": false}
		}
	}
	resp["datasets"] = caches

	s.writeJSON(w, http.StatusOK, resp)
}

// handleDashboard redirects the caller to their role's dashboard,
// first match wins, login fallback.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r.Context())
	http.Redirect(w, r, auth.DashboardFor(user), http.StatusFound)
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	ds := datasetParam(r)
	q := r.URL.Query().Get("q")
	page, size := pageParams(r)

	result, err := s.svc.Invoices(ds, q, page, size)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleInvoiceByNo(w http.ResponseWriter, r *http.Request) {
	invoiceNo, err := strconv.ParseInt(chi.URLParam(r, "invoiceNo"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid invoice number")
		return
	}

	lines, err := s.svc.InvoiceByNo(datasetParam(r), invoiceNo)
	if err == service.ErrNotFound {
		s.writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := s.svc.Products(datasetParam(r), r.URL.Query().Get("q"), page, size)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := s.svc.Customers(datasetParam(r), r.URL.Query().Get("q"), page, size)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := s.svc.Orders(datasetParam(r), r.URL.Query().Get("q"), page, size)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	ds := datasetParam(r)
	records, rep, err := s.cache.Load(ds)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"dataset": ds,
		"summary": stats.Summarize(records),
		"report":  rep,
	})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.cache.Clear()
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":     "cleared",
		"cleared_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLoadReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reports, err := s.store.RecentLoadReports(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load ingestion reports")
		s.writeError(w, http.StatusInternalServerError, "failed to load reports")
		return
	}
	s.writeJSON(w, http.StatusOK, reports)
}

// datasetParam selects the dataset from the query string; anything but
// "full" means the cleaned dataset.
func datasetParam(r *http.Request) dataset.Dataset {
	if r.URL.Query().Get("dataset") == string(dataset.Full) {
		return dataset.Full
	}
	return dataset.Cleaned
}

// pageParams parses page and size, applying defaults on garbage.
func pageParams(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	return page, size
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
