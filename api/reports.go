package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/garnizeh/quartermaster/internal/ledger"
	"github.com/garnizeh/quartermaster/pkg/models"
)

type ReportsHandler struct {
	ledger *ledger.Ledger
}

func NewReportsHandler(l *ledger.Ledger) *ReportsHandler {
	return &ReportsHandler{ledger: l}
}

// parseWindow turns report query parameters into a half-open [start, end)
// pair of unix-milli bounds. Either bound may be nil (unbounded). Canonical
// windows are anchored in UTC; custom bounds come in as RFC3339 timestamps.
func parseWindow(q url.Values) (*int64, *int64, error) {
	if name := q.Get("window"); name != "" {
		now := time.Now().UTC()
		var start int64
		switch name {
		case "today":
			start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
		case "week":
			start = now.AddDate(0, 0, -7).UnixMilli()
		case "month":
			start = now.AddDate(0, 0, -30).UnixMilli()
		case "all":
			return nil, nil, nil
		default:
			return nil, nil, fmt.Errorf("unknown window %q", name)
		}

		return &start, nil, nil
	}

	var start, end *int64
	if s := q.Get("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start: %v", err)
		}
		ms := t.UnixMilli()
		start = &ms
	}
	if s := q.Get("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end: %v", err)
		}
		ms := t.UnixMilli()
		end = &ms
	}

	return start, end, nil
}

func (h *ReportsHandler) Completed(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.ledger.Completed(r.Context(), start, end)
	if err != nil {
		http.Error(w, "failed to load completed requests", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*models.Request{}
	}

	writeJSON(w, map[string]any{"count": len(items), "items": items}, http.StatusOK)
}

func (h *ReportsHandler) Requesters(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.ledger.RequesterTotals(r.Context(), start, end)
	if err != nil {
		http.Error(w, "failed to load requester totals", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*models.RequesterTotals{}
	}

	writeJSON(w, map[string]any{"count": len(items), "items": items}, http.StatusOK)
}

func (h *ReportsHandler) Crafters(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.ledger.CrafterTotals(r.Context(), start, end)
	if err != nil {
		http.Error(w, "failed to load crafter totals", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*models.CrafterTotals{}
	}

	writeJSON(w, map[string]any{"count": len(items), "items": items}, http.StatusOK)
}

func (h *ReportsHandler) Items(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.ledger.ItemTotals(r.Context(), start, end)
	if err != nil {
		http.Error(w, "failed to load item totals", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*models.ItemTotals{}
	}

	writeJSON(w, map[string]any{"count": len(items), "items": items}, http.StatusOK)
}

func (h *ReportsHandler) Materials(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseWindow(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	totals, err := h.ledger.MaterialTotals(r.Context(), start, end)
	if err != nil {
		http.Error(w, "failed to load material totals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, totals, http.StatusOK)
}
