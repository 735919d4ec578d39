package api

import (
	"net/http"

	"github.com/garnizeh/quartermaster/internal/catalog"
)

type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// GetCatalog returns the material labels plus the category and set names, in
// curated order. Front ends use it to populate pickers.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	labelA, labelB := h.cat.Materials()

	writeJSON(w, map[string]any{
		"materials":  map[string]string{"a": labelA, "b": labelB},
		"categories": h.cat.Categories(),
		"sets":       h.cat.Sets(),
	}, http.StatusOK)
}

type catalogItem struct {
	ItemName string `json:"item_name"`
	CostA    int64  `json:"cost_a"`
	CostB    int64  `json:"cost_b"`
}

// ListItems returns the items of one category with their per-unit costs. An
// unknown category is an empty list, not an error.
func (h *CatalogHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		http.Error(w, "category is required", http.StatusBadRequest)
		return
	}

	names := h.cat.Items(category)
	items := make([]catalogItem, 0, len(names))
	for _, name := range names {
		costA, costB, _ := h.cat.Cost(category, name)
		items = append(items, catalogItem{ItemName: name, CostA: costA, CostB: costB})
	}

	writeJSON(w, map[string]any{"category": category, "count": len(items), "items": items}, http.StatusOK)
}

type catalogSet struct {
	SetName    string             `json:"set_name"`
	Pieces     []catalog.SetPiece `json:"pieces"`
	TotalCostA int64              `json:"total_cost_a"`
	TotalCostB int64              `json:"total_cost_b"`
}

// ListSets returns every full set with its piece list and summed costs.
func (h *CatalogHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	names := h.cat.Sets()
	sets := make([]catalogSet, 0, len(names))
	for _, name := range names {
		totalA, totalB, _ := h.cat.SetTotals(name)
		sets = append(sets, catalogSet{
			SetName:    name,
			Pieces:     h.cat.SetItems(name),
			TotalCostA: totalA,
			TotalCostB: totalB,
		})
	}

	writeJSON(w, map[string]any{"count": len(sets), "items": sets}, http.StatusOK)
}
