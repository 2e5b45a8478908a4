package handlers

import (
	"net/http"
	"time"

	"github.com/xelth-com/eckmobile/internal/services/export"
	"github.com/xelth-com/eckmobile/internal/services/portal"
)

func (r *Router) getStockEntries(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.ListStockEntries(req.Context(), p.getInt("limit", 0))
	if err != nil {
		r.respondFailure(w, req, "get_stock_entries", err)
		return
	}
	respondMessage(w, res)
}

func (r *Router) getStockEntryDetail(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.GetStockEntry(req.Context(), p.get("name"))
	if err != nil {
		r.respondFailure(w, req, "get_stock_entry_detail", err)
		return
	}
	respondMessage(w, res)
}

func (r *Router) updateStockEntry(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.UpsertStockEntry(req.Context(), portal.UpsertRequest{
		Name:    p.get("name"),
		Token:   p.raw("token"),
		Items:   p.get("items"),
		Approve: p.getBool("approve"),
	})
	if err != nil {
		r.respondFailure(w, req, "update_stock_entry", err)
		return
	}
	respondMessage(w, res)
}

// exportStockEntries sends the recent stock movements as an XLSX workbook
func (r *Router) exportStockEntries(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.ListStockEntries(req.Context(), p.getInt("limit", 0))
	if err != nil {
		r.respondFailure(w, req, "export_stock_entries", err)
		return
	}

	data, err := export.StockEntries(res.StockEntries)
	if err != nil {
		r.respondFailure(w, req, "export_stock_entries", err)
		return
	}
	filename := "stock_entries_" + time.Now().Format("20060102") + ".xlsx"
	respondFile(w, export.ContentTypeXLSX, filename, data)
}
