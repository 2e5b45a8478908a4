package handlers

import (
	"net/http"

	"github.com/xelth-com/eckmobile/internal/services/printer"
)

// getInvoicePDF renders one invoice as a PDF download
func (r *Router) getInvoicePDF(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	inv, err := r.portal.GetInvoice(req.Context(), p.get("name"))
	if err != nil {
		r.respondFailure(w, req, "get_invoice_pdf", err)
		return
	}

	pdfBytes, err := printer.GenerateInvoicePDF(inv, r.opts.Invoice)
	if err != nil {
		r.respondFailure(w, req, "get_invoice_pdf", err)
		return
	}
	respondFile(w, "application/pdf", inv.Name+".pdf", pdfBytes)
}

// getStockEntryLabels prints one QR label per line of a stock movement
func (r *Router) getStockEntryLabels(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	entry, err := r.portal.GetStockEntry(req.Context(), p.get("name"))
	if err != nil {
		r.respondFailure(w, req, "get_stock_entry_labels", err)
		return
	}

	labels := make([]printer.Label, 0, len(entry.Items))
	for _, line := range entry.Items {
		labels = append(labels, printer.Label{
			Code:    line.ItemCode,
			Caption: line.ItemName,
			Corner:  line.Destination,
		})
	}

	pdfBytes, err := printer.GenerateLabelsPDF(labels, r.opts.Labels)
	if err != nil {
		r.respondFailure(w, req, "get_stock_entry_labels", err)
		return
	}
	respondFile(w, "application/pdf", "labels_"+entry.ID+".pdf", pdfBytes)
}
