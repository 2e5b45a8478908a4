package handlers

import (
	"net/http"
)

func (r *Router) getCustomerByCode(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.ResolveCustomer(req.Context(), p.get("code"))
	if err != nil {
		r.respondFailure(w, req, "get_customer_by_code", err)
		return
	}
	respondMessage(w, res)
}

func (r *Router) getCustomerInvoices(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.ListInvoices(req.Context(), p.get("code"))
	if err != nil {
		r.respondFailure(w, req, "get_customer_invoices", err)
		return
	}
	respondMessage(w, res)
}

func (r *Router) getCustomerNotifications(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.ListNotifications(req.Context(), p.get("code"))
	if err != nil {
		r.respondFailure(w, req, "get_customer_notifications", err)
		return
	}
	respondMessage(w, res)
}

func (r *Router) getCustomerPayments(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.ListPayments(req.Context(), p.get("code"))
	if err != nil {
		r.respondFailure(w, req, "get_customer_payments", err)
		return
	}
	respondMessage(w, res)
}

func (r *Router) getInvoiceDetails(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.GetInvoice(req.Context(), p.get("name"))
	if err != nil {
		r.respondFailure(w, req, "get_invoice_details", err)
		return
	}
	respondMessage(w, res)
}

// searchItems answers with a bare list, like the legacy endpoint
func (r *Router) searchItems(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	res, err := r.portal.SearchItems(req.Context(), p.get("text"))
	if err != nil {
		r.respondFailure(w, req, "search_items", err)
		return
	}
	respondMessage(w, res)
}
