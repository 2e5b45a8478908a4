package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/xelth-com/eckmobile/internal/buildinfo"
	"github.com/xelth-com/eckmobile/internal/config"
	"github.com/xelth-com/eckmobile/internal/middleware"
	"github.com/xelth-com/eckmobile/internal/services/portal"
	"github.com/xelth-com/eckmobile/internal/services/printer"
)

// MethodPrefix is the path every whitelisted method is served under
const MethodPrefix = "/api/method/mobile_app.api."

// Options carries what the handlers need besides the façade
type Options struct {
	Backend string
	Invoice printer.InvoiceConfig
	Labels  printer.LabelConfig
}

// Router wraps the mux router and the portal façade
type Router struct {
	*mux.Router
	portal *portal.Service
	opts   Options
	log    *logrus.Entry
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(svc *portal.Service, opts Options) *Router {
	if opts.Labels.Cols == 0 {
		opts.Labels = printer.DefaultLabelConfig
	}

	r := &Router{
		Router: mux.NewRouter(),
		portal: svc,
		opts:   opts,
		log:    config.GetLogger().WithField("module", "handlers"),
	}

	r.Use(middleware.RequestID, middleware.Logging, middleware.Recovery)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	methods := map[string]http.HandlerFunc{
		"hello_world":                r.helloWorld,
		"get_customer_by_code":       r.getCustomerByCode,
		"get_customer_invoices":      r.getCustomerInvoices,
		"get_customer_notifications": r.getCustomerNotifications,
		"get_customer_payments":      r.getCustomerPayments,
		"get_invoice_details":        r.getInvoiceDetails,
		"get_invoice_pdf":            r.getInvoicePDF,
		"get_stock_entries":          r.getStockEntries,
		"get_stock_entry_detail":     r.getStockEntryDetail,
		"get_stock_entry_labels":     r.getStockEntryLabels,
		"update_stock_entry":         r.updateStockEntry,
		"export_stock_entries":       r.exportStockEntries,
		"search_items":               r.searchItems,
		"login":                      r.login,
	}
	for name, h := range methods {
		r.HandleFunc(MethodPrefix+name, h).Methods("GET", "POST")
	}

	r.NotFoundHandler = http.HandlerFunc(r.unknownMethod)

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Current(r.opts.Backend)})
}

// helloWorld greets the caller
func (r *Router) helloWorld(w http.ResponseWriter, req *http.Request) {
	p, ok := r.params(w, req)
	if !ok {
		return
	}
	respondMessage(w, r.portal.Hello(p.get("name")))
}

func (r *Router) unknownMethod(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusNotFound, map[string]string{
		"exc_type": "DoesNotExistError",
		"error":    "No such method: " + req.URL.Path,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondMessage wraps a result the way the ERP wraps whitelisted method results
func respondMessage(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"message": data})
}

// respondFailure renders a façade error. Business failures are still HTTP 200.
func (r *Router) respondFailure(w http.ResponseWriter, req *http.Request, method string, err error) {
	pe := portal.AsError(err)

	entry := r.log.WithFields(logrus.Fields{
		"method":     method,
		"kind":       pe.Kind.String(),
		"request_id": middleware.GetRequestID(req.Context()),
	})
	if pe.Kind == portal.KindUnexpected {
		entry.WithError(err).Error("method failed")
	} else {
		entry.Debug(pe.Message)
	}

	if pe.Kind == portal.KindAuth {
		respondMessage(w, map[string]interface{}{"ok": false, "error": pe.Message})
		return
	}
	respondMessage(w, map[string]string{"error": pe.Message})
}

// respondFile sends a generated document as a download
func respondFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
