package models

import "errors"

// Doctypes used by the mobile endpoints. Names follow the ERP schema.
const (
	DoctypeCustomer              = "Customer"
	DoctypeUser                  = "User"
	DoctypeSalesInvoice          = "Sales Invoice"
	DoctypeSalesInvoiceItem      = "Sales Invoice Item"
	DoctypePOSInvoice            = "POS Invoice"
	DoctypePOSInvoiceItem        = "POS Invoice Item"
	DoctypeStockEntry            = "Stock Entry"
	DoctypeStockEntryDetail      = "Stock Entry Detail"
	DoctypePaymentEntry          = "Payment Entry"
	DoctypePaymentEntryReference = "Payment Entry Reference"
	DoctypeItem                  = "Item"
	DoctypeNotification          = "Customer Notification"
)

// PartyTypeCustomer is the party_type literal on payment entries
const PartyTypeCustomer = "Customer"

// Docstatus is the document lifecycle flag.
const (
	DocstatusDraft     = 0
	DocstatusSubmitted = 1
	DocstatusCancelled = 2
)

var (
	// ErrNotFound is returned by stores when no record matches
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned by credential verifiers on a bad login
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrNotDraft is returned when a mutation targets a non-draft document
	ErrNotDraft = errors.New("document is not in draft state")
)

// TableName maps a doctype to its table, e.g. "Stock Entry" -> "tabStock Entry"
func TableName(doctype string) string {
	return "tab" + doctype
}

// DocstatusLabel renders a docstatus the way the ERP desk does
func DocstatusLabel(docstatus int) string {
	switch docstatus {
	case DocstatusDraft:
		return "Draft"
	case DocstatusSubmitted:
		return "Submitted"
	case DocstatusCancelled:
		return "Cancelled"
	}
	return ""
}
