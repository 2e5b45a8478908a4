package models

import "context"

// Reader is the read side of the external record store.
// Single-record lookups return an error wrapping ErrNotFound when nothing matches.
type Reader interface {
	FindCustomerByCode(ctx context.Context, code string) (*Customer, error)
	FindUserByCustomerCode(ctx context.Context, code string) (*User, error)

	// ListInvoices returns invoice headers of one doctype ordered by posting_date desc
	ListInvoices(ctx context.Context, doctype string, q InvoiceQuery) ([]Invoice, error)
	// GetInvoice returns one invoice with its line items
	GetInvoice(ctx context.Context, doctype, name string) (*Invoice, error)

	// ListNotifications returns notifications of one customer ordered by creation desc
	ListNotifications(ctx context.Context, customer string, submittedOnly bool) ([]Notification, error)

	// ListPayments returns submitted customer payments ordered by posting_date desc, without references
	ListPayments(ctx context.Context, customer string) ([]PaymentEntry, error)
	// GetPayment returns one payment with its references
	GetPayment(ctx context.Context, name string) (*PaymentEntry, error)

	// ListStockEntries returns submitted stock entries ordered by creation desc, without lines
	ListStockEntries(ctx context.Context, limit int) ([]StockEntry, error)
	// GetStockEntry returns one stock entry with its lines
	GetStockEntry(ctx context.Context, name string) (*StockEntry, error)

	// SearchItems returns enabled items whose code or name contains text
	SearchItems(ctx context.Context, text string, limit int) ([]Item, error)
}

// Writer is the write side of the external record store
type Writer interface {
	// SaveStockEntry persists the lines of a draft stock entry
	SaveStockEntry(ctx context.Context, entry *StockEntry) error
	// SubmitStockEntry moves a draft stock entry to submitted
	SubmitStockEntry(ctx context.Context, name string) error
}

// Store is the full record store capability the portal depends on
type Store interface {
	Reader
	Writer
}

// CredentialVerifier checks a login against the framework's session system.
// A bad email/password pair yields an error wrapping ErrInvalidCredentials.
type CredentialVerifier interface {
	Login(ctx context.Context, usr, pwd string) (*Session, error)
}
