package frappe

import (
	"context"
	"fmt"

	"github.com/xelth-com/eckmobile/internal/models"
)

// Store implements models.Store and models.CredentialVerifier on top of the REST client
type Store struct {
	client *Client
}

// NewStore wraps a client
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

var (
	_ models.Store              = (*Store)(nil)
	_ models.CredentialVerifier = (*Store)(nil)
)

// FindCustomerByCode looks up the customer carrying a custom customer code
func (s *Store) FindCustomerByCode(ctx context.Context, code string) (*models.Customer, error) {
	var customers []models.Customer
	err := s.client.GetList(ctx, models.DoctypeCustomer, ListOptions{
		Fields:  models.CustomerFields,
		Filters: []Filter{Eq("custom_customer_code", code)},
		Limit:   1,
	}, &customers)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("customer with code %q: %w", code, models.ErrNotFound)
	}
	return &customers[0], nil
}

// FindUserByCustomerCode looks up the user carrying a custom customer code
func (s *Store) FindUserByCustomerCode(ctx context.Context, code string) (*models.User, error) {
	var users []models.User
	err := s.client.GetList(ctx, models.DoctypeUser, ListOptions{
		Fields:  models.UserFields,
		Filters: []Filter{Eq("custom_customer_code", code)},
		Limit:   1,
	}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user with customer code %q: %w", code, models.ErrNotFound)
	}
	return &users[0], nil
}

// ListInvoices lists invoice headers of one customer
func (s *Store) ListInvoices(ctx context.Context, doctype string, q models.InvoiceQuery) ([]models.Invoice, error) {
	filters := []Filter{Eq("customer", q.Customer)}
	if q.SubmittedOnly {
		filters = append(filters, Eq("docstatus", models.DocstatusSubmitted))
	}
	if q.ExcludeConsolidated {
		filters = append(filters, IsNotSet("consolidated_invoice"))
	}

	var invoices []models.Invoice
	err := s.client.GetList(ctx, doctype, ListOptions{
		Fields:  models.InvoiceListFields,
		Filters: filters,
		OrderBy: "posting_date desc",
	}, &invoices)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Doctype = doctype
	}
	return invoices, nil
}

// GetInvoice reads one invoice with its items
func (s *Store) GetInvoice(ctx context.Context, doctype, name string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.client.GetDoc(ctx, doctype, name, &invoice); err != nil {
		return nil, err
	}
	invoice.Doctype = doctype
	return &invoice, nil
}

// ListNotifications lists the notifications of one customer
func (s *Store) ListNotifications(ctx context.Context, customer string, submittedOnly bool) ([]models.Notification, error) {
	filters := []Filter{Eq("customer", customer)}
	if submittedOnly {
		filters = append(filters, Eq("docstatus", models.DocstatusSubmitted))
	}

	var notifications []models.Notification
	err := s.client.GetList(ctx, models.DoctypeNotification, ListOptions{
		Fields:  models.NotificationFields,
		Filters: filters,
		OrderBy: "creation desc",
	}, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListPayments lists submitted payment entries of one customer
func (s *Store) ListPayments(ctx context.Context, customer string) ([]models.PaymentEntry, error) {
	var payments []models.PaymentEntry
	err := s.client.GetList(ctx, models.DoctypePaymentEntry, ListOptions{
		Fields: models.PaymentEntryFields,
		Filters: []Filter{
			Eq("party_type", models.PartyTypeCustomer),
			Eq("party", customer),
			Eq("docstatus", models.DocstatusSubmitted),
		},
		OrderBy: "posting_date desc",
	}, &payments)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// GetPayment reads one payment entry with its references
func (s *Store) GetPayment(ctx context.Context, name string) (*models.PaymentEntry, error) {
	var payment models.PaymentEntry
	if err := s.client.GetDoc(ctx, models.DoctypePaymentEntry, name, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListStockEntries lists the most recent submitted stock entries
func (s *Store) ListStockEntries(ctx context.Context, limit int) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := s.client.GetList(ctx, models.DoctypeStockEntry, ListOptions{
		Fields:  models.StockEntryFields,
		Filters: []Filter{Eq("docstatus", models.DocstatusSubmitted)},
		OrderBy: "creation desc",
		Limit:   limit,
	}, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetStockEntry reads one stock entry with its lines
func (s *Store) GetStockEntry(ctx context.Context, name string) (*models.StockEntry, error) {
	var entry models.StockEntry
	if err := s.client.GetDoc(ctx, models.DoctypeStockEntry, name, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SearchItems runs one combined query: enabled AND (code LIKE OR name LIKE)
func (s *Store) SearchItems(ctx context.Context, text string, limit int) ([]models.Item, error) {
	pattern := "%" + text + "%"

	var items []models.Item
	err := s.client.GetList(ctx, models.DoctypeItem, ListOptions{
		Fields:    models.ItemFields,
		Filters:   []Filter{Eq("disabled", 0)},
		OrFilters: []Filter{Like("item_code", pattern), Like("item_name", pattern)},
		OrderBy:   "item_code asc",
		Limit:     limit,
	}, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SaveStockEntry sends the full line table; the ERP validates and commits the document
func (s *Store) SaveStockEntry(ctx context.Context, entry *models.StockEntry) error {
	values := map[string]interface{}{
		"items": entry.Items,
	}
	var saved models.StockEntry
	if err := s.client.UpdateDoc(ctx, models.DoctypeStockEntry, entry.Name, values, &saved); err != nil {
		return err
	}
	*entry = saved
	return nil
}

// SubmitStockEntry submits by setting docstatus, which runs the ERP's submit hooks
func (s *Store) SubmitStockEntry(ctx context.Context, name string) error {
	values := map[string]interface{}{"docstatus": models.DocstatusSubmitted}
	return s.client.UpdateDoc(ctx, models.DoctypeStockEntry, name, values, nil)
}

// Login delegates to the ERP session login
func (s *Store) Login(ctx context.Context, usr, pwd string) (*models.Session, error) {
	return s.client.Login(ctx, usr, pwd)
}
