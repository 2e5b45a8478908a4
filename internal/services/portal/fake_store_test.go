package portal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xelth-com/eckmobile/internal/models"
)

// fakeStore is an in-memory models.Store and models.CredentialVerifier
type fakeStore struct {
	customers     []models.Customer
	users         []models.User
	invoices      map[string][]models.Invoice
	notifications []models.Notification
	payments      []models.PaymentEntry
	stock         map[string]*models.StockEntry
	items         []models.Item
	passwords     map[string]string

	// ignoreCustomer makes invoice listings skip the customer filter
	ignoreCustomer bool
	// duplicateItems makes SearchItems return every hit twice
	duplicateItems bool
	panicOnSave    bool
	panicOnInvoice bool
	loginErr       error

	calls     map[string]int
	lastLimit int
	saved     int
	submitted int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		invoices:  make(map[string][]models.Invoice),
		stock:     make(map[string]*models.StockEntry),
		passwords: make(map[string]string),
		calls:     make(map[string]int),
	}
}

func (f *fakeStore) record(op string) { f.calls[op]++ }

func (f *fakeStore) FindCustomerByCode(ctx context.Context, code string) (*models.Customer, error) {
	f.record("FindCustomerByCode")
	for i := range f.customers {
		if f.customers[i].CustomCustomerCode.String() == code {
			c := f.customers[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer %q: %w", code, models.ErrNotFound)
}

func (f *fakeStore) FindUserByCustomerCode(ctx context.Context, code string) (*models.User, error) {
	f.record("FindUserByCustomerCode")
	for i := range f.users {
		if f.users[i].CustomCustomerCode.String() == code {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", code, models.ErrNotFound)
}

func (f *fakeStore) ListInvoices(ctx context.Context, doctype string, q models.InvoiceQuery) ([]models.Invoice, error) {
	f.record("ListInvoices")
	var out []models.Invoice
	for _, inv := range f.invoices[doctype] {
		if !f.ignoreCustomer && inv.Customer != q.Customer {
			continue
		}
		if q.SubmittedOnly && inv.Docstatus != models.DocstatusSubmitted {
			continue
		}
		if q.ExcludeConsolidated && inv.ConsolidatedInvoice != "" {
			continue
		}
		inv.Doctype = doctype
		inv.Items = nil
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostingDate > out[j].PostingDate })
	return out, nil
}

func (f *fakeStore) GetInvoice(ctx context.Context, doctype, name string) (*models.Invoice, error) {
	f.record("GetInvoice")
	if f.panicOnInvoice {
		panic("invalid memory address or nil pointer dereference")
	}
	for _, inv := range f.invoices[doctype] {
		if inv.Name == name {
			inv.Doctype = doctype
			return &inv, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", doctype, name, models.ErrNotFound)
}

func (f *fakeStore) ListNotifications(ctx context.Context, customer string, submittedOnly bool) ([]models.Notification, error) {
	f.record("ListNotifications")
	var out []models.Notification
	for _, n := range f.notifications {
		if n.Customer != customer || (submittedOnly && n.Docstatus != models.DocstatusSubmitted) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Creation > out[j].Creation })
	return out, nil
}

func (f *fakeStore) ListPayments(ctx context.Context, customer string) ([]models.PaymentEntry, error) {
	f.record("ListPayments")
	var out []models.PaymentEntry
	for _, p := range f.payments {
		if p.PartyType != models.PartyTypeCustomer || p.Party != customer || p.Docstatus != models.DocstatusSubmitted {
			continue
		}
		p.References = nil
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PostingDate > out[j].PostingDate })
	return out, nil
}

func (f *fakeStore) GetPayment(ctx context.Context, name string) (*models.PaymentEntry, error) {
	f.record("GetPayment")
	for _, p := range f.payments {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("payment %s: %w", name, models.ErrNotFound)
}

func (f *fakeStore) ListStockEntries(ctx context.Context, limit int) ([]models.StockEntry, error) {
	f.record("ListStockEntries")
	f.lastLimit = limit
	var out []models.StockEntry
	for _, e := range f.stock {
		if e.Docstatus != models.DocstatusSubmitted {
			continue
		}
		c := *e
		c.Items = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Creation > out[j].Creation })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) GetStockEntry(ctx context.Context, name string) (*models.StockEntry, error) {
	f.record("GetStockEntry")
	e, ok := f.stock[name]
	if !ok {
		return nil, fmt.Errorf("stock entry %s: %w", name, models.ErrNotFound)
	}
	c := *e
	c.Items = append([]models.StockEntryDetail(nil), e.Items...)
	return &c, nil
}

func (f *fakeStore) SearchItems(ctx context.Context, text string, limit int) ([]models.Item, error) {
	f.record("SearchItems")
	f.lastLimit = limit
	var out []models.Item
	for _, it := range f.items {
		if it.Disabled != 0 {
			continue
		}
		if strings.Contains(it.ItemCode.String(), text) || strings.Contains(it.ItemName.String(), text) {
			out = append(out, it)
			if f.duplicateItems {
				out = append(out, it)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ItemCode < out[j].ItemCode })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) SaveStockEntry(ctx context.Context, entry *models.StockEntry) error {
	f.record("SaveStockEntry")
	if f.panicOnSave {
		panic("connection reset by peer")
	}
	current, ok := f.stock[entry.Name]
	if !ok {
		return fmt.Errorf("stock entry %s: %w", entry.Name, models.ErrNotFound)
	}
	if current.Docstatus != models.DocstatusDraft {
		return fmt.Errorf("stock entry %s: %w", entry.Name, models.ErrNotDraft)
	}
	c := *entry
	c.Items = append([]models.StockEntryDetail(nil), entry.Items...)
	for i := range c.Items {
		if c.Items[i].Name == "" {
			c.Items[i].Name = fmt.Sprintf("row-%d", i+1)
		}
	}
	f.stock[entry.Name] = &c
	f.saved++
	return nil
}

func (f *fakeStore) SubmitStockEntry(ctx context.Context, name string) error {
	f.record("SubmitStockEntry")
	e, ok := f.stock[name]
	if !ok {
		return fmt.Errorf("stock entry %s: %w", name, models.ErrNotFound)
	}
	if e.Docstatus != models.DocstatusDraft {
		return fmt.Errorf("stock entry %s: %w", name, models.ErrNotDraft)
	}
	e.Docstatus = models.DocstatusSubmitted
	f.submitted++
	return nil
}

func (f *fakeStore) Login(ctx context.Context, usr, pwd string) (*models.Session, error) {
	f.record("Login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if want, ok := f.passwords[usr]; !ok || want != pwd {
		return nil, fmt.Errorf("user %s: %w", usr, models.ErrInvalidCredentials)
	}
	return &models.Session{SID: "sid-" + usr, Email: usr, FullName: "Jane Doe"}, nil
}

var errBackendDown = errors.New("backend down")
