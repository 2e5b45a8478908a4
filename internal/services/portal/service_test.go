package portal

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xelth-com/eckmobile/internal/models"
)

func defaultOptions() Options {
	return Options{
		ExcludeConsolidatedPOS:     true,
		NotificationsSubmittedOnly: true,
		PaymentsIncludeInvoices:    true,
		DefaultPhoneRegion:         "US",
	}
}

func newTestService(store *fakeStore, opts Options) *Service {
	return NewService(store, store, opts)
}

// seedC100 builds the customer C-100 with one sales and one POS invoice plus noise
func seedC100() *fakeStore {
	store := newFakeStore()
	store.customers = []models.Customer{
		{Name: "CUST-0001", CustomerName: "Acme Corp", CustomCustomerCode: "C-100", MobileNo: "(650) 253-0000", CustomDebt: 120.5, CustomCreditLimit: 1000},
		{Name: "CUST-0002", CustomerName: "Other Ltd", CustomCustomerCode: "C-200"},
	}
	store.invoices[models.DoctypeSalesInvoice] = []models.Invoice{
		{Name: "SINV-0001", Customer: "CUST-0001", PostingDate: "2024-01-01", GrandTotal: 500, OutstandingAmount: 0, Status: "Paid", Docstatus: 1},
		{Name: "SINV-0002", Customer: "CUST-0001", PostingDate: "2024-02-01", GrandTotal: 70, Status: "Draft", Docstatus: 0},
		{Name: "SINV-0003", Customer: "CUST-0002", PostingDate: "2024-03-01", GrandTotal: 999, Status: "Unpaid", Docstatus: 1},
	}
	store.invoices[models.DoctypePOSInvoice] = []models.Invoice{
		{Name: "POS-0001", Customer: "CUST-0001", PostingDate: "2024-01-05", GrandTotal: 50, Status: "Paid", Docstatus: 1},
		{Name: "POS-0002", Customer: "CUST-0001", PostingDate: "2024-01-06", GrandTotal: 30, Status: "Consolidated", Docstatus: 1, ConsolidatedInvoice: "SINV-0009"},
	}
	return store
}

func expectKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if pe.Kind != kind {
		t.Errorf("kind = %s, want %s", pe.Kind, kind)
	}
	if msg != "" && pe.Message != msg {
		t.Errorf("message = %q, want %q", pe.Message, msg)
	}
}

func TestResolveCustomerRequiresCode(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, defaultOptions())

	_, err := svc.ResolveCustomer(context.Background(), "  ")
	expectKind(t, err, KindValidation, "Customer code is required")
	if len(store.calls) != 0 {
		t.Errorf("no store call expected, got %v", store.calls)
	}
}

func TestResolveCustomerFromCustomer(t *testing.T) {
	svc := newTestService(seedC100(), defaultOptions())

	got, err := svc.ResolveCustomer(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ResolveCustomer failed: %v", err)
	}
	want := &CustomerResult{
		Customer: CustomerInfo{
			Name:         "CUST-0001",
			CustomerName: "Acme Corp",
			CustomerCode: "C-100",
			MobileNo:     "+16502530000",
			Debt:         120.5,
			CreditLimit:  1000,
		},
		Source: SourceCustomer,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveCustomerFallsBackToUser(t *testing.T) {
	store := newFakeStore()
	store.users = []models.User{
		{Name: "jane@example.com", FullName: "Jane Doe", Email: "jane@example.com", CustomCustomerCode: "U-7", MobileNo: "not a number"},
	}
	svc := newTestService(store, defaultOptions())

	got, err := svc.ResolveCustomer(context.Background(), "U-7")
	if err != nil {
		t.Fatalf("ResolveCustomer failed: %v", err)
	}
	if got.Source != SourceUser {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Customer.Name != "jane@example.com" || got.Customer.CustomerName != "Jane Doe" {
		t.Errorf("unexpected customer %+v", got.Customer)
	}
	if got.Customer.MobileNo != "not a number" {
		t.Errorf("unparseable phone should be returned unchanged, got %q", got.Customer.MobileNo)
	}
}

func TestUnknownCodeTouchesNoOtherCollection(t *testing.T) {
	store := seedC100()
	svc := newTestService(store, defaultOptions())
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := svc.ResolveCustomer(ctx, "NOPE"); return err },
		func() error { _, err := svc.ListInvoices(ctx, "NOPE"); return err },
		func() error { _, err := svc.ListNotifications(ctx, "NOPE"); return err },
		func() error { _, err := svc.ListPayments(ctx, "NOPE"); return err },
	}
	for i, call := range calls {
		expectKind(t, call(), KindNotFound, "Customer not found")
		if store.calls["FindCustomerByCode"] != i+1 || store.calls["FindUserByCustomerCode"] != i+1 {
			t.Errorf("call %d: unexpected lookups %v", i, store.calls)
		}
		if len(store.calls) != 2 {
			t.Fatalf("call %d: only customer and user lookups allowed, got %v", i, store.calls)
		}
	}
}

func TestListInvoicesC100(t *testing.T) {
	svc := newTestService(seedC100(), defaultOptions())

	got, err := svc.ListInvoices(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	want := &InvoiceList{
		CustomerCode: "C-100",
		SalesInvoices: []InvoiceSummary{
			{Name: "SINV-0001", PostingDate: "2024-01-01", GrandTotal: 500, Status: "Paid"},
		},
		POSInvoices: []InvoiceSummary{
			{Name: "POS-0001", PostingDate: "2024-01-05", GrandTotal: 50, Status: "Paid"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestListInvoicesIncludesConsolidatedWhenToggledOff(t *testing.T) {
	opts := defaultOptions()
	opts.ExcludeConsolidatedPOS = false
	svc := newTestService(seedC100(), opts)

	got, err := svc.ListInvoices(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(got.POSInvoices) != 2 {
		t.Fatalf("expected 2 POS invoices, got %+v", got.POSInvoices)
	}
	if got.POSInvoices[0].Name != "POS-0002" || got.POSInvoices[1].Name != "POS-0001" {
		t.Errorf("POS invoices not ordered by posting date desc: %+v", got.POSInvoices)
	}
}

func TestListInvoicesSortedAndScoped(t *testing.T) {
	store := seedC100()
	store.invoices[models.DoctypeSalesInvoice] = append(store.invoices[models.DoctypeSalesInvoice],
		models.Invoice{Name: "SINV-0004", Customer: "CUST-0001", PostingDate: "2024-05-01", GrandTotal: 10, Docstatus: 1},
		models.Invoice{Name: "SINV-0005", Customer: "CUST-0001", PostingDate: "2023-12-31", GrandTotal: 20, Docstatus: 1},
	)
	// a store that ignores the customer filter must still not leak rows
	store.ignoreCustomer = true
	svc := newTestService(store, defaultOptions())

	got, err := svc.ListInvoices(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}

	var names []string
	for i, inv := range got.SalesInvoices {
		names = append(names, inv.Name)
		if inv.Name == "SINV-0003" {
			t.Errorf("invoice of another customer leaked: %+v", inv)
		}
		if i > 0 && got.SalesInvoices[i-1].PostingDate < inv.PostingDate {
			t.Errorf("not sorted by posting date desc: %v", names)
		}
	}
	if want := []string{"SINV-0004", "SINV-0001", "SINV-0005"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestListInvoicesEmptyListsEncodeAsArrays(t *testing.T) {
	store := seedC100()
	store.invoices = map[string][]models.Invoice{}
	svc := newTestService(store, defaultOptions())

	got, err := svc.ListInvoices(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	data, _ := json.Marshal(got)
	if string(data) != `{"customer_code":"C-100","sales_invoices":[],"pos_invoices":[]}` {
		t.Errorf("unexpected JSON %s", data)
	}
}

func TestListNotifications(t *testing.T) {
	store := seedC100()
	store.notifications = []models.Notification{
		{Name: "N-1", Customer: "CUST-0001", Title: "Welcome", Message: "Hi", Creation: "2024-01-01 09:00:00", Docstatus: 1},
		{Name: "N-2", Customer: "CUST-0001", Title: "Draft", Message: "Not yet", Creation: "2024-01-03 09:00:00", Docstatus: 0},
		{Name: "N-3", Customer: "CUST-0001", Title: "Promo", Message: "10% off", Creation: "2024-01-02 09:00:00", Docstatus: 1},
		{Name: "N-4", Customer: "CUST-0002", Title: "Other", Creation: "2024-01-04 09:00:00", Docstatus: 1},
	}

	tests := []struct {
		name          string
		submittedOnly bool
		want          []string
	}{
		{"submitted only", true, []string{"N-3", "N-1"}},
		{"all", false, []string{"N-2", "N-3", "N-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			opts.NotificationsSubmittedOnly = tt.submittedOnly
			svc := newTestService(store, opts)

			got, err := svc.ListNotifications(context.Background(), "C-100")
			if err != nil {
				t.Fatalf("ListNotifications failed: %v", err)
			}
			var names []string
			for _, n := range got.Notifications {
				names = append(names, n.Name)
			}
			if !reflect.DeepEqual(names, tt.want) {
				t.Errorf("names = %v, want %v", names, tt.want)
			}
		})
	}
}

func seedPayments(store *fakeStore) {
	store.payments = []models.PaymentEntry{
		{
			Name: "PE-0001", PostingDate: "2024-01-10", PaidAmount: 0.3, PaymentType: "Receive", ModeOfPayment: "Cash",
			PartyType: models.PartyTypeCustomer, Party: "CUST-0001", Docstatus: 1,
			References: []models.PaymentEntryReference{
				{ReferenceDoctype: models.DoctypeSalesInvoice, ReferenceName: "SINV-0001", AllocatedAmount: 0.1},
				{ReferenceDoctype: models.DoctypePOSInvoice, ReferenceName: "POS-0001", AllocatedAmount: 0.2},
				{ReferenceDoctype: "Journal Entry", ReferenceName: "JV-1", AllocatedAmount: 5},
				{ReferenceDoctype: models.DoctypeSalesInvoice, ReferenceName: "SINV-GONE", AllocatedAmount: 0},
			},
		},
		{Name: "PE-0002", PostingDate: "2024-02-10", PaidAmount: 10, PartyType: models.PartyTypeCustomer, Party: "CUST-0001", Docstatus: 0},
		{Name: "PE-0003", PostingDate: "2024-03-10", PaidAmount: 10, PartyType: models.PartyTypeCustomer, Party: "CUST-0002", Docstatus: 1},
	}
}

func TestListPaymentsWithInvoices(t *testing.T) {
	store := seedC100()
	seedPayments(store)
	svc := newTestService(store, defaultOptions())

	got, err := svc.ListPayments(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(got.Payments) != 1 || got.Payments[0].Name != "PE-0001" {
		t.Fatalf("unexpected payments %+v", got.Payments)
	}

	p := got.Payments[0]
	if p.Allocation == nil {
		t.Fatal("expected invoices_paid")
	}
	want := []PaidInvoice{
		{ReferenceDoctype: models.DoctypeSalesInvoice, Invoice: "SINV-0001", AllocatedAmount: 0.1, GrandTotal: 500, PostingDate: "2024-01-01", Status: "Paid"},
		{ReferenceDoctype: models.DoctypePOSInvoice, Invoice: "POS-0001", AllocatedAmount: 0.2, GrandTotal: 50, PostingDate: "2024-01-05", Status: "Paid"},
		{ReferenceDoctype: models.DoctypeSalesInvoice, Invoice: "SINV-GONE"},
	}
	if !reflect.DeepEqual(p.InvoicesPaid, want) {
		t.Errorf("invoices_paid = %+v\nwant %+v", p.InvoicesPaid, want)
	}
	if p.TotalAllocated != 0.3 {
		t.Errorf("total_allocated = %v, want 0.3", p.TotalAllocated)
	}
}

func TestListPaymentsWithoutInvoices(t *testing.T) {
	store := seedC100()
	seedPayments(store)
	opts := defaultOptions()
	opts.PaymentsIncludeInvoices = false
	svc := newTestService(store, opts)

	got, err := svc.ListPayments(context.Background(), "C-100")
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if store.calls["GetPayment"] != 0 {
		t.Errorf("references should not be loaded, got %d GetPayment calls", store.calls["GetPayment"])
	}
	data, _ := json.Marshal(got.Payments[0])
	if strings.Contains(string(data), "invoices_paid") {
		t.Errorf("invoices_paid should be absent: %s", data)
	}
}

func seedStock(store *fakeStore) {
	store.stock["MAT-STE-0001"] = &models.StockEntry{
		Name: "MAT-STE-0001", PostingDate: "2024-01-01", StockEntryType: "Material Transfer",
		FromWarehouse: "Stores", ToWarehouse: "Shop", Docstatus: 1, Creation: "2024-01-01 10:00:00",
		Items: []models.StockEntryDetail{
			{Name: "r1", ItemCode: "BOLT-1", ItemName: "Bolt", Qty: 4, UOM: "Nos", SWarehouse: "Stores", TWarehouse: "Shop"},
		},
	}
	store.stock["MAT-STE-0002"] = &models.StockEntry{
		Name: "MAT-STE-0002", PostingDate: "2024-01-02", StockEntryType: "Material Receipt",
		ToWarehouse: "Stores", WorkflowState: "Approved", Docstatus: 1, Creation: "2024-01-02 10:00:00",
	}
	store.stock["MAT-STE-0003"] = &models.StockEntry{
		Name: "MAT-STE-0003", Docstatus: 2, Creation: "2024-01-03 10:00:00",
		Items: []models.StockEntryDetail{{Name: "r1", ItemCode: "BOLT-1", Qty: 1}},
	}
	store.stock["MAT-STE-0004"] = &models.StockEntry{
		Name: "MAT-STE-0004", StockEntryType: "Material Transfer", Docstatus: 0, Creation: "2024-01-04 10:00:00",
		Items: []models.StockEntryDetail{
			{Name: "r1", ItemCode: "BOLT-1", Qty: 1, SWarehouse: "Stores", TWarehouse: "Shop"},
		},
	}
}

func TestListStockEntries(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	svc := newTestService(store, defaultOptions())

	got, err := svc.ListStockEntries(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListStockEntries failed: %v", err)
	}
	if store.lastLimit != 20 {
		t.Errorf("default limit = %d, want 20", store.lastLimit)
	}
	want := []StockEntrySummary{
		{ID: "MAT-STE-0002", Date: "2024-01-02", Type: "Material Receipt", Destination: "Stores", Status: "Approved", Created: "2024-01-02 10:00:00"},
		{ID: "MAT-STE-0001", Date: "2024-01-01", Type: "Material Transfer", Source: "Stores", Destination: "Shop", Status: "Submitted", Created: "2024-01-01 10:00:00"},
	}
	if !reflect.DeepEqual(got.StockEntries, want) {
		t.Errorf("got %+v\nwant %+v", got.StockEntries, want)
	}

	if _, err := svc.ListStockEntries(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if store.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", store.lastLimit)
	}
}

func TestGetStockEntry(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	svc := newTestService(store, defaultOptions())
	ctx := context.Background()

	_, err := svc.GetStockEntry(ctx, "")
	expectKind(t, err, KindValidation, "Stock Entry name is required")

	_, err = svc.GetStockEntry(ctx, "MAT-STE-9999")
	expectKind(t, err, KindNotFound, "Stock Entry not found")

	got, err := svc.GetStockEntry(ctx, "MAT-STE-0001")
	if err != nil {
		t.Fatalf("GetStockEntry failed: %v", err)
	}
	if got.ID != "MAT-STE-0001" || got.Docstatus != 1 || got.Status != "Submitted" {
		t.Errorf("unexpected header %+v", got)
	}
	wantItems := []StockLine{{ItemCode: "BOLT-1", ItemName: "Bolt", Qty: 4, UOM: "Nos", Source: "Stores", Destination: "Shop"}}
	if !reflect.DeepEqual(got.Items, wantItems) {
		t.Errorf("items = %+v", got.Items)
	}

	data, _ := json.Marshal(got)
	if !strings.HasPrefix(string(data), `{"id":"MAT-STE-0001"`) {
		t.Errorf("header fields should be flattened: %s", data)
	}
}

func TestGetStockEntryCancelled(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	svc := newTestService(store, defaultOptions())

	got, err := svc.GetStockEntry(context.Background(), "MAT-STE-0003")
	expectKind(t, err, KindValidation, "Stock Entry is cancelled")
	if got != nil {
		t.Errorf("no detail expected, got %+v", got)
	}
}

func TestUpsertStockEntryUpdatesInPlaceAndAppends(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	svc := newTestService(store, defaultOptions())
	ctx := context.Background()

	got, err := svc.UpsertStockEntry(ctx, UpsertRequest{
		Name:  "MAT-STE-0004",
		Token: "anything",
		Items: `[{"item_code":"BOLT-1","qty":5,"s_warehouse":"","t_warehouse":"Workshop"},{"item_code":"NUT-1","qty":"2","s_warehouse":"Stores","t_warehouse":"Shop"}]`,
	})
	if err != nil {
		t.Fatalf("UpsertStockEntry failed: %v", err)
	}
	want := &UpsertResult{Message: "Stock Entry updated", Name: "MAT-STE-0004", Docstatus: 0, ItemsUpdated: 1, ItemsAdded: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	saved := store.stock["MAT-STE-0004"]
	if len(saved.Items) != 2 {
		t.Fatalf("expected 2 lines, got %+v", saved.Items)
	}
	bolt := saved.Items[0]
	if bolt.Name != "r1" || bolt.Qty != 5 || bolt.SWarehouse != "Stores" || bolt.TWarehouse != "Workshop" {
		t.Errorf("existing line not updated in place: %+v", bolt)
	}
	if nut := saved.Items[1]; nut.ItemCode != "NUT-1" || nut.Qty != 2 {
		t.Errorf("unexpected new line %+v", nut)
	}

	// sending the new code again updates it, it does not append a second line
	got, err = svc.UpsertStockEntry(ctx, UpsertRequest{Name: "MAT-STE-0004", Items: `[{"item_code":"NUT-1","qty":3}]`})
	if err != nil {
		t.Fatalf("second UpsertStockEntry failed: %v", err)
	}
	if got.ItemsUpdated != 1 || got.ItemsAdded != 0 {
		t.Errorf("unexpected counts %+v", got)
	}
	if n := len(store.stock["MAT-STE-0004"].Items); n != 2 {
		t.Errorf("expected 2 lines after update, got %d", n)
	}
}

func TestUpsertStockEntryApprove(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	svc := newTestService(store, defaultOptions())

	got, err := svc.UpsertStockEntry(context.Background(), UpsertRequest{
		Name:    "MAT-STE-0004",
		Items:   `[{"item_code":"BOLT-1","qty":2}]`,
		Approve: true,
	})
	if err != nil {
		t.Fatalf("UpsertStockEntry failed: %v", err)
	}
	if got.Message != "Stock Entry updated and submitted" || got.Docstatus != 1 {
		t.Errorf("unexpected result %+v", got)
	}
	if store.stock["MAT-STE-0004"].Docstatus != models.DocstatusSubmitted {
		t.Error("document should be submitted")
	}
}

func TestUpsertStockEntryRejectsNonDraft(t *testing.T) {
	for _, name := range []string{"MAT-STE-0001", "MAT-STE-0003"} {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			seedStock(store)
			before := *store.stock[name]
			svc := newTestService(store, defaultOptions())

			_, err := svc.UpsertStockEntry(context.Background(), UpsertRequest{
				Name:    name,
				Items:   `[{"item_code":"NEW-1","qty":1}]`,
				Approve: true,
			})
			expectKind(t, err, KindValidation, "Stock Entry is not in draft state")
			if store.saved != 0 || store.submitted != 0 {
				t.Errorf("no mutation expected, saved=%d submitted=%d", store.saved, store.submitted)
			}
			if !reflect.DeepEqual(*store.stock[name], before) {
				t.Error("document changed")
			}
		})
	}
}

func TestUpsertStockEntryValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   UpsertRequest
		kind  Kind
		match string
	}{
		{"missing name", UpsertRequest{Items: `[]`}, KindValidation, "Stock Entry name is required"},
		{"unknown entry", UpsertRequest{Name: "MAT-STE-9999"}, KindNotFound, "Stock Entry not found"},
		{"bad json", UpsertRequest{Name: "MAT-STE-0004", Items: `{"item_code":"A"}`}, KindValidation, "Items must be a JSON list"},
		{"missing code", UpsertRequest{Name: "MAT-STE-0004", Items: `[{"qty":1}]`}, KindValidation, "Invalid item at row 1: item_code is required"},
		{"negative qty", UpsertRequest{Name: "MAT-STE-0004", Items: `[{"item_code":"A","qty":1},{"item_code":"B","qty":-1}]`}, KindValidation, "Invalid item at row 2: qty must be >= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedStock(store)
			svc := newTestService(store, defaultOptions())

			_, err := svc.UpsertStockEntry(context.Background(), tt.req)
			expectKind(t, err, tt.kind, tt.match)
			if store.saved != 0 {
				t.Error("nothing should be saved")
			}
		})
	}
}

func TestUpsertStockEntryRecoversPanic(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	store.panicOnSave = true
	svc := newTestService(store, defaultOptions())

	_, err := svc.UpsertStockEntry(context.Background(), UpsertRequest{Name: "MAT-STE-0004", Items: `[{"item_code":"A","qty":1}]`})
	expectKind(t, err, KindUnexpected, "connection reset by peer")
}

func TestUpsertStockEntryTokenVerifier(t *testing.T) {
	store := newFakeStore()
	seedStock(store)
	opts := defaultOptions()
	opts.VerifyToken = func(token string) error {
		if token != "good" {
			return errors.New("signature is invalid")
		}
		return nil
	}
	svc := newTestService(store, opts)

	_, err := svc.UpsertStockEntry(context.Background(), UpsertRequest{Name: "MAT-STE-0004", Token: "bad"})
	expectKind(t, err, KindAuth, "Invalid or expired token")
	if store.calls["GetStockEntry"] != 0 {
		t.Error("store should not be touched with a bad token")
	}

	if _, err := svc.UpsertStockEntry(context.Background(), UpsertRequest{Name: "MAT-STE-0004", Token: "good"}); err != nil {
		t.Errorf("good token rejected: %v", err)
	}
}

func TestSearchItems(t *testing.T) {
	store := newFakeStore()
	store.items = []models.Item{
		{Name: "BOLT-1", ItemCode: "BOLT-1", ItemName: "Hex bolt", StockUOM: "Nos"},
		{Name: "BOLT-2", ItemCode: "BOLT-2", ItemName: "Carriage bolt", StockUOM: "Nos", Disabled: 1},
		{Name: "NUT-1", ItemCode: "NUT-1", ItemName: "Nut for bolt", StockUOM: "Nos"},
		{Name: "WASHER", ItemCode: "WASHER", ItemName: "Washer", StockUOM: "Box"},
	}
	store.duplicateItems = true
	svc := newTestService(store, defaultOptions())
	ctx := context.Background()

	_, err := svc.SearchItems(ctx, "")
	expectKind(t, err, KindValidation, "Search text is required")

	got, err := svc.SearchItems(ctx, "bolt")
	if err != nil {
		t.Fatalf("SearchItems failed: %v", err)
	}
	want := []ItemResult{
		{ItemCode: "BOLT-1", ItemName: "Hex bolt", StockUOM: "Nos"},
		{ItemCode: "NUT-1", ItemName: "Nut for bolt", StockUOM: "Nos"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if store.lastLimit != 10 {
		t.Errorf("limit = %d, want 10", store.lastLimit)
	}

	got, err = svc.SearchItems(ctx, "zzz")
	if err != nil {
		t.Fatalf("SearchItems failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeStore()
	store.passwords["jane@example.com"] = "s3cret"
	svc := newTestService(store, defaultOptions())
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "x")
	expectKind(t, err, KindAuth, "Email and password are required")

	_, err = svc.Login(ctx, "jane@example.com", "wrong")
	expectKind(t, err, KindAuth, "Invalid login credentials")

	got, err := svc.Login(ctx, "jane@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	want := &LoginResult{OK: true, SID: "sid-jane@example.com", Email: "jane@example.com", FullName: "Jane Doe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	store.loginErr = errBackendDown
	_, err = svc.Login(ctx, "jane@example.com", "s3cret")
	expectKind(t, err, KindUnexpected, "backend down")
}

func TestGetInvoice(t *testing.T) {
	store := seedC100()
	store.invoices[models.DoctypeSalesInvoice][0].Items = []models.InvoiceItem{
		{ItemCode: "BOLT-1", ItemName: "Hex bolt", Qty: 100, Rate: 5, Amount: 500},
	}
	svc := newTestService(store, defaultOptions())
	ctx := context.Background()

	_, err := svc.GetInvoice(ctx, "")
	expectKind(t, err, KindValidation, "Invoice name is required")

	_, err = svc.GetInvoice(ctx, "NOPE")
	expectKind(t, err, KindNotFound, "Invoice not found")

	sales, err := svc.GetInvoice(ctx, "SINV-0001")
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if sales.Doctype != models.DoctypeSalesInvoice || sales.GrandTotal != 500 {
		t.Errorf("unexpected invoice %+v", sales)
	}
	if len(sales.Items) != 1 || sales.Items[0].Amount != 500 {
		t.Errorf("unexpected items %+v", sales.Items)
	}

	pos, err := svc.GetInvoice(ctx, "POS-0001")
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if pos.Doctype != models.DoctypePOSInvoice {
		t.Errorf("Doctype = %q", pos.Doctype)
	}
	if pos.Items == nil {
		t.Error("items should encode as an empty list")
	}
}

func TestGetInvoiceRecoversPanic(t *testing.T) {
	store := seedC100()
	store.panicOnInvoice = true
	svc := newTestService(store, defaultOptions())

	_, err := svc.GetInvoice(context.Background(), "SINV-0001")
	expectKind(t, err, KindUnexpected, "invalid memory address or nil pointer dereference")
}

func TestHello(t *testing.T) {
	svc := newTestService(newFakeStore(), defaultOptions())
	if got := svc.Hello("").Message; got != "Hello, Guest!" {
		t.Errorf("got %q", got)
	}
	if got := svc.Hello("Ada").Message; got != "Hello, Ada!" {
		t.Errorf("got %q", got)
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("nil should stay nil")
	}
	pe := AsError(errBackendDown)
	if pe.Kind != KindUnexpected || !errors.Is(pe, errBackendDown) {
		t.Errorf("unexpected %+v", pe)
	}
	orig := validation("x")
	if AsError(orig) != orig {
		t.Error("façade errors should pass through")
	}
}
