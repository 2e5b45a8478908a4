package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/xelth-com/eckmobile/internal/models"
)

// InvoiceSummary is one row of an invoice listing
type InvoiceSummary struct {
	Name              string  `json:"name"`
	PostingDate       string  `json:"posting_date"`
	GrandTotal        float64 `json:"grand_total"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	Status            string  `json:"status"`
}

// InvoiceList is returned by ListInvoices
type InvoiceList struct {
	CustomerCode  string           `json:"customer_code"`
	SalesInvoices []InvoiceSummary `json:"sales_invoices"`
	POSInvoices   []InvoiceSummary `json:"pos_invoices"`
}

// InvoiceLine is one line of an invoice
type InvoiceLine struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name"`
	Qty      float64 `json:"qty"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

// InvoiceDetail is returned by GetInvoice
type InvoiceDetail struct {
	Name                 string        `json:"name"`
	Doctype              string        `json:"doctype"`
	Customer             string        `json:"customer"`
	PostingDate          string        `json:"posting_date"`
	GrandTotal           float64       `json:"grand_total"`
	NetTotal             float64       `json:"net_total"`
	TotalTaxesAndCharges float64       `json:"total_taxes_and_charges"`
	OutstandingAmount    float64       `json:"outstanding_amount"`
	Status               string        `json:"status"`
	Items                []InvoiceLine `json:"items"`
}

// ListInvoices returns the submitted sales and POS invoices of the customer carrying code
func (s *Service) ListInvoices(ctx context.Context, code string) (*InvoiceList, error) {
	resolved, err := s.resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	customer := resolved.Customer.Name

	sales, err := s.store.ListInvoices(ctx, models.DoctypeSalesInvoice, models.InvoiceQuery{
		Customer:      customer,
		SubmittedOnly: true,
	})
	if err != nil {
		return nil, unexpected(err)
	}

	pos, err := s.store.ListInvoices(ctx, models.DoctypePOSInvoice, models.InvoiceQuery{
		Customer:            customer,
		SubmittedOnly:       true,
		ExcludeConsolidated: s.opts.ExcludeConsolidatedPOS,
	})
	if err != nil {
		return nil, unexpected(err)
	}

	return &InvoiceList{
		CustomerCode:  resolved.Customer.CustomerCode,
		SalesInvoices: summarizeInvoices(sales, customer),
		POSInvoices:   summarizeInvoices(pos, customer),
	}, nil
}

// summarizeInvoices keeps the store order and drops rows of any other customer
func summarizeInvoices(invoices []models.Invoice, customer string) []InvoiceSummary {
	out := make([]InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Customer != "" && inv.Customer != customer {
			continue
		}
		out = append(out, InvoiceSummary{
			Name:              inv.Name,
			PostingDate:       inv.PostingDate.String(),
			GrandTotal:        inv.GrandTotal.Float64(),
			OutstandingAmount: inv.OutstandingAmount.Float64(),
			Status:            inv.Status.String(),
		})
	}
	return out
}

// GetInvoice looks the name up as a sales invoice first, then as a POS invoice
func (s *Service) GetInvoice(ctx context.Context, name string) (detail *InvoiceDetail, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("Invoice name is required")
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("invoice", name).Errorf("panic reading invoice: %v", r)
			detail, err = nil, recovered(r)
		}
	}()

	inv, err := s.findInvoice(ctx, name)
	if err != nil {
		return nil, err
	}

	detail = &InvoiceDetail{
		Name:                 inv.Name,
		Doctype:              inv.Doctype,
		Customer:             inv.Customer,
		PostingDate:          inv.PostingDate.String(),
		GrandTotal:           inv.GrandTotal.Float64(),
		NetTotal:             inv.NetTotal.Float64(),
		TotalTaxesAndCharges: inv.TotalTaxesAndCharges.Float64(),
		OutstandingAmount:    inv.OutstandingAmount.Float64(),
		Status:               inv.Status.String(),
		Items:                make([]InvoiceLine, 0, len(inv.Items)),
	}
	for _, it := range inv.Items {
		detail.Items = append(detail.Items, InvoiceLine{
			ItemCode: it.ItemCode.String(),
			ItemName: it.ItemName.String(),
			Qty:      it.Qty.Float64(),
			Rate:     it.Rate.Float64(),
			Amount:   it.Amount.Float64(),
		})
	}
	return detail, nil
}

func (s *Service) findInvoice(ctx context.Context, name string) (*models.Invoice, error) {
	for _, doctype := range []string{models.DoctypeSalesInvoice, models.DoctypePOSInvoice} {
		inv, err := s.store.GetInvoice(ctx, doctype, name)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, unexpected(err)
		}
	}
	return nil, notFound("Invoice not found", models.ErrNotFound)
}
