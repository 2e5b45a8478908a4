package portal

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/xelth-com/eckmobile/internal/models"
)

// PaidInvoice is one invoice settled (fully or partly) by a payment
type PaidInvoice struct {
	ReferenceDoctype string  `json:"reference_doctype"`
	Invoice          string  `json:"invoice"`
	AllocatedAmount  float64 `json:"allocated_amount"`
	GrandTotal       float64 `json:"grand_total"`
	PostingDate      string  `json:"posting_date"`
	Status           string  `json:"status"`
}

// Allocation lists what a payment settled. Absent when invoice enrichment is off.
type Allocation struct {
	InvoicesPaid   []PaidInvoice `json:"invoices_paid"`
	TotalAllocated float64       `json:"total_allocated"`
}

// PaymentSummary is one payment received from a customer
type PaymentSummary struct {
	Name          string  `json:"name"`
	PostingDate   string  `json:"posting_date"`
	PaidAmount    float64 `json:"paid_amount"`
	PaymentType   string  `json:"payment_type"`
	ModeOfPayment string  `json:"mode_of_payment"`
	ReferenceNo   string  `json:"reference_no"`
	*Allocation
}

// PaymentList is returned by ListPayments
type PaymentList struct {
	CustomerCode string           `json:"customer_code"`
	Payments     []PaymentSummary `json:"payments"`
}

// ListPayments returns the submitted payments of the customer carrying code
func (s *Service) ListPayments(ctx context.Context, code string) (*PaymentList, error) {
	resolved, err := s.resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	customer := resolved.Customer.Name

	rows, err := s.store.ListPayments(ctx, customer)
	if err != nil {
		return nil, unexpected(err)
	}

	out := &PaymentList{
		CustomerCode: resolved.Customer.CustomerCode,
		Payments:     make([]PaymentSummary, 0, len(rows)),
	}
	invoices := make(map[string]*models.Invoice)
	for _, p := range rows {
		if p.Party != "" && p.Party != customer {
			continue
		}
		summary := PaymentSummary{
			Name:          p.Name,
			PostingDate:   p.PostingDate.String(),
			PaidAmount:    p.PaidAmount.Float64(),
			PaymentType:   p.PaymentType.String(),
			ModeOfPayment: p.ModeOfPayment.String(),
			ReferenceNo:   p.ReferenceNo.String(),
		}
		if s.opts.PaymentsIncludeInvoices {
			alloc, err := s.allocation(ctx, p.Name, invoices)
			if err != nil {
				return nil, err
			}
			summary.Allocation = alloc
		}
		out.Payments = append(out.Payments, summary)
	}
	return out, nil
}

// allocation loads the references of one payment and the invoices they point at.
// seen caches invoices across the payments of one call.
func (s *Service) allocation(ctx context.Context, payment string, seen map[string]*models.Invoice) (*Allocation, error) {
	full, err := s.store.GetPayment(ctx, payment)
	if err != nil {
		return nil, unexpected(err)
	}

	alloc := &Allocation{InvoicesPaid: make([]PaidInvoice, 0, len(full.References))}
	total := decimal.Zero
	for _, ref := range full.References {
		if ref.ReferenceDoctype != models.DoctypeSalesInvoice && ref.ReferenceDoctype != models.DoctypePOSInvoice {
			continue
		}

		paid := PaidInvoice{
			ReferenceDoctype: ref.ReferenceDoctype,
			Invoice:          ref.ReferenceName,
			AllocatedAmount:  ref.AllocatedAmount.Float64(),
		}

		key := ref.ReferenceDoctype + "/" + ref.ReferenceName
		inv, ok := seen[key]
		if !ok {
			inv, err = s.store.GetInvoice(ctx, ref.ReferenceDoctype, ref.ReferenceName)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return nil, unexpected(err)
			}
			seen[key] = inv
		}
		if inv != nil {
			paid.GrandTotal = inv.GrandTotal.Float64()
			paid.PostingDate = inv.PostingDate.String()
			paid.Status = inv.Status.String()
		}

		alloc.InvoicesPaid = append(alloc.InvoicesPaid, paid)
		total = total.Add(decimal.NewFromFloat(paid.AllocatedAmount))
	}
	alloc.TotalAllocated = total.InexactFloat64()
	return alloc, nil
}
