package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
	"github.com/xelth-com/eckmobile/internal/models"
)

// Where a resolved customer came from
const (
	SourceCustomer = "Customer"
	SourceUser     = "User"
)

// CustomerInfo is the external shape of a resolved customer
type CustomerInfo struct {
	Name         string  `json:"name"`
	CustomerName string  `json:"customer_name"`
	CustomerCode string  `json:"customer_code"`
	MobileNo     string  `json:"mobile_no"`
	EmailID      string  `json:"email_id"`
	Debt         float64 `json:"debt"`
	CreditLimit  float64 `json:"credit_limit"`
}

// CustomerResult is returned by ResolveCustomer
type CustomerResult struct {
	Customer CustomerInfo `json:"customer"`
	Source   string       `json:"source"`
}

// ResolveCustomer finds the customer carrying code, falling back to a user with the same code
func (s *Service) ResolveCustomer(ctx context.Context, code string) (*CustomerResult, error) {
	return s.resolve(ctx, code)
}

// resolve is shared by every customer-scoped call. A miss on both collections stops the call.
func (s *Service) resolve(ctx context.Context, code string) (*CustomerResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, validation("Customer code is required")
	}

	customer, err := s.store.FindCustomerByCode(ctx, code)
	if err == nil {
		return &CustomerResult{
			Customer: CustomerInfo{
				Name:         customer.Name,
				CustomerName: customer.CustomerName.String(),
				CustomerCode: code,
				MobileNo:     s.normalizePhone(customer.MobileNo.String()),
				EmailID:      customer.EmailID.String(),
				Debt:         customer.CustomDebt.Float64(),
				CreditLimit:  customer.CustomCreditLimit.Float64(),
			},
			Source: SourceCustomer,
		}, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, unexpected(err)
	}

	user, err := s.store.FindUserByCustomerCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return nil, notFound("Customer not found", err)
	}
	if err != nil {
		return nil, unexpected(err)
	}

	return &CustomerResult{
		Customer: CustomerInfo{
			Name:         user.Name,
			CustomerName: user.FullName.String(),
			CustomerCode: code,
			MobileNo:     s.normalizePhone(user.MobileNo.String()),
			EmailID:      user.Email.String(),
		},
		Source: SourceUser,
	}, nil
}

// normalizePhone renders a number as E.164; numbers that do not parse are returned unchanged
func (s *Service) normalizePhone(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || s.opts.DefaultPhoneRegion == "" {
		return number
	}
	p, err := libphonenumber.Parse(number, s.opts.DefaultPhoneRegion)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return number
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}
