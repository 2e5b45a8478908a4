package models

// Customer mirrors the 'Customer' doctype.
// CustomCustomerCode is the caller-facing code printed on cards and receipts.
type Customer struct {
	Name               string `gorm:"column:name;primaryKey" json:"name"`
	CustomerName       Text   `json:"customer_name"`
	CustomCustomerCode Text   `gorm:"column:custom_customer_code;index" json:"custom_customer_code"`
	MobileNo           Text   `json:"mobile_no"`
	EmailID            Text   `gorm:"column:email_id" json:"email_id"`
	CustomDebt         Float  `json:"custom_debt"`
	CustomCreditLimit  Float  `json:"custom_credit_limit"`
	Disabled           int    `json:"disabled"`
}

func (Customer) TableName() string { return TableName(DoctypeCustomer) }

// CustomerFields lists the fields requested from the ERP for a Customer
var CustomerFields = []string{
	"name", "customer_name", "custom_customer_code", "mobile_no", "email_id", "custom_debt", "custom_credit_limit", "disabled",
}
