package models

// Invoice mirrors both 'Sales Invoice' and 'POS Invoice'; the two doctypes
// share every field the endpoints read. Doctype is filled by the store.
type Invoice struct {
	Doctype              string        `gorm:"-" json:"doctype"`
	Name                 string        `gorm:"column:name;primaryKey" json:"name"`
	Customer             string        `gorm:"index" json:"customer"`
	PostingDate          Date          `gorm:"type:date;index" json:"posting_date"`
	GrandTotal           Float         `json:"grand_total"`
	NetTotal             Float         `json:"net_total"`
	TotalTaxesAndCharges Float         `json:"total_taxes_and_charges"`
	OutstandingAmount    Float         `json:"outstanding_amount"`
	Status               Text          `json:"status"`
	ConsolidatedInvoice  Text          `json:"consolidated_invoice"` // POS Invoice only
	Docstatus            int           `gorm:"index" json:"docstatus"`
	Items                []InvoiceItem `gorm:"-" json:"items"`
}

// InvoiceItem mirrors 'Sales Invoice Item' / 'POS Invoice Item'
type InvoiceItem struct {
	Name       string `gorm:"column:name;primaryKey" json:"name"`
	Parent     string `gorm:"index" json:"parent"`
	Parenttype string `json:"parenttype"`
	Idx        int    `json:"idx"`
	ItemCode   Text   `json:"item_code"`
	ItemName   Text   `json:"item_name"`
	Qty        Float  `json:"qty"`
	Rate       Float  `json:"rate"`
	Amount     Float  `json:"amount"`
}

// InvoiceListFields lists the header fields requested for invoice listings
var InvoiceListFields = []string{"name", "customer", "posting_date", "grand_total", "outstanding_amount", "status", "docstatus"}

// InvoiceItemDoctype returns the child doctype of an invoice doctype
func InvoiceItemDoctype(doctype string) string {
	return doctype + " Item"
}

// InvoiceQuery scopes an invoice listing to one customer
type InvoiceQuery struct {
	Customer            string
	SubmittedOnly       bool
	ExcludeConsolidated bool
}
