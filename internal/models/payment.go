package models

// PaymentEntry mirrors the 'Payment Entry' doctype.
type PaymentEntry struct {
	Name          string                  `gorm:"column:name;primaryKey" json:"name"`
	PostingDate   Date                    `gorm:"type:date;index" json:"posting_date"`
	PaidAmount    Float                   `json:"paid_amount"`
	PaymentType   Text                    `json:"payment_type"`
	ModeOfPayment Text                    `json:"mode_of_payment"`
	ReferenceNo   Text                    `json:"reference_no"`
	PartyType     string                  `gorm:"index" json:"party_type"`
	Party         string                  `gorm:"index" json:"party"`
	Docstatus     int                     `gorm:"index" json:"docstatus"`
	References    []PaymentEntryReference `gorm:"foreignKey:Parent;references:Name" json:"references"`
}

func (PaymentEntry) TableName() string { return TableName(DoctypePaymentEntry) }

// PaymentEntryFields lists the header fields requested for payment listings
var PaymentEntryFields = []string{
	"name", "posting_date", "paid_amount", "payment_type", "mode_of_payment", "reference_no", "party_type", "party", "docstatus",
}

// PaymentEntryReference links a payment to the document it settles
type PaymentEntryReference struct {
	Name             string `gorm:"column:name;primaryKey" json:"name"`
	Parent           string `gorm:"index" json:"parent"`
	Idx              int    `json:"idx"`
	ReferenceDoctype string `json:"reference_doctype"`
	ReferenceName    string `json:"reference_name"`
	AllocatedAmount  Float  `json:"allocated_amount"`
}

func (PaymentEntryReference) TableName() string { return TableName(DoctypePaymentEntryReference) }
