package models

// Notification mirrors the 'Customer Notification' doctype: a message pushed to one customer.
type Notification struct {
	Name      string   `gorm:"column:name;primaryKey" json:"name"`
	Customer  string   `gorm:"index" json:"customer"`
	Title     Text     `json:"title"`
	Message   Text     `json:"message"`
	Creation  DateTime `gorm:"type:timestamp;index" json:"creation"`
	Docstatus int      `json:"docstatus"`
}

func (Notification) TableName() string { return TableName(DoctypeNotification) }

// NotificationFields lists the fields requested for notification listings
var NotificationFields = []string{"name", "customer", "title", "message", "creation", "docstatus"}
