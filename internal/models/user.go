package models

// User mirrors the 'User' doctype. Name is the login id (usually the email).
type User struct {
	Name               string `gorm:"column:name;primaryKey" json:"name"`
	FullName           Text   `json:"full_name"`
	Email              Text   `gorm:"index" json:"email"`
	CustomCustomerCode Text   `gorm:"column:custom_customer_code;index" json:"custom_customer_code"`
	MobileNo           Text   `json:"mobile_no"`
	Enabled            int    `gorm:"default:1" json:"enabled"`
}

func (User) TableName() string { return TableName(DoctypeUser) }

// UserFields lists the fields requested from the ERP for a User
var UserFields = []string{"name", "full_name", "email", "custom_customer_code", "mobile_no", "enabled"}

// AuthRecord mirrors the framework's '__Auth' password table.
// Only the direct database backend reads it; Password holds a bcrypt hash.
type AuthRecord struct {
	Doctype   string `gorm:"column:doctype;primaryKey"`
	Name      string `gorm:"column:name;primaryKey"`
	Fieldname string `gorm:"column:fieldname;primaryKey"`
	Password  string `gorm:"column:password;not null"`
	Encrypted int    `gorm:"column:encrypted;default:0"`
}

func (AuthRecord) TableName() string { return "__Auth" }

// Session is the outcome of a successful login
type Session struct {
	SID      string `json:"sid"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
