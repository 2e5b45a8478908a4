package models

// Item mirrors the 'Item' doctype
type Item struct {
	Name     string `gorm:"column:name;primaryKey" json:"name"`
	ItemCode Text   `gorm:"index" json:"item_code"`
	ItemName Text   `gorm:"index" json:"item_name"`
	StockUOM Text   `gorm:"column:stock_uom" json:"stock_uom"`
	Disabled int    `gorm:"default:0" json:"disabled"`
}

func (Item) TableName() string { return TableName(DoctypeItem) }

// ItemFields lists the fields requested for item search
var ItemFields = []string{"name", "item_code", "item_name", "stock_uom", "disabled"}
