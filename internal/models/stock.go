package models

import "encoding/json"

// StockEntry mirrors the 'Stock Entry' doctype (a stock movement).
type StockEntry struct {
	Name           string             `gorm:"column:name;primaryKey" json:"name"`
	PostingDate    Date               `gorm:"type:date" json:"posting_date"`
	StockEntryType Text               `json:"stock_entry_type"`
	FromWarehouse  Text               `json:"from_warehouse"`
	ToWarehouse    Text               `json:"to_warehouse"`
	WorkflowState  Text               `json:"workflow_state"`
	Docstatus      int                `gorm:"index" json:"docstatus"`
	Creation       DateTime           `gorm:"type:timestamp;index" json:"creation"`
	Modified       DateTime           `gorm:"type:timestamp" json:"modified"`
	Items          []StockEntryDetail `gorm:"foreignKey:Parent;references:Name" json:"items"`
}

func (StockEntry) TableName() string { return TableName(DoctypeStockEntry) }

// StockEntryFields lists the header fields requested for stock entry listings
var StockEntryFields = []string{
	"name", "posting_date", "stock_entry_type", "from_warehouse", "to_warehouse", "workflow_state", "docstatus", "creation",
}

// StockEntryDetail mirrors 'Stock Entry Detail' (one line of a stock movement).
// SWarehouse is the source location, TWarehouse the target.
type StockEntryDetail struct {
	Name        string `gorm:"column:name;primaryKey" json:"name,omitempty"`
	Parent      string `gorm:"index" json:"parent,omitempty"`
	Parenttype  string `json:"parenttype,omitempty"`
	Parentfield string `json:"parentfield,omitempty"`
	Idx         int    `json:"idx,omitempty"`
	ItemCode    Text   `json:"item_code"`
	ItemName    Text   `json:"item_name,omitempty"`
	Qty         Float  `json:"qty"`
	UOM         Text   `gorm:"column:uom" json:"uom,omitempty"`
	SWarehouse  Text   `gorm:"column:s_warehouse" json:"s_warehouse"`
	TWarehouse  Text   `gorm:"column:t_warehouse" json:"t_warehouse"`

	// Extra holds the row fields this struct does not model (batch_no, basic_rate, ...).
	// They are written back unchanged, since saving a document replaces its child rows.
	Extra map[string]json.RawMessage `gorm:"-" json:"-"`
}

func (StockEntryDetail) TableName() string { return TableName(DoctypeStockEntryDetail) }

// stockEntryDetailFields has the fields of StockEntryDetail without its JSON methods
type stockEntryDetailFields StockEntryDetail

var stockEntryDetailKeys = []string{
	"name", "parent", "parenttype", "parentfield", "idx",
	"item_code", "item_name", "qty", "uom", "s_warehouse", "t_warehouse",
}

// UnmarshalJSON decodes the modeled fields and keeps every other key in Extra
func (d *StockEntryDetail) UnmarshalJSON(data []byte) error {
	var fields stockEntryDetailFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var extra map[string]json.RawMessage
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	for _, k := range stockEntryDetailKeys {
		delete(extra, k)
	}
	if len(extra) > 0 {
		fields.Extra = extra
	}

	*d = StockEntryDetail(fields)
	return nil
}

// MarshalJSON writes the modeled fields plus Extra; modeled fields win on a clash
func (d StockEntryDetail) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(stockEntryDetailFields(d))
	if err != nil || len(d.Extra) == 0 {
		return data, err
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// DisplayStatus prefers the workflow state and falls back to the docstatus label
func (s StockEntry) DisplayStatus() string {
	if s.WorkflowState != "" {
		return s.WorkflowState.String()
	}
	return DocstatusLabel(s.Docstatus)
}
