package database

import (
	"fmt"

	"github.com/xelth-com/eckmobile/internal/models"
	"gorm.io/gorm"
)

// Invoice tables carry a space in their name, so they are migrated through
// named wrappers instead of Table(), which would read the space as an alias.

type salesInvoiceTable struct{ models.Invoice }

func (salesInvoiceTable) TableName() string { return models.TableName(models.DoctypeSalesInvoice) }

type salesInvoiceItemTable struct{ models.InvoiceItem }

func (salesInvoiceItemTable) TableName() string {
	return models.TableName(models.DoctypeSalesInvoiceItem)
}

type posInvoiceTable struct{ models.Invoice }

func (posInvoiceTable) TableName() string { return models.TableName(models.DoctypePOSInvoice) }

type posInvoiceItemTable struct{ models.InvoiceItem }

func (posInvoiceItemTable) TableName() string { return models.TableName(models.DoctypePOSInvoiceItem) }

// InsertInvoice writes an invoice header and its items into the doctype's tables
func (db *DB) InsertInvoice(inv *models.Invoice) error {
	rows := make([]interface{}, 0, len(inv.Items)+1)
	switch inv.Doctype {
	case models.DoctypeSalesInvoice:
		rows = append(rows, &salesInvoiceTable{Invoice: *inv})
		for _, it := range inv.Items {
			rows = append(rows, &salesInvoiceItemTable{InvoiceItem: it})
		}
	case models.DoctypePOSInvoice:
		rows = append(rows, &posInvoiceTable{Invoice: *inv})
		for _, it := range inv.Items {
			rows = append(rows, &posInvoiceItemTable{InvoiceItem: it})
		}
	default:
		return fmt.Errorf("unknown invoice doctype %q", inv.Doctype)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
