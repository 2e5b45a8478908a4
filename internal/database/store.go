package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xelth-com/eckmobile/internal/models"
	"github.com/xelth-com/eckmobile/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionTTL is how long a session id issued by Login stays valid
const sessionTTL = 24 * time.Hour

// Store implements models.Store and models.CredentialVerifier directly on the ERP tables
type Store struct {
	db        *DB
	jwtSecret string
}

// NewStore creates a database-backed store. jwtSecret signs the session ids issued by Login.
func NewStore(db *DB, jwtSecret string) *Store {
	return &Store{db: db, jwtSecret: jwtSecret}
}

var (
	_ models.Store              = (*Store)(nil)
	_ models.CredentialVerifier = (*Store)(nil)
)

// FindCustomerByCode looks up the customer carrying a custom customer code
func (s *Store) FindCustomerByCode(ctx context.Context, code string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Where("custom_customer_code = ?", code).Take(&customer).Error
	if err != nil {
		return nil, notFound(err, "customer with code %q", code)
	}
	return &customer, nil
}

// FindUserByCustomerCode looks up the user carrying a custom customer code
func (s *Store) FindUserByCustomerCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("custom_customer_code = ?", code).Take(&user).Error
	if err != nil {
		return nil, notFound(err, "user with customer code %q", code)
	}
	return &user, nil
}

// ListInvoices lists invoice headers of one customer
func (s *Store) ListInvoices(ctx context.Context, doctype string, q models.InvoiceQuery) ([]models.Invoice, error) {
	tx := s.db.WithContext(ctx).Table(s.table(doctype)).Where("customer = ?", q.Customer)
	if q.SubmittedOnly {
		tx = tx.Where("docstatus = ?", models.DocstatusSubmitted)
	}
	if q.ExcludeConsolidated {
		tx = tx.Where("(consolidated_invoice IS NULL OR consolidated_invoice = '')")
	}

	var invoices []models.Invoice
	if err := tx.Order("posting_date DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", doctype, err)
	}
	for i := range invoices {
		invoices[i].Doctype = doctype
	}
	return invoices, nil
}

// GetInvoice reads one invoice with its items
func (s *Store) GetInvoice(ctx context.Context, doctype, name string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).Table(s.table(doctype)).Where("name = ?", name).Take(&invoice).Error
	if err != nil {
		return nil, notFound(err, "%s %s", doctype, name)
	}
	invoice.Doctype = doctype

	err = s.db.WithContext(ctx).
		Table(s.table(models.InvoiceItemDoctype(doctype))).
		Where("parent = ?", name).
		Order("idx").
		Find(&invoice.Items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read items of %s %s: %w", doctype, name, err)
	}
	return &invoice, nil
}

// ListNotifications lists the notifications of one customer
func (s *Store) ListNotifications(ctx context.Context, customer string, submittedOnly bool) ([]models.Notification, error) {
	tx := s.db.WithContext(ctx).Where("customer = ?", customer)
	if submittedOnly {
		tx = tx.Where("docstatus = ?", models.DocstatusSubmitted)
	}

	var notifications []models.Notification
	if err := tx.Order("creation DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// ListPayments lists submitted payment entries of one customer
func (s *Store) ListPayments(ctx context.Context, customer string) ([]models.PaymentEntry, error) {
	var payments []models.PaymentEntry
	err := s.db.WithContext(ctx).
		Where("party_type = ? AND party = ? AND docstatus = ?", models.PartyTypeCustomer, customer, models.DocstatusSubmitted).
		Order("posting_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// GetPayment reads one payment entry with its references
func (s *Store) GetPayment(ctx context.Context, name string) (*models.PaymentEntry, error) {
	var payment models.PaymentEntry
	err := s.db.WithContext(ctx).
		Preload("References", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		Where("name = ?", name).
		Take(&payment).Error
	if err != nil {
		return nil, notFound(err, "payment entry %s", name)
	}
	return &payment, nil
}

// ListStockEntries lists the most recent submitted stock entries
func (s *Store) ListStockEntries(ctx context.Context, limit int) ([]models.StockEntry, error) {
	var entries []models.StockEntry
	err := s.db.WithContext(ctx).
		Where("docstatus = ?", models.DocstatusSubmitted).
		Order("creation DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock entries: %w", err)
	}
	return entries, nil
}

// GetStockEntry reads one stock entry with its lines
func (s *Store) GetStockEntry(ctx context.Context, name string) (*models.StockEntry, error) {
	var entry models.StockEntry
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("idx") }).
		Where("name = ?", name).
		Take(&entry).Error
	if err != nil {
		return nil, notFound(err, "stock entry %s", name)
	}
	return &entry, nil
}

// SearchItems runs one combined query: enabled AND (code LIKE OR name LIKE)
func (s *Store) SearchItems(ctx context.Context, text string, limit int) ([]models.Item, error) {
	pattern := "%" + text + "%"

	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("disabled = ?", 0).
		Where(s.db.Where("item_code LIKE ?", pattern).Or("item_name LIKE ?", pattern)).
		Order("item_code").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

// SaveStockEntry replaces the line table of a draft stock entry in one transaction.
// Lines without a name are inserted, named lines updated, missing lines removed.
func (s *Store) SaveStockEntry(ctx context.Context, entry *models.StockEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.StockEntry
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", entry.Name).Take(&current).Error
		if err != nil {
			return notFound(err, "stock entry %s", entry.Name)
		}
		if current.Docstatus != models.DocstatusDraft {
			return fmt.Errorf("stock entry %s: %w", entry.Name, models.ErrNotDraft)
		}

		keep := make([]string, 0, len(entry.Items))
		for i := range entry.Items {
			line := &entry.Items[i]
			line.Parent = entry.Name
			line.Parenttype = models.DoctypeStockEntry
			line.Parentfield = "items"
			line.Idx = i + 1

			if line.Name == "" {
				line.Name = newRowName()
				if err := fillFromItem(tx, line); err != nil {
					return err
				}
				if err := tx.Create(line).Error; err != nil {
					return fmt.Errorf("failed to add line %s: %w", line.ItemCode, err)
				}
			} else if err := tx.Save(line).Error; err != nil {
				return fmt.Errorf("failed to update line %s: %w", line.Name, err)
			}
			keep = append(keep, line.Name)
		}

		del := tx.Where("parent = ?", entry.Name)
		if len(keep) > 0 {
			del = del.Where("name NOT IN ?", keep)
		}
		if err := del.Delete(&models.StockEntryDetail{}).Error; err != nil {
			return fmt.Errorf("failed to prune lines: %w", err)
		}

		modified := models.NewDateTime(time.Now())
		if err := tx.Model(&models.StockEntry{}).Where("name = ?", entry.Name).Update("modified", modified).Error; err != nil {
			return fmt.Errorf("failed to touch stock entry: %w", err)
		}
		entry.Modified = modified
		entry.Docstatus = current.Docstatus
		return nil
	})
}

// SubmitStockEntry moves a draft stock entry to submitted
func (s *Store) SubmitStockEntry(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).
		Model(&models.StockEntry{}).
		Where("name = ? AND docstatus = ?", name, models.DocstatusDraft).
		Updates(map[string]interface{}{
			"docstatus": models.DocstatusSubmitted,
			"modified":  models.NewDateTime(time.Now()),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to submit stock entry %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetStockEntry(ctx, name); err != nil {
			return err
		}
		return fmt.Errorf("stock entry %s: %w", name, models.ErrNotDraft)
	}
	return nil
}

// Login checks the bcrypt hash in __Auth and hands out a signed session id
func (s *Store) Login(ctx context.Context, usr, pwd string) (*models.Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("(name = ? OR email = ?) AND enabled = ?", usr, usr, 1).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", usr, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	var auth models.AuthRecord
	err = s.db.WithContext(ctx).
		Where("doctype = ? AND name = ? AND fieldname = ?", models.DoctypeUser, user.Name, "password").
		Take(&auth).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s has no password: %w", usr, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}

	if !utils.CheckPasswordHash(pwd, auth.Password) {
		return nil, fmt.Errorf("user %s: %w", usr, models.ErrInvalidCredentials)
	}

	email := user.Email.String()
	if email == "" {
		email = user.Name
	}
	session := &models.Session{Email: email, FullName: user.FullName.String()}
	sid, err := utils.GenerateSessionToken(session, s.jwtSecret, sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	session.SID = sid
	return session, nil
}

// fillFromItem copies item_name and uom from the item master onto a new line.
// Unknown item codes leave the line as sent.
func fillFromItem(tx *gorm.DB, line *models.StockEntryDetail) error {
	if line.ItemName != "" && line.UOM != "" {
		return nil
	}
	var item models.Item
	err := tx.Where("item_code = ?", line.ItemCode).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read item %s: %w", line.ItemCode, err)
	}
	if line.ItemName == "" {
		line.ItemName = item.ItemName
	}
	if line.UOM == "" {
		line.UOM = item.StockUOM
	}
	return nil
}

// table quotes a doctype's table name for the current dialect
func (s *Store) table(doctype string) string {
	return s.db.Statement.Quote(models.TableName(doctype))
}

// newRowName mimics the ERP's random 10-character child row names
func newRowName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, models.ErrNotFound)...)
	}
	return fmt.Errorf("failed to read "+format+": %w", append(args, err)...)
}
