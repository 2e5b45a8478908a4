package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xelth-com/eckmobile/internal/config"
	"github.com/xelth-com/eckmobile/internal/database"
	"github.com/xelth-com/eckmobile/internal/models"
	"github.com/xelth-com/eckmobile/internal/utils"
)

const demoPassword = "demo1234"

func main() {
	fmt.Println("🌱 eckmobile Demo Data Seeder")
	fmt.Println(strings.Repeat("=", 60))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if cfg.Backend != config.BackendDatabase {
		log.Fatalf("❌ STORE_BACKEND must be %q to seed demo data", config.BackendDatabase)
	}

	if !database.MigrationAllowed(cfg.Database) {
		log.Fatalf("❌ Refusing to seed an ERP database; use the embedded database or set DB_ALTER=true")
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	fmt.Println("🔨 Running database migrations...")
	if err := db.AutoMigrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var customerCount int64
	db.Model(&models.Customer{}).Count(&customerCount)
	if customerCount > 0 {
		fmt.Printf("⚠️  Database already has %d customers. Clear it first? (y/N): ", customerCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		for _, doctype := range []string{
			models.DoctypePaymentEntryReference, models.DoctypePaymentEntry,
			models.DoctypeStockEntryDetail, models.DoctypeStockEntry,
			models.DoctypeSalesInvoiceItem, models.DoctypeSalesInvoice,
			models.DoctypePOSInvoiceItem, models.DoctypePOSInvoice,
			models.DoctypeNotification, models.DoctypeItem,
			models.DoctypeUser, models.DoctypeCustomer,
		} {
			db.Exec("DELETE FROM " + db.Statement.Quote(models.TableName(doctype)))
		}
		db.Exec(`DELETE FROM "__Auth"`)
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	// 1. Customers
	fmt.Println("👥 Creating customers...")
	customers := []models.Customer{
		{Name: "CUST-0001", CustomerName: "Acme Hardware", CustomCustomerCode: "C-100", MobileNo: "(650) 253-0000", EmailID: "orders@acme.example", CustomDebt: 125.5, CustomCreditLimit: 5000},
		{Name: "CUST-0002", CustomerName: "Blue Harbor Cafe", CustomCustomerCode: "C-200", MobileNo: "+44 20 7946 0958", EmailID: "hello@blueharbor.example", CustomCreditLimit: 1000},
	}
	for _, c := range customers {
		if err := db.Create(&c).Error; err != nil {
			log.Printf("⚠️  Failed to create customer %s: %v", c.Name, err)
		} else {
			fmt.Printf("   ✓ Created customer: %s (%s)\n", c.CustomerName, c.CustomCustomerCode)
		}
	}
	fmt.Printf("✅ Created %d customers\n\n", len(customers))

	// 2. Users (one of them only reachable through the user fallback)
	fmt.Println("🔑 Creating users...")
	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("❌ Failed to hash demo password: %v", err)
	}
	users := []models.User{
		{Name: "jane@example.com", FullName: "Jane Doe", Email: "jane@example.com", Enabled: 1},
		{Name: "walkin@example.com", FullName: "Walk-in Member", Email: "walkin@example.com", CustomCustomerCode: "U-300", MobileNo: "650-253-0001", Enabled: 1},
	}
	for _, u := range users {
		if err := db.Create(&u).Error; err != nil {
			log.Printf("⚠️  Failed to create user %s: %v", u.Name, err)
			continue
		}
		auth := models.AuthRecord{Doctype: models.DoctypeUser, Name: u.Name, Fieldname: "password", Password: hash}
		if err := db.Create(&auth).Error; err != nil {
			log.Printf("⚠️  Failed to store password of %s: %v", u.Name, err)
			continue
		}
		fmt.Printf("   ✓ Created user: %s\n", u.Name)
	}
	fmt.Printf("✅ Created %d users (password: %s)\n\n", len(users), demoPassword)

	// 3. Items
	fmt.Println("🔩 Creating items...")
	items := []models.Item{
		{Name: "BOLT-M8", ItemCode: "BOLT-M8", ItemName: "Hex bolt M8", StockUOM: "Nos"},
		{Name: "NUT-M8", ItemCode: "NUT-M8", ItemName: "Hex nut M8", StockUOM: "Nos"},
		{Name: "WASHER-M8", ItemCode: "WASHER-M8", ItemName: "Washer M8", StockUOM: "Nos"},
		{Name: "COFFEE-1KG", ItemCode: "COFFEE-1KG", ItemName: "Coffee beans 1kg", StockUOM: "Kg"},
		{Name: "BOLT-M6-OLD", ItemCode: "BOLT-M6-OLD", ItemName: "Hex bolt M6 (discontinued)", StockUOM: "Nos", Disabled: 1},
	}
	for _, it := range items {
		if err := db.Create(&it).Error; err != nil {
			log.Printf("⚠️  Failed to create item %s: %v", it.ItemCode, err)
		}
	}
	fmt.Printf("✅ Created %d items\n\n", len(items))

	// 4. Invoices
	fmt.Println("🧾 Creating invoices...")
	today := time.Now()
	invoices := []models.Invoice{
		{
			Doctype: models.DoctypeSalesInvoice, Name: "ACC-SINV-0001", Customer: "CUST-0001",
			PostingDate: date(today, -10), GrandTotal: 500, NetTotal: 420.17, TotalTaxesAndCharges: 79.83,
			Status: "Paid", Docstatus: models.DocstatusSubmitted,
			Items: []models.InvoiceItem{
				invoiceItem("ACC-SINV-0001", models.DoctypeSalesInvoice, 1, "BOLT-M8", "Hex bolt M8", 1000, 0.3),
				invoiceItem("ACC-SINV-0001", models.DoctypeSalesInvoice, 2, "NUT-M8", "Hex nut M8", 1000, 0.2),
			},
		},
		{
			Doctype: models.DoctypeSalesInvoice, Name: "ACC-SINV-0002", Customer: "CUST-0001",
			PostingDate: date(today, -2), GrandTotal: 120, NetTotal: 100.84, TotalTaxesAndCharges: 19.16,
			OutstandingAmount: 120, Status: "Unpaid", Docstatus: models.DocstatusSubmitted,
			Items: []models.InvoiceItem{
				invoiceItem("ACC-SINV-0002", models.DoctypeSalesInvoice, 1, "WASHER-M8", "Washer M8", 1200, 0.1),
			},
		},
		{
			Doctype: models.DoctypeSalesInvoice, Name: "ACC-SINV-0003", Customer: "CUST-0001",
			PostingDate: date(today, 0), GrandTotal: 75, Status: "Draft", Docstatus: models.DocstatusDraft,
		},
		{
			Doctype: models.DoctypePOSInvoice, Name: "ACC-PSINV-0001", Customer: "CUST-0001",
			PostingDate: date(today, -5), GrandTotal: 50, NetTotal: 42.02, TotalTaxesAndCharges: 7.98,
			Status: "Paid", Docstatus: models.DocstatusSubmitted,
			Items: []models.InvoiceItem{
				invoiceItem("ACC-PSINV-0001", models.DoctypePOSInvoice, 1, "COFFEE-1KG", "Coffee beans 1kg", 2, 25),
			},
		},
		{
			Doctype: models.DoctypePOSInvoice, Name: "ACC-PSINV-0002", Customer: "CUST-0001",
			PostingDate: date(today, -20), GrandTotal: 30, Status: "Consolidated",
			ConsolidatedInvoice: "ACC-SINV-0001", Docstatus: models.DocstatusSubmitted,
		},
	}
	for i := range invoices {
		if err := db.InsertInvoice(&invoices[i]); err != nil {
			log.Printf("⚠️  Failed to create %s %s: %v", invoices[i].Doctype, invoices[i].Name, err)
		} else {
			fmt.Printf("   ✓ Created %s: %s\n", invoices[i].Doctype, invoices[i].Name)
		}
	}
	fmt.Printf("✅ Created %d invoices\n\n", len(invoices))

	// 5. Payments
	fmt.Println("💶 Creating payments...")
	payments := []models.PaymentEntry{
		{
			Name: "ACC-PAY-0001", PostingDate: date(today, -9), PaidAmount: 500, PaymentType: "Receive",
			ModeOfPayment: "Bank Transfer", ReferenceNo: "TRX-88121", PartyType: models.PartyTypeCustomer,
			Party: "CUST-0001", Docstatus: models.DocstatusSubmitted,
			References: []models.PaymentEntryReference{
				{Name: "per-0001", Parent: "ACC-PAY-0001", Idx: 1, ReferenceDoctype: models.DoctypeSalesInvoice, ReferenceName: "ACC-SINV-0001", AllocatedAmount: 500},
			},
		},
		{
			Name: "ACC-PAY-0002", PostingDate: date(today, -4), PaidAmount: 80, PaymentType: "Receive",
			ModeOfPayment: "Cash", PartyType: models.PartyTypeCustomer,
			Party: "CUST-0001", Docstatus: models.DocstatusSubmitted,
			References: []models.PaymentEntryReference{
				{Name: "per-0002", Parent: "ACC-PAY-0002", Idx: 1, ReferenceDoctype: models.DoctypePOSInvoice, ReferenceName: "ACC-PSINV-0001", AllocatedAmount: 50},
				{Name: "per-0003", Parent: "ACC-PAY-0002", Idx: 2, ReferenceDoctype: "Journal Entry", ReferenceName: "ACC-JV-0007", AllocatedAmount: 30},
			},
		},
	}
	for _, p := range payments {
		if err := db.Create(&p).Error; err != nil {
			log.Printf("⚠️  Failed to create payment %s: %v", p.Name, err)
		} else {
			fmt.Printf("   ✓ Created payment: %s (%d references)\n", p.Name, len(p.References))
		}
	}
	fmt.Printf("✅ Created %d payments\n\n", len(payments))

	// 6. Stock entries: one of each lifecycle state
	fmt.Println("🚚 Creating stock entries...")
	entries := []models.StockEntry{
		{
			Name: "MAT-STE-0001", PostingDate: date(today, 0), StockEntryType: "Material Transfer",
			FromWarehouse: "Stores - DC", ToWarehouse: "Shop - DC", Docstatus: models.DocstatusDraft,
			Creation: models.NewDateTime(today.Add(-1 * time.Hour)), Modified: models.NewDateTime(today.Add(-1 * time.Hour)),
			Items: []models.StockEntryDetail{
				stockLine("MAT-STE-0001", 1, "BOLT-M8", "Hex bolt M8", 100, "Stores - DC", "Shop - DC"),
			},
		},
		{
			Name: "MAT-STE-0002", PostingDate: date(today, -1), StockEntryType: "Material Receipt",
			ToWarehouse: "Stores - DC", Docstatus: models.DocstatusSubmitted,
			Creation: models.NewDateTime(today.Add(-26 * time.Hour)), Modified: models.NewDateTime(today.Add(-26 * time.Hour)),
			Items: []models.StockEntryDetail{
				stockLine("MAT-STE-0002", 1, "NUT-M8", "Hex nut M8", 5000, "", "Stores - DC"),
				stockLine("MAT-STE-0002", 2, "WASHER-M8", "Washer M8", 5000, "", "Stores - DC"),
			},
		},
		{
			Name: "MAT-STE-0003", PostingDate: date(today, -3), StockEntryType: "Material Issue",
			FromWarehouse: "Stores - DC", Docstatus: models.DocstatusCancelled,
			Creation: models.NewDateTime(today.Add(-72 * time.Hour)), Modified: models.NewDateTime(today.Add(-70 * time.Hour)),
		},
	}
	for _, e := range entries {
		if err := db.Create(&e).Error; err != nil {
			log.Printf("⚠️  Failed to create stock entry %s: %v", e.Name, err)
		} else {
			fmt.Printf("   ✓ Created stock entry: %s (%s)\n", e.Name, models.DocstatusLabel(e.Docstatus))
		}
	}
	fmt.Printf("✅ Created %d stock entries\n\n", len(entries))

	// 7. Notifications
	fmt.Println("🔔 Creating notifications...")
	notifications := []models.Notification{
		{Name: "CN-0001", Customer: "CUST-0001", Title: "Order shipped", Message: "Your order left the warehouse.", Creation: models.NewDateTime(today.Add(-48 * time.Hour)), Docstatus: models.DocstatusSubmitted},
		{Name: "CN-0002", Customer: "CUST-0001", Title: "Invoice due", Message: "ACC-SINV-0002 is due in 7 days.", Creation: models.NewDateTime(today.Add(-2 * time.Hour)), Docstatus: models.DocstatusSubmitted},
		{Name: "CN-0003", Customer: "CUST-0001", Title: "Draft", Message: "Not sent yet.", Creation: models.NewDateTime(today), Docstatus: models.DocstatusDraft},
	}
	for _, n := range notifications {
		if err := db.Create(&n).Error; err != nil {
			log.Printf("⚠️  Failed to create notification %s: %v", n.Name, err)
		}
	}
	fmt.Printf("✅ Created %d notifications\n\n", len(notifications))

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("🎉 Demo data created successfully!")
	fmt.Println()
	fmt.Println("Try:")
	fmt.Println("   get_customer_by_code?code=C-100   (customer)")
	fmt.Println("   get_customer_by_code?code=U-300   (user fallback)")
	fmt.Println("   get_stock_entry_detail?name=MAT-STE-0001")

	if cfg.JWTSecret != "" {
		token, err := utils.GenerateStockToken("seed-demo", cfg.JWTSecret, 30*24*time.Hour)
		if err != nil {
			log.Printf("⚠️  Failed to issue stock token: %v", err)
		} else {
			fmt.Println()
			fmt.Println("🔐 Stock token for update_stock_entry (valid 30 days):")
			fmt.Println("   " + token)
		}
	}
}

func date(t time.Time, days int) models.Date {
	return models.Date(t.AddDate(0, 0, days).Format("2006-01-02"))
}

func invoiceItem(parent, doctype string, idx int, code, name string, qty, rate float64) models.InvoiceItem {
	return models.InvoiceItem{
		Name:       fmt.Sprintf("%s-%d", strings.ToLower(parent), idx),
		Parent:     parent,
		Parenttype: doctype,
		Idx:        idx,
		ItemCode:   models.Text(code),
		ItemName:   models.Text(name),
		Qty:        models.Float(qty),
		Rate:       models.Float(rate),
		Amount:     models.Float(qty * rate),
	}
}

func stockLine(parent string, idx int, code, name string, qty float64, from, to string) models.StockEntryDetail {
	return models.StockEntryDetail{
		Name:        fmt.Sprintf("%s-%d", strings.ToLower(parent), idx),
		Parent:      parent,
		Parenttype:  models.DoctypeStockEntry,
		Parentfield: "items",
		Idx:         idx,
		ItemCode:    models.Text(code),
		ItemName:    models.Text(name),
		Qty:         models.Float(qty),
		UOM:         "Nos",
		SWarehouse:  models.Text(from),
		TWarehouse:  models.Text(to),
	}
}
