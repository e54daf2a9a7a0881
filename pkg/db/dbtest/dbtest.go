// Package dbtest opens isolated in-memory sqlite databases carrying the full
// marketplace schema for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

var seq atomic.Int64

// Open returns a migrated sqlite connection private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// Client wraps Open in a db.Client so services can run real transactions.
func Client(t testing.TB) (*db.Client, *gorm.DB) {
	conn := Open(t)
	return db.Wrap(conn), conn
}

// Fixtures inserts common rows with terse helpers.
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
}

func NewFixtures(t testing.TB, conn *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: conn}
}

func (f *Fixtures) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("fixture: %v", err)
	}
}

func (f *Fixtures) User(email string, role enums.Role) models.User {
	f.t.Helper()
	user := models.User{Email: email, PasswordHash: "x", Role: role, FirstName: "Test", IsActive: true}
	f.must(f.db.Create(&user).Error)
	return user
}

// Seller creates a seller-role user and its storefront.
func (f *Fixtures) Seller(storeName string) models.Seller {
	f.t.Helper()
	user := f.User(strings.ToLower(strings.ReplaceAll(storeName, " ", "."))+"@sellers.test", enums.RoleSeller)
	seller := models.Seller{UserID: user.ID, StoreName: storeName}
	f.must(f.db.Create(&seller).Error)
	return seller
}

// Product creates an active product; stock < 0 leaves inventory untracked.
func (f *Fixtures) Product(sellerID int64, name, price string, stock int) models.Product {
	f.t.Helper()
	product := models.Product{
		SellerID: sellerID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		SKU:      strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		IsActive: true,
	}
	f.must(f.db.Create(&product).Error)
	if stock >= 0 {
		f.must(f.db.Create(&models.Inventory{ProductID: product.ID, Quantity: stock, LowStockThreshold: 10}).Error)
	}
	return product
}

func (f *Fixtures) Address(userID int64, isDefault bool) models.Address {
	f.t.Helper()
	addr := models.Address{
		UserID:       userID,
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Country:      "USA",
		IsDefault:    isDefault,
	}
	f.must(f.db.Create(&addr).Error)
	return addr
}

// CartItem puts qty of product into the customer's cart, creating the cart on demand.
func (f *Fixtures) CartItem(customerID, productID int64, qty int) models.Cart {
	f.t.Helper()
	var cart models.Cart
	f.must(f.db.Where(models.Cart{CustomerID: customerID}).FirstOrCreate(&cart).Error)
	f.must(f.db.Create(&models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}).Error)
	return cart
}

func (f *Fixtures) Stock(productID int64) int {
	f.t.Helper()
	var inv models.Inventory
	f.must(f.db.Where("product_id = ?", productID).First(&inv).Error)
	return inv.Quantity
}

func (f *Fixtures) Count(model any) int64 {
	f.t.Helper()
	var n int64
	f.must(f.db.Model(model).Count(&n).Error)
	return n
}
