package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	count, err := ValidateDir("migrations")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if count < 5 {
		t.Fatalf("expected at least 5 migrations, got %d", count)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CONSTRAINT orders_order_number_key UNIQUE (order_number)",
		"CHECK (total = subtotal + tax + shipping_cost)",
		"'placed', 'confirmed', 'packed', 'shipped', 'delivered', 'cancelled'",
		"CONSTRAINT payments_order_id_key UNIQUE (order_id)",
		"DROP TABLE IF EXISTS orders",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCartMigrationEnforcesSingleCartPerCustomer(t *testing.T) {
	content := readMigration(t, "*_create_addresses_and_cart.sql")

	for _, sub := range []string{
		"CONSTRAINT cart_customer_id_key UNIQUE (customer_id)",
		"CONSTRAINT idx_cart_items_cart_product UNIQUE (cart_id, product_id)",
		"CHECK (quantity > 0)",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryMigrationRejectsNegativeStock(t *testing.T) {
	content := readMigration(t, "*_create_catalog.sql")
	if !strings.Contains(content, "quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)") {
		t.Fatalf("inventory quantity check missing")
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}
}

func TestValidateDirRejectsEmptyDir(t *testing.T) {
	if _, err := ValidateDir(t.TempDir()); err == nil {
		t.Fatal("expected empty dir error")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	path, err := createSQLMigrationAt(dir, "Add Order Notes!", at)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20260302100000_add_order_notes.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if _, err := createSQLMigrationAt(dir, "Add Order Notes!", at); err == nil {
		t.Fatal("expected duplicate create to fail")
	}
	if count, err := ValidateDir(dir); err != nil || count != 1 {
		t.Fatalf("created migration should validate, count=%d err=%v", count, err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestSourceEmbedsShippedMigrations(t *testing.T) {
	source, err := Source(DefaultDir)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	matches, err := fs.Glob(source, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	onDisk, _ := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if len(matches) == 0 || len(matches) != len(onDisk) {
		t.Fatalf("embedded %d migrations, %d on disk", len(matches), len(onDisk))
	}
}

func TestSourceRejectsMissingDir(t *testing.T) {
	if _, err := Source(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected missing dir error")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Add Order Notes!":     "add_order_notes",
		"  payments -- index ": "payments_index",
		"café menu":            "caf_menu",
		"!!!":                  "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateDirDefaultsToEmbeddedCopy(t *testing.T) {
	embeddedCount, err := ValidateDir("")
	if err != nil {
		t.Fatalf("validate embedded: %v", err)
	}
	diskCount, err := ValidateDir("migrations")
	if err != nil {
		t.Fatalf("validate disk: %v", err)
	}
	if embeddedCount != diskCount {
		t.Fatalf("embedded copy has %d migrations, disk has %d", embeddedCount, diskCount)
	}
}

func TestValidateFSRejectsDuplicateVersionAndMissingDown(t *testing.T) {
	body := []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")
	dup := fstest.MapFS{
		"20260101000000_a.sql": {Data: body},
		"20260101000000_b.sql": {Data: body},
	}
	if _, err := ValidateFS(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate version error, got %v", err)
	}

	noDown := fstest.MapFS{"20260101000000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}}
	if _, err := ValidateFS(noDown); err == nil || !strings.Contains(err.Error(), "+goose Down") {
		t.Fatalf("expected missing down marker error, got %v", err)
	}
}
