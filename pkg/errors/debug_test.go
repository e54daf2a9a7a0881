package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpExtractsPgxFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key", TableName: "orders", Message: "duplicate key"}
	err := Wrap(CodeInternal, fmt.Errorf("insert: %w", pgErr), "create order")

	d := Dump(err)
	if d.Code != CodeInternal {
		t.Fatalf("expected internal code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "orders_order_number_key" || d.PGTable != "orders" {
		t.Fatalf("unexpected pg fields %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(d.Chain))
	}
}

func TestDumpExtractsPqFields(t *testing.T) {
	d := Dump(&pq.Error{Code: "23503", Constraint: "order_items_order_id_fkey", Table: "order_items"})
	if d.PGCode != "23503" || d.PGConstraint != "order_items_order_id_fkey" {
		t.Fatalf("unexpected pq fields %+v", d)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || len(d.Chain) != 0 {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}

func TestDumpViolationHelpers(t *testing.T) {
	if !Dump(&pgconn.PgError{Code: "23505"}).UniqueViolation() {
		t.Fatal("expected unique violation")
	}
	if !Dump(&pq.Error{Code: "23503"}).ForeignKeyViolation() {
		t.Fatal("expected foreign key violation")
	}
}
