package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"}

	assert.True(t, IsUniqueViolation(dup, "orders_order_number_key"))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert order: %w", dup), ""))
	assert.False(t, IsUniqueViolation(dup, "staff_clock_ins_open_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "staff_clock_ins_staff_id_fkey"}

	assert.True(t, IsForeignKeyViolation(fk, "staff_clock_ins_staff_id_fkey"))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert clock-in: %w", fk), ""))
	assert.False(t, IsForeignKeyViolation(fk, "orders_user_id_fkey"))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}, ""))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS orders")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS menu_items")
	assert.Contains(t, schema, "staff_clock_ins_open_key")
}
