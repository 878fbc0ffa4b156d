// Package dbtest opens isolated in-memory sqlite databases for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/bazaar-backend/pkg/db"
)

// Open returns a fresh database and runs each DDL statement against it.
func Open(t testing.TB, ddl ...string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.Open(sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	for _, stmt := range ddl {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("exec ddl: %v\n%s", err, stmt)
		}
	}
	return conn
}

const CartsTable = `CREATE TABLE carts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	items TEXT,
	total_price NUMERIC NOT NULL DEFAULT 0,
	discount NUMERIC NOT NULL DEFAULT 0,
	discount_description TEXT,
	notes TEXT,
	status TEXT NOT NULL DEFAULT 'active',
	created_at DATETIME,
	updated_at DATETIME
);`

const CartsActiveIndex = `CREATE UNIQUE INDEX carts_one_active_per_user ON carts(user_id) WHERE status = 'active';`

const OrdersTable = `CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	items TEXT,
	total_order_price NUMERIC NOT NULL DEFAULT 0,
	shipping_address TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	payment_method TEXT NOT NULL DEFAULT 'cash',
	payment_status TEXT NOT NULL DEFAULT 'pending',
	notes TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME,
	updated_at DATETIME
);`

const ProductsTable = `CREATE TABLE products (
	id TEXT PRIMARY KEY,
	name TEXT,
	price NUMERIC NOT NULL DEFAULT 0,
	stock INTEGER NOT NULL DEFAULT 0,
	image TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME,
	updated_at DATETIME
);`

const UsersTable = `CREATE TABLE users (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone_number TEXT,
	profile_picture TEXT,
	role TEXT NOT NULL DEFAULT 'user',
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME,
	updated_at DATETIME
);`
