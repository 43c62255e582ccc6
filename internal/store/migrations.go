package store

import "fmt"

// dialect holds the handful of DDL fragments that differ between the
// supported drivers. Everything else is written once in portable SQL.
type dialect struct {
	pk   string // autoincrementing primary key column
	text string // string column usable in UNIQUE constraints
	ts   string // timestamp column
	boo  string // boolean column with default true
}

func dialectFor(driver string) dialect {
	switch driver {
	case "postgres":
		return dialect{
			pk:   "BIGSERIAL PRIMARY KEY",
			text: "TEXT",
			ts:   "TIMESTAMPTZ",
			boo:  "BOOLEAN NOT NULL DEFAULT TRUE",
		}
	case "mysql":
		return dialect{
			pk:   "BIGINT PRIMARY KEY AUTO_INCREMENT",
			text: "VARCHAR(255)",
			ts:   "DATETIME",
			boo:  "TINYINT(1) NOT NULL DEFAULT 1",
		}
	default: // sqlite
		return dialect{
			pk:   "INTEGER PRIMARY KEY AUTOINCREMENT",
			text: "TEXT",
			ts:   "DATETIME",
			boo:  "INTEGER NOT NULL DEFAULT 1",
		}
	}
}

func (s *Store) migrate() error {
	d := dialectFor(s.driver)

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admins (
			id %s,
			email %s UNIQUE NOT NULL,
			password_hash %s NOT NULL,
			name %s NOT NULL,
			is_active %s,
			last_login_at %s,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, d.pk, d.text, d.text, d.text, d.boo, d.ts, d.ts, d.ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sessions (
			token_hash %s PRIMARY KEY,
			admin_id BIGINT NOT NULL,
			created_at %s NOT NULL,
			expires_at %s NOT NULL
		)`, d.text, d.ts, d.ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
			id %s,
			order_no %s UNIQUE NOT NULL,
			customer_name %s NOT NULL,
			total_cents BIGINT NOT NULL,
			status %s NOT NULL,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, d.pk, d.text, d.text, d.text, d.ts, d.ts),
	}

	// CREATE INDEX IF NOT EXISTS is not valid MySQL; the table create above
	// is the only migration that must succeed there.
	if s.driver != "mysql" {
		migrations = append(migrations,
			"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)",
			"CREATE INDEX IF NOT EXISTS idx_sessions_admin_id ON sessions(admin_id)",
		)
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
