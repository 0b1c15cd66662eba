package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"store-route-assistant/internal/adapters/planner"
	"store-route-assistant/internal/domain"
)

// SQL flavor of the target database. SQLite serves single-host runs;
// Postgres is shared by several server instances.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// bind returns the placeholder for the n-th (1-based) query argument.
func (d Dialect) bind(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d Dialect) blobType() string {
	if d == Postgres {
		return "BYTEA"
	}
	return "BLOB"
}

// Initialize the section registry and route cache schema.
func InitSchema(db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSectionsQuery := `
	CREATE TABLE IF NOT EXISTS sections (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		x DOUBLE PRECISION,
		y DOUBLE PRECISION
	);
	`

	createSectionItemsQuery := `
	CREATE TABLE IF NOT EXISTS section_items (
		section_name TEXT NOT NULL,
		position INTEGER NOT NULL,
		item TEXT NOT NULL,
		PRIMARY KEY (section_name, position)
	);
	`

	createSupportedItemsQuery := `
	CREATE TABLE IF NOT EXISTS supported_items (
		position INTEGER PRIMARY KEY,
		item TEXT NOT NULL
	);
	`

	createRouteCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		body %s NOT NULL,
		created_at BIGINT NOT NULL
	);
	`, dialect.blobType())

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_section_items_item
	ON section_items(item);
	`

	statements := []string{
		createSectionsQuery,
		createSectionItemsQuery,
		createSupportedItemsQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Replace the stored registry with the sections document at jsonPath.
func SeedFromJSON(db *sql.DB, dialect Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed sections: read %q: %w", jsonPath, err)
	}

	reg, err := planner.DecodeRegistry(bytes)
	if err != nil {
		return fmt.Errorf("seed sections: parse %q: %w", jsonPath, err)
	}

	return SeedRegistry(db, dialect, reg)
}

// Replace the stored registry with reg, keeping its order.
func SeedRegistry(db *sql.DB, dialect Dialect, reg *domain.Registry) error {
	if db == nil {
		return errors.New("seed sections: DB is nil")
	}
	if reg == nil || len(reg.SupportedItems) == 0 {
		return errors.New("seed sections: registry has no supported items")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed sections: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"section_items", "sections", "supported_items"} {
		if _, err := tx.Exec("DELETE FROM " + table + ";"); err != nil {
			return fmt.Errorf("seed sections: clear %s: %w", table, err)
		}
	}

	b := dialect.bind
	insertSection := fmt.Sprintf(
		`INSERT INTO sections (position, name, x, y) VALUES (%s, %s, %s, %s);`,
		b(1), b(2), b(3), b(4),
	)
	insertItem := fmt.Sprintf(
		`INSERT INTO section_items (section_name, position, item) VALUES (%s, %s, %s);`,
		b(1), b(2), b(3),
	)
	insertSupported := fmt.Sprintf(
		`INSERT INTO supported_items (position, item) VALUES (%s, %s);`,
		b(1), b(2),
	)

	for i, s := range reg.Sections {
		var x, y sql.NullFloat64
		if s.Coordinates != nil {
			x = sql.NullFloat64{Float64: s.Coordinates.X, Valid: true}
			y = sql.NullFloat64{Float64: s.Coordinates.Y, Valid: true}
		}
		if _, err := tx.Exec(insertSection, i, s.Name, x, y); err != nil {
			return fmt.Errorf("seed sections: insert section %q: %w", s.Name, err)
		}

		for j, item := range s.Items {
			if _, err := tx.Exec(insertItem, s.Name, j, item); err != nil {
				return fmt.Errorf("seed sections: insert item %q of %q: %w", item, s.Name, err)
			}
		}
	}

	for i, item := range reg.SupportedItems {
		if _, err := tx.Exec(insertSupported, i, item); err != nil {
			return fmt.Errorf("seed sections: insert supported item %q: %w", item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed sections: commit tx: %w", err)
	}

	return nil
}
