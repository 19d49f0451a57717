package database

import (
	"fmt"
	"strings"
)

// dialect holds the statements a store issues, rendered for one table.
type dialect struct {
	driver      string
	createTable string
	upsert      string
	selectOne   string
	deleteOne   string
}

// normalizeDriver maps driver aliases onto registered database/sql names.
func normalizeDriver(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "mysql":
		return "mysql", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", ErrUnsupportedDriver.WithDetail("driver", driver)
	}
}

func newDialect(driver, table string) dialect {
	switch driver {
	case "mysql":
		return dialect{
			driver: driver,
			createTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name VARCHAR(255) NOT NULL PRIMARY KEY,
    revision_id CHAR(36) NOT NULL,
    codec VARCHAR(16) NOT NULL,
    payload LONGTEXT NOT NULL,
    saved_at BIGINT NOT NULL
)`, table),
			upsert: fmt.Sprintf(`INSERT INTO %s (name, revision_id, codec, payload, saved_at) VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE revision_id = VALUES(revision_id), codec = VALUES(codec), payload = VALUES(payload), saved_at = VALUES(saved_at)`, table),
			selectOne: fmt.Sprintf("SELECT revision_id, codec, payload, saved_at FROM %s WHERE name = ?", table),
			deleteOne: fmt.Sprintf("DELETE FROM %s WHERE name = ?", table),
		}
	case "postgres":
		return dialect{
			driver:      driver,
			createTable: standardTable(table),
			upsert:      standardUpsert(table, "$1, $2, $3, $4, $5"),
			selectOne:   fmt.Sprintf("SELECT revision_id, codec, payload, saved_at FROM %s WHERE name = $1", table),
			deleteOne:   fmt.Sprintf("DELETE FROM %s WHERE name = $1", table),
		}
	default:
		return dialect{
			driver:      driver,
			createTable: standardTable(table),
			upsert:      standardUpsert(table, "?, ?, ?, ?, ?"),
			selectOne:   fmt.Sprintf("SELECT revision_id, codec, payload, saved_at FROM %s WHERE name = ?", table),
			deleteOne:   fmt.Sprintf("DELETE FROM %s WHERE name = ?", table),
		}
	}
}

func standardTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name VARCHAR(255) NOT NULL PRIMARY KEY,
    revision_id CHAR(36) NOT NULL,
    codec VARCHAR(16) NOT NULL,
    payload TEXT NOT NULL,
    saved_at BIGINT NOT NULL
)`, table)
}

func standardUpsert(table, placeholders string) string {
	return fmt.Sprintf(`INSERT INTO %s (name, revision_id, codec, payload, saved_at) VALUES (%s)
ON CONFLICT (name) DO UPDATE SET revision_id = excluded.revision_id, codec = excluded.codec, payload = excluded.payload, saved_at = excluded.saved_at`, table, placeholders)
}
