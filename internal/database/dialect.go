package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// SchemaStatements returns the statements that bootstrap the job tables
	SchemaStatements() []string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

// SQLiteDialect implements Dialect for SQLite, the default job store
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

func (d *SQLiteDialect) DSN(config DialectConfig) string { return config.Path }

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? placeholders, no rewrite needed
	return query
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)

	// WAL mode so job updates from the worker don't block status reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return err
	}
	return nil
}

func (d *SQLiteDialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS generation_jobs (
			id TEXT PRIMARY KEY,
			character_id INTEGER NOT NULL,
			status TEXT NOT NULL,
			total INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS generation_items (
			job_id TEXT NOT NULL REFERENCES generation_jobs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			status TEXT NOT NULL,
			filename TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (job_id, idx)
		);`,
	}
}

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(config DialectConfig) string { return config.URL }

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (d *PostgresDialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS generation_jobs (
			id TEXT PRIMARY KEY,
			character_id INTEGER NOT NULL,
			status TEXT NOT NULL,
			total INTEGER NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS generation_items (
			job_id TEXT NOT NULL REFERENCES generation_jobs(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			status TEXT NOT NULL,
			filename TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (job_id, idx)
		);`,
	}
}

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) DSN(config DialectConfig) string { return config.URL }

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}
	return nil
}

func (d *MySQLDialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS generation_jobs (
			id VARCHAR(36) PRIMARY KEY,
			character_id INT NOT NULL,
			status VARCHAR(16) NOT NULL,
			total INT NOT NULL,
			completed INT NOT NULL DEFAULT 0,
			failed INT NOT NULL DEFAULT 0,
			created_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6),
			updated_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);`,
		`CREATE TABLE IF NOT EXISTS generation_items (
			job_id VARCHAR(36) NOT NULL,
			idx INT NOT NULL,
			status VARCHAR(16) NOT NULL,
			filename VARCHAR(255) NOT NULL DEFAULT '',
			error TEXT,
			PRIMARY KEY (job_id, idx),
			FOREIGN KEY (job_id) REFERENCES generation_jobs(id) ON DELETE CASCADE
		);`,
	}
}
