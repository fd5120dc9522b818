package secretary

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
	_ "modernc.org/sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// indexed columns get an index when a table is created
var indexed = []string{match.Season, match.Competition}

// Store persists match tables in a sqlite database. Every table is keyed by
// its Primary Key column.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Debug("Database initialized successfully", path)
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

// columnType is REAL for purely numeric columns and TEXT otherwise
func columnType(t *table.Table, name string) string {
	col, _ := t.Column(name)
	for _, c := range col {
		if c.IsSet() && c.Kind() != table.Number {
			return "TEXT"
		}
	}
	return "REAL"
}

// generateCreateTableSQL derives the schema from the table's columns
func generateCreateTableSQL(name string, t *table.Table) string {
	var columns []string
	for _, c := range t.Columns() {
		def := quote(c) + " " + columnType(t, c)
		if c == match.PrimaryKey {
			def = quote(c) + " TEXT NOT NULL PRIMARY KEY"
		}
		columns = append(columns, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(name), strings.Join(columns, ", "))
}

func generateIndexSQL(name string, t *table.Table) []string {
	var indexSQL []string
	for _, c := range indexed {
		if !t.Has(c) {
			continue
		}
		indexName := fmt.Sprintf("idx_%s_%s", name, strings.ToLower(strings.ReplaceAll(c, " ", "_")))
		indexSQL = append(indexSQL, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", quote(indexName), quote(name), quote(c)))
	}
	return indexSQL
}

// existingColumns lists the columns of a stored table, empty if it does not exist
func (s *Store) existingColumns(ctx context.Context, tx *sql.Tx, name string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", name, err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			column     string
			ctype      string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &column, &ctype, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		out[column] = true
	}
	return out, rows.Err()
}

// value converts a cell for storage. Unset cells are stored as NULL.
func value(c table.Cell) any {
	switch c.Kind() {
	case table.Unset:
		return nil
	case table.Number:
		f, _ := c.Float()
		return f
	default:
		return c.String()
	}
}

// SaveTable creates the table if needed, adds missing columns and upserts
// every row by primary key in one transaction
func (s *Store) SaveTable(ctx context.Context, name string, t *table.Table) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	if err := t.Require(match.PrimaryKey); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.existingColumns(ctx, tx, name)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		createSQL := generateCreateTableSQL(name, t)
		logger.Debug("Creating table with SQL", createSQL)
		if _, err := tx.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		for _, query := range generateIndexSQL(name, t) {
			if _, err := tx.ExecContext(ctx, query); err != nil {
				logger.Warn("Failed to create index", err)
			}
		}
	} else {
		for _, c := range t.Columns() {
			if existing[c] {
				continue
			}
			alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", quote(name), quote(c), columnType(t, c))
			if _, err := tx.ExecContext(ctx, alter); err != nil {
				return fmt.Errorf("failed to add column %s to %s: %w", c, name, err)
			}
		}
	}

	columns := t.Columns()
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		quote(name), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", name, err)
	}
	defer stmt.Close()

	values := make([]any, len(columns))
	for r := 0; r < t.Len(); r++ {
		for i, c := range columns {
			values[i] = value(t.Get(r, c))
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to insert %s into %s: %w", t.Text(r, match.PrimaryKey), name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	logger.Info("Saved", t.Len(), "rows to table", name)
	return nil
}

// LoadTable reads a stored table ordered by primary key. NULL becomes an
// Unset cell, text is parsed the way CSV fields are.
func (s *Store) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	if !tableNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid table name %q", name)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s", quote(name), quote(match.PrimaryKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t := table.New(columns...)
	raw := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range raw {
		pointers[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", name, err)
		}
		row := make(map[string]table.Cell, len(columns))
		for i, c := range columns {
			switch v := raw[i].(type) {
			case nil:
			case float64:
				row[c] = table.Num(v)
			case int64:
				row[c] = table.Num(float64(v))
			case []byte:
				row[c] = table.Parse(string(v))
			case string:
				row[c] = table.Parse(v)
			default:
				return nil, fmt.Errorf("unexpected %T in %s.%s", v, name, c)
			}
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.Debug("Loaded", t.Len(), "rows from table", name)
	return t, nil
}

// Tables lists the stored tables
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
