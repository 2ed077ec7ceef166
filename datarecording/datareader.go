package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"
)

// A Filter selects and orders the rows of a table. Where and OrderBy are SQL
// fragments without their keywords.
type Filter struct {
	Where   string
	Args    []any
	OrderBy string
}

func (f Filter) clauses() string {
	var b strings.Builder

	if f.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(f.Where)
	}

	if f.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(f.OrderBy)
	}

	return b.String()
}

// A Reader reads back a database written by a DataRecorder.
type Reader struct {
	db *sql.DB
}

// Open opens the database file at path for reading. The file must exist.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("datarecording: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("datarecording: opening %s: %w", path, err)
	}

	return &Reader{db: db}, nil
}

// Tables returns the names of the tables in the database, sorted.
func (r *Reader) Tables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}

// HasTable tells if the database has the table.
func (r *Reader) HasTable(ctx context.Context, table string) (bool, error) {
	var n int

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
		table).Scan(&n)

	return n > 0, err
}

// Count returns the number of rows of the table that pass the filter.
func (r *Reader) Count(
	ctx context.Context,
	table string,
	f Filter,
) (int, error) {
	var n int

	f.OrderBy = ""
	query := "SELECT COUNT(*) FROM " + table + f.clauses()

	err := r.db.QueryRowContext(ctx, query, f.Args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("datarecording: counting %s: %w", table, err)
	}

	return n, nil
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}

// ReadTable reads the rows of a table into entries of type T, the type the
// table was created with. Columns are matched to fields by name.
func ReadTable[T any](
	ctx context.Context,
	r *Reader,
	table string,
	f Filter,
) ([]T, error) {
	var sample T

	if reflect.TypeOf(sample).Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrInvalidEntry, sample)
	}

	query := "SELECT " + strings.Join(structs.Names(sample), ", ") +
		" FROM " + table + f.clauses()

	rows, err := r.db.QueryContext(ctx, query, f.Args...)
	if err != nil {
		return nil, fmt.Errorf("datarecording: reading %s: %w", table, err)
	}
	defer rows.Close()

	var entries []T

	for rows.Next() {
		var entry T

		v := reflect.ValueOf(&entry).Elem()
		targets := make([]any, v.NumField())

		for i := range targets {
			targets[i] = v.Field(i).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("datarecording: reading %s: %w", table, err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
