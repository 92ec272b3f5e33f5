package dao

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fvbommel/sortorder"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// EmbedMigrations contains the records table migrations.
//
//go:embed migrations/*.sql
var EmbedMigrations embed.FS

// SQLiteDriver is the registered driver name. It adds the NATURAL collation
// and the search_text function used by the global filter.
const SQLiteDriver = "sqlite3_tgrid"

const (
	defaultBusyTimeout = "5000"
	defaultJournalMode = "WAL"
	sqlTimeLayout      = "2006-01-02 15:04:05.000"
)

func init() {
	sql.Register(SQLiteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterCollation("NATURAL", naturalCompare); err != nil {
				return err
			}
			return conn.RegisterFunc("search_text", searchText, true)
		},
	})
}

func naturalCompare(a, b string) int {
	switch {
	case a == b:
		return 0
	case sortorder.NaturalLess(a, b):
		return -1
	default:
		return 1
	}
}

// searchText renders a column value the way the in-memory global filter sees
// it, so REAL 129.0 reads "129".
func searchText(v any) string {
	return strings.ToLower(formatValue(v))
}

// sqlColumns maps record field keys to table columns.
var sqlColumns = map[string]string{
	FieldID:          "id",
	FieldName:        "name",
	FieldCategory:    "category",
	FieldSubcategory: "subcategory",
	FieldCreatedAt:   "created_at",
	FieldUpdatedAt:   "updated_at",
	FieldPrice:       "price",
	FieldSalePrice:   "sale_price",
}

// OpenSQLite opens the records database at path.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_journal_mode", defaultJournalMode)
	params.Set("_busy_timeout", defaultBusyTimeout)

	db, err := sql.Open(SQLiteDriver, path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// goose keeps its base FS and dialect in package globals.
var migrateMx sync.Mutex

// RunMigrations executes all pending goose migrations.
func RunMigrations(db *sql.DB) error {
	migrateMx.Lock()
	defer migrateMx.Unlock()

	goose.SetBaseFS(EmbedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

type columnKind int

const (
	kindText columnKind = iota
	kindNumber
	kindDate
)

// SQLiteSource evaluates snapshots as SQL against the records table.
type SQLiteSource struct {
	db    *sql.DB
	kinds map[string]columnKind
	log   *slog.Logger
}

// NewSQLiteSource returns a source over db. Column treatment follows value so
// SQL and in-memory evaluation agree.
func NewSQLiteSource(db *sql.DB, value ValueFunc, log *slog.Logger) *SQLiteSource {
	if value == nil {
		value = RawValue
	}
	if log == nil {
		log = slog.Default()
	}
	return &SQLiteSource{db: db, kinds: columnKinds(value), log: log}
}

func columnKinds(value ValueFunc) map[string]columnKind {
	probe := Record{CreatedAt: "2000-01-01T00:00:00Z", UpdatedAt: "2000-01-01T00:00:00Z"}
	kk := make(map[string]columnKind, len(Fields))
	for _, f := range Fields {
		v, _ := value(probe, f)
		switch v.(type) {
		case float64, int:
			kk[f] = kindNumber
		case time.Time:
			kk[f] = kindDate
		default:
			kk[f] = kindText
		}
	}
	return kk
}

// Count returns the number of stored records.
func (s *SQLiteSource) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Import upserts records in a single transaction.
func (s *SQLiteSource) Import(ctx context.Context, rr []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO records
		(id, name, category, subcategory, created_at, updated_at, price, sale_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, r := range rr {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Category, r.Subcategory,
			r.CreatedAt, r.UpdatedAt, r.Price, r.SalePrice); err != nil {
			return fmt.Errorf("import record %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	s.log.Info("records imported", "count", len(rr))

	return nil
}

// Seed imports rr when the table is empty.
func (s *SQLiteSource) Seed(ctx context.Context, rr []Record) error {
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug("records table already seeded", "count", n)
		return nil
	}
	return s.Import(ctx, rr)
}

// FetchPage runs the snapshot as a count plus a paged select.
func (s *SQLiteSource) FetchPage(ctx context.Context, snap QuerySnapshot) (*ResultPage, error) {
	where, args, err := s.whereClause(snap)
	if err != nil {
		return nil, err
	}
	order, err := s.orderClause(snap.Sorting)
	if err != nil {
		return nil, err
	}

	page := &ResultPage{Rows: []Record{}}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`+where, args...).
		Scan(&page.TotalRowCount); err != nil {
		return nil, &DataFetchError{Op: "count records", Err: err}
	}

	p := snap.Pagination
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	p.PageIndex = max(p.PageIndex, 0)
	if p.Offset() >= page.TotalRowCount {
		return page, nil
	}

	q := `SELECT id, name, category, subcategory, created_at, updated_at, price, sale_price
		FROM records` + where + order + ` LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, q, append(args, p.PageSize, p.Offset())...)
	if err != nil {
		return nil, &DataFetchError{Op: "select records", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Subcategory,
			&r.CreatedAt, &r.UpdatedAt, &r.Price, &r.SalePrice); err != nil {
			return nil, &DataFetchError{Op: "scan record", Err: err}
		}
		page.Rows = append(page.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &DataFetchError{Op: "select records", Err: err}
	}

	return page, nil
}

// Facets returns the distinct values of column in natural order.
func (s *SQLiteSource) Facets(ctx context.Context, column string) ([]string, error) {
	col, ok := sqlColumns[column]
	if !ok {
		return nil, fmt.Errorf("facets %q: %w", column, ErrUnknownColumn)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT `+col+` FROM records`)
	if err != nil {
		return nil, &DataFetchError{Op: "select facets", Err: err}
	}
	defer rows.Close()

	out := make([]string, 0, 16)
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, &DataFetchError{Op: "scan facet", Err: err}
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		if text := formatValue(v); text != "" {
			out = append(out, text)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &DataFetchError{Op: "select facets", Err: err}
	}
	sort.Slice(out, func(i, j int) bool {
		return sortorder.NaturalLess(out[i], out[j])
	})

	return out, nil
}

func (s *SQLiteSource) whereClause(snap QuerySnapshot) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	for _, f := range snap.ColumnFilters {
		col, ok := sqlColumns[f.ID]
		if !ok {
			return "", nil, fmt.Errorf("filter %q: %w", f.ID, ErrUnknownColumn)
		}
		if isEmptyFilter(f.Value) {
			continue
		}
		cond, aa, err := s.filterCond(col, s.kinds[f.ID], f.Value)
		if err != nil {
			return "", nil, fmt.Errorf("filter %q: %w", f.ID, err)
		}
		conds, args = append(conds, cond), append(args, aa...)
	}

	if g := strings.TrimSpace(snap.GlobalFilter); g != "" {
		pattern := likePattern(g)
		ors := make([]string, 0, len(Fields))
		for _, f := range Fields {
			ors = append(ors, `search_text(`+sqlColumns[f]+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (s *SQLiteSource) filterCond(col string, kind columnKind, filter any) (string, []any, error) {
	switch kind {
	case kindNumber:
		if lo, hi, ok := toNumberRange(filter); ok {
			var (
				cc []string
				aa []any
			)
			if lo != nil {
				cc, aa = append(cc, col+" >= ?"), append(aa, *lo)
			}
			if hi != nil {
				cc, aa = append(cc, col+" <= ?"), append(aa, *hi)
			}
			if len(cc) == 0 {
				return "1 = 1", nil, nil
			}
			return strings.Join(cc, " AND "), aa, nil
		}
		if n, ok := toNumber(filter); ok {
			return col + " = ?", []any{n}, nil
		}
		return "", nil, fmt.Errorf("unsupported numeric filter %T", filter)

	case kindDate:
		lo, hi, ok := toTimeRange(filter)
		if !ok {
			return "", nil, fmt.Errorf("unsupported date filter %T", filter)
		}
		cc := []string{"julianday(" + col + ") IS NOT NULL"}
		var aa []any
		if lo != nil {
			cc, aa = append(cc, "julianday("+col+") >= julianday(?)"), append(aa, lo.UTC().Format(sqlTimeLayout))
		}
		if hi != nil {
			cc, aa = append(cc, "julianday("+col+") <= julianday(?)"), append(aa, hi.UTC().Format(sqlTimeLayout))
		}
		return strings.Join(cc, " AND "), aa, nil

	default:
		if text, ok := filter.(string); ok {
			return "LOWER(" + col + `) LIKE ? ESCAPE '\'`, []any{likePattern(text)}, nil
		}
		set, ok := toStrings(filter)
		if !ok {
			return "", nil, fmt.Errorf("unsupported text filter %T", filter)
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(set)), ", ")
		aa := make([]any, 0, len(set))
		for _, v := range set {
			aa = append(aa, v)
		}
		return col + " IN (" + marks + ")", aa, nil
	}
}

func (s *SQLiteSource) orderClause(sorting []SortDirective) (string, error) {
	terms := make([]string, 0, len(sorting)+1)
	for _, d := range sorting {
		col, ok := sqlColumns[d.ID]
		if !ok {
			return "", fmt.Errorf("sort %q: %w", d.ID, ErrUnknownColumn)
		}
		expr := col
		switch s.kinds[d.ID] {
		case kindDate:
			expr = "julianday(" + col + ")"
		case kindText:
			expr = col + " COLLATE NATURAL"
		}
		dir := " ASC"
		if d.Desc {
			dir = " DESC"
		}
		terms = append(terms, expr+dir)
	}
	terms = append(terms, "id ASC")

	return " ORDER BY " + strings.Join(terms, ", "), nil
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
