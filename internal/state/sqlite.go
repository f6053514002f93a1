// Package state records build history in SQLite: one row per build, per
// module produced by the build, and per statement and symbol of each module.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/epistemic-frontier/metamath-prelude/internal/mmdb"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Store errors.
var (
	ErrNotOpen  = errors.New("database not opened")
	ErrNotFound = errors.New("not found")
)

// BuildStatus is the lifecycle state of a build.
type BuildStatus string

// Build statuses.
const (
	BuildRunning BuildStatus = "running"
	BuildSuccess BuildStatus = "success"
	BuildFailed  BuildStatus = "failed"
)

// Build is one invocation of the build command.
type Build struct {
	ID         string      `json:"id" yaml:"id"`
	Status     BuildStatus `json:"status" yaml:"status"`
	StartedAt  time.Time   `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Module is one database produced by a build.
type Module struct {
	BuildID    string        `json:"build_id" yaml:"build_id"`
	Name       string        `json:"name" yaml:"name"`
	Path       string        `json:"path,omitempty" yaml:"path,omitempty"`
	Statements int           `json:"statements" yaml:"statements"`
	Exports    []string      `json:"exports,omitempty" yaml:"exports,omitempty"`
	MM         string        `json:"-" yaml:"-"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// StatementRow is a persisted statement.
type StatementRow struct {
	BuildID  string `json:"build_id" yaml:"build_id"`
	Module   string `json:"module" yaml:"module"`
	Seq      int    `json:"seq" yaml:"seq"`
	Kind     string `json:"kind" yaml:"kind"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Typecode string `json:"typecode,omitempty" yaml:"typecode,omitempty"`
	Math     string `json:"math" yaml:"math"`
}

// Store persists build history.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewStore creates a store. A nil logger discards output.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// NewStoreWithDB wraps an existing connection.
func NewStoreWithDB(db *sql.DB, logger *slog.Logger) *Store {
	s := NewStore(logger)
	s.db = db
	return s
}

// Open opens the SQLite database at path. Use ":memory:" for an in-memory
// database.
func (s *Store) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// An in-memory database lives as long as its single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", "path", path)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the path passed to Open.
func (s *Store) Path() string { return s.path }

func generateID() string {
	return uuid.New().String()
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// CreateBuild starts a new build in the running state.
func (s *Store) CreateBuild(ctx context.Context) (*Build, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	b := &Build{ID: generateID(), Status: BuildRunning, StartedAt: time.Now().UTC()}
	s.logger.Debug("creating build", slog.String("id", b.ID))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (id, status, started_at) VALUES (?, ?, ?)`,
		b.ID, string(b.Status), formatTime(b.StartedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create build: %w", err)
	}
	return b, nil
}

// CompleteBuild marks a build finished with the given status.
func (s *Store) CompleteBuild(ctx context.Context, id string, status BuildStatus, errMsg string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	var errVal any
	if errMsg != "" {
		errVal = errMsg
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE builds SET status = ?, finished_at = ?, error = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), errVal, id)
	if err != nil {
		return fmt.Errorf("failed to complete build: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("build %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordModule stores a module and its statements and symbols in one
// transaction.
func (s *Store) RecordModule(ctx context.Context, buildID string, m Module, db *mmdb.DB) (err error) {
	if s.db == nil {
		return ErrNotOpen
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmts := db.Statements()
	exports := db.Exports()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO modules (build_id, name, path, statements, exports, mm, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		buildID, m.Name, m.Path, len(stmts), strings.Join(exports, " "), db.String(), m.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert module %s: %w", m.Name, err)
	}

	exported := make(map[string]bool, len(exports))
	for _, e := range exports {
		exported[e] = true
	}
	for i, st := range stmts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO statements (build_id, module, seq, kind, label, typecode, math) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			buildID, m.Name, i, string(st.Kind), st.Label, st.Typecode, st.Math())
		if err != nil {
			return fmt.Errorf("failed to insert statement %d of %s: %w", i, m.Name, err)
		}
		if st.Kind != mmdb.StmtConst && st.Kind != mmdb.StmtVar {
			continue
		}
		for _, sym := range st.Symbols {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO symbols (build_id, module, name, kind, exported) VALUES (?, ?, ?, ?, ?)`,
				buildID, m.Name, sym, string(st.Kind), exported[sym])
			if err != nil {
				return fmt.Errorf("failed to insert symbol %q of %s: %w", sym, m.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit module %s: %w", m.Name, err)
	}
	s.logger.Debug("module recorded", "build", buildID, "module", m.Name, "statements", len(stmts))
	return nil
}

func scanBuild(row interface{ Scan(...any) error }) (*Build, error) {
	var (
		b        Build
		status   string
		started  string
		finished sql.NullString
		errMsg   sql.NullString
	)
	if err := row.Scan(&b.ID, &status, &started, &finished, &errMsg); err != nil {
		return nil, err
	}
	b.Status = BuildStatus(status)
	t, err := parseTime(started)
	if err != nil {
		return nil, fmt.Errorf("build %s: bad started_at: %w", b.ID, err)
	}
	b.StartedAt = t
	if finished.Valid {
		ft, err := parseTime(finished.String)
		if err != nil {
			return nil, fmt.Errorf("build %s: bad finished_at: %w", b.ID, err)
		}
		b.FinishedAt = &ft
	}
	b.Error = errMsg.String
	return &b, nil
}

const buildColumns = `id, status, started_at, finished_at, error`

// GetBuild retrieves a build by ID.
func (s *Store) GetBuild(ctx context.Context, id string) (*Build, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("build %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get build: %w", err)
	}
	return b, nil
}

// ListBuilds returns the most recent builds, newest first. A limit of zero
// or less returns every build.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]*Build, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+buildColumns+` FROM builds ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()

	var builds []*Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// ListModules returns the modules of a build in name order.
func (s *Store) ListModules(ctx context.Context, buildID string) ([]Module, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT build_id, name, path, statements, exports, mm, duration_ms FROM modules WHERE build_id = ? ORDER BY name`,
		buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}
	defer rows.Close()

	var mods []Module
	for rows.Next() {
		var (
			m       Module
			exports string
			ms      int64
		)
		if err := rows.Scan(&m.BuildID, &m.Name, &m.Path, &m.Statements, &exports, &m.MM, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		m.Exports = strings.Fields(exports)
		m.Duration = time.Duration(ms) * time.Millisecond
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// ListStatements returns the statements of one module in declaration order.
func (s *Store) ListStatements(ctx context.Context, buildID, module string) ([]StatementRow, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.queryStatements(ctx,
		`SELECT build_id, module, seq, kind, label, typecode, math FROM statements WHERE build_id = ? AND module = ? ORDER BY seq`,
		buildID, module)
}

// FindLabel returns every recorded statement with the given label, newest
// build first.
func (s *Store) FindLabel(ctx context.Context, label string) ([]StatementRow, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.queryStatements(ctx,
		`SELECT st.build_id, st.module, st.seq, st.kind, st.label, st.typecode, st.math
		 FROM statements st JOIN builds b ON b.id = st.build_id
		 WHERE st.label = ? ORDER BY b.started_at DESC, st.module`,
		label)
}

func (s *Store) queryStatements(ctx context.Context, query string, args ...any) ([]StatementRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements: %w", err)
	}
	defer rows.Close()

	var out []StatementRow
	for rows.Next() {
		var r StatementRow
		if err := rows.Scan(&r.BuildID, &r.Module, &r.Seq, &r.Kind, &r.Label, &r.Typecode, &r.Math); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ExportedSymbols returns the exported math symbols of a module, by kind
// ("c" or "v").
func (s *Store) ExportedSymbols(ctx context.Context, buildID, module string) (map[string][]string, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind FROM symbols WHERE build_id = ? AND module = ? AND exported = 1 ORDER BY name`,
		buildID, module)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		out[kind] = append(out[kind], name)
	}
	return out, rows.Err()
}
