// Package sqlite implements onboarding.Repository on SQLite through the pure
// Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/goliatone/go-onboard/pkg/onboarding"
)

const dateLayout = "2006-01-02"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migrations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the SQLite repository.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ onboarding.Repository = (*Store)(nil)

// Open opens the database at path, creating its directory when needed. The
// schema is not touched; call Migrate.
func Open(path string, options ...Option) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("open store: missing path")
	}
	memory := path == MemoryPath
	if !memory && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// Pragmas are per connection and an in-memory database is private to its
	// connection, so the pool holds a single one.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const userColumns = `id, identity_id, company_id`

func scanUser(row interface{ Scan(...any) error }) (onboarding.User, error) {
	var user onboarding.User
	var companyID sql.NullInt64
	if err := row.Scan(&user.ID, &user.IdentityID, &companyID); err != nil {
		return onboarding.User{}, err
	}
	if companyID.Valid {
		id := companyID.Int64
		user.CompanyID = &id
	}
	return user, nil
}

// ListUsers implements onboarding.Repository.
func (s *Store) ListUsers(ctx context.Context) ([]onboarding.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]onboarding.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return out, nil
}

// UserByIdentity implements onboarding.Repository.
func (s *Store) UserByIdentity(ctx context.Context, identityID string) (onboarding.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE identity_id = ?`, identityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return onboarding.User{}, fmt.Errorf("user %q: %w", identityID, onboarding.ErrNotFound)
		}
		return onboarding.User{}, fmt.Errorf("query user %q: %w", identityID, err)
	}
	return user, nil
}

// CreateUser implements onboarding.Repository. Creating an identity that
// already exists returns the stored user.
func (s *Store) CreateUser(ctx context.Context, identityID string) (onboarding.User, error) {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (identity_id) VALUES (?) ON CONFLICT(identity_id) DO NOTHING`, identityID); err != nil {
		return onboarding.User{}, fmt.Errorf("insert user %q: %w", identityID, err)
	}
	return s.UserByIdentity(ctx, identityID)
}

const companyColumns = `id, name, building_number, street, city, state, zip, rep_first_name, rep_last_name, rep_phone, rep_email`

func scanCompany(row interface{ Scan(...any) error }) (onboarding.Company, error) {
	var c onboarding.Company
	err := row.Scan(&c.ID, &c.Name, &c.BuildingNumber, &c.Street, &c.City, &c.State, &c.Zip,
		&c.RepFirstName, &c.RepLastName, &c.RepPhone, &c.RepEmail)
	return c, err
}

// ListCompanies implements onboarding.Repository.
func (s *Store) ListCompanies(ctx context.Context) ([]onboarding.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	out := make([]onboarding.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		out = append(out, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company rows: %w", err)
	}
	return out, nil
}

// Company implements onboarding.Repository.
func (s *Store) Company(ctx context.Context, id int64) (onboarding.Company, error) {
	company, err := scanCompany(s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return onboarding.Company{}, fmt.Errorf("company %d: %w", id, onboarding.ErrNotFound)
		}
		return onboarding.Company{}, fmt.Errorf("query company %d: %w", id, err)
	}
	return company, nil
}

// CreateCompanyForUser implements onboarding.Repository.
func (s *Store) CreateCompanyForUser(ctx context.Context, userID int64, c onboarding.Company) (onboarding.Company, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return onboarding.Company{}, fmt.Errorf("begin company transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if c, err = insertCompanyForUser(ctx, tx, userID, c); err != nil {
		return onboarding.Company{}, err
	}
	if err := tx.Commit(); err != nil {
		return onboarding.Company{}, fmt.Errorf("commit company: %w", err)
	}
	return c, nil
}

// CreateSetup implements onboarding.Repository.
func (s *Store) CreateSetup(ctx context.Context, userID int64, c onboarding.Company, l onboarding.Location) (onboarding.Company, onboarding.Location, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return onboarding.Company{}, onboarding.Location{}, fmt.Errorf("begin setup transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if c, err = insertCompanyForUser(ctx, tx, userID, c); err != nil {
		return onboarding.Company{}, onboarding.Location{}, err
	}
	l.CompanyID = c.ID
	if l, err = insertLocation(ctx, tx, l); err != nil {
		return onboarding.Company{}, onboarding.Location{}, err
	}
	if err := tx.Commit(); err != nil {
		return onboarding.Company{}, onboarding.Location{}, fmt.Errorf("commit setup: %w", err)
	}
	return c, l, nil
}

func insertCompanyForUser(ctx context.Context, tx *sql.Tx, userID int64, c onboarding.Company) (onboarding.Company, error) {
	var companyID sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT company_id FROM users WHERE id = ?`, userID).Scan(&companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return onboarding.Company{}, fmt.Errorf("user %d: %w", userID, onboarding.ErrNotFound)
		}
		return onboarding.Company{}, fmt.Errorf("query user %d: %w", userID, err)
	}
	if companyID.Valid {
		return onboarding.Company{}, onboarding.ErrCompanyExists
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO companies (name, building_number, street, city, state, zip, rep_first_name, rep_last_name, rep_phone, rep_email)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.BuildingNumber, c.Street, c.City, c.State, c.Zip, c.RepFirstName, c.RepLastName, c.RepPhone, c.RepEmail)
	if err != nil {
		return onboarding.Company{}, fmt.Errorf("insert company: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return onboarding.Company{}, fmt.Errorf("company id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET company_id = ? WHERE id = ?`, c.ID, userID); err != nil {
		return onboarding.Company{}, fmt.Errorf("assign company: %w", err)
	}
	return c, nil
}

const locationColumns = `id, company_id, nickname, location_index, building_number, street, city, state, zip, segment_id, category_id, start_date`

func scanLocation(row interface{ Scan(...any) error }) (onboarding.Location, error) {
	var l onboarding.Location
	var startDate string
	if err := row.Scan(&l.ID, &l.CompanyID, &l.Nickname, &l.Index, &l.BuildingNumber, &l.Street,
		&l.City, &l.State, &l.Zip, &l.SegmentID, &l.CategoryID, &startDate); err != nil {
		return onboarding.Location{}, err
	}
	parsed, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return onboarding.Location{}, fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	l.StartDate = parsed
	return l, nil
}

func (s *Store) queryLocations(ctx context.Context, query string, args ...any) ([]onboarding.Location, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	out := make([]onboarding.Location, 0)
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		out = append(out, location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location rows: %w", err)
	}
	return out, nil
}

// ListLocations implements onboarding.Repository.
func (s *Store) ListLocations(ctx context.Context) ([]onboarding.Location, error) {
	return s.queryLocations(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
}

// LocationsByCompany implements onboarding.Repository.
func (s *Store) LocationsByCompany(ctx context.Context, companyID int64) ([]onboarding.Location, error) {
	return s.queryLocations(ctx, `SELECT `+locationColumns+` FROM locations WHERE company_id = ? ORDER BY location_index, id`, companyID)
}

// CreateLocation implements onboarding.Repository.
func (s *Store) CreateLocation(ctx context.Context, l onboarding.Location) (onboarding.Location, error) {
	return insertLocation(ctx, s.db, l)
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// insertLocation computes the next company index inside the insert statement
// itself; the unique (company_id, location_index) index rejects any duplicate.
func insertLocation(ctx context.Context, q rowQueryer, l onboarding.Location) (onboarding.Location, error) {
	err := q.QueryRowContext(ctx, `
INSERT INTO locations (company_id, nickname, location_index, building_number, street, city, state, zip, segment_id, category_id, start_date)
SELECT ?, ?, COALESCE(MAX(location_index), 0) + 1, ?, ?, ?, ?, ?, ?, ?, ?
FROM locations WHERE company_id = ?
RETURNING id, location_index`,
		l.CompanyID, l.Nickname, l.BuildingNumber, l.Street, l.City, l.State, l.Zip,
		l.SegmentID, l.CategoryID, l.StartDate.UTC().Format(dateLayout), l.CompanyID).Scan(&l.ID, &l.Index)
	if err != nil {
		return onboarding.Location{}, fmt.Errorf("insert location: %w", err)
	}
	l.StartDate = time.Date(l.StartDate.Year(), l.StartDate.Month(), l.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	return l, nil
}

// Segments implements onboarding.Repository.
func (s *Store) Segments(ctx context.Context) ([]onboarding.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT s.id, s.name, c.id, c.name
FROM segments s LEFT JOIN categories c ON c.segment_id = s.id
ORDER BY s.id, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	out := make([]onboarding.Segment, 0)
	for rows.Next() {
		var segmentID int64
		var segmentName string
		var categoryID sql.NullInt64
		var categoryName sql.NullString
		if err := rows.Scan(&segmentID, &segmentName, &categoryID, &categoryName); err != nil {
			return nil, fmt.Errorf("scan segment row: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].ID != segmentID {
			out = append(out, onboarding.Segment{ID: segmentID, Name: segmentName, Categories: []onboarding.Category{}})
		}
		if categoryID.Valid {
			last := &out[len(out)-1]
			last.Categories = append(last.Categories, onboarding.Category{ID: categoryID.Int64, SegmentID: segmentID, Name: categoryName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segment rows: %w", err)
	}
	return out, nil
}
