/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements all persistence interfaces (ledger.TxStore, bank.ClientStore,
  bank.AccountStore, report.Store) using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  clients:   Bank clients (person data plus login credentials)
  accounts:  Accounts owned by clients, with their opening balance
  movements: Deposits and withdrawals with their running balance

ORDERING:
  Movement queries always order by (date ASC, created_at ASC, id ASC).
  The ledger engine derives every running balance from that order, so
  the ORDER BY clause is part of the storage contract, not a cosmetic
  detail.

TRANSACTIONS:
  WithTx hands the callback a view whose reads AND writes go through the
  same *sql.Tx. Cascade rebalancing rewrites a row and then re-reads the
  chain, so reads that bypassed the transaction would see stale balances.

DECIMALS AND DATES:
  Monetary values are stored as TEXT via decimal.Decimal.String() to
  avoid float rounding. Dates are stored as UTC TEXT in a fixed-width
  layout with nine fractional digits, so lexicographic comparison is
  chronological comparison. A variable-width layout would break both
  the ORDER BY clause and the range bounds: "09:00:00.5Z" compares
  before "09:00:00Z" as text.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/bank.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := ledger.NewEngine(store)

SEE ALSO:
  - ledger/store.go: Store and TxStore interface definitions
  - bank/store.go: ClientStore and AccountStore interfaces
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/report"
)

// Interface compliance checks.
var (
	_ ledger.TxStore    = (*Store)(nil)
	_ bank.ClientStore  = (*Store)(nil)
	_ bank.AccountStore = (*Store)(nil)
	_ report.Store      = (*Store)(nil)
)

// querier is satisfied by both *sql.DB and *sql.Tx so the same query
// code serves direct and transactional access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// timeLayout is the TEXT encoding for every stored timestamp. The width
// is fixed (always nine fractional digits, always UTC) so that the
// lexicographic order SQLite applies to TEXT matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Clients
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		gender TEXT,
		age INTEGER,
		identification TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		client_id TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_client_id
		ON clients(client_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_identification
		ON clients(identification);

	-- Accounts
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL,
		type TEXT NOT NULL,
		initial_balance TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		client_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_number
		ON accounts(number);
	CREATE INDEX IF NOT EXISTS idx_accounts_client
		ON accounts(client_id);

	-- Movements
	CREATE TABLE IF NOT EXISTS movements (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		value TEXT NOT NULL,
		balance TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Composite index for ordered per-account replay (hot path)
	CREATE INDEX IF NOT EXISTS idx_movements_account_date
		ON movements(account_id, date, created_at, id);
	CREATE INDEX IF NOT EXISTS idx_movements_date
		ON movements(date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLIENT STORE (bank.ClientStore interface)
// =============================================================================

const clientColumns = `id, name, gender, age, identification, address, phone,
	client_id, password_hash, active, created_at`

// SaveClient inserts or updates a client.
func (s *Store) SaveClient(ctx context.Context, c *bank.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO clients
		(id, name, gender, age, identification, address, phone, client_id, password_hash, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			gender = excluded.gender,
			age = excluded.age,
			identification = excluded.identification,
			address = excluded.address,
			phone = excluded.phone,
			client_id = excluded.client_id,
			password_hash = excluded.password_hash,
			active = excluded.active
	`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Person.Name, c.Person.Gender, c.Person.Age,
		c.Person.Identification, c.Person.Address, c.Person.Phone,
		c.ClientID, c.PasswordHash, c.Active,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("client %q: %w", c.ClientID, bank.ErrDuplicateClient)
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// FindClient returns the client with the given id, or nil.
func (s *Store) FindClient(ctx context.Context, id string) (*bank.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanClient(s.db.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = ?", id))
}

// FindClientByClientID returns the client with the given login id, or nil.
func (s *Store) FindClientByClientID(ctx context.Context, clientID string) (*bank.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanClient(s.db.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE client_id = ?", clientID))
}

// FindClientByIdentification returns the client with the given national
// identification, or nil.
func (s *Store) FindClientByIdentification(ctx context.Context, identification string) (*bank.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanClient(s.db.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE identification = ?", identification))
}

// ListClients returns all clients ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]bank.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []bank.Client
	for rows.Next() {
		c, err := scanClientRow(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClientInto(scanner rowScanner) (bank.Client, error) {
	var (
		c         bank.Client
		createdAt string
	)
	err := scanner.Scan(
		&c.ID, &c.Person.Name, &c.Person.Gender, &c.Person.Age,
		&c.Person.Identification, &c.Person.Address, &c.Person.Phone,
		&c.ClientID, &c.PasswordHash, &c.Active, &createdAt,
	)
	if err != nil {
		return c, err
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func scanClient(row *sql.Row) (*bank.Client, error) {
	c, err := scanClientInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan client: %w", err)
	}
	return &c, nil
}

func scanClientRow(rows *sql.Rows) (bank.Client, error) {
	c, err := scanClientInto(rows)
	if err != nil {
		return c, fmt.Errorf("failed to scan client: %w", err)
	}
	return c, nil
}

// =============================================================================
// ACCOUNT STORE (bank.AccountStore and part of ledger.Store)
// =============================================================================

const accountColumns = `id, number, type, initial_balance, active, client_id, created_at`

// SaveAccount inserts or updates an account.
func (s *Store) SaveAccount(ctx context.Context, a *ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO accounts (id, number, type, initial_balance, active, client_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			type = excluded.type,
			initial_balance = excluded.initial_balance,
			active = excluded.active,
			client_id = excluded.client_id
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.Number, a.Type, a.InitialBalance.String(),
		a.Active, a.ClientID, formatTime(a.CreatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("account %q: %w", a.Number, bank.ErrDuplicateAccount)
		}
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// FindAccount returns the account with the given id, or nil.
func (s *Store) FindAccount(ctx context.Context, id string) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findAccount(ctx, s.db, id)
}

func findAccount(ctx context.Context, q querier, id string) (*ledger.Account, error) {
	return scanAccount(q.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
}

// FindAccountByNumber returns the account with the given number, or nil.
func (s *Store) FindAccountByNumber(ctx context.Context, number string) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanAccount(s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE number = ?", number))
}

// ListAccounts returns all accounts ordered by number.
func (s *Store) ListAccounts(ctx context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAccounts(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY number ASC")
}

// ListAccountsByClient returns a client's accounts ordered by number.
func (s *Store) ListAccountsByClient(ctx context.Context, clientID string) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAccounts(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE client_id = ? ORDER BY number ASC", clientID)
}

func (s *Store) queryAccounts(ctx context.Context, query string, args ...any) ([]ledger.Account, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		a, err := scanAccountInto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func scanAccountInto(scanner rowScanner) (ledger.Account, error) {
	var (
		a              ledger.Account
		initialBalance string
		createdAt      string
	)
	err := scanner.Scan(&a.ID, &a.Number, &a.Type, &initialBalance,
		&a.Active, &a.ClientID, &createdAt)
	if err != nil {
		return a, err
	}
	a.InitialBalance, err = decimal.NewFromString(initialBalance)
	if err != nil {
		return a, fmt.Errorf("bad initial balance %q: %w", initialBalance, err)
	}
	a.CreatedAt = parseTime(createdAt)
	return a, nil
}

func scanAccount(row *sql.Row) (*ledger.Account, error) {
	a, err := scanAccountInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return &a, nil
}

// =============================================================================
// MOVEMENT STORE (ledger.Store interface)
// =============================================================================

const movementColumns = `id, account_id, date, kind, value, balance, created_at`

// movementOrder is the canonical account order. Running balances are
// derived from it, so every listing query must carry this clause.
const movementOrder = ` ORDER BY date ASC, created_at ASC, id ASC`

// SaveMovement inserts or overwrites a movement.
func (s *Store) SaveMovement(ctx context.Context, m *ledger.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveMovement(ctx, s.db, m)
}

func saveMovement(ctx context.Context, q querier, m *ledger.Movement) error {
	query := `
		INSERT INTO movements (id, account_id, date, kind, value, balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			date = excluded.date,
			kind = excluded.kind,
			value = excluded.value,
			balance = excluded.balance
	`

	_, err := q.ExecContext(ctx, query,
		m.ID, m.AccountID,
		formatTime(m.Date),
		m.Kind, m.Value.String(), m.Balance.String(),
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save movement: %w", err)
	}
	return nil
}

// FindMovement returns the movement with the given id, or nil.
func (s *Store) FindMovement(ctx context.Context, id string) (*ledger.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findMovement(ctx, s.db, id)
}

func findMovement(ctx context.Context, q querier, id string) (*ledger.Movement, error) {
	movements, err := queryMovements(ctx, q,
		"SELECT "+movementColumns+" FROM movements WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, nil
	}
	return &movements[0], nil
}

// ListMovements returns all movements of an account in canonical order.
func (s *Store) ListMovements(ctx context.Context, accountID string) ([]ledger.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listMovements(ctx, s.db, accountID)
}

func listMovements(ctx context.Context, q querier, accountID string) ([]ledger.Movement, error) {
	return queryMovements(ctx, q,
		"SELECT "+movementColumns+" FROM movements WHERE account_id = ?"+movementOrder,
		accountID)
}

// ListMovementsInRange returns the account's movements with
// from <= date <= to, in canonical order.
func (s *Store) ListMovementsInRange(ctx context.Context, accountID string, from, to time.Time) ([]ledger.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listMovementsInRange(ctx, s.db, accountID, from, to)
}

func listMovementsInRange(ctx context.Context, q querier, accountID string, from, to time.Time) ([]ledger.Movement, error) {
	return queryMovements(ctx, q,
		"SELECT "+movementColumns+" FROM movements WHERE account_id = ? AND date >= ? AND date <= ?"+movementOrder,
		accountID, formatTime(from), formatTime(to))
}

// ListAllMovements returns every movement across accounts, in canonical order.
func (s *Store) ListAllMovements(ctx context.Context) ([]ledger.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryMovements(ctx, s.db,
		"SELECT "+movementColumns+" FROM movements"+movementOrder)
}

// DeleteMovement removes a movement by id.
func (s *Store) DeleteMovement(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return deleteMovement(ctx, s.db, id)
}

func deleteMovement(ctx context.Context, q querier, id string) error {
	_, err := q.ExecContext(ctx, "DELETE FROM movements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete movement: %w", err)
	}
	return nil
}

func queryMovements(ctx context.Context, q querier, query string, args ...any) ([]ledger.Movement, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	var movements []ledger.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func scanMovement(rows *sql.Rows) (ledger.Movement, error) {
	var (
		m         ledger.Movement
		date      string
		value     string
		balance   string
		createdAt string
	)
	err := rows.Scan(&m.ID, &m.AccountID, &date, &m.Kind, &value, &balance, &createdAt)
	if err != nil {
		return m, fmt.Errorf("failed to scan movement: %w", err)
	}
	m.Date = parseTime(date)
	m.CreatedAt = parseTime(createdAt)
	if m.Value, err = decimal.NewFromString(value); err != nil {
		return m, fmt.Errorf("bad movement value %q: %w", value, err)
	}
	if m.Balance, err = decimal.NewFromString(balance); err != nil {
		return m, fmt.Errorf("bad movement balance %q: %w", balance, err)
	}
	return m, nil
}

// =============================================================================
// TRANSACTIONAL STORE (ledger.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction. The view
// passed to fn reads and writes through the same *sql.Tx, so writes made
// inside the callback are visible to its subsequent reads.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	tx *sql.Tx
}

var _ ledger.Store = (*txStore)(nil)

func (ts *txStore) FindAccount(ctx context.Context, id string) (*ledger.Account, error) {
	return findAccount(ctx, ts.tx, id)
}

func (ts *txStore) FindMovement(ctx context.Context, id string) (*ledger.Movement, error) {
	return findMovement(ctx, ts.tx, id)
}

func (ts *txStore) ListMovements(ctx context.Context, accountID string) ([]ledger.Movement, error) {
	return listMovements(ctx, ts.tx, accountID)
}

func (ts *txStore) ListMovementsInRange(ctx context.Context, accountID string, from, to time.Time) ([]ledger.Movement, error) {
	return listMovementsInRange(ctx, ts.tx, accountID, from, to)
}

func (ts *txStore) ListAllMovements(ctx context.Context) ([]ledger.Movement, error) {
	return queryMovements(ctx, ts.tx,
		"SELECT "+movementColumns+" FROM movements"+movementOrder)
}

func (ts *txStore) SaveMovement(ctx context.Context, m *ledger.Movement) error {
	return saveMovement(ctx, ts.tx, m)
}

func (ts *txStore) DeleteMovement(ctx context.Context, id string) error {
	return deleteMovement(ctx, ts.tx, id)
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"movements", "accounts", "clients"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
