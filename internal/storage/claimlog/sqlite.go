package claimlog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type DailyStatus struct {
	Account         string
	Date            string
	Checks          int
	ClaimsAttempted int
	ClaimsConfirmed int
	Anomalies       int
	FirstBalance    string
	LastBalance     string
	LastClaim       time.Time
}

type Store struct {
	mu sync.Mutex
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	createStmt := `CREATE TABLE IF NOT EXISTS claim_logs (
        account TEXT NOT NULL,
        log_date TEXT NOT NULL,
        checks INTEGER NOT NULL DEFAULT 0,
        claims_attempted INTEGER NOT NULL DEFAULT 0,
        claims_confirmed INTEGER NOT NULL DEFAULT 0,
        first_balance TEXT,
        last_balance TEXT,
        anomalies INTEGER NOT NULL DEFAULT 0,
        last_claim TEXT,
        PRIMARY KEY(account, log_date)
    )`
	if _, err := s.db.Exec(createStmt); err != nil {
		return err
	}
	return s.ensureColumns()
}

// ensureColumns upgrades databases written by older builds.
func (s *Store) ensureColumns() error {
	columns := map[string]bool{}
	rows, err := s.db.Query(`PRAGMA table_info(claim_logs)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		columns[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	alterStatements := []string{}
	addColumn := func(name, definition string) {
		if !columns[name] {
			alterStatements = append(alterStatements, definition)
		}
	}

	addColumn("anomalies", `ALTER TABLE claim_logs ADD COLUMN anomalies INTEGER NOT NULL DEFAULT 0`)
	addColumn("last_claim", `ALTER TABLE claim_logs ADD COLUMN last_claim TEXT`)

	for _, stmt := range alterStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordBalance counts one balance check and keeps the first and latest reading of the day.
func (s *Store) RecordBalance(account string, day time.Time, balance string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO claim_logs(account, log_date, checks, first_balance, last_balance)
    VALUES(?, ?, 1, ?, ?)
    ON CONFLICT(account, log_date) DO UPDATE SET
        checks = checks + 1,
        first_balance = COALESCE(first_balance, excluded.first_balance),
        last_balance = excluded.last_balance`, normalizeAccount(account), dateOf(day), balance, balance)
	return err
}

func (s *Store) RecordClaim(account string, at time.Time, confirmed bool, balanceAfter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirmedInc := 0
	if confirmed {
		confirmedInc = 1
	}
	var last sql.NullString
	if balanceAfter != "" {
		last = sql.NullString{String: balanceAfter, Valid: true}
	}

	_, err := s.db.Exec(`INSERT INTO claim_logs(account, log_date, claims_attempted, claims_confirmed, last_balance, last_claim)
    VALUES(?, ?, 1, ?, ?, ?)
    ON CONFLICT(account, log_date) DO UPDATE SET
        claims_attempted = claims_attempted + 1,
        claims_confirmed = claims_confirmed + excluded.claims_confirmed,
        last_balance = COALESCE(excluded.last_balance, last_balance),
        last_claim = excluded.last_claim`,
		normalizeAccount(account), dateOf(at), confirmedInc, last, at.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) RecordAnomaly(account string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO claim_logs(account, log_date, anomalies)
    VALUES(?, ?, 1)
    ON CONFLICT(account, log_date) DO UPDATE SET anomalies = anomalies + 1`, normalizeAccount(account), dateOf(day))
	return err
}

// DailyStatus returns the zero row (with Account and Date set) when nothing was logged that day.
func (s *Store) DailyStatus(account string, day time.Time) (DailyStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := DailyStatus{Account: normalizeAccount(account), Date: dateOf(day)}

	var first, last, lastClaim sql.NullString
	err := s.db.QueryRow(`SELECT checks, claims_attempted, claims_confirmed, anomalies, first_balance, last_balance, last_claim
    FROM claim_logs WHERE account = ? AND log_date = ?`, status.Account, status.Date).
		Scan(&status.Checks, &status.ClaimsAttempted, &status.ClaimsConfirmed, &status.Anomalies, &first, &last, &lastClaim)
	if errors.Is(err, sql.ErrNoRows) {
		return status, nil
	}
	if err != nil {
		return DailyStatus{}, err
	}

	status.FirstBalance = first.String
	status.LastBalance = last.String
	if lastClaim.Valid {
		if t, err := time.Parse(time.RFC3339, lastClaim.String); err == nil {
			status.LastClaim = t
		}
	}
	return status, nil
}

func dateOf(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func normalizeAccount(account string) string {
	return strings.ToLower(strings.TrimSpace(account))
}
