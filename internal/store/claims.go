// The claim log records when each title was opened and from where. It is
// auxiliary history behind the `log` command; the plain-text ledger stays
// the authority on what counts as claimed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Claim struct {
	ID        int64
	Title     string
	URL       string
	Source    string
	ClaimedAt time.Time
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS claims (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  source TEXT NOT NULL,
  claimed_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_claims_claimed_at
ON claims(claimed_at DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordClaims inserts a batch in one transaction.
func RecordClaims(ctx context.Context, db *sql.DB, claims []Claim) error {
	if len(claims) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO claims(title, url, source, claimed_at)
VALUES(?,?,?,?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range claims {
		at := c.ClaimedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, c.Title, c.URL, c.Source, at.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListClaims returns the log under one of the library views. The view name
// maps to a whitelisted ORDER BY (prevents SQL injection).
func ListClaims(ctx context.Context, db *sql.DB, view string, limit int) ([]Claim, error) {
	order := map[string]string{
		"alpha":  "LOWER(title) ASC",
		"newest": "claimed_at DESC, id DESC",
		"oldest": "claimed_at ASC, id ASC",
	}[view]
	if order == "" {
		order = "LOWER(title) ASC"
	}
	if limit <= 0 {
		limit = 500
	}

	query := fmt.Sprintf(`
SELECT id, title, url, source, claimed_at
FROM claims
ORDER BY %s
LIMIT ?;`, order)

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Claim
	for rows.Next() {
		var c Claim
		var at string
		if err := rows.Scan(&c.ID, &c.Title, &c.URL, &c.Source, &at); err != nil {
			return nil, err
		}
		c.ClaimedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, c)
	}
	return out, rows.Err()
}

// ClearClaims wipes the log. The ledger is untouched.
func ClearClaims(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `DELETE FROM claims;`)
	return err
}
