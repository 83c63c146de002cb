// Package store keeps the site's privacy-conscious metrics in SQLite:
// page visits with hashed IP addresses and the outcome of contact form
// submissions. Message contents are never stored.
package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp)`,
	`
CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	hashed_visitor TEXT NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	timestamp DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS submissions_timestamp ON submissions (timestamp)`,
}

// Open opens (creating if needed) the database at path. salt is mixed into
// every hashed IP so hashes cannot be reversed with a lookup table; an
// empty salt is replaced by a random one for the life of the process.
func Open(ctx context.Context, path, salt string) (*Store, error) {
	if salt == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		salt = hex.EncodeToString(b)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps :memory:
	// databases alive across queries.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate %s: %w", path, err)
		}
	}

	return &Store{db: db, salt: salt, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP hashes ip with the store salt. The result is consistent per IP
// for the lifetime of the salt.
func (s *Store) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}
