package jarvest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

type chromiumCookieRow struct {
	hostKey        string
	name           string
	path           string
	value          string
	encryptedValue []byte
	expiresUTC     int64
	isSecure       bool
	isHTTPOnly     bool
}

// chromiumSnapshot copies the cookies DB (and WAL/SHM sidecars, which may
// carry recent writes) into a temp dir so the browser's own lock on the live
// file never blocks the read.
func chromiumSnapshot(ctx context.Context, dbPath string) (snapshotPath string, cleanup func(), warnings []string, err error) {
	_ = ctx
	dir, err := os.MkdirTemp("", "jarvest-cookies-")
	if err != nil {
		return "", nil, nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, "Cookies")
	if err := copyFile(dbPath, target); err != nil {
		warnings = append(warnings, fmt.Sprintf("jarvest: failed to copy cookies DB: %v", err))
		cleanup()
		return "", nil, warnings, err
	}

	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, warnings, nil
}

func openCookieDB(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(path) + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func chromiumMetaVersion(ctx context.Context, db *sql.DB) int64 {
	if db == nil {
		return 0
	}
	var value string
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&value); err != nil {
		return 0
	}
	v, err := parseInt64(value)
	if err != nil {
		return 0
	}
	return v
}

func chromiumReadCookieRows(ctx context.Context, db *sql.DB, domains []string) ([]chromiumCookieRow, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}

	where, args := hostColumnWhereClause("host_key", domains)
	query := `SELECT host_key, name, path, value, encrypted_value, expires_utc, is_secure, is_httponly` +
		` FROM cookies WHERE (` + where + `) ORDER BY path DESC, name ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []chromiumCookieRow
	for rows.Next() {
		var r chromiumCookieRow
		var encrypted []byte
		var expires sql.NullInt64
		var secure sql.NullInt64
		var httpOnly sql.NullInt64

		if err := rows.Scan(&r.hostKey, &r.name, &r.path, &r.value, &encrypted, &expires, &secure, &httpOnly); err != nil {
			return nil, err
		}

		r.encryptedValue = encrypted
		if expires.Valid {
			r.expiresUTC = expires.Int64
		}
		r.isSecure = secure.Valid && secure.Int64 == 1
		r.isHTTPOnly = httpOnly.Valid && httpOnly.Int64 == 1

		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// hostColumnWhereClause matches a host column against each domain exactly,
// with a leading dot, and as any subdomain.
func hostColumnWhereClause(column string, domains []string) (string, []any) {
	var clauses []string
	var args []any
	for _, d := range domains {
		d = normalizeHost(d)
		if d == "" {
			continue
		}
		clauses = append(clauses, column+" = ?", column+" = ?", column+" LIKE ?")
		args = append(args, d, "."+d, "%."+d)
	}
	if len(clauses) == 0 {
		return "1=0", nil
	}
	return strings.Join(clauses, " OR "), args
}
