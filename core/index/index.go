// Package index stores names under their phonetic codes in SQLite so that
// sound-alike records can be found and grouped for deduplication.
package index

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperPhonetic/core/errors"
	"github.com/FocuswithJustin/JuniperPhonetic/core/phonetic"
	"github.com/FocuswithJustin/JuniperPhonetic/core/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS names (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	code        TEXT NOT NULL,
	fingerprint TEXT NOT NULL UNIQUE,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS names_code ON names(code);
`

// Record is one indexed name.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// Group is a set of records sharing a code.
type Group struct {
	Code    string   `json:"code"`
	Records []Record `json:"records"`
}

// Index is a phonetic name index backed by a SQLite database.
// It is safe for concurrent use.
type Index struct {
	db  *sql.DB
	enc phonetic.StringEncoder

	now   func() time.Time
	newID func() string
}

// Open opens (creating if needed) the index at path. Use ":memory:" for a
// throwaway index. A nil encoder selects Caverphone 2.0.
func Open(ctx context.Context, path string, enc phonetic.StringEncoder) (*Index, error) {
	if enc == nil {
		enc = phonetic.NewCaverphone2()
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{
		db:    db,
		enc:   enc,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}, nil
}

// OpenReadOnly opens an existing index without creating or modifying it.
// A missing file or one without the names table is an error.
func OpenReadOnly(ctx context.Context, path string, enc phonetic.StringEncoder) (*Index, error) {
	if enc == nil {
		enc = phonetic.NewCaverphone2()
	}
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'names'`).Scan(&n)
	if err == nil && n == 0 {
		err = &errors.NotFoundError{Resource: "names table", ID: path}
	}
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "open index read-only")
	}
	return &Index{
		db:    db,
		enc:   enc,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}, nil
}

// Close releases the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Fingerprint identifies a name independent of case and punctuation: the
// BLAKE3-256 hex digest of its normalized letters.
func Fingerprint(name string) string {
	sum := blake3.Sum256([]byte(phonetic.Normalize(name)))
	return hex.EncodeToString(sum[:])
}

// Add indexes name. When a name with the same fingerprint already exists,
// the stored record is returned with added == false.
func (ix *Index) Add(ctx context.Context, name string) (rec Record, added bool, err error) {
	if phonetic.Normalize(name) == "" {
		return Record{}, false, &errors.ValidationError{Field: "name", Value: name, Message: "contains no letters"}
	}
	rec = Record{
		ID:          ix.newID(),
		Name:        name,
		Code:        ix.enc.Encode(name),
		Fingerprint: Fingerprint(name),
		CreatedAt:   ix.now().UTC(),
	}
	return ix.insert(ctx, rec)
}

func (ix *Index) insert(ctx context.Context, rec Record) (Record, bool, error) {
	res, err := ix.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO names (id, name, code, fingerprint, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Code, rec.Fingerprint, rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Record{}, false, fmt.Errorf("insert %q: %w", rec.Name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("insert %q: %w", rec.Name, err)
	}
	if n == 1 {
		return rec, true, nil
	}
	existing, err := ix.queryOne(ctx, `WHERE fingerprint = ?`, rec.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, fmt.Errorf("insert %q: id %s already in use", rec.Name, rec.ID)
	}
	if err != nil {
		return Record{}, false, err
	}
	return existing, false, nil
}

// Get returns the record with the given id.
func (ix *Index) Get(ctx context.Context, id string) (Record, error) {
	rec, err := ix.queryOne(ctx, `WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, &errors.NotFoundError{Resource: "record", ID: id, Err: errors.ErrNotFound}
	}
	return rec, err
}

// Match returns every record whose code equals the code of word, ordered
// by name.
func (ix *Index) Match(ctx context.Context, word string) ([]Record, error) {
	return ix.queryAll(ctx, `WHERE code = ? ORDER BY name, id`, ix.enc.Encode(word))
}

// Groups returns every code shared by at least minSize records, ordered by
// code. minSize values below 2 are raised to 2.
func (ix *Index) Groups(ctx context.Context, minSize int) ([]Group, error) {
	if minSize < 2 {
		minSize = 2
	}
	recs, err := ix.queryAll(ctx,
		`WHERE code IN (SELECT code FROM names GROUP BY code HAVING COUNT(*) >= ?) ORDER BY code, name, id`,
		minSize)
	if err != nil {
		return nil, err
	}
	var groups []Group
	for _, r := range recs {
		if len(groups) == 0 || groups[len(groups)-1].Code != r.Code {
			groups = append(groups, Group{Code: r.Code})
		}
		g := &groups[len(groups)-1]
		g.Records = append(g.Records, r)
	}
	return groups, nil
}

// Count returns the number of indexed records.
func (ix *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := ix.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM names`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

const selectRecord = `SELECT id, name, code, fingerprint, created_at FROM names `

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var created string
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Code, &rec.Fingerprint, &created); err != nil {
		return Record{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, errors.NewParse("timestamp", rec.ID, err.Error())
	}
	rec.CreatedAt = t
	return rec, nil
}

func (ix *Index) queryOne(ctx context.Context, where string, args ...any) (Record, error) {
	return scanRecord(ix.db.QueryRowContext(ctx, selectRecord+where, args...))
}

func (ix *Index) queryAll(ctx context.Context, where string, args ...any) ([]Record, error) {
	rows, err := ix.db.QueryContext(ctx, selectRecord+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
