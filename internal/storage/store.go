/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no perspective exists under a name.
	ErrNotFound = errors.New("perspective not found")
	// ErrEmptyName rejects blank perspective names.
	ErrEmptyName = errors.New("perspective name is required")
)

// tsLayout is fixed-width so that text timestamps sort chronologically.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Snapshot is one saved version of a perspective.
type Snapshot struct {
	ID   int64
	Name string
	TS   time.Time
	Blob []byte
}

// Summary describes a perspective name and its history.
type Summary struct {
	Name    string
	Count   int
	Bytes   int64
	Updated time.Time
}

// Store persists perspective snapshots.
type Store interface {
	Save(ctx context.Context, name string, blob []byte, ts time.Time) (int64, error)
	Latest(ctx context.Context, name string) (Snapshot, error)
	List(ctx context.Context) ([]Summary, error)
	History(ctx context.Context, name string, limit int) ([]Snapshot, error)
	Prune(ctx context.Context, name string, keep int) (int64, error)
	Delete(ctx context.Context, name string) (int64, error)
	Close() error
}

// language=SQL
const insertPerspectiveSQL = `INSERT INTO perspectives(name, ts, size, blob) VALUES (?, ?, ?, ?) RETURNING id`

// language=SQL
const selectLatestPerspectiveSQL = `SELECT id, name, ts, blob FROM perspectives WHERE name = ? ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
const listPerspectivesSQL = `SELECT name, COUNT(*), CAST(COALESCE(SUM(size), 0) AS BIGINT), MAX(ts) FROM perspectives GROUP BY name ORDER BY name`

// language=SQL
const historyPerspectiveSQL = `SELECT id, name, ts, blob FROM perspectives WHERE name = ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
const prunePerspectiveSQL = `DELETE FROM perspectives WHERE name = ? AND id NOT IN (
	SELECT id FROM perspectives WHERE name = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// language=SQL
const deletePerspectiveSQL = `DELETE FROM perspectives WHERE name = ?`

// dialect adapts the shared queries to one driver.
type dialect struct {
	name string
	// numbered rewrites ? into $1, $2, ...
	numbered bool
	// textTime stores timestamps as fixed-width text instead of a native type.
	textTime bool
}

var (
	sqliteDialect   = dialect{name: "sqlite", textTime: true}
	postgresDialect = dialect{name: "postgres", numbered: true}
)

func (d dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func (d dialect) timeArg(t time.Time) any {
	if d.textTime {
		return t.UTC().Format(tsLayout)
	}
	return t.UTC()
}

// stamp scans a timestamp stored either natively or as text.
type stamp struct{ time.Time }

func (s *stamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		s.Time = time.Time{}
		return nil
	case time.Time:
		s.Time = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (s *stamp) parse(v string) error {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", v, err)
	}
	s.Time = t.UTC()
	return nil
}

// SQLStore is the Store implementation shared by both drivers.
type SQLStore struct {
	db   *sql.DB
	d    dialect
	log  *slog.Logger
	path string
}

func (s *SQLStore) Save(ctx context.Context, name string, blob []byte, ts time.Time) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	var id int64
	err := s.db.QueryRowContext(ctx, s.d.rebind(insertPerspectiveSQL), name, s.d.timeArg(ts), len(blob), blob).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save perspective %q: %w", name, err)
	}
	s.log.Debug("perspective saved", slog.String("name", name), slog.Int64("id", id), slog.Int("bytes", len(blob)))
	return id, nil
}

func (s *SQLStore) Latest(ctx context.Context, name string) (Snapshot, error) {
	var snap Snapshot
	var ts stamp
	err := s.db.QueryRowContext(ctx, s.d.rebind(selectLatestPerspectiveSQL), name).Scan(&snap.ID, &snap.Name, &ts, &snap.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load perspective %q: %w", name, err)
	}
	snap.TS = ts.Time
	return snap, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, s.d.rebind(listPerspectivesSQL))
	if err != nil {
		return nil, fmt.Errorf("list perspectives: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Summary
	for rows.Next() {
		var sum Summary
		var ts stamp
		if err := rows.Scan(&sum.Name, &sum.Count, &sum.Bytes, &ts); err != nil {
			return nil, fmt.Errorf("scan perspective summary: %w", err)
		}
		sum.Updated = ts.Time
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) History(ctx context.Context, name string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, s.d.rebind(historyPerspectiveSQL), name, limit)
	if err != nil {
		return nil, fmt.Errorf("perspective history %q: %w", name, err)
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var ts stamp
		if err := rows.Scan(&snap.ID, &snap.Name, &ts, &snap.Blob); err != nil {
			return nil, fmt.Errorf("scan perspective: %w", err)
		}
		snap.TS = ts.Time
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune keeps the newest keep snapshots of name and reports how many were removed.
func (s *SQLStore) Prune(ctx context.Context, name string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, s.d.rebind(prunePerspectiveSQL), name, name, keep)
	if err != nil {
		return 0, fmt.Errorf("prune perspective %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.log.Info("perspective history pruned", slog.String("name", name), slog.Int64("removed", n), slog.Int("keep", keep))
	}
	return n, nil
}

func (s *SQLStore) Delete(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.d.rebind(deletePerspectiveSQL), name)
	if err != nil {
		return 0, fmt.Errorf("delete perspective %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return n, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance commands and tests.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Driver names the database backing the store.
func (s *SQLStore) Driver() string { return s.d.name }

// Location is the database file path, or the redacted DSN for PostgreSQL.
func (s *SQLStore) Location() string { return s.path }

var _ Store = (*SQLStore)(nil)
