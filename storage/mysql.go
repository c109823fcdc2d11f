// Copyright 2025 The Kreda Developers. All rights reserved.
// Use of this source code is governed by a GNU GENERAL PUBLIC LICENSE v3
// license that can be found in the LICENSE file.

// mysql storage backend for block headers
package storage

import (
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

const createHeadersTable = `CREATE TABLE IF NOT EXISTS headers (
	hash BINARY(32) NOT NULL PRIMARY KEY,
	parent BINARY(32) NOT NULL,
	height BIGINT NOT NULL,
	time BIGINT NOT NULL,
	bits INT UNSIGNED NOT NULL,
	INDEX idx_headers_height (height)
)`

// NewSqlStorage returns a header Storage backed by a mysql database.
func NewSqlStorage(db *sql.DB) *SqlStorage {
	return &SqlStorage{db: db}
}

// SqlStorage sql storage backend for block headers
type SqlStorage struct {
	sync.RWMutex

	// database instance
	db *sql.DB
}

// Init creates the headers table if it does not exist yet.
func (s *SqlStorage) Init() error {
	_, err := s.db.Exec(createHeadersTable)
	return err
}

// AddHeader persists one header.
func (s *SqlStorage) AddHeader(h Header) error {
	s.Lock()
	defer s.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO headers (hash, parent, height, time, bits) VALUES (?, ?, ?, ?, ?)",
		h.Hash[:], h.Parent[:], h.Height, h.Time, h.Bits,
	)
	return err
}

// Headers returns up to limit headers starting at fromHeight, ordered by height.
func (s *SqlStorage) Headers(fromHeight int64, limit int) ([]Header, error) {
	s.RLock()
	defer s.RUnlock()

	rows, err := s.db.Query(
		"SELECT hash, parent, height, time, bits FROM headers WHERE height >= ? ORDER BY height LIMIT ?",
		fromHeight, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Header
	for rows.Next() {
		var h Header
		var hash, parent []byte
		if err := rows.Scan(&hash, &parent, &h.Height, &h.Time, &h.Bits); err != nil {
			return nil, err
		}
		copy(h.Hash[:], hash)
		copy(h.Parent[:], parent)
		result = append(result, h)
	}
	return result, rows.Err()
}

// BestHeight returns the highest stored height, or -1 when empty.
func (s *SqlStorage) BestHeight() (int64, error) {
	s.RLock()
	defer s.RUnlock()

	var height sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(height) FROM headers").Scan(&height); err != nil {
		return 0, err
	}
	if !height.Valid {
		return -1, nil
	}
	return height.Int64, nil
}

var _ Storage = (*SqlStorage)(nil)
