// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb persists committed events in sqlite and serves queries over them.
package logdb

import (
	"context"
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
)

const insertEventQuery = "INSERT INTO event(creator, creationNum, sequenceNumber, type, data) VALUES(?,?,?,?,?)"

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

var _ events.Sink = (*LogDB)(nil)

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Write stores evs in one transaction.
func (db *LogDB) Write(ctx context.Context, evs []*events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	stmt, err := db.stmtCache.Prepare(ctx, insertEventQuery)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	txStmt := tx.StmtContext(ctx, stmt)
	for _, ev := range evs {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "encode %s", ev.Type)
		}
		if _, err := txStmt.ExecContext(ctx,
			ev.Key.Creator.Bytes(),
			ev.Key.CreationNum,
			ev.SequenceNumber,
			ev.Type,
			data,
		); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	metricEventsWritten().Add(int64(len(evs)))
	return nil
}

// Filter returns events matching filter. A nil filter returns everything in
// insertion order.
func (db *LogDB) Filter(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT seq, creator, creationNum, sequenceNumber, type, data FROM event ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT seq, creator, creationNum, sequenceNumber, type, data FROM event WHERE 1"
	if filter.Type != "" {
		args = append(args, filter.Type)
		stmt += " AND type = ? "
	}
	if filter.Creator != nil {
		args = append(args, filter.Creator.Bytes())
		stmt += " AND creator = ? "
	}
	if filter.From > 0 {
		args = append(args, filter.From)
		if filter.Order == DESC {
			stmt += " AND seq <= ? "
		} else {
			stmt += " AND seq >= ? "
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	if filter.Limit > 0 {
		stmt += " LIMIT ? "
		args = append(args, filter.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev      Event
			creator []byte
			data    []byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&creator,
			&ev.Key.CreationNum,
			&ev.SequenceNumber,
			&ev.Type,
			&data,
		); err != nil {
			return nil, err
		}
		ev.Key.Creator = chain.BytesToAddress(creator)
		ev.Data = json.RawMessage(data)
		evs = append(evs, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}
