// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources"
)

// cursor is the subset of the driver cursor the iterator relies on.
type cursor interface {
	Next(ctx context.Context) bool
	Decode(val interface{}) error
	Err() error
	Close(ctx context.Context) error
}

var _ cursor = (*mongo.Cursor)(nil)

var errNoRow = errors.New("no current row")

var _ sources.RowIterator = (*rowIterator)(nil)

type rowIterator struct {
	cur    cursor
	logger *slog.Logger
	closed bool
	valid  bool
	err    error
}

func newRowIterator(cur cursor, logger *slog.Logger) *rowIterator {
	return &rowIterator{cur: cur, logger: logger}
}

func (it *rowIterator) Next(ctx context.Context) bool {
	it.valid = false
	if it.closed {
		return false
	}
	if it.cur.Next(ctx) {
		it.valid = true
		return true
	}
	if err := it.cur.Err(); err != nil {
		it.err = errors.Wrap(ErrCursor, err)
	}
	// The server-side cursor is released the moment exhaustion or
	// failure is detected, not deferred to data source shutdown.
	it.release(ctx)

	return false
}

func (it *rowIterator) Row() (sources.Row, error) {
	if !it.valid {
		return nil, errNoRow
	}

	var doc bson.M
	if err := it.cur.Decode(&doc); err != nil {
		return nil, errors.Wrap(ErrCursor, err)
	}

	row := make(sources.Row, len(doc))
	for k, v := range doc {
		row[k] = v
	}

	return row, nil
}

func (it *rowIterator) Err() error {
	return it.err
}

func (it *rowIterator) Close(ctx context.Context) error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.valid = false
	if err := it.cur.Close(ctx); err != nil {
		return errors.Wrap(ErrCloseCursor, err)
	}

	return nil
}

func (it *rowIterator) release(ctx context.Context) {
	if err := it.Close(ctx); err != nil {
		it.logger.Warn(fmt.Sprintf("failed to close cursor: %s", err))
	}
}
