// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains in-memory data source implementations for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources"
)

// ErrNotInitialized indicates use of the mock before Init.
var ErrNotInitialized = errors.New("data source is not initialized")

var _ sources.DataSource = (*DataSource)(nil)

// DataSource is an in-memory data source keyed by collection name.
// Error fields, when set, are returned by the corresponding operations.
type DataSource struct {
	mu          sync.Mutex
	rows        map[string][]sources.Row
	selected    string
	initialized bool

	InitErr  error
	FetchErr error
	// IterErr terminates iteration after FailAfter rows were delivered.
	IterErr   error
	FailAfter int
}

// NewDataSource returns a data source serving the given rows.
func NewDataSource(rows map[string][]sources.Row) *DataSource {
	return &DataSource{rows: rows}
}

func (ds *DataSource) Init(ctx context.Context, props sources.Properties) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.InitErr != nil {
		return ds.InitErr
	}
	ds.initialized = true
	return nil
}

func (ds *DataSource) Fetch(ctx context.Context, query, collection string) (sources.RowIterator, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if !ds.initialized {
		return nil, ErrNotInitialized
	}
	if ds.FetchErr != nil {
		return nil, ds.FetchErr
	}
	if collection != "" {
		ds.selected = collection
	}

	it := &rowIterator{rows: ds.rows[ds.selected]}
	if ds.IterErr != nil {
		it.failAfter = ds.FailAfter
		it.iterErr = ds.IterErr
	} else {
		it.failAfter = -1
	}
	return it, nil
}

func (ds *DataSource) Close(ctx context.Context) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.initialized = false
	return nil
}

var _ sources.RowIterator = (*rowIterator)(nil)

type rowIterator struct {
	rows      []sources.Row
	pos       int
	failAfter int
	iterErr   error
	err       error
	closed    bool
	valid     bool
}

func (it *rowIterator) Next(ctx context.Context) bool {
	it.valid = false
	if it.closed {
		return false
	}
	if it.failAfter >= 0 && it.pos >= it.failAfter {
		it.err = it.iterErr
		it.closed = true
		return false
	}
	if it.pos < len(it.rows) {
		it.pos++
		it.valid = true
		return true
	}
	it.closed = true
	return false
}

func (it *rowIterator) Row() (sources.Row, error) {
	if !it.valid {
		return nil, errors.New("no current row")
	}
	src := it.rows[it.pos-1]
	row := make(sources.Row, len(src))
	for k, v := range src {
		row[k] = v
	}
	return row, nil
}

func (it *rowIterator) Err() error {
	return it.err
}

func (it *rowIterator) Close(ctx context.Context) error {
	it.closed = true
	it.valid = false
	return nil
}
