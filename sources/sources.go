// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package sources defines the contract between data sources and the
// import pipeline. A data source turns backend-native records into a
// lazy sequence of generic rows the pipeline pulls until exhausted.
package sources

import "context"

// Properties is a flat set of configuration values supplied by the host.
// It is read once at Init and not mutated afterwards.
type Properties map[string]string

// Get returns the value stored under key, or fallback when the key is
// absent or empty.
func (p Properties) Get(key, fallback string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Row is a single imported record: field name to value, with values kept
// as the backend driver produced them. No coercion is applied.
type Row map[string]interface{}

// RowIterator is a forward-only, non-restartable sequence of rows.
// It is not safe for concurrent use.
type RowIterator interface {
	// Next advances to the following row and reports whether one is
	// available. Once exhaustion is detected the underlying backend
	// resources are released immediately, and subsequent calls keep
	// returning false without error.
	Next(ctx context.Context) bool

	// Row copies every field of the current record into a fresh Row.
	// It is only valid after a Next call that returned true.
	Row() (Row, error)

	// Err returns the error that terminated iteration, if any.
	Err() error

	// Close releases the sequence before exhaustion. It is safe to call
	// multiple times.
	Close(ctx context.Context) error
}

// DataSource provides rows for import jobs. Implementations own a single
// backend connection and at most one open iteration at a time; they are
// not designed for concurrent use.
type DataSource interface {
	// Init reads the supplied properties, establishes the backend
	// connection and verifies it is usable.
	Init(ctx context.Context, props Properties) error

	// Fetch runs a backend-native query against the named collection and
	// returns the matching rows. An empty collection name reuses the
	// collection selected by the previous Fetch call.
	Fetch(ctx context.Context, query, collection string) (RowIterator, error)

	// Close releases the connection and any open iteration. Close is
	// best-effort: it attempts every release step independently and is
	// safe to call multiple times.
	Close(ctx context.Context) error
}
