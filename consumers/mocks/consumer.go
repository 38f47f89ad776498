// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains in-memory consumer implementations for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/searchsync/dataimport/consumers"
	"github.com/searchsync/dataimport/sources"
)

var _ consumers.Consumer = (*Consumer)(nil)

// Consumer records every delivered batch. ConsumeErr, when set, is
// returned by Consume after recording nothing.
type Consumer struct {
	mu      sync.Mutex
	batches map[string][][]sources.Row

	ConsumeErr error
}

// NewConsumer returns an empty recording consumer.
func NewConsumer() *Consumer {
	return &Consumer{batches: map[string][][]sources.Row{}}
}

func (c *Consumer) Consume(ctx context.Context, index string, rows []sources.Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ConsumeErr != nil {
		return c.ConsumeErr
	}
	batch := make([]sources.Row, len(rows))
	copy(batch, rows)
	c.batches[index] = append(c.batches[index], batch)
	return nil
}

// Batches returns the batches delivered to the given index.
func (c *Consumer) Batches(index string) [][]sources.Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.batches[index]
}

// Rows returns all rows delivered to the given index, in order.
func (c *Consumer) Rows(index string) []sources.Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rows []sources.Row
	for _, batch := range c.batches[index] {
		rows = append(rows, batch...)
	}
	return rows
}
