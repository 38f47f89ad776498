// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package consumers defines the sink contract of the import pipeline.
package consumers

import (
	"context"

	"github.com/searchsync/dataimport/sources"
)

// Consumer delivers batches of imported rows to a target index.
type Consumer interface {
	// Consume stores the given rows under the named index. A returned
	// error means the whole batch failed; partial delivery is not
	// reported.
	Consume(ctx context.Context, index string, rows []sources.Row) error
}
