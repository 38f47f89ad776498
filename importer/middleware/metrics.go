// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/searchsync/dataimport/importer"
)

var _ importer.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     importer.Service
}

// MetricsMiddleware instruments the import service by tracking request
// count and latency.
func MetricsMiddleware(svc importer.Service, counter metrics.Counter, latency metrics.Histogram) importer.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Run(ctx context.Context, job importer.Job) (importer.Report, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "run").Add(1)
		mm.latency.With("method", "run").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Run(ctx, job)
}
