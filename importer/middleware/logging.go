// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/searchsync/dataimport/importer"
)

var _ importer.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    importer.Service
}

// LoggingMiddleware adds logging facilities to the import service.
func LoggingMiddleware(svc importer.Service, logger *slog.Logger) importer.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Run(ctx context.Context, job importer.Job) (report importer.Report, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method run for collection %s into index %s took %s to complete", job.Collection, job.Index, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(fmt.Sprintf("%s without errors.", message))
	}(time.Now())

	return lm.svc.Run(ctx, job)
}
