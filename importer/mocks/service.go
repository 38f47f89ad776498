// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package mocks contains import service implementations for tests.
package mocks

import (
	"context"
	"sync"

	"github.com/searchsync/dataimport/importer"
)

var _ importer.Service = (*Service)(nil)

// Service returns the configured report or error and records the last
// job it was asked to run.
type Service struct {
	mu      sync.Mutex
	lastJob importer.Job

	Report importer.Report
	Err    error
}

func (svc *Service) Run(ctx context.Context, job importer.Job) (importer.Report, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.lastJob = job
	if svc.Err != nil {
		return importer.Report{}, svc.Err
	}
	return svc.Report, nil
}

// LastJob returns the most recently submitted job.
func (svc *Service) LastJob() importer.Job {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.lastJob
}
