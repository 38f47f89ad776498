// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package importer runs import jobs: it drains a data source and hands
// the rows to a consumer in batches.
package importer

import (
	"context"
	"time"

	"github.com/searchsync/dataimport"
	"github.com/searchsync/dataimport/consumers"
	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources"
)

const defBatchSize = 100

var (
	// ErrMissingQuery indicates a job without query text.
	ErrMissingQuery = errors.New("query must be supplied")

	// ErrMissingCollection indicates a job without a source collection.
	ErrMissingCollection = errors.New("collection must be supplied")

	// ErrMissingIndex indicates a job without a target index.
	ErrMissingIndex = errors.New("index must be supplied")

	// ErrJobID indicates failure to assign a job identifier.
	ErrJobID = errors.New("failed to assign job id")
)

// Job describes a single import run.
type Job struct {
	// Query is the source-native filter selecting the documents to import.
	Query string `json:"query"`

	// Collection is the source collection the query runs against.
	Collection string `json:"collection"`

	// Index is the target index the rows are delivered to.
	Index string `json:"index"`

	// BatchSize caps how many rows are delivered per consumer call.
	BatchSize int `json:"batch_size,omitempty"`
}

// Validate checks that the job carries everything a run needs.
func (job Job) Validate() error {
	if job.Query == "" {
		return ErrMissingQuery
	}
	if job.Collection == "" {
		return ErrMissingCollection
	}
	if job.Index == "" {
		return ErrMissingIndex
	}
	return nil
}

// Report summarizes a finished import run.
type Report struct {
	// ID is the identifier assigned to the run.
	ID string `json:"id"`

	// Rows is the number of rows read from the source and delivered.
	Rows uint64 `json:"rows"`

	// Batches is the number of consumer deliveries.
	Batches uint64 `json:"batches"`

	// Took is the wall-clock duration of the run.
	Took time.Duration `json:"took"`
}

// Service runs import jobs.
type Service interface {
	// Run executes the job synchronously and returns its report. Any
	// failure aborts the run; no partial report is returned.
	Run(ctx context.Context, job Job) (Report, error)
}

var _ Service = (*importService)(nil)

type importService struct {
	source     sources.DataSource
	consumer   consumers.Consumer
	idProvider dataimport.IDProvider
}

// New returns an import service draining source into consumer.
func New(source sources.DataSource, consumer consumers.Consumer, idProvider dataimport.IDProvider) Service {
	return &importService{
		source:     source,
		consumer:   consumer,
		idProvider: idProvider,
	}
}

func (svc *importService) Run(ctx context.Context, job Job) (Report, error) {
	if err := job.Validate(); err != nil {
		return Report{}, err
	}

	id, err := svc.idProvider.ID()
	if err != nil {
		return Report{}, errors.Wrap(ErrJobID, err)
	}

	size := job.BatchSize
	if size <= 0 {
		size = defBatchSize
	}

	begin := time.Now()

	it, err := svc.source.Fetch(ctx, job.Query, job.Collection)
	if err != nil {
		return Report{}, err
	}

	report := Report{ID: id}
	batch := make([]sources.Row, 0, size)
	for it.Next(ctx) {
		row, err := it.Row()
		if err != nil {
			if cerr := it.Close(ctx); cerr != nil {
				err = errors.Wrap(err, cerr)
			}
			return Report{}, err
		}
		batch = append(batch, row)
		if len(batch) == size {
			if err := svc.deliver(ctx, job.Index, batch, &report); err != nil {
				if cerr := it.Close(ctx); cerr != nil {
					err = errors.Wrap(err, cerr)
				}
				return Report{}, err
			}
			batch = batch[:0]
		}
	}
	if err := it.Err(); err != nil {
		return Report{}, err
	}
	if len(batch) > 0 {
		if err := svc.deliver(ctx, job.Index, batch, &report); err != nil {
			return Report{}, err
		}
	}

	report.Took = time.Since(begin)

	return report, nil
}

func (svc *importService) deliver(ctx context.Context, index string, batch []sources.Row, report *Report) error {
	if err := svc.consumer.Consume(ctx, index, batch); err != nil {
		return err
	}
	report.Rows += uint64(len(batch))
	report.Batches++
	return nil
}
