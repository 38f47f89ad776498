// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package opensearch provides an OpenSearch consumer that bulk-indexes
// imported rows.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/searchsync/dataimport/consumers"
	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources"
)

var (
	// ErrConnect indicates failure to reach the OpenSearch cluster.
	ErrConnect = errors.New("failed to connect to opensearch cluster")

	errBulkIndex = errors.New("failed to bulk index rows")
)

// Config defines the options used when connecting to an OpenSearch cluster.
type Config struct {
	URL        string `env:"URL"         envDefault:"http://localhost:9200"`
	Username   string `env:"USERNAME"    envDefault:""`
	Password   string `env:"PASSWORD"    envDefault:""`
	MaxRetries int    `env:"MAX_RETRIES" envDefault:"3"`
}

// Connect creates an OpenSearch client and verifies the cluster answers.
func Connect(ctx context.Context, cfg Config) (*opensearchgo.Client, error) {
	client, err := opensearchgo.NewClient(opensearchgo.Config{
		Addresses:  []string{cfg.URL},
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, errors.Wrap(ErrConnect, err)
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(ErrConnect, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Wrap(ErrConnect, errors.New(res.String()))
	}

	return client, nil
}

var _ consumers.Consumer = (*osConsumer)(nil)

type osConsumer struct {
	client *opensearchgo.Client
	logger *slog.Logger
}

// New returns an OpenSearch bulk-indexing consumer.
func New(client *opensearchgo.Client, logger *slog.Logger) consumers.Consumer {
	return &osConsumer{client: client, logger: logger}
}

func (c *osConsumer) Consume(ctx context.Context, index string, rows []sources.Row) error {
	if len(rows) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, row := range rows {
		meta := map[string]map[string]string{"index": {"_index": index}}
		if id := docID(row); id != "" {
			meta["index"]["_id"] = id
		}
		action, err := json.Marshal(meta)
		if err != nil {
			return errors.Wrap(errBulkIndex, err)
		}
		doc, err := json.Marshal(row)
		if err != nil {
			return errors.Wrap(errBulkIndex, err)
		}
		buf.Write(action)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	req := opensearchapi.BulkRequest{Index: index, Body: bytes.NewReader(buf.Bytes())}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(errBulkIndex, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Wrap(errBulkIndex, errors.New(res.String()))
	}

	var blk bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&blk); err != nil {
		return errors.Wrap(errBulkIndex, err)
	}
	if blk.Errors {
		return errors.Wrap(errBulkIndex, errors.New(blk.firstFailure()))
	}

	c.logger.Debug(fmt.Sprintf("indexed %d rows into %s", len(rows), index))

	return nil
}

// docID derives the target document ID from the row's _id field so that
// re-running an import updates documents instead of duplicating them.
func docID(row sources.Row) string {
	id, ok := row["_id"]
	if !ok {
		return ""
	}
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

func (r bulkResponse) firstFailure() string {
	for _, item := range r.Items {
		for op, details := range item {
			if details.Error != nil {
				return fmt.Sprintf("%s failed with status %d: %s: %s", op, details.Status, details.Error.Type, details.Error.Reason)
			}
		}
	}
	return "bulk request reported errors"
}
