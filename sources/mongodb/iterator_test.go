// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package mongodb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources"
)

var testLog = slog.New(slog.NewJSONHandler(io.Discard, nil))

type fakeCursor struct {
	docs     []bson.M
	pos      int
	iterErr  error
	closeErr error
	closed   int
}

func (c *fakeCursor) Next(ctx context.Context) bool {
	if c.pos < len(c.docs) {
		c.pos++
		return true
	}
	return false
}

func (c *fakeCursor) Decode(val interface{}) error {
	doc, ok := val.(*bson.M)
	if !ok {
		return errors.New("unexpected decode target")
	}
	*doc = c.docs[c.pos-1]
	return nil
}

func (c *fakeCursor) Err() error {
	if c.pos >= len(c.docs) {
		return c.iterErr
	}
	return nil
}

func (c *fakeCursor) Close(ctx context.Context) error {
	c.closed++
	return c.closeErr
}

func TestIteratorDrainsAllRows(t *testing.T) {
	docs := []bson.M{
		{"_id": "a", "name": "first", "count": int32(1)},
		{"_id": "b", "name": "second", "count": int32(2)},
		{"_id": "c", "name": "third", "count": int32(3)},
	}
	cur := &fakeCursor{docs: docs}
	it := newRowIterator(cur, testLog)

	var rows []sources.Row
	for it.Next(context.Background()) {
		row, err := it.Row()
		require.NoError(t, err, fmt.Sprintf("reading row expected to succeed: %s", err))
		rows = append(rows, row)
	}

	require.NoError(t, it.Err(), fmt.Sprintf("iteration expected to succeed: %s", it.Err()))
	require.Len(t, rows, len(docs), fmt.Sprintf("expected %d rows, got %d", len(docs), len(rows)))
	for i, doc := range docs {
		assert.Equal(t, len(doc), len(rows[i]), fmt.Sprintf("row %d: expected %d fields, got %d", i, len(doc), len(rows[i])))
		for k, v := range doc {
			assert.Equal(t, v, rows[i][k], fmt.Sprintf("row %d: field %s expected %v, got %v", i, k, v, rows[i][k]))
		}
	}
	assert.Equal(t, 1, cur.closed, "cursor expected to be closed once exhaustion is detected")
}

func TestIteratorEmptyResult(t *testing.T) {
	cur := &fakeCursor{}
	it := newRowIterator(cur, testLog)

	assert.False(t, it.Next(context.Background()), "empty result expected to yield no rows")
	assert.NoError(t, it.Err(), "empty result is not an error")
	assert.Equal(t, 1, cur.closed, "cursor expected to be closed after the first exhaustion check")
}

func TestIteratorIdempotentExhaustion(t *testing.T) {
	cur := &fakeCursor{docs: []bson.M{{"_id": "a"}}}
	it := newRowIterator(cur, testLog)

	assert.True(t, it.Next(context.Background()), "one row expected")
	assert.False(t, it.Next(context.Background()), "sequence expected to be exhausted")

	for i := 0; i < 3; i++ {
		assert.False(t, it.Next(context.Background()), "exhausted sequence expected to stay exhausted")
	}
	assert.NoError(t, it.Err(), "re-checking an exhausted sequence must not raise")
	assert.Equal(t, 1, cur.closed, "cursor expected to be closed exactly once")
}

func TestIteratorCursorFailure(t *testing.T) {
	iterErr := errors.New("connection reset")
	cur := &fakeCursor{docs: []bson.M{{"_id": "a"}}, iterErr: iterErr}
	it := newRowIterator(cur, testLog)

	assert.True(t, it.Next(context.Background()), "one row expected before the failure")
	assert.False(t, it.Next(context.Background()), "failed iteration expected to stop")

	err := it.Err()
	require.Error(t, err, "cursor failure expected to surface via Err")
	assert.True(t, errors.Contains(err, ErrCursor), fmt.Sprintf("expected %s, got %s", ErrCursor, err))
	assert.True(t, errors.Contains(err, iterErr), fmt.Sprintf("expected wrapped cause %s, got %s", iterErr, err))
	assert.Equal(t, 1, cur.closed, "cursor expected to be closed on iteration failure")
}

func TestIteratorRowWithoutNext(t *testing.T) {
	it := newRowIterator(&fakeCursor{docs: []bson.M{{"_id": "a"}}}, testLog)

	row, err := it.Row()
	assert.Nil(t, row, "no row expected before Next")
	assert.True(t, errors.Contains(err, errNoRow), fmt.Sprintf("expected %s, got %s", errNoRow, err))
}

func TestIteratorClose(t *testing.T) {
	cur := &fakeCursor{docs: []bson.M{{"_id": "a"}, {"_id": "b"}}}
	it := newRowIterator(cur, testLog)

	require.True(t, it.Next(context.Background()), "one row expected before early close")

	err := it.Close(context.Background())
	assert.NoError(t, err, fmt.Sprintf("closing iterator expected to succeed: %s", err))
	assert.Equal(t, 1, cur.closed, "cursor expected to be closed once")

	assert.NoError(t, it.Close(context.Background()), "double close expected to succeed")
	assert.Equal(t, 1, cur.closed, "double close must not release the cursor twice")

	assert.False(t, it.Next(context.Background()), "closed iterator expected to yield no rows")
}

func TestIteratorCloseFailure(t *testing.T) {
	closeErr := errors.New("cursor already dead")
	cur := &fakeCursor{closeErr: closeErr}
	it := newRowIterator(cur, testLog)

	err := it.Close(context.Background())
	require.Error(t, err, "close failure expected to surface")
	assert.True(t, errors.Contains(err, ErrCloseCursor), fmt.Sprintf("expected %s, got %s", ErrCloseCursor, err))
}

func TestClientOptions(t *testing.T) {
	cases := []struct {
		desc       string
		props      sources.Properties
		hosts      []string
		auth       bool
		authSource string
	}{
		{
			desc:  "defaults",
			props: sources.Properties{},
			hosts: []string{"localhost:27017"},
		},
		{
			desc: "custom host and port",
			props: sources.Properties{
				HostKey: "mongo.internal",
				PortKey: "27018",
			},
			hosts: []string{"mongo.internal:27018"},
		},
		{
			desc: "username and password attach credential with default auth source",
			props: sources.Properties{
				UsernameKey: "importer",
				PasswordKey: "secret",
			},
			hosts:      []string{"localhost:27017"},
			auth:       true,
			authSource: "admin",
		},
		{
			desc: "custom auth source",
			props: sources.Properties{
				UsernameKey:   "importer",
				PasswordKey:   "secret",
				AuthSourceKey: "users",
			},
			hosts:      []string{"localhost:27017"},
			auth:       true,
			authSource: "users",
		},
		{
			desc: "username without password attaches no credential",
			props: sources.Properties{
				UsernameKey: "importer",
			},
			hosts: []string{"localhost:27017"},
		},
		{
			desc: "password without username attaches no credential",
			props: sources.Properties{
				PasswordKey: "secret",
			},
			hosts: []string{"localhost:27017"},
		},
	}

	for _, tc := range cases {
		opts := clientOptions(tc.props)
		assert.Equal(t, tc.hosts, opts.Hosts, fmt.Sprintf("%s: expected hosts %v, got %v", tc.desc, tc.hosts, opts.Hosts))
		if !tc.auth {
			assert.Nil(t, opts.Auth, fmt.Sprintf("%s: expected no credential", tc.desc))
			continue
		}
		require.NotNil(t, opts.Auth, fmt.Sprintf("%s: expected credential to be attached", tc.desc))
		assert.Equal(t, tc.authSource, opts.Auth.AuthSource, fmt.Sprintf("%s: expected auth source %s, got %s", tc.desc, tc.authSource, opts.Auth.AuthSource))
		assert.Equal(t, tc.props[UsernameKey], opts.Auth.Username, fmt.Sprintf("%s: unexpected username %s", tc.desc, opts.Auth.Username))
	}
}

func TestParseFilter(t *testing.T) {
	cases := []struct {
		desc  string
		query string
		err   error
	}{
		{
			desc:  "empty filter document",
			query: "{}",
		},
		{
			desc:  "filter with operator",
			query: `{"age": {"$gt": 21}}`,
		},
		{
			desc:  "filter with multiple fields",
			query: `{"status": "active", "deleted": false}`,
		},
		{
			desc:  "malformed filter",
			query: `{"status": `,
			err:   ErrInvalidQuery,
		},
		{
			desc:  "empty query text",
			query: "",
			err:   ErrInvalidQuery,
		},
		{
			desc:  "non-document query",
			query: `"just a string"`,
			err:   ErrInvalidQuery,
		},
	}

	for _, tc := range cases {
		filter, err := parseFilter(tc.query)
		if tc.err != nil {
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s, got %s", tc.desc, tc.err, err))
			assert.Nil(t, filter, fmt.Sprintf("%s: no filter expected on parse failure", tc.desc))
			continue
		}
		assert.NoError(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
	}
}
