// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package mongodb provides a MongoDB-backed data source. It connects with
// host-supplied properties, runs filter-document queries against a
// collection and exposes the matches as a lazy sequence of generic rows.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources"
)

// Property keys consumed from the host-supplied configuration set.
const (
	DatabaseKey   = "database"
	HostKey       = "host"
	PortKey       = "port"
	UsernameKey   = "username"
	PasswordKey   = "password"
	AuthSourceKey = "authSource"
)

const (
	defHost       = "localhost"
	defPort       = "27017"
	defAuthSource = "admin"
)

var (
	// ErrMissingDatabase indicates that the required database property is absent.
	ErrMissingDatabase = errors.New("database must be supplied")

	// ErrConnect indicates failure to connect to the MongoDB server.
	ErrConnect = errors.New("failed to connect to mongodb server")

	// ErrPing indicates that the server did not answer the liveness check.
	ErrPing = errors.New("failed to reach mongodb server")

	// ErrNotInitialized indicates use of the data source before Init.
	ErrNotInitialized = errors.New("data source is not initialized")

	// ErrNoCollection indicates a fetch without a selected collection.
	ErrNoCollection = errors.New("no collection selected")

	// ErrInvalidQuery indicates that the query text is not a valid filter document.
	ErrInvalidQuery = errors.New("failed to parse query filter")

	// ErrQuery indicates failure to execute the query.
	ErrQuery = errors.New("failed to execute query")

	// ErrCursor indicates a cursor failure during iteration.
	ErrCursor = errors.New("failed to iterate cursor")

	// ErrCloseCursor indicates failure to release the server-side cursor.
	ErrCloseCursor = errors.New("failed to close cursor")
)

var _ sources.DataSource = (*dataSource)(nil)

type dataSource struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
	it     *rowIterator
	logger *slog.Logger
}

// New returns an uninitialized MongoDB data source.
func New(logger *slog.Logger) sources.DataSource {
	return &dataSource{logger: logger}
}

func (ds *dataSource) Init(ctx context.Context, props sources.Properties) error {
	dbName := props.Get(DatabaseKey, "")
	if dbName == "" {
		return ErrMissingDatabase
	}

	client, err := mongo.Connect(ctx, clientOptions(props))
	if err != nil {
		return errors.Wrap(ErrConnect, err)
	}

	db := client.Database(dbName)
	if err := db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			ds.logger.Warn(fmt.Sprintf("failed to disconnect after ping failure: %s", derr))
		}
		return errors.Wrap(ErrPing, err)
	}

	ds.client = client
	ds.db = db
	ds.logger.Info(fmt.Sprintf("connected to mongodb database %s", dbName))

	return nil
}

func (ds *dataSource) Fetch(ctx context.Context, query, collection string) (sources.RowIterator, error) {
	if ds.db == nil {
		return nil, ErrNotInitialized
	}
	if collection != "" {
		ds.coll = ds.db.Collection(collection)
	}
	if ds.coll == nil {
		return nil, ErrNoCollection
	}

	filter, err := parseFilter(query)
	if err != nil {
		return nil, err
	}

	// At most one open cursor per data source. Release the previous one
	// before the new query replaces it.
	if ds.it != nil {
		if err := ds.it.Close(ctx); err != nil {
			ds.logger.Warn(fmt.Sprintf("failed to close previous cursor: %s", err))
		}
		ds.it = nil
	}

	ds.logger.Debug(fmt.Sprintf("executing query %s against collection %s", query, ds.coll.Name()))

	cur, err := ds.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(ErrQuery, err)
	}

	ds.it = newRowIterator(cur, ds.logger)
	return ds.it, nil
}

func (ds *dataSource) Close(ctx context.Context) error {
	var err error
	if ds.it != nil {
		if cerr := ds.it.Close(ctx); cerr != nil {
			ds.logger.Warn(fmt.Sprintf("failed to close cursor: %s", cerr))
			err = cerr
		}
		ds.it = nil
	}
	if ds.client != nil {
		if derr := ds.client.Disconnect(ctx); derr != nil {
			ds.logger.Warn(fmt.Sprintf("failed to disconnect mongodb client: %s", derr))
			err = errors.Wrap(derr, err)
		}
		ds.client = nil
		ds.db = nil
		ds.coll = nil
	}

	return err
}

// clientOptions builds driver options from the host-supplied properties.
// A credential is attached only when both username and password are set.
func clientOptions(props sources.Properties) *options.ClientOptions {
	addr := fmt.Sprintf("mongodb://%s:%s", props.Get(HostKey, defHost), props.Get(PortKey, defPort))
	opts := options.Client().ApplyURI(addr)

	username := props.Get(UsernameKey, "")
	password := props.Get(PasswordKey, "")
	if username != "" && password != "" {
		opts.SetAuth(options.Credential{
			AuthSource: props.Get(AuthSourceKey, defAuthSource),
			Username:   username,
			Password:   password,
		})
	}

	return opts
}

// parseFilter decodes query text as an extended-JSON filter document.
func parseFilter(query string) (bson.D, error) {
	var filter bson.D
	if err := bson.UnmarshalExtJSON([]byte(query), false, &filter); err != nil {
		return nil, errors.Wrap(ErrInvalidQuery, err)
	}
	return filter, nil
}
