// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the import service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/searchsync/dataimport"
	"github.com/searchsync/dataimport/importer"
	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/searchsync/dataimport/sources/mongodb"
)

const contentType = "application/json"

// MakeHandler returns a HTTP handler for the import API with health
// check and metrics.
func MakeHandler(svc importer.Service, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
	}

	mux := chi.NewRouter()
	mux.Post("/jobs", kithttp.NewServer(
		runJobEndpoint(svc),
		decodeRunJobReq,
		encodeResponse,
		opts...,
	).ServeHTTP)

	mux.Get("/health", dataimport.Health(svcName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeRunJobReq(_ context.Context, r *http.Request) (interface{}, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), contentType) {
		return nil, errors.ErrUnsupportedContentType
	}

	var req runJobReq
	if err := json.NewDecoder(r.Body).Decode(&req.job); err != nil {
		return nil, errors.Wrap(errors.ErrMalformedEntity, err)
	}

	return req, nil
}

func encodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", contentType)
	if ar, ok := response.(dataimport.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.WriteHeader(ar.Code())
		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", contentType)
	switch {
	case errors.Contains(err, errors.ErrUnsupportedContentType):
		w.WriteHeader(http.StatusUnsupportedMediaType)
	case errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, importer.ErrMissingQuery),
		errors.Contains(err, importer.ErrMissingCollection),
		errors.Contains(err, importer.ErrMissingIndex),
		errors.Contains(err, mongodb.ErrInvalidQuery):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
