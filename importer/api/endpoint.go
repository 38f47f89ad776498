// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/go-kit/kit/endpoint"

	"github.com/searchsync/dataimport/importer"
)

func runJobEndpoint(svc importer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(runJobReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		report, err := svc.Run(ctx, req.job)
		if err != nil {
			return nil, err
		}

		return runJobRes{Report: report}, nil
	}
}
