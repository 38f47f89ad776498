// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package api

import "github.com/searchsync/dataimport/importer"

type runJobReq struct {
	job importer.Job
}

func (req runJobReq) validate() error {
	return req.job.Validate()
}
