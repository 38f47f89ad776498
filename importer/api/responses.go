// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/searchsync/dataimport"
	"github.com/searchsync/dataimport/importer"
)

var _ dataimport.Response = (*runJobRes)(nil)

type runJobRes struct {
	importer.Report
}

func (res runJobRes) Code() int {
	return http.StatusOK
}

func (res runJobRes) Headers() map[string]string {
	return map[string]string{}
}

func (res runJobRes) Empty() bool {
	return false
}
