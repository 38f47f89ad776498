// Copyright (c) SearchSync
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	stderr "errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/searchsync/dataimport/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const level = 10

var (
	err0 = errors.New("0")
	err1 = errors.New("1")
	err2 = errors.New("2")
)

func TestError(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		msg  string
	}{
		{
			desc: "level 0 wrapped error",
			err:  err0,
			msg:  "0",
		},
		{
			desc: "level 1 wrapped error",
			err:  wrap(1),
			msg:  message(1),
		},
		{
			desc: "level 2 wrapped error",
			err:  wrap(2),
			msg:  message(2),
		},
		{
			desc: fmt.Sprintf("level %d wrapped error", level),
			err:  wrap(level),
			msg:  message(level),
		},
	}

	for _, tc := range cases {
		errMsg := tc.err.Error()
		assert.Equal(t, tc.msg, errMsg, fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, errMsg))
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		desc      string
		container error
		contained error
		contains  bool
	}{
		{
			desc:      "nil contains nil",
			container: nil,
			contained: nil,
			contains:  true,
		},
		{
			desc:      "nil contains non-nil",
			container: nil,
			contained: err0,
			contains:  false,
		},
		{
			desc:      "non-nil contains nil",
			container: err0,
			contained: nil,
			contains:  false,
		},
		{
			desc:      "non-nil contains itself",
			container: err0,
			contained: err0,
			contains:  true,
		},
		{
			desc:      "wrapped error contains the wrapped cause",
			container: errors.Wrap(err1, err0),
			contained: err0,
			contains:  true,
		},
		{
			desc:      "wrapped error contains the wrapper",
			container: errors.Wrap(err1, err0),
			contained: err1,
			contains:  true,
		},
		{
			desc:      "wrapped error does not contain unrelated error",
			container: errors.Wrap(err1, err0),
			contained: err2,
			contains:  false,
		},
		{
			desc:      fmt.Sprintf("level %d wrapped error contains the innermost cause", level),
			container: wrap(level),
			contained: err0,
			contains:  true,
		},
	}

	for _, tc := range cases {
		contains := errors.Contains(tc.container, tc.contained)
		assert.Equal(t, tc.contains, contains, fmt.Sprintf("%s: expected %v got %v\n", tc.desc, tc.contains, contains))
	}
}

func TestWrap(t *testing.T) {
	cases := []struct {
		desc    string
		wrapper error
		err     error
		msg     string
	}{
		{
			desc:    "wrap error with error",
			wrapper: err1,
			err:     err0,
			msg:     "1 : 0",
		},
		{
			desc:    "wrap nil with error",
			wrapper: nil,
			err:     err0,
			msg:     "",
		},
		{
			desc:    "wrap error with nil",
			wrapper: err1,
			err:     nil,
			msg:     "1",
		},
		{
			desc:    "wrap native error with error",
			wrapper: stderr.New("native"),
			err:     err0,
			msg:     "native : 0",
		},
	}

	for _, tc := range cases {
		err := errors.Wrap(tc.wrapper, tc.err)
		if tc.wrapper == nil {
			assert.Nil(t, err, fmt.Sprintf("%s: expected nil error", tc.desc))
			continue
		}
		assert.Equal(t, tc.msg, err.Error(), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.msg, err.Error()))
	}
}

func TestStdlibIs(t *testing.T) {
	wrapped := errors.Wrap(err1, err0)
	assert.True(t, stderr.Is(wrapped, err0), "errors.Is expected to find the wrapped cause")
}

func wrap(level int) error {
	if level == 0 {
		return err0
	}
	return errors.Wrap(errors.New(strconv.Itoa(level)), wrap(level-1))
}

func message(level int) string {
	if level == 0 {
		return "0"
	}
	return strconv.Itoa(level) + " : " + message(level-1)
}
