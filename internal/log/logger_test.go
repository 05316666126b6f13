// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevel(t *testing.T) {
	for _, l := range []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal} {
		parsed, err := NewLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}

	l, err := NewLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, l)

	_, err = NewLevel("loud")
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})
	defer SetLevel(currLevel)

	SetLevel(LevelWarn)
	lgr := WithModule("test").Sub("file", "a.torrent")

	lgr.Info("hidden")
	assert.Empty(t, buf.String())

	lgr.Warn("not canonical", "err", errors.New("key out of order"))
	out := buf.String()
	assert.Contains(t, out, "not canonical")
	assert.Contains(t, out, "module=test")
	assert.Contains(t, out, "file=a.torrent")
	assert.Contains(t, out, "key out of order")

	assert.Panics(t, func() { lgr.Warn("odd", "key") })
	assert.Panics(t, func() { lgr.Warn("bad key", 1, 2) })
}
