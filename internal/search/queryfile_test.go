// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQueryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadQueryFile(t *testing.T) {
	path := writeQueryFile(t, `keyword: transformer
max_results: 3
categories: [cs.CL, cs.LG]
date_from: 2024-01-01
date_to: 2024-03-31
`)

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)

	req, err := qf.ToRequest()
	require.NoError(t, err)

	assert.Equal(t, "transformer", req.Keyword)
	assert.Equal(t, 3, req.MaxResults)
	assert.Equal(t, []string{"cs.CL", "cs.LG"}, req.Categories)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), req.From)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), req.To)
	assert.True(t, req.HasDateRange())
}

func TestQueryFileDefaults(t *testing.T) {
	qf, err := ReadQueryFile(writeQueryFile(t, "keyword: diffusion\n"))
	require.NoError(t, err)

	req, err := qf.ToRequest()
	require.NoError(t, err)
	assert.Equal(t, 1, req.MaxResults)
	assert.Empty(t, req.Categories)
	assert.False(t, req.HasDateRange())
}

func TestQueryFileInvalidDate(t *testing.T) {
	qf, err := ReadQueryFile(writeQueryFile(t, "keyword: x\ndate_from: 01/02/2024\n"))
	require.NoError(t, err)

	_, err = qf.ToRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date_from")
}

func TestReadQueryFileErrors(t *testing.T) {
	_, err := ReadQueryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ReadQueryFile(writeQueryFile(t, "keyword: [unterminated\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing query file")
}
