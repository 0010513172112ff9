// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summary/pkg/types"
)

// QueryFile is the on-disk representation of a search request, so a saved
// search can be rerun from the CLI:
//
//	keyword: transformer
//	max_results: 3
//	categories: [cs.CL, cs.LG]
//	date_from: 2024-01-01
//	date_to: 2024-03-31
type QueryFile struct {
	Keyword    string   `yaml:"keyword"`
	MaxResults int      `yaml:"max_results,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	DateFrom   string   `yaml:"date_from,omitempty"`
	DateTo     string   `yaml:"date_to,omitempty"`
}

// DateFmt is the calendar-date layout accepted for date ranges.
const DateFmt = "2006-01-02"

// ReadQueryFile loads a query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToRequest converts the file into a SearchRequest. MaxResults defaults to 1.
func (f QueryFile) ToRequest() (types.SearchRequest, error) {
	req := types.SearchRequest{
		Keyword:    f.Keyword,
		MaxResults: f.MaxResults,
		Categories: f.Categories,
	}
	if req.MaxResults == 0 {
		req.MaxResults = 1
	}

	var err error
	if req.From, err = ParseDate(f.DateFrom); err != nil {
		return req, fmt.Errorf("invalid date_from %q: %w", f.DateFrom, err)
	}
	if req.To, err = ParseDate(f.DateTo); err != nil {
		return req, fmt.Errorf("invalid date_to %q: %w", f.DateTo, err)
	}
	return req, nil
}

// ParseDate parses a YYYY-MM-DD date in UTC. An empty string is the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateFmt, s)
}
