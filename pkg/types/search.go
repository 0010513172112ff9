// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for paper-summary: the search
// request a command produces, the papers the search stage returns, and the
// configuration each stage consumes.
package types

import (
	"strings"
	"time"
)

// MaxResultsLimit is the hard cap on papers a single request may ask for.
const MaxResultsLimit = 10

// SearchRequest describes one preprint search.
type SearchRequest struct {
	// Keyword is matched against titles and abstracts. Required.
	Keyword string `json:"keyword" yaml:"keyword"`

	// MaxResults is the number of papers to fetch, 1 through MaxResultsLimit.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Categories is an OR-filter on arXiv categories (e.g. "cs.CL"). Empty means no filter.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// From and To bound the submission date. Both must be set for the range to apply.
	From time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To   time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

// HasDateRange reports whether both submission-date bounds are set.
func (r SearchRequest) HasDateRange() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Paper is one preprint returned by the search stage. It is never modified
// after the search client builds it.
type Paper struct {
	// ID is the arXiv identifier without version suffix (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract with whitespace collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the first submission time.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the time of the latest revision.
	Updated time.Time `json:"updated" yaml:"updated"`

	// Categories lists every category term attached to the entry.
	Categories []string `json:"categories" yaml:"categories"`

	// PrimaryCategory is the arXiv primary category, if reported.
	PrimaryCategory string `json:"primary_category,omitempty" yaml:"primary_category,omitempty"`

	// URL is the canonical abstract page (e.g. "http://arxiv.org/abs/2301.07041v1").
	URL string `json:"url" yaml:"url"`

	// PDFURL links to the PDF rendition, if reported.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
}

// CategoryList returns the categories joined for display.
func (p Paper) CategoryList() string {
	return strings.Join(p.Categories, ", ")
}
