// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search builds arXiv queries and fetches matching preprints from the
// arXiv export API, newest submissions first.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed/atom"

	"github.com/pdiddy/paper-summary/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint used when no BaseURL is configured.
// Declared as a var so tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivClient queries the arXiv API.
type ArxivClient struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// NewArxivClient returns a client for cfg that sends requests through hc.
func NewArxivClient(cfg types.SearchConfig, hc *http.Client) *ArxivClient {
	return &ArxivClient{
		Client:    hc,
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
	}
}

// Search runs req against arXiv and returns at most req.MaxResults papers,
// sorted by submission date, newest first. No results is an empty slice and
// a nil error. Request and decode failures are returned without retry.
func (c *ArxivClient) Search(ctx context.Context, req types.SearchRequest) ([]types.Paper, error) {
	q, err := BuildQuery(req)
	if err != nil {
		return nil, err
	}

	maxResults := clampResults(req.MaxResults)

	params := url.Values{}
	params.Set("search_query", q)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	base := c.BaseURL
	if base == "" {
		base = arxivAPIBase
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	feed, err := (&atom.Parser{}).Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.Paper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if len(papers) == maxResults {
			break
		}
		p, ok := toPaper(entry)
		if !ok {
			continue
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// clampResults bounds n to [1, MaxResultsLimit].
func clampResults(n int) int {
	switch {
	case n < 1:
		return 1
	case n > types.MaxResultsLimit:
		return types.MaxResultsLimit
	default:
		return n
	}
}

// toPaper converts a feed entry. Entries without an arXiv abstract URL
// (such as the error entry arXiv returns for malformed queries) are rejected.
func toPaper(e *atom.Entry) (types.Paper, bool) {
	id := extractArxivID(e.ID)
	if id == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:              id,
		Title:           collapseSpace(e.Title),
		Abstract:        collapseSpace(e.Summary),
		URL:             strings.TrimSpace(e.ID),
		PrimaryCategory: primaryCategory(e),
	}

	for _, a := range e.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			p.PDFURL = l.Href
		}
	}

	if e.PublishedParsed != nil {
		p.Published = e.PublishedParsed.UTC()
	}
	if e.UpdatedParsed != nil {
		p.Updated = e.UpdatedParsed.UTC()
	}
	return p, true
}

// primaryCategory reads the arxiv:primary_category extension element.
func primaryCategory(e *atom.Entry) string {
	for _, x := range e.Extensions["arxiv"]["primary_category"] {
		if term := x.Attrs["term"]; term != "" {
			return term
		}
	}
	return ""
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// collapseSpace joins the fields of s with single spaces. arXiv wraps long
// titles and abstracts across lines.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
