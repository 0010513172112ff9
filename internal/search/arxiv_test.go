// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-summary/pkg/types"
)

const sampleArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2403.01234v2</id>
    <updated>2024-03-05T10:00:00Z</updated>
    <published>2024-03-02T17:57:34Z</published>
    <title>Efficient Transformers
      for Long Documents</title>
    <summary>  We propose a sparse attention
  mechanism.  </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2403.01234v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2403.01234v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2402.09999v1</id>
    <updated>2024-02-20T00:00:00Z</updated>
    <published>2024-02-20T00:00:00Z</published>
    <title>Attention Revisited</title>
    <summary>We revisit attention.</summary>
    <author><name>Grace Hopper</name></author>
    <category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

const emptyArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

const errorArxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_x</id>
    <title>Error</title>
    <summary>incorrect id format for x</summary>
  </entry>
</feed>`

func serveFeed(t *testing.T, feed string, gotQuery *url.Values) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, feed)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestArxivClientSearch(t *testing.T) {
	var q url.Values
	ts := serveFeed(t, sampleArxivFeed, &q)

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL, UserAgent: "test/0.1"}
	papers, err := c.Search(context.Background(), types.SearchRequest{Keyword: "transformer", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, `(ti:"transformer" OR abs:"transformer")`, q.Get("search_query"))
	assert.Equal(t, "2", q.Get("max_results"))
	assert.Equal(t, "0", q.Get("start"))
	assert.Equal(t, "submittedDate", q.Get("sortBy"))
	assert.Equal(t, "descending", q.Get("sortOrder"))

	p := papers[0]
	assert.Equal(t, "2403.01234", p.ID)
	assert.Equal(t, "Efficient Transformers for Long Documents", p.Title)
	assert.Equal(t, "We propose a sparse attention mechanism.", p.Abstract)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, p.Authors)
	assert.Equal(t, []string{"cs.CL", "cs.LG"}, p.Categories)
	assert.Equal(t, "cs.CL", p.PrimaryCategory)
	assert.Equal(t, "http://arxiv.org/abs/2403.01234v2", p.URL)
	assert.Equal(t, "http://arxiv.org/pdf/2403.01234v2", p.PDFURL)
	assert.Equal(t, time.Date(2024, 3, 2, 17, 57, 34, 0, time.UTC), p.Published)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), p.Updated)

	assert.True(t, papers[0].Published.After(papers[1].Published), "newest first")
	assert.Equal(t, "2402.09999", papers[1].ID)
	assert.Empty(t, papers[1].PDFURL)
}

func TestArxivClientSendsUserAgent(t *testing.T) {
	var ua string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		fmt.Fprint(w, emptyArxivFeed)
	}))
	defer ts.Close()

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL, UserAgent: "paper-summary/test"}
	_, err := c.Search(context.Background(), types.SearchRequest{Keyword: "x", MaxResults: 1})
	require.NoError(t, err)
	assert.Equal(t, "paper-summary/test", ua)
}

func TestArxivClientLimitsResults(t *testing.T) {
	ts := serveFeed(t, sampleArxivFeed, nil)

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL}
	papers, err := c.Search(context.Background(), types.SearchRequest{Keyword: "transformer", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, papers, 1, "extra feed entries are not materialized")
}

func TestArxivClientClampsMaxResults(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "1"},
		{-3, "1"},
		{10, "10"},
		{11, "10"},
		{500, "10"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			var q url.Values
			ts := serveFeed(t, emptyArxivFeed, &q)

			c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL}
			_, err := c.Search(context.Background(), types.SearchRequest{Keyword: "k", MaxResults: tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Get("max_results"))
		})
	}
}

func TestArxivClientEmptyFeed(t *testing.T) {
	ts := serveFeed(t, emptyArxivFeed, nil)

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL}
	papers, err := c.Search(context.Background(), types.SearchRequest{Keyword: "nothing", MaxResults: 5})
	require.NoError(t, err)
	assert.NotNil(t, papers)
	assert.Empty(t, papers)
}

func TestArxivClientSkipsErrorEntry(t *testing.T) {
	ts := serveFeed(t, errorArxivFeed, nil)

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL}
	papers, err := c.Search(context.Background(), types.SearchRequest{Keyword: "x", MaxResults: 5})
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestArxivClientHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL}
	_, err := c.Search(context.Background(), types.SearchRequest{Keyword: "x", MaxResults: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestArxivClientMalformedXML(t *testing.T) {
	ts := serveFeed(t, "<feed><entry>", nil)

	c := &ArxivClient{Client: ts.Client(), BaseURL: ts.URL}
	_, err := c.Search(context.Background(), types.SearchRequest{Keyword: "x", MaxResults: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing arXiv response")
}

func TestArxivClientEmptyKeyword(t *testing.T) {
	c := &ArxivClient{BaseURL: "http://127.0.0.1:0"}
	_, err := c.Search(context.Background(), types.SearchRequest{MaxResults: 1})
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}

func TestArxivClientDefaultBase(t *testing.T) {
	ts := serveFeed(t, emptyArxivFeed, nil)

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	c := NewArxivClient(types.SearchConfig{}, ts.Client())
	_, err := c.Search(context.Background(), types.SearchRequest{Keyword: "x", MaxResults: 1})
	require.NoError(t, err)
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/1706.03762v5", "1706.03762"},
		{"http://arxiv.org/abs/2301.12345", "2301.12345"},
		{"https://arxiv.org/abs/2301.07041v2", "2301.07041"},
		{"http://arxiv.org/abs/hep-th/9901001v1", "hep-th/9901001"},
		{"http://arxiv.org/api/errors#bad", ""},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, extractArxivID(tt.input))
		})
	}
}
