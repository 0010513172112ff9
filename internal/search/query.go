// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-summary/pkg/types"
)

// ErrEmptyKeyword is returned when a request has no keyword to match.
var ErrEmptyKeyword = errors.New("search keyword is empty")

// submittedDateFmt is the timestamp layout arXiv expects inside submittedDate ranges.
const submittedDateFmt = "20060102150405"

// BuildQuery constructs the arXiv search_query expression for req. The result
// is not URL-encoded; the client encodes it when building the request URL.
//
// The keyword is matched against title OR abstract. A non-empty category list
// adds one parenthesized OR group, and a date range adds a submittedDate
// clause only when both bounds are set. The keyword is inserted verbatim.
func BuildQuery(req types.SearchRequest) (string, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return "", ErrEmptyKeyword
	}

	var b strings.Builder
	fmt.Fprintf(&b, `(ti:"%s" OR abs:"%s")`, keyword, keyword)

	if len(req.Categories) > 0 {
		cats := make([]string, len(req.Categories))
		for i, c := range req.Categories {
			cats[i] = fmt.Sprintf(`cat:"%s"`, c)
		}
		b.WriteString(" AND (")
		b.WriteString(strings.Join(cats, " OR "))
		b.WriteString(")")
	}

	if req.HasDateRange() {
		fmt.Fprintf(&b, " AND submittedDate:[%s TO %s]",
			req.From.UTC().Format(submittedDateFmt),
			req.To.UTC().Format(submittedDateFmt))
	}

	return b.String(), nil
}

// ParseCategories splits a comma-separated category string into a list,
// trimming whitespace around each entry. Blank entries are dropped, so empty
// input yields an empty list.
func ParseCategories(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var cats []string
	for _, part := range strings.Split(s, ",") {
		if c := strings.TrimSpace(part); c != "" {
			cats = append(cats, c)
		}
	}
	return cats
}
