// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summary/pkg/types"
)

// FormatTable writes papers as a human-readable table to w.
func FormatTable(papers []types.Paper, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-60s  %-20s  %-10s  %s\n",
		"Rank", "ID", "Title", "Authors", "Published", "Categories")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	for i, p := range papers {
		published := ""
		if !p.Published.IsZero() {
			published = p.Published.Format(DateFmt)
		}
		fmt.Fprintf(w, "%-4d  %-12s  %-60s  %-20s  %-10s  %s\n",
			i+1, p.ID, truncate(p.Title, 60), formatAuthors(p.Authors), published, p.CategoryList())
	}

	fmt.Fprintf(w, "\n%d results\n", len(papers))
}

// FormatJSON writes papers as indented JSON to w.
func FormatJSON(papers []types.Paper, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

// FormatYAML writes papers as a YAML sequence to w.
func FormatYAML(papers []types.Paper, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(papers); err != nil {
		return err
	}
	return enc.Close()
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
