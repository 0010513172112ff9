// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-summary/internal/card"
	"github.com/pdiddy/paper-summary/internal/command"
	"github.com/pdiddy/paper-summary/internal/httputil"
	"github.com/pdiddy/paper-summary/internal/search"
	"github.com/pdiddy/paper-summary/internal/summarize"
	"github.com/pdiddy/paper-summary/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search arXiv and summarize results in the terminal",
	Long: `Search runs the search_paper pipeline without Discord: it queries arXiv
for the newest submissions matching the keyword, summarizes each paper, and
prints one card per paper. With --no-summary it only lists the papers.

Parameters can also come from a YAML query file (--query-file); flags given
on the command line override the file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("keyword", "", "keyword matched against titles and abstracts")
	cmd.Flags().Int("max-results", 1, fmt.Sprintf("number of papers to fetch (1-%d)", types.MaxResultsLimit))
	cmd.Flags().String("categories", "", "arXiv categories, comma-separated (OR)")
	cmd.Flags().String("from", "", "submission date range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "submission date range end, inclusive (YYYY-MM-DD)")
	cmd.Flags().String("query-file", "", "load parameters from a YAML query file")
	cmd.Flags().Bool("no-summary", false, "list papers without summarizing them")
	cmd.Flags().String("format", "table", "output format: table, json, or yaml")
}

func runSearch(cmd *cobra.Command, args []string) error {
	inv, err := invocationFromFlags(cmd, args)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q: use table, json, or yaml", format)
	}

	cfg := botConfig
	searcher := search.NewArxivClient(cfg.Search, httputil.NewClient(cfg.Search.HTTPConfig))

	noSummary, _ := cmd.Flags().GetBool("no-summary")
	if noSummary {
		req, err := inv.Request()
		if err != nil {
			return err
		}
		papers, err := searcher.Search(cmd.Context(), req)
		if err != nil {
			return err
		}
		switch format {
		case "json":
			return search.FormatJSON(papers, os.Stdout)
		case "yaml":
			return search.FormatYAML(papers, os.Stdout)
		default:
			search.FormatTable(papers, os.Stdout)
			return nil
		}
	}

	summarizer, err := summarize.NewOpenAIBackend(cfg.Summarizer, httputil.NewClient(cfg.Summarizer.HTTPConfig))
	if err != nil {
		return err
	}
	handler := command.NewHandler(searcher, summarizer, cfg.Summarizer.Concurrency, slog.Default())

	out := newConsoleResponder(os.Stdout, os.Stderr, format)
	if err := handler.Run(cmd.Context(), inv, out); err != nil {
		return err
	}
	return out.Flush()
}

// invocationFromFlags merges the query file (if any) with explicit flags.
func invocationFromFlags(cmd *cobra.Command, args []string) (command.Invocation, error) {
	inv := command.Invocation{
		MaxResults: 1,
		Requester:  card.Requester{Name: currentUser()},
	}

	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		qf, err := search.ReadQueryFile(path)
		if err != nil {
			return inv, err
		}
		req, err := qf.ToRequest()
		if err != nil {
			return inv, err
		}
		inv.Keyword = req.Keyword
		inv.MaxResults = req.MaxResults
		inv.Categories = strings.Join(req.Categories, ",")
		inv.From, inv.To = req.From, endOfDay(req.To)
	}

	flags := cmd.Flags()
	if len(args) == 1 {
		inv.Keyword = args[0]
	}
	if flags.Changed("keyword") {
		inv.Keyword, _ = flags.GetString("keyword")
	}
	if flags.Changed("max-results") {
		inv.MaxResults, _ = flags.GetInt("max-results")
	}
	if flags.Changed("categories") {
		inv.Categories, _ = flags.GetString("categories")
	}

	if flags.Changed("from") {
		s, _ := flags.GetString("from")
		from, err := search.ParseDate(s)
		if err != nil {
			return inv, fmt.Errorf("invalid --from %q: %w", s, err)
		}
		inv.From = from
	}
	if flags.Changed("to") {
		s, _ := flags.GetString("to")
		to, err := search.ParseDate(s)
		if err != nil {
			return inv, fmt.Errorf("invalid --to %q: %w", s, err)
		}
		inv.To = endOfDay(to)
	}

	if strings.TrimSpace(inv.Keyword) == "" {
		return inv, fmt.Errorf("keyword required: pass it as an argument, --keyword, or in --query-file")
	}
	return inv, nil
}

// endOfDay makes a calendar date an inclusive upper bound.
func endOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.Add(24*time.Hour - time.Second)
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "paper-summary"
}
