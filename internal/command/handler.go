// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package command implements the search_paper command independent of the
// chat transport: validate the request, search arXiv, summarize each paper
// and emit one card per paper in result order.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-summary/internal/card"
	"github.com/pdiddy/paper-summary/internal/search"
	"github.com/pdiddy/paper-summary/pkg/types"
)

// Name is the slash command name.
const Name = "search_paper"

// User-facing notices.
const (
	NoticeResultCount = "取得件数が多すぎます．10 件以下に設定して再度実行してください．"
	NoticeNoResults   = "検索結果が見つかりませんでした．"
	NoticeNoKeyword   = "検索キーワードを指定してください．"
	NoticeFailed      = "論文の検索または要約に失敗しました．時間をおいて再度実行してください．"
)

// ErrResultCount is returned by Invocation.Request when MaxResults is outside 1..MaxResultsLimit.
var ErrResultCount = fmt.Errorf("max_result must be between 1 and %d", types.MaxResultsLimit)

// Searcher fetches papers for a request.
type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) ([]types.Paper, error)
}

// Summarizer produces summary text for one paper.
type Summarizer interface {
	Summarize(ctx context.Context, p types.Paper) (string, error)
}

// Responder delivers output for one invocation.
type Responder interface {
	// Defer acknowledges the command before any slow work starts.
	Defer(ctx context.Context) error
	// Notice sends a short informational message.
	Notice(ctx context.Context, text string) error
	// Card sends one paper card.
	Card(ctx context.Context, c card.Card) error
}

// Invocation holds the raw parameters of one command call.
type Invocation struct {
	// ID correlates log lines. Run assigns one when empty.
	ID         string
	Keyword    string
	MaxResults int
	// Categories is the comma-separated category option as typed by the user.
	Categories string
	From       time.Time
	To         time.Time
	Requester  card.Requester
}

// Request validates the invocation and converts it into a SearchRequest.
func (inv Invocation) Request() (types.SearchRequest, error) {
	if inv.MaxResults < 1 || inv.MaxResults > types.MaxResultsLimit {
		return types.SearchRequest{}, ErrResultCount
	}
	if strings.TrimSpace(inv.Keyword) == "" {
		return types.SearchRequest{}, search.ErrEmptyKeyword
	}
	return types.SearchRequest{
		Keyword:    inv.Keyword,
		MaxResults: inv.MaxResults,
		Categories: search.ParseCategories(inv.Categories),
		From:       inv.From,
		To:         inv.To,
	}, nil
}

// Handler runs search_paper invocations. It holds no per-invocation state
// and is safe for concurrent use.
type Handler struct {
	searcher    Searcher
	summarizer  Summarizer
	concurrency int
	logger      *slog.Logger
}

// NewHandler returns a Handler. concurrency bounds simultaneous summarization
// requests; values below 2 summarize strictly one paper at a time.
func NewHandler(s Searcher, sum Summarizer, concurrency int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		searcher:    s,
		summarizer:  sum,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run executes one invocation against out.
//
// An out-of-range result count or an empty result set sends a notice and
// stops; both return nil. A search or summarization failure aborts the
// invocation: cards already sent stay, no further cards are sent, and the
// error is returned.
func (h *Handler) Run(ctx context.Context, inv Invocation, out Responder) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	log := h.logger.With(slog.String("invocation_id", inv.ID), slog.String("command", Name))
	start := time.Now()

	if err := out.Defer(ctx); err != nil {
		return fmt.Errorf("acknowledging command: %w", err)
	}

	req, err := inv.Request()
	if err != nil {
		log.Info("rejected", slog.Int("max_results", inv.MaxResults), slog.String("reason", err.Error()))
		if errors.Is(err, search.ErrEmptyKeyword) {
			return out.Notice(ctx, NoticeNoKeyword)
		}
		return out.Notice(ctx, NoticeResultCount)
	}

	log.Info("searching",
		slog.String("keyword", req.Keyword),
		slog.Int("max_results", req.MaxResults),
		slog.Any("categories", req.Categories))

	papers, err := h.searcher.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("searching arXiv: %w", err)
	}
	if len(papers) > req.MaxResults {
		papers = papers[:req.MaxResults]
	}
	if len(papers) == 0 {
		log.Info("no results", slog.Duration("elapsed", time.Since(start)))
		return out.Notice(ctx, NoticeNoResults)
	}

	emit := func(i int, summary string) error {
		if err := out.Card(ctx, card.New(papers[i], summary, inv.Requester)); err != nil {
			return fmt.Errorf("sending card for %s: %w", papers[i].ID, err)
		}
		log.Debug("card sent", slog.String("paper", papers[i].ID))
		return nil
	}

	if h.concurrency < 2 {
		err = h.summarizeSequential(ctx, papers, emit)
	} else {
		err = h.summarizeOrdered(ctx, papers, emit)
	}
	if err != nil {
		return err
	}

	log.Info("done", slog.Int("cards", len(papers)), slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (h *Handler) summarizeSequential(ctx context.Context, papers []types.Paper, emit func(int, string) error) error {
	for i, p := range papers {
		summary, err := h.summarizer.Summarize(ctx, p)
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", p.ID, err)
		}
		if err := emit(i, summary); err != nil {
			return err
		}
	}
	return nil
}

type summaryResult struct {
	text string
	err  error
}

// summarizeOrdered requests up to h.concurrency summaries at once and emits
// them in result order. Emission stops at the first failed index; requests
// still in flight are cancelled.
func (h *Handler) summarizeOrdered(ctx context.Context, papers []types.Paper, emit func(int, string) error) error {
	ctx, cancel := context.WithCancel(ctx)

	slots := make([]chan summaryResult, len(papers))
	for i := range slots {
		slots[i] = make(chan summaryResult, 1)
	}

	var g errgroup.Group
	g.SetLimit(h.concurrency)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i := range papers {
			if err := ctx.Err(); err != nil {
				slots[i] <- summaryResult{err: err}
				continue
			}
			i := i
			g.Go(func() error {
				text, err := h.summarizer.Summarize(ctx, papers[i])
				slots[i] <- summaryResult{text: text, err: err}
				return nil
			})
		}
	}()

	defer func() {
		cancel()
		<-launched
		_ = g.Wait()
	}()

	for i, p := range papers {
		var r summaryResult
		select {
		case r = <-slots[i]:
		case <-ctx.Done():
			return ctx.Err()
		}
		if r.err != nil {
			return fmt.Errorf("summarizing %s: %w", p.ID, r.err)
		}
		if err := emit(i, r.text); err != nil {
			return err
		}
	}
	return nil
}
