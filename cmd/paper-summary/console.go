// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summary/internal/card"
)

// consoleResponder prints command output to a terminal. Table output is
// written as each card arrives; json and yaml are buffered until Flush.
type consoleResponder struct {
	out    io.Writer
	errOut io.Writer
	format string
	cards  []card.Card
}

func newConsoleResponder(out, errOut io.Writer, format string) *consoleResponder {
	return &consoleResponder{out: out, errOut: errOut, format: format}
}

func (c *consoleResponder) Defer(ctx context.Context) error { return nil }

func (c *consoleResponder) Notice(ctx context.Context, text string) error {
	_, err := fmt.Fprintln(c.errOut, text)
	return err
}

func (c *consoleResponder) Card(ctx context.Context, cd card.Card) error {
	if c.format != "table" {
		c.cards = append(c.cards, cd)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s\n", len(c.cards)+1, cd.Title)
	fmt.Fprintf(&b, "   %s\n", cd.URL)
	fmt.Fprintf(&b, "   Published:  %s\n", cd.PublishedText())
	fmt.Fprintf(&b, "   Categories: %s\n\n", cd.CategoryText())
	for _, line := range strings.Split(strings.TrimSpace(cd.Summary), "\n") {
		fmt.Fprintf(&b, "   %s\n", line)
	}
	b.WriteString(strings.Repeat("-", 80) + "\n")

	c.cards = append(c.cards, cd)
	_, err := io.WriteString(c.out, b.String())
	return err
}

// Flush writes buffered cards for json and yaml output.
func (c *consoleResponder) Flush() error {
	cards := c.cards
	if cards == nil {
		cards = []card.Card{}
	}
	switch c.format {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	case "yaml":
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(cards); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}
