// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"net/http"
	"time"

	"github.com/pdiddy/paper-summary/pkg/types"
)

// DefaultTimeout bounds a request when the configuration leaves Timeout unset.
const DefaultTimeout = 60 * time.Second

// NewClient returns an http.Client honoring cfg. Every request is bounded by
// cfg.Timeout (DefaultTimeout when zero) and carries cfg.UserAgent unless the
// caller already set one. Requests are never retried.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rt http.RoundTripper = http.DefaultTransport
	if cfg.UserAgent != "" {
		rt = &userAgentTransport{base: rt, userAgent: cfg.UserAgent}
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// userAgentTransport sets a default User-Agent header.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}
