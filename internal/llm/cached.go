package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/notebase/internal/cache"
)

// CachedProvider wraps a Provider with a response cache. Identical
// requests within the TTL window are served from the cache without
// touching the underlying provider; the returned response carries
// Cached=true so callers can account for it.
type CachedProvider struct {
	inner Provider
	cache *cache.ResponseCache
	usage *UsageLog
}

// NewCachedProvider wraps provider with the given cache. usage may be
// nil to disable usage logging.
func NewCachedProvider(provider Provider, responseCache *cache.ResponseCache, usage *UsageLog) *CachedProvider {
	return &CachedProvider{inner: provider, cache: responseCache, usage: usage}
}

// Name returns the underlying provider's name with a cache marker.
func (p *CachedProvider) Name() string {
	return p.inner.Name() + " (cached)"
}

// Complete serves the request from the cache when possible, otherwise
// delegates to the wrapped provider and stores the result.
func (p *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	prompt := flattenMessages(req.Messages)
	params := map[string]any{
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}

	cached, ok, err := p.cache.Get(ctx, prompt, req.Model, params)
	if err != nil {
		return nil, fmt.Errorf("checking response cache: %w", err)
	}
	if ok {
		resp := &CompletionResponse{
			Content: cached,
			Model:   req.Model,
			Cached:  true,
		}
		p.record(ctx, req, resp)
		return resp, nil
	}

	resp, err := p.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"input_tokens":  resp.InputTokens,
		"output_tokens": resp.OutputTokens,
	}
	if err := p.cache.Set(ctx, prompt, req.Model, resp.Content, metadata, params); err != nil {
		return nil, fmt.Errorf("storing response in cache: %w", err)
	}

	p.record(ctx, req, resp)
	return resp, nil
}

func (p *CachedProvider) record(ctx context.Context, req CompletionRequest, resp *CompletionResponse) {
	if p.usage == nil {
		return
	}
	// Usage logging must never fail a completion.
	_ = p.usage.Record(ctx, UsageEntry{
		Model:        req.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Cached:       resp.Cached,
	})
}

// flattenMessages serializes a conversation into a single string for
// cache key derivation. Role prefixes keep a system prompt distinct
// from the same text sent as a user message.
func flattenMessages(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
