package youtube

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestResolverExactMatch(t *testing.T) {
	provider := &fakeProvider{
		searchChannels: func(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
			return []ChannelCandidate{
				{ID: "UC1", Title: "Other Channel"},
				{ID: "UC2", Title: "My Channel"},
			}, nil
		},
	}
	r := NewResolver(provider, zerolog.Nop())

	got := r.ResolveChannelID(context.Background(), "my channel")
	if got != "UC2" {
		t.Errorf("ResolveChannelID = %q, want %q", got, "UC2")
	}
}

func TestResolverCacheHitSkipsProvider(t *testing.T) {
	provider := &fakeProvider{
		searchChannels: func(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
			return []ChannelCandidate{{ID: "UC1", Title: "My Channel"}}, nil
		},
	}
	r := NewResolver(provider, zerolog.Nop())

	first := r.ResolveChannelID(context.Background(), "My Channel")
	second := r.ResolveChannelID(context.Background(), "my channel")

	if first != "UC1" || second != "UC1" {
		t.Errorf("ResolveChannelID = %q then %q, want %q both times", first, second, "UC1")
	}
	if provider.searchChannelCalls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.searchChannelCalls)
	}
}

func TestResolverFirstCandidateNotCachedUnderQuery(t *testing.T) {
	provider := &fakeProvider{
		searchChannels: func(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
			return []ChannelCandidate{
				{ID: "UC1", Title: "Almost The Channel"},
				{ID: "UC2", Title: "Another Channel"},
			}, nil
		},
	}
	r := NewResolver(provider, zerolog.Nop())

	got := r.ResolveChannelID(context.Background(), "the channel")
	if got != "UC1" {
		t.Errorf("ResolveChannelID = %q, want first candidate %q", got, "UC1")
	}

	// The queried name was never cached, so resolving it again hits the
	// provider a second time. The scanned titles themselves were cached.
	r.ResolveChannelID(context.Background(), "the channel")
	if provider.searchChannelCalls != 2 {
		t.Errorf("provider calls = %d, want 2", provider.searchChannelCalls)
	}
	if size := r.CacheSize(); size != 2 {
		t.Errorf("cache size = %d, want 2", size)
	}

	if got := r.ResolveChannelID(context.Background(), "Almost The Channel"); got != "UC1" {
		t.Errorf("cached candidate lookup = %q, want %q", got, "UC1")
	}
	if provider.searchChannelCalls != 2 {
		t.Errorf("provider calls after cached lookup = %d, want 2", provider.searchChannelCalls)
	}
}

func TestResolverProviderFailure(t *testing.T) {
	provider := &fakeProvider{
		searchChannels: func(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
			return nil, errors.New("quota exceeded")
		},
	}
	r := NewResolver(provider, zerolog.Nop())

	if got := r.ResolveChannelID(context.Background(), "any"); got != "" {
		t.Errorf("ResolveChannelID on provider failure = %q, want empty", got)
	}
	if size := r.CacheSize(); size != 0 {
		t.Errorf("cache size after failure = %d, want 0", size)
	}
}

func TestResolverNoCandidates(t *testing.T) {
	provider := &fakeProvider{
		searchChannels: func(ctx context.Context, query string, maxResults int64) ([]ChannelCandidate, error) {
			return nil, nil
		},
	}
	r := NewResolver(provider, zerolog.Nop())

	if got := r.ResolveChannelID(context.Background(), "ghost"); got != "" {
		t.Errorf("ResolveChannelID with no candidates = %q, want empty", got)
	}
}
